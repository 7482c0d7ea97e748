package analysis

import (
	"fmt"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// Severity grades a Diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// Diagnostic codes.
const (
	CodeUndefinedVar      = "undefined-var"
	CodeStaticScope       = "static-scope"
	CodeLocalScope        = "local-scope"
	CodeThisOutsideMethod = "this-outside-method"
	CodeRedeclared        = "redeclared"
	CodeUndefinedLabel    = "undefined-label"
	CodeIncludeNotFound   = "include-not-found"
	CodeParamOrder        = "param-order"
	CodeInternal          = "internal"
)

// Diagnostic is a semantic finding. The analyzer records diagnostics and
// carries on; none of them stops the walk.
type Diagnostic struct {
	Range    syntax.Range
	Message  string
	Severity Severity
	Code     string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Range.Start, d.Severity, d.Message)
}

// ErrorHandler is called for each diagnostic as it is reported.
type ErrorHandler func(d *Diagnostic)

// report records a diagnostic at r.
func (a *Analyzer) report(r syntax.Range, sev Severity, code, format string, args ...interface{}) {
	d := &Diagnostic{
		Range:    r,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
		Code:     code,
	}
	a.res.Diagnostics = append(a.res.Diagnostics, d)
	if a.conf.Error != nil {
		a.conf.Error(d)
	}
}

// errorf reports an error-severity diagnostic.
func (a *Analyzer) errorf(r syntax.Range, code, format string, args ...interface{}) {
	a.report(r, SeverityError, code, format, args...)
}

// warnf reports a warning-severity diagnostic.
func (a *Analyzer) warnf(r syntax.Range, code, format string, args ...interface{}) {
	a.report(r, SeverityWarning, code, format, args...)
}
