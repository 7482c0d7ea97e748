// Package analysis implements the semantic analysis of AutoHotkey scripts:
// scope construction, symbol definition and resolution, call-site
// collection and advisory diagnostics.
package analysis

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// Logger receives analyzer diagnostics that are not script findings,
// such as recovered internal faults. When nil, slog.Default() is used.
var Logger *slog.Logger

func logger() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}

// IncludeResolver maps the path of an #Include directive to a file.
// The analyzer performs no filesystem I/O itself.
type IncludeResolver interface {
	// ResolveInclude returns the absolute path of raw as seen from the
	// directory dir, or false if it cannot be found.
	ResolveInclude(raw, dir string) (string, bool)
}

// IncludeLinker is implemented by resolvers that can also supply the
// symbol table of a resolved file. Linked tables take part in lexical
// resolution.
type IncludeLinker interface {
	IncludeTable(resolved string) *symbols.Table
}

// Config specifies the configuration for analysis.
type Config struct {
	// Dialect selects v1 or v2 rules. It should match the parse.
	Dialect syntax.Dialect

	// Includes resolves #Include paths. If nil, includes are recorded
	// but not resolved.
	Includes IncludeResolver

	// Dir is the directory include paths are resolved against.
	// If empty, the directory of the file URI is used.
	Dir string

	// Error is called for each diagnostic.
	// If nil, diagnostics are only collected in the Result.
	Error ErrorHandler
}

// CallSite records a call for signature help and reference search.
type CallSite struct {
	CalleePath   []string      // Name, Obj.Method or Class.__New
	ArgPositions []*syntax.Pos // start of each argument; nil if omitted
	Site         syntax.Pos
	IsCommand    bool // v1 command invocation
}

// Callee returns the dotted callee path.
func (c *CallSite) Callee() string {
	return strings.Join(c.CalleePath, ".")
}

// Include records an #Include directive.
type Include struct {
	Path     string // as written
	Resolved string // empty if unresolved
	Range    syntax.Range
	Again    bool // #IncludeAgain
}

// Result holds the outcome of analysis.
type Result struct {
	Table       *symbols.Table
	Diagnostics []*Diagnostic
	CallSites   []*CallSite
	Includes    []*Include

	// Defs maps defining names to their symbols.
	Defs map[*syntax.Name]symbols.Symbol

	// Uses maps referencing names to the symbols they resolve to.
	Uses map[*syntax.Name]symbols.Symbol
}

// Errors returns the error-severity diagnostics.
func (r *Result) Errors() []*Diagnostic {
	var list []*Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			list = append(list, d)
		}
	}
	return list
}

// Analyze walks file and builds its symbol table. builtin may be nil.
// Analyze never panics: an internal fault is logged and reported as a
// diagnostic, and the partial result is returned.
func Analyze(file *syntax.File, builtin *symbols.Table, conf *Config) *Result {
	if conf == nil {
		conf = &Config{Dialect: file.Dialect}
	}
	a := newAnalyzer(file, symbols.NewTable(file.URI, builtin), conf)
	a.run()
	return a.res
}

func newAnalyzer(file *syntax.File, table *symbols.Table, conf *Config) *Analyzer {
	dir := conf.Dir
	if dir == "" {
		dir = path.Dir(strings.ReplaceAll(file.URI, "\\", "/"))
	}
	a := &Analyzer{
		conf:    conf,
		file:    file,
		uri:     file.URI,
		dir:     dir,
		table:   table,
		dialect: conf.Dialect,
		res: &Result{
			Table: table,
			Defs:  make(map[*syntax.Name]symbols.Symbol),
			Uses:  make(map[*syntax.Name]symbols.Symbol),
		},
		funcs:   make(map[*syntax.FuncDecl]*symbols.Func),
		classes: make(map[*syntax.ClassDecl]*symbols.Class),
		props:   make(map[*syntax.PropertyDecl]*symbols.Property),
	}
	a.scope = table.Global()
	a.indexComments()
	return a
}

// run performs the hoisting pre-pass and the walk, recovering from
// internal faults.
func (a *Analyzer) run() {
	defer func() {
		if r := recover(); r != nil {
			logger().Error("analyzer fault", "uri", a.uri, "panic", r)
			a.errorf(syntax.Range{}, CodeInternal, "%s", fmt.Sprintf("internal analyzer error: %v", r))
		}
	}()

	a.hoist(a.file.Stmts)
	a.stmtList(a.file.Stmts)

	logger().Debug("analyzed", "uri", a.uri, "scopes", len(a.table.Scopes()),
		"diagnostics", len(a.res.Diagnostics), "calls", len(a.res.CallSites))
}
