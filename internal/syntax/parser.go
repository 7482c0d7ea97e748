package syntax

import (
	"fmt"
	"io"
	"strings"
)

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Range Range
	Msg   string
}

func (e *SyntaxError) Error() string {
	return e.Range.Start.String() + ": " + e.Msg
}

// Result is the outcome of ParseFile.
type Result struct {
	File         *File
	SyntaxErrors []*SyntaxError
	TokenErrors  []TokenError
}

// parseContext is a bit set of the list-parsing rules that are active.
// When a token does not start an element of the innermost list, the
// enclosing contexts decide whether the list ends or the token is skipped.
type parseContext uint

const (
	ctxSource       parseContext = 1 << iota // top-level statements
	ctxBlock                                 // statements inside { }
	ctxClassMembers                          // members of a class body
	ctxSwitchCases                           // case clauses of a switch
	ctxCaseBody                              // statements of one case clause
	ctxCount
)

// Parser performs syntax analysis on AutoHotkey source code.
//
// Tokens are pulled from the Scanner into a buffer and kept there, so the
// parser can look ahead and backtrack with mark and reset.
type Parser struct {
	scanner *Scanner
	dialect Dialect
	uri     string

	// Token buffer
	toks    []Token
	i       int   // index of the current token in toks
	tok     Token // toks[i]
	prevEnd Pos   // end of the last consumed token

	// Error handling
	errh   func(pos Pos, msg string)
	errors []*SyntaxError

	// Context tracking
	ctx      parseContext // active list contexts
	noConcat int          // > 0 while implicit concatenation is disabled
}

// NewParser creates a new Parser for the given source.
// The errh function, if not nil, is called for every syntax and token error.
func NewParser(uri string, src io.Reader, d Dialect, errh func(pos Pos, msg string)) *Parser {
	scanErrh := func(line, col uint32, msg string) {
		if errh != nil {
			errh(NewPos(line, col), msg)
		}
	}

	p := &Parser{
		scanner: NewScanner(src, d, scanErrh),
		dialect: d,
		uri:     uri,
		errh:    errh,
	}
	p.fill(0)
	p.tok = p.toks[0]
	return p
}

// ParseFile parses src and returns the tree together with all syntax and
// token errors. It never panics: an internal fault is logged and yields
// an empty File plus a syntax error describing the fault.
func ParseFile(uri, src string, d Dialect) *Result {
	return parse(uri, strings.NewReader(src), d)
}

func parse(uri string, src io.Reader, d Dialect) (res *Result) {
	var p *Parser
	defer func() {
		if r := recover(); r != nil {
			logger().Error("parser fault", "uri", uri, "panic", r)
			res = &Result{File: &File{URI: uri, Dialect: d}}
			if p != nil {
				res.SyntaxErrors = p.errors
				res.TokenErrors = p.scanner.Errors()
			}
			res.SyntaxErrors = append(res.SyntaxErrors, &SyntaxError{Msg: fmt.Sprintf("internal parser error: %v", r)})
		}
	}()

	p = NewParser(uri, src, d, nil)
	f := p.Parse()
	logger().Debug("parsed", "uri", uri, "dialect", d, "stmts", len(f.Stmts),
		"syntaxErrors", len(p.errors), "tokenErrors", len(p.scanner.Errors()))
	return &Result{File: f, SyntaxErrors: p.errors, TokenErrors: p.scanner.Errors()}
}

// ----------------------------------------------------------------------------
// Token navigation

// fill makes sure toks holds index i. Past EOF the EOF token repeats.
func (p *Parser) fill(i int) {
	for len(p.toks) <= i {
		if n := len(p.toks); n > 0 && p.toks[n-1].Kind == _EOF {
			p.toks = append(p.toks, p.toks[n-1])
			continue
		}
		p.toks = append(p.toks, p.scanner.Next())
	}
}

// next advances to the next token.
func (p *Parser) next() {
	p.prevEnd = p.tok.End
	p.i++
	p.fill(p.i)
	p.tok = p.toks[p.i]
}

// peek returns the token n positions after the current one.
func (p *Parser) peek(n int) Token {
	p.fill(p.i + n)
	return p.toks[p.i+n]
}

// mark records the parser position for a later reset.
type mark struct {
	i       int
	prevEnd Pos
	nerrors int
}

func (p *Parser) mark() mark {
	return mark{i: p.i, prevEnd: p.prevEnd, nerrors: len(p.errors)}
}

// reset returns to a position recorded by mark, dropping errors reported
// since then.
func (p *Parser) reset(m mark) {
	p.i = m.i
	p.tok = p.toks[m.i]
	p.prevEnd = m.prevEnd
	p.errors = p.errors[:m.nerrors]
}

// got reports whether the current token is of the given kind.
// If so, it consumes the token and returns true.
func (p *Parser) got(kind TokenKind) bool {
	if p.tok.Kind == kind {
		p.next()
		return true
	}
	return false
}

// want consumes and returns the current token if it is of the given kind.
// Otherwise it reports an error and returns a zero-width missing token at
// the end of the previous token, leaving the current token in place.
func (p *Parser) want(kind TokenKind) Token {
	if p.tok.Kind == kind {
		tok := p.tok
		p.next()
		return tok
	}
	p.syntaxErrorAt(Range{Start: p.prevEnd, End: p.prevEnd}, "expected "+tokDesc(kind)+", found "+p.tok.describe())
	return p.missing(kind)
}

// missing returns a zero-width token of the given kind at the end of the
// previous token.
func (p *Parser) missing(kind TokenKind) Token {
	return Token{Kind: kind, Start: p.prevEnd, End: p.prevEnd, Missing: true}
}

// skipEOLs skips end-of-line tokens.
func (p *Parser) skipEOLs() {
	for p.tok.Kind == _EOL {
		p.next()
	}
}

// gotEOLBefore consumes a single EOL if the token after it is of the
// given kind: "}\nelse", "loop\n{...}\nuntil x".
func (p *Parser) gotEOLBefore(kind TokenKind) bool {
	if p.tok.Kind == _EOL && p.peek(1).Kind == kind {
		p.next()
		return true
	}
	return false
}

// atLineEnd reports whether the current token ends a logical line.
func (p *Parser) atLineEnd() bool {
	return p.tok.Kind == _EOL || p.tok.Kind == _EOF
}

// positioned is implemented by every node through the embedded node.
type positioned interface {
	Node
	setRange(pos, end Pos)
}

// finish sets the range of n from start to the end of the last consumed
// token, widened to cover the children of n. Recovery nodes sit at the
// end of the previous token and may precede start. A node that consumed
// nothing becomes zero-width at that point.
func (p *Parser) finish(n positioned, start Pos) {
	end := p.prevEnd
	for _, c := range Children(n) {
		if c.Pos().Before(start) {
			start = c.Pos()
		}
		if end.Before(c.End()) {
			end = c.End()
		}
	}
	if end.Before(start) {
		start = end
	}
	n.setRange(start, end)
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current token.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.tok.Range(), msg)
}

// syntaxErrorAt reports a syntax error at a specific range.
func (p *Parser) syntaxErrorAt(r Range, msg string) {
	p.errors = append(p.errors, &SyntaxError{Range: r, Msg: msg})
	if p.errh != nil {
		p.errh(r.Start, msg)
	}
}

// Errors returns the syntax errors reported so far.
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}

// TokenErrors returns the scanner's token-level errors.
func (p *Parser) TokenErrors() []TokenError {
	return p.scanner.Errors()
}

// tokDesc describes a token kind for error messages.
func tokDesc(kind TokenKind) string {
	switch kind {
	case _Name:
		return "name"
	case _EOL:
		return "end of line"
	case _EOF:
		return "end of file"
	}
	return "'" + kind.String() + "'"
}

// describe describes a token for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case _Name, _Number, _String, _Text, _Command, _Invalid:
		return fmt.Sprintf("%s %q", strings.ToLower(t.Kind.String()), t.Text)
	}
	return tokDesc(t.Kind)
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete script and returns the File.
func (p *Parser) Parse() *File {
	f := &File{URI: p.uri, Dialect: p.dialect}
	f.Stmts = p.stmtList(ctxSource, p.stmt)
	f.setRange(NewPos(0, 0), p.tok.End)
	f.Comments = p.scanner.Comments()
	return f
}

// ----------------------------------------------------------------------------
// Tolerant list parsing

// stmtList parses statements of the given context until a terminator of
// that context. Tokens that cannot start an element are skipped into a
// BadStmt unless an enclosing context accepts them, in which case the
// list ends and the enclosing parser deals with the token.
func (p *Parser) stmtList(ctx parseContext, elem func() Stmt) []Stmt {
	saved := p.ctx
	p.ctx |= ctx
	defer func() { p.ctx = saved }()

	var list []Stmt
	for {
		p.skipEOLs()
		if p.isListTerminator(ctx) {
			break
		}
		if p.isListElement(ctx) {
			before := p.i
			s := elem()
			if p.i == before {
				// The element parser refused the token.
				list = append(list, p.skipToken())
				continue
			}
			list = append(list, s)
			if bad := p.stmtEnd(); bad != nil {
				list = append(list, bad)
			}
			continue
		}
		if p.abortListParsing(ctx) {
			break
		}
		list = append(list, p.skipToken())
	}
	return list
}

// isListTerminator reports whether the current token ends a list of the
// given context.
func (p *Parser) isListTerminator(ctx parseContext) bool {
	if p.tok.Kind == _EOF {
		return true
	}
	switch ctx {
	case ctxBlock, ctxClassMembers, ctxSwitchCases:
		return p.tok.Kind == _Rbrace
	case ctxCaseBody:
		return p.tok.Kind == _Rbrace || p.tok.Kind == _Case || p.tok.Kind == _Default
	}
	return false
}

// isListElement reports whether the current token starts an element of a
// list of the given context.
func (p *Parser) isListElement(ctx parseContext) bool {
	switch ctx {
	case ctxSource, ctxBlock, ctxCaseBody:
		return startsStmt(p.tok.Kind)
	case ctxClassMembers:
		switch p.tok.Kind {
		case _Name, _Static, _Class:
			return true
		}
		return p.tok.Kind.IsKeyword() && p.memberNameFollows()
	case ctxSwitchCases:
		return p.tok.Kind == _Case || p.tok.Kind == _Default
	}
	return false
}

// abortListParsing reports whether any enclosing context, other than
// ctx itself, accepts the current token as an element or terminator.
func (p *Parser) abortListParsing(ctx parseContext) bool {
	for c := ctxSource; c < ctxCount; c <<= 1 {
		if c == ctx || p.ctx&c == 0 {
			continue
		}
		if p.isListTerminator(c) || p.isListElement(c) {
			return true
		}
	}
	return false
}

// skipToken wraps the current token in a BadStmt and consumes it.
func (p *Parser) skipToken() Stmt {
	tok := p.tok
	tok.Skipped = true
	p.syntaxError("unexpected " + tok.describe())
	s := &BadStmt{Tokens: []Token{tok}}
	start := p.tok.Start
	p.next()
	p.finish(s, start)
	return s
}

// stmtEnd checks that a statement is followed by the end of the line.
// Leftover tokens on the line are returned as a BadStmt.
func (p *Parser) stmtEnd() Stmt {
	switch p.tok.Kind {
	case _EOL, _EOF, _Rbrace:
		return nil
	case _Case, _Default:
		if p.ctx&(ctxSwitchCases|ctxCaseBody) != 0 {
			return nil
		}
	}
	p.syntaxError("unexpected " + p.tok.describe() + " at end of statement")
	s := &BadStmt{}
	start := p.tok.Start
	for !p.atLineEnd() {
		tok := p.tok
		tok.Skipped = true
		s.Tokens = append(s.Tokens, tok)
		p.next()
	}
	p.finish(s, start)
	return s
}

// badStmt returns an empty, zero-width BadStmt for a missing statement.
func (p *Parser) badStmt() *BadStmt {
	p.syntaxErrorAt(Range{Start: p.prevEnd, End: p.prevEnd}, "expected statement, found "+p.tok.describe())
	s := &BadStmt{}
	s.setRange(p.prevEnd, p.prevEnd)
	return s
}

// startsStmt reports whether a token of the given kind can start a
// statement.
func startsStmt(kind TokenKind) bool {
	switch kind {
	case _Name, _Number, _String,
		_Break, _Class, _Continue, _For, _Global, _Gosub, _Goto, _If, _Local,
		_Loop, _New, _KwNot, _Return, _Static, _Switch, _Throw, _Try, _While,
		_Lparen, _Lbrack, _Lbrace, _Not, _Tilde, _Sub, _Add, _And, _Inc, _Dec,
		_Percent, _Command, _Directive, _Label, _HotkeyModifier, _HotkeyKey,
		_HotstringOpen:
		return true
	}
	return false
}
