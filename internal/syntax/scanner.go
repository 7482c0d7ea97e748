package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on AutoHotkey source code.
//
// It is a pull scanner: each call to Next returns one token. The scanner
// is not a strict state machine; a handful of flags change how the next
// characters are read:
//
//   - lineStart: the next token is the first on a physical line, so
//     hotkeys, hotstrings, labels and directives are recognised.
//   - stmtStart: the next token starts a statement, so v1 command names
//     switch the scanner into command-literal mode.
//   - literal: command arguments are captured verbatim as _Text tokens.
//   - deref: inside %name% within literal text.
//   - forceExpr: inside a "% expr" command argument.
type Scanner struct {
	source // embedded character reader

	dialect Dialect

	// Current token info
	tok   Token // last token returned by Next
	space bool  // whitespace preceded the token being scanned

	pending []Token // batch of tokens queued by hotkey/hotstring/directive scans

	// Mode flags
	lineStart  bool
	stmtStart  bool
	literal    bool
	argStart   bool // at the start of a command argument
	loopArgs   bool // literal arguments belong to a v1 Loop
	legacy     bool // literal text of a v1 "name = text" assignment; commas are text
	legacyNext bool // the name just scanned starts a legacy assignment
	deref      bool
	forceExpr  bool
	depth      int // bracket depth inside a forced expression

	// Side outputs
	comments []Comment
	errors   []TokenError
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are
// only recorded (see Errors).
func NewScanner(src io.Reader, d Dialect, errh func(line, col uint32, msg string)) *Scanner {
	s := &Scanner{
		source:    *newSource(src, errh),
		dialect:   d,
		lineStart: true,
		stmtStart: true,
	}
	s.tok.Kind = _EOL // leading blank lines never produce an EOL
	return s
}

// Dialect returns the dialect the scanner was created for.
func (s *Scanner) Dialect() Dialect {
	return s.dialect
}

// Comments returns the comments collected so far.
func (s *Scanner) Comments() []Comment {
	return s.comments
}

// Errors returns the token-level diagnostics collected so far.
func (s *Scanner) Errors() []TokenError {
	return s.errors
}

// Token returns the last token returned by Next.
func (s *Scanner) Token() Token {
	return s.tok
}

// Next scans and returns the next token. After EOF it keeps returning EOF.
func (s *Scanner) Next() Token {
	var tok Token
	if len(s.pending) > 0 {
		tok = s.pending[0]
		s.pending = s.pending[1:]
	} else {
		tok = s.scan()
	}
	s.emit(tok)
	return tok
}

// emit updates the mode flags after tok has been produced.
func (s *Scanner) emit(tok Token) {
	s.tok = tok
	s.lineStart = false
	s.stmtStart = false

	switch tok.Kind {
	case _EOL:
		s.lineStart = true
		s.stmtStart = true
		s.literal = false
		s.loopArgs = false
		s.legacy = false
		s.deref = false
		s.forceExpr = false
		s.depth = 0
	case _Lbrace, _Rbrace, _Else, _Try, _Finally, _HotkeyMark, _HotstringMark:
		if !s.literal || s.forceExpr {
			s.stmtStart = true
		}
	case _Command:
		s.literal = true
		s.argStart = true
	case _Eql:
		if s.legacyNext {
			s.literal = true
			s.legacy = true
			s.argStart = true
		}
	}
	if tok.Kind != _Name {
		s.legacyNext = false
	}
}

// scan produces the next token from the character stream.
func (s *Scanner) scan() Token {
	s.space = s.prevIsSpace()
redo:
	if s.skipWhitespace() {
		s.space = true
	}

	// Comments. A ';' only starts one after whitespace or at line start.
	if s.ch == ';' && (s.prevIsSpace() || s.atLineBeginning()) {
		s.lineComment()
		goto redo
	}
	if s.ch == '/' && s.peek(1) == '*' && s.atLineBeginning() {
		s.blockComment()
		goto redo
	}

	if s.deref && (s.ch < 0 || s.ch == '\n') {
		s.deref = false
		s.errorAt(s.pos(), s.pos(), "", "missing closing %")
	}

	// End of line
	if s.ch == '\n' {
		if tok, ok := s.newline(); ok {
			return tok
		}
		goto redo
	}

	if s.ch < 0 {
		return Token{Kind: _EOF, Start: s.pos(), End: s.pos(), Space: s.space}
	}

	if s.literal && !s.forceExpr {
		return s.scanLiteral()
	}

	if s.lineStart {
		if tok, ok := s.scanLineHeader(); ok {
			return tok
		}
	}

	start := s.pos()
	switch {
	case isLetter(s.ch):
		return s.scanIdent(start)

	case isDigit(s.ch):
		return s.scanNumber(start)

	case s.ch == '"' || s.ch == '\'' && s.dialect == V2:
		return s.scanString(start)
	}

	return s.scanOperator(start)
}

// skipWhitespace skips space, tab, and carriage return and reports whether
// anything was skipped.
func (s *Scanner) skipWhitespace() bool {
	skipped := false
	for isWhitespace(s.ch) {
		s.nextch()
		skipped = true
	}
	return skipped
}

// prevIsSpace reports whether the byte before the current character is
// whitespace.
func (s *Scanner) prevIsSpace() bool {
	return s.offs > 0 && isSpaceByte(s.buf[s.offs-1])
}

// atLineBeginning reports whether only whitespace precedes the current
// character on its line.
func (s *Scanner) atLineBeginning() bool {
	for i := s.offs - 1; i >= 0; i-- {
		switch s.buf[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		}
		return false
	}
	return true
}

// makeToken builds a token from start to the current position.
func (s *Scanner) makeToken(kind TokenKind, start Pos, startOffs int) Token {
	return Token{
		Kind:  kind,
		Text:  string(s.buf[startOffs:s.offs]),
		Start: start,
		End:   s.pos(),
		Space: s.space,
	}
}

// errorAt records a token-level diagnostic.
func (s *Scanner) errorAt(start, end Pos, text, msg string) {
	s.errors = append(s.errors, TokenError{Range: Range{Start: start, End: end}, Text: text, Msg: msg})
	if s.errh != nil {
		s.errh(start.line, start.col, msg)
	}
}

// ----------------------------------------------------------------------------
// Comments and line ends

// lineComment skips a ; comment up to (not including) the newline.
func (s *Scanner) lineComment() {
	start, offs := s.pos(), s.offs
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
	text := strings.TrimRight(string(s.buf[offs:s.offs]), "\r")
	s.comments = append(s.comments, Comment{Text: text, Range: Range{Start: start, End: s.pos()}})
}

// blockComment skips a /* ... */ comment, tracking lines and columns
// across the embedded newlines. An unterminated block comment runs to EOF.
func (s *Scanner) blockComment() {
	start, offs := s.pos(), s.offs
	s.skip(2)
	for s.ch >= 0 {
		if s.ch == '*' && s.peek(1) == '/' {
			s.skip(2)
			break
		}
		s.nextch()
	}
	s.comments = append(s.comments, Comment{
		Text:  string(s.buf[offs:s.offs]),
		Range: Range{Start: start, End: s.pos()},
		Block: true,
	})
}

// newline handles a '\n'. It skips the following blank and comment-only
// lines and reports ok=false when the EOL must be dropped: either a run
// of EOLs collapses into the previous one, or the next line continues the
// current one because it starts with an operator, comma, colon or dot.
func (s *Scanner) newline() (Token, bool) {
	eol := Token{Kind: _EOL, Text: "\n", Start: s.pos(), End: NewPos(s.line, s.col+1)}
	s.nextch()

	for {
		s.skipWhitespace()
		switch {
		case s.ch == '\n':
			s.nextch()
			continue
		case s.ch == ';':
			s.lineComment()
			continue
		case s.ch == '/' && s.peek(1) == '*':
			s.blockComment()
			continue
		}
		break
	}

	if s.tok.Kind == _EOL {
		s.space = s.prevIsSpace()
		return eol, false
	}
	if s.ch >= 0 && s.continuesLine() {
		s.space = true
		return eol, false
	}
	return eol, true
}

// continuesLine reports whether the line starting at the current character
// joins the previous line. Hotkey and hotstring headers never do.
func (s *Scanner) continuesLine() bool {
	if s.matchHotkey() != nil || s.matchHotstring() != nil {
		return false
	}
	switch s.ch {
	case ',', '.', ':':
		return true
	}
	if kind, _ := s.matchOperator(); kind != _Invalid {
		return kind.IsBinaryOperator() || kind.IsAssign()
	}
	if isLetter(s.ch) {
		word := s.peekWord()
		kind := LookupKeyword(word, s.dialect)
		if kind != _Name && kind.IsBinaryOperator() && !isIdentChar(rune(s.peek(len(word)))) {
			return true
		}
	}
	return false
}

// peekWord returns the ASCII identifier starting at the current character
// without consuming it.
func (s *Scanner) peekWord() string {
	i := s.offs
	for i < len(s.buf) && isIdentChar(rune(s.buf[i])) && s.buf[i] < 0x80 {
		i++
	}
	return string(s.buf[s.offs:i])
}

// ----------------------------------------------------------------------------
// Identifiers, numbers and strings

// scanIdent scans an identifier, keyword or command name.
func (s *Scanner) scanIdent(start Pos) Token {
	offs := s.offs
	for isIdentChar(s.ch) {
		s.nextch()
	}
	tok := s.makeToken(_Name, start, offs)
	tok.Kind = LookupKeyword(tok.Text, s.dialect)

	if s.dialect == V1 && s.stmtStart {
		switch {
		case tok.Kind == _Name && IsCommand(tok.Text) && s.commandFollows():
			tok.Kind = _Command
		case tok.Kind == _Loop && s.loopHasLiteralArgs():
			s.literal = true
			s.argStart = true
			s.loopArgs = true
		case tok.Kind == _Name && s.legacyAssignFollows():
			s.legacyNext = true
		}
	}
	return tok
}

// commandFollows reports whether the text after a command name makes it a
// command invocation rather than a variable or function reference.
func (s *Scanner) commandFollows() bool {
	rest := s.restOfLine()
	trimmed := strings.TrimLeft(string(rest), " \t\r")
	hadSpace := len(trimmed) < len(rest)
	if trimmed == "" || trimmed[0] == ',' || trimmed[0] == ';' {
		return true
	}
	if !hadSpace {
		return false
	}
	for _, op := range []string{":=", "+=", "-=", "*=", "/=", ".=", "|=", "&=", "^=", "//=", "<<=", ">>=", "=", "?", ":", "++", "--", "["} {
		if strings.HasPrefix(trimmed, op) {
			return false
		}
	}
	return true
}

// legacyAssignFollows reports whether a name is followed by a single '='
// and so starts a v1 legacy assignment with literal text.
func (s *Scanner) legacyAssignFollows() bool {
	trimmed := strings.TrimLeft(string(s.restOfLine()), " \t\r")
	return strings.HasPrefix(trimmed, "=") && !strings.HasPrefix(trimmed, "==") &&
		!strings.HasPrefix(trimmed, "=>")
}

// loopHasLiteralArgs reports whether a v1 Loop keyword is followed by
// command-style arguments (a count, a deref or a loop kind).
func (s *Scanner) loopHasLiteralArgs() bool {
	trimmed := strings.TrimLeft(string(s.restOfLine()), " \t\r")
	if trimmed == "" || trimmed[0] == '{' || trimmed[0] == ';' {
		return false
	}
	return true
}

// scanNumber scans a number literal: decimal, fraction, exponent or hex.
// Digits immediately followed by identifier characters form a name.
func (s *Scanner) scanNumber(start Pos) Token {
	offs := s.offs

	if s.ch == '0' && lower(rune(s.peek(1))) == 'x' && isHexDigit(rune(s.peek(2))) {
		s.skip(2)
		for isHexDigit(s.ch) {
			s.nextch()
		}
	} else {
		s.scanDecimalDigits()
		if s.ch == '.' && isDigit(rune(s.peek(1))) {
			s.nextch()
			s.scanDecimalDigits()
		}
		if lower(s.ch) == 'e' {
			next := s.peek(1)
			if isDigit(rune(next)) || (next == '+' || next == '-') && isDigit(rune(s.peek(2))) {
				s.skip(2)
				s.scanDecimalDigits()
			}
		}
	}

	if isIdentChar(s.ch) {
		// 1st, 2ndPlace: AHK allows names that start with digits.
		for isIdentChar(s.ch) {
			s.nextch()
		}
		return s.makeToken(_Name, start, offs)
	}
	return s.makeToken(_Number, start, offs)
}

// scanDecimalDigits scans decimal digits.
func (s *Scanner) scanDecimalDigits() {
	for isDigit(s.ch) {
		s.nextch()
	}
}

// scanString scans a quoted string literal. The token text keeps the
// quotes; Unquote decodes it.
func (s *Scanner) scanString(start Pos) Token {
	offs := s.offs
	quote := s.ch

	if quote == '"' && s.multilineFollows() {
		return s.scanMultiline(start, offs)
	}

	s.nextch() // opening quote
	for {
		switch {
		case s.ch == quote:
			s.nextch()
			if s.ch == quote {
				// "" is an escaped quote
				s.nextch()
				continue
			}
			return s.makeToken(_String, start, offs)

		case s.ch == '`':
			s.nextch()
			if s.ch != '\n' && s.ch >= 0 {
				s.nextch()
			}

		case s.ch == '\n' || s.ch < 0:
			tok := s.makeToken(_String, start, offs)
			tok.Text = strings.TrimRight(tok.Text, "\r")
			s.errorAt(start, s.pos(), tok.Text, "string not terminated")
			return tok

		default:
			s.nextch()
		}
	}
}

// multilineFollows reports whether the opening quote at the current
// character starts a multiline string: either `"(` followed by a line
// break, or `"` followed by a line break and a line starting with `(`.
func (s *Scanner) multilineFollows() bool {
	i := s.offs + 1
	if i < len(s.buf) && s.buf[i] == '(' {
		return restIsBlank(s.buf[i+1:])
	}
	if !restIsBlank(s.buf[i:]) {
		return false
	}
	j := i
	for j < len(s.buf) && s.buf[j] != '\n' {
		j++
	}
	for j++; j < len(s.buf) && isSpaceByte(s.buf[j]); j++ {
	}
	return j < len(s.buf) && s.buf[j] == '('
}

// restIsBlank reports whether b holds only whitespace up to a newline.
// An end of input does not count as a newline.
func restIsBlank(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		}
		return false
	}
	return false
}

// scanMultiline scans a multiline string up to a line starting with `)"`
// that is not followed by another quote.
func (s *Scanner) scanMultiline(start Pos, offs int) Token {
	for s.ch != '(' {
		s.nextch()
	}
	s.nextch() // (

	for s.ch >= 0 {
		if s.ch == '\n' {
			s.nextch()
			s.skipWhitespace()
			if s.ch == ')' && s.peek(1) == '"' && s.peek(2) != '"' {
				s.skip(2)
				return s.makeToken(_String, start, offs)
			}
			continue
		}
		s.nextch()
	}
	tok := s.makeToken(_String, start, offs)
	s.errorAt(start, s.pos(), tok.Text, "multiline string not terminated")
	return tok
}

// ----------------------------------------------------------------------------
// Operators

// matchOperator finds the longest operator spelling at the current
// character. It returns _Invalid and 0 when there is none.
func (s *Scanner) matchOperator() (TokenKind, int) {
	for n := maxOperatorLen; n > 0; n-- {
		if s.offs+n > len(s.buf) {
			continue
		}
		if kind, ok := operators[string(s.buf[s.offs:s.offs+n])]; ok {
			return kind, n
		}
	}
	return _Invalid, 0
}

// scanOperator scans an operator or delimiter.
func (s *Scanner) scanOperator(start Pos) Token {
	offs := s.offs
	kind, n := s.matchOperator()
	if kind == _Invalid {
		s.nextch()
		tok := s.makeToken(_Invalid, start, offs)
		s.errorAt(start, tok.End, tok.Text, fmt.Sprintf("unexpected character %q", tok.Text))
		return tok
	}

	// A dot between whitespace is concatenation, otherwise member access.
	if kind == _Dot && s.space && isConcatFollower(s.peek(1)) {
		kind = _Concat
	}
	s.skip(n)

	if s.forceExpr {
		switch kind {
		case _Lparen, _Lbrack, _Lbrace:
			s.depth++
		case _Rparen, _Rbrack, _Rbrace:
			if s.depth > 0 {
				s.depth--
			}
		case _Comma:
			if s.depth == 0 {
				s.forceExpr = false
				s.argStart = true
			}
		}
	}
	return s.makeToken(kind, start, offs)
}

// isConcatFollower reports whether b may follow the dot of " . ".
func isConcatFollower(b byte) bool {
	return isSpaceByte(b) || b == '\n' || b == 0
}

// ----------------------------------------------------------------------------
// Unquote

// Unquote returns the content of a string token's text: the quotes are
// removed, "" collapses to " and backtick escapes are decoded. For a
// multiline string the content is everything between the opening `(`
// and the start of the line holding the closing `)"`.
func Unquote(text string) string {
	if text == "" {
		return ""
	}
	quote := text[0]
	if quote != '"' && quote != '\'' {
		return text
	}
	if body, ok := multilineBody(text); ok {
		return body
	}

	body := text[1:]
	if len(body) > 0 && body[len(body)-1] == quote {
		body = body[:len(body)-1]
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == quote && i+1 < len(body) && body[i+1] == quote:
			b.WriteByte(quote)
			i++
		case c == '`' && i+1 < len(body):
			i++
			b.WriteString(unescape(body[i]))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// UnescapeText decodes the backtick escapes of command-literal text.
func UnescapeText(text string) string {
	if strings.IndexByte(text, '`') < 0 {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if c := text[i]; c == '`' && i+1 < len(text) {
			i++
			b.WriteString(unescape(text[i]))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// multilineBody extracts the content of a multiline string text.
// It reports false when text is an ordinary quoted string.
func multilineBody(text string) (string, bool) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return "", false
	}
	switch lead := text[1:open]; {
	case open == 1:
		if !restIsBlank([]byte(text[2:])) {
			return "", false
		}
	case strings.TrimSpace(lead) != "" || !strings.Contains(lead, "\n"):
		return "", false
	}
	body := text[open+1:]
	if end := strings.LastIndexByte(body, '\n'); end >= 0 {
		body = body[:end+1]
	}
	return body, true
}

// unescape decodes the character following a backtick.
func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case 'a':
		return "\a"
	}
	return string(c)
}

// ----------------------------------------------------------------------------
// Convenience

// Tokenize scans src completely and returns its tokens (ending with EOF),
// the comments and the token-level diagnostics. Each call is independent.
func Tokenize(src string, d Dialect) ([]Token, []Comment, []TokenError) {
	s := NewScanner(strings.NewReader(src), d, nil)
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == _EOF {
			break
		}
	}
	return toks, s.Comments(), s.Errors()
}
