package syntax

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"
)

// hotkeyPattern matches a hotkey header at the start of a line:
// modifiers, a key, an optional "& key" combination, an optional UP
// suffix and the closing "::".
var hotkeyPattern = regexp.MustCompile(
	`^([#!^+<>*~$]*)([A-Za-z0-9_]+|\S)` +
		`(?:[ \t]+&[ \t]+([#!^+<>*~$]*)([A-Za-z0-9_]+|\S))?` +
		`(?:[ \t]+([Uu][Pp]))?::`)

// maxHotstringOptions bounds the lookahead for the closing ':' of the
// hotstring options.
const maxHotstringOptions = 6

// scanLineHeader recognises the constructs that may only start a line:
// hotstrings, hotkeys, directives and labels.
func (s *Scanner) scanLineHeader() (Token, bool) {
	if s.ch == ':' {
		if m := s.matchHotstring(); m != nil {
			return s.scanHotstring(m), true
		}
	}
	if m := s.matchHotkey(); m != nil {
		return s.scanHotkey(m), true
	}
	if s.ch == '#' && isLetter(rune(s.peek(1))) {
		return s.scanDirective(), true
	}
	if isLetter(s.ch) {
		return s.scanLabel()
	}
	return Token{}, false
}

// matchHotkey returns the submatch indices of a hotkey header starting at
// the current character, or nil.
func (s *Scanner) matchHotkey() []int {
	line := s.restOfLine()
	if bytes.IndexByte(line, ':') < 0 {
		return nil
	}
	return hotkeyPattern.FindSubmatchIndex(line)
}

// posAt returns the position i bytes after the current character, which
// must be on the same line.
func (s *Scanner) posAt(i int) Pos {
	return NewPos(s.line, s.col+uint32(i))
}

// lineToken builds a token for line[i:j] of the current line.
func (s *Scanner) lineToken(kind TokenKind, line []byte, i, j int) Token {
	tok := Token{Kind: kind, Text: string(line[i:j]), Start: s.posAt(i), End: s.posAt(j)}
	if i == 0 {
		tok.Space = s.space
	} else {
		tok.Space = isSpaceByte(line[i-1])
	}
	return tok
}

// scanHotkey emits the header tokens of a hotkey. The first is returned;
// the rest are queued.
func (s *Scanner) scanHotkey(m []int) Token {
	line := s.restOfLine()
	var toks []Token
	if m[3] > m[2] {
		toks = append(toks, s.lineToken(_HotkeyModifier, line, m[2], m[3]))
	}
	toks = append(toks, s.lineToken(_HotkeyKey, line, m[4], m[5]))
	if m[8] >= 0 {
		amp := m[5] + bytes.IndexByte(line[m[5]:], '&')
		toks = append(toks, s.lineToken(_HotkeyAnd, line, amp, amp+1))
		if m[7] > m[6] {
			toks = append(toks, s.lineToken(_HotkeyModifier, line, m[6], m[7]))
		}
		toks = append(toks, s.lineToken(_HotkeyKey, line, m[8], m[9]))
	}
	if m[10] >= 0 {
		toks = append(toks, s.lineToken(_HotkeyUp, line, m[10], m[11]))
	}
	toks = append(toks, s.lineToken(_HotkeyMark, line, m[1]-2, m[1]))

	s.skip(m[1])
	s.pending = append(s.pending, toks[1:]...)
	return toks[0]
}

// matchHotstring returns the indices of the option colon and of the "::"
// closing the trigger for a hotstring header at the current character,
// or nil.
func (s *Scanner) matchHotstring() []int {
	line := s.restOfLine()
	if len(line) < 2 || line[0] != ':' {
		return nil
	}
	opt := -1
	for i := 1; i < len(line) && i <= maxHotstringOptions; i++ {
		if line[i] == ':' {
			opt = i
			break
		}
		if isSpaceByte(line[i]) {
			return nil
		}
	}
	if opt < 0 || opt+2 > len(line) {
		return nil
	}
	k := bytes.Index(line[opt+2:], []byte("::"))
	if k < 0 {
		return nil
	}
	return []int{opt, opt + 2 + k}
}

// scanHotstring emits the header tokens of a hotstring:
// the :options: opener, the trigger text, the "::" mark and, unless the
// X option makes the rest of the line a statement, the replacement text.
func (s *Scanner) scanHotstring(m []int) Token {
	line := s.restOfLine()
	opt, mark := m[0], m[1]

	toks := []Token{
		s.lineToken(_HotstringOpen, line, 0, opt+1),
		s.lineToken(_Text, line, opt+1, mark),
		s.lineToken(_HotstringMark, line, mark, mark+2),
	}
	stop := mark + 2

	if !strings.ContainsAny(string(line[1:opt]), "xX") {
		i := stop
		for i < len(line) && isSpaceByte(line[i]) {
			i++
		}
		j := i
		for end := i; end < len(line); end++ {
			if line[end] == ';' && end > 0 && isSpaceByte(line[end-1]) {
				break
			}
			if !isSpaceByte(line[end]) {
				j = end + 1
			}
		}
		if j > i {
			toks = append(toks, s.lineToken(_Text, line, i, j))
			stop = j
		}
	}

	s.skip(stop)
	s.pending = append(s.pending, toks[1:]...)
	return toks[0]
}

// scanDirective scans a #directive. Except for #If and #HotIf, whose
// argument is an expression, the rest of the line is queued as one _Text
// token.
func (s *Scanner) scanDirective() Token {
	start, offs := s.pos(), s.offs
	s.nextch() // #
	for isIdentChar(s.ch) {
		s.nextch()
	}
	tok := s.makeToken(_Directive, start, offs)
	if expressionDirectives[strings.ToLower(tok.Text[1:])] {
		return tok
	}

	space := s.skipWhitespace()
	if s.ch < 0 || s.ch == '\n' || s.ch == ';' && space {
		return tok
	}
	text := s.scanText(s.pos(), s.offs, false)
	text.Space = space
	s.pending = append(s.pending, text)
	return tok
}

// scanLabel recognises "name:" standing alone on a line.
func (s *Scanner) scanLabel() (Token, bool) {
	line := s.restOfLine()
	i := 0
	for i < len(line) && (line[i] >= utf8.RuneSelf || isIdentChar(rune(line[i]))) {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != ':' {
		return Token{}, false
	}
	if i+1 < len(line) && (line[i+1] == ':' || line[i+1] == '=') {
		return Token{}, false
	}
	if rest := strings.TrimLeft(string(line[i+1:]), " \t\r"); rest != "" && rest[0] != ';' {
		return Token{}, false
	}
	name := string(line[:i])
	if LookupKeyword(name, s.dialect) != _Name {
		return Token{}, false
	}

	tok := s.lineToken(_Label, line, 0, i+1)
	tok.Text = name
	s.skip(i + 1)
	return tok, true
}
