package syntax

import "strings"

// scanLiteral scans one token of command-literal text: the arguments of
// a v1 command or Loop are verbatim text separated by commas, with %name%
// dereferences and "% expr" forced-expression arguments.
func (s *Scanner) scanLiteral() Token {
	start, offs := s.pos(), s.offs

	if s.deref {
		return s.scanDeref(start)
	}

	switch {
	case s.argStart && s.ch == '%' && isSpaceByte(s.peek(1)):
		s.nextch()
		s.forceExpr = true
		s.argStart = false
		s.depth = 0
		return s.makeToken(_ForceExpr, start, offs)

	case s.ch == ',' && !s.legacy:
		s.nextch()
		s.argStart = true
		return s.makeToken(_Comma, start, offs)

	case s.ch == '%':
		s.nextch()
		s.deref = true
		s.argStart = false
		return s.makeToken(_Percent, start, offs)

	case s.loopArgs && s.ch == '{' && s.braceEndsLine():
		// Loop, 3 {
		s.nextch()
		s.literal = false
		s.loopArgs = false
		return s.makeToken(_Lbrace, start, offs)
	}

	s.argStart = false
	return s.scanText(start, offs, true)
}

// scanDeref scans the inside of a %name% dereference in literal text.
func (s *Scanner) scanDeref(start Pos) Token {
	offs := s.offs
	if s.ch == '%' {
		s.nextch()
		s.deref = false
		return s.makeToken(_Percent, start, offs)
	}
	if isIdentChar(s.ch) {
		for isIdentChar(s.ch) {
			s.nextch()
		}
		return s.makeToken(_Name, start, offs)
	}
	s.deref = false
	s.errorAt(start, start, "", "missing closing %")
	return s.scanLiteral()
}

// scanText scans verbatim text up to the end of the line or a comment
// introduced by whitespace and ';'. For command arguments (args) it also
// stops at ',' and '%'. Backtick escapes are kept in the token text.
// Trailing whitespace is dropped unless a '%' follows.
func (s *Scanner) scanText(start Pos, offs int, args bool) Token {
	end, endOffs := start, offs
	for s.ch >= 0 && s.ch != '\n' {
		if args && s.ch == '%' {
			// keep the spaces in "text %var%"
			end, endOffs = s.pos(), s.offs
			break
		}
		if args && s.ch == ',' && !s.legacy {
			break
		}
		if s.ch == ';' && s.prevIsSpace() {
			break
		}
		if s.loopArgs && s.ch == '{' && s.prevIsSpace() && s.braceEndsLine() {
			break
		}
		if s.ch == '`' {
			s.nextch()
			if s.ch >= 0 && s.ch != '\n' {
				s.nextch()
			}
			end, endOffs = s.pos(), s.offs
			continue
		}
		ws := isWhitespace(s.ch)
		s.nextch()
		if !ws {
			end, endOffs = s.pos(), s.offs
		}
	}
	return Token{
		Kind:  _Text,
		Text:  string(s.buf[offs:endOffs]),
		Start: start,
		End:   end,
		Space: s.space,
	}
}

// braceEndsLine reports whether the '{' at the current character is the
// last thing on its line apart from a comment.
func (s *Scanner) braceEndsLine() bool {
	rest := strings.TrimLeft(string(s.restOfLine()[1:]), " \t\r")
	return rest == "" || rest[0] == ';'
}
