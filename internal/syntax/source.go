package syntax

import (
	"bytes"
	"io"
	"unicode"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// It reads UTF-8 encoded source text and provides character-by-character
// access plus bounded byte lookahead.
type source struct {
	// Input
	buf []byte // source buffer (entire document read into memory)

	// Current state
	ch   rune   // current character, -1 for EOF
	chw  int    // byte width of ch
	offs int    // byte offset of ch in buf
	line uint32 // zero-based line of ch
	col  uint32 // zero-based column (byte offset in line) of ch

	// Error handling
	errh func(line, col uint32, msg string)
}

// newSource creates a new source from an io.Reader.
// The entire content is read into memory.
// The errh function is called for each error; if nil, errors are silently ignored.
func newSource(src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{errh: errh}
	buf, err := io.ReadAll(src)
	if err != nil {
		s.error("error reading source: " + err.Error())
	}
	// A leading byte order mark is not part of the script.
	s.buf = bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf"))
	s.load()
	return s
}

// load decodes the character at s.offs without moving the position.
func (s *source) load() {
	if s.offs >= len(s.buf) {
		s.ch = -1
		s.chw = 0
		return
	}
	r, w := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && w == 1 {
		s.error("invalid UTF-8 encoding")
		// Continue anyway to avoid getting stuck
	}
	s.ch = r
	s.chw = w
}

// nextch advances to the next character and updates the position.
// Sets s.ch to -1 at EOF; calling nextch at EOF is a no-op.
func (s *source) nextch() {
	if s.ch < 0 {
		return
	}
	if s.ch == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col += uint32(s.chw)
	}
	s.offs += s.chw
	s.load()
}

// skip advances n bytes. The bytes must not contain a newline.
func (s *source) skip(n int) {
	for end := s.offs + n; s.offs < end && s.ch >= 0; {
		s.nextch()
	}
}

// pos returns the current position (position of the current character).
func (s *source) pos() Pos {
	return NewPos(s.line, s.col)
}

// peek returns the byte n positions after the current character's first
// byte, or 0 past the end of input.
func (s *source) peek(n int) byte {
	if i := s.offs + n; i < len(s.buf) {
		return s.buf[i]
	}
	return 0
}

// restOfLine returns the bytes from the current character up to (not
// including) the next newline.
func (s *source) restOfLine() []byte {
	rest := s.buf[min(s.offs, len(s.buf)):]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

// Character classification helpers

// isLetter reports whether r may start an identifier.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

// isIdentChar reports whether r may continue an identifier.
// AHK also allows #, @ and $ after the first character.
func isIdentChar(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '#' || r == '@' || r == '$' ||
		r >= utf8.RuneSelf && unicode.IsDigit(r)
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isHexDigit reports whether r is a hexadecimal digit (0-9, a-f, A-F).
func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// lower returns the lowercase version of r if r is an ASCII letter,
// otherwise returns r unchanged.
func lower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// isWhitespace reports whether r is a whitespace character (space, tab, or carriage return).
// Note: newline '\n' is NOT included because it ends a logical line.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// isSpaceByte is isWhitespace for a raw byte (0 counts as a terminator, not space).
func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}
