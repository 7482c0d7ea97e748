package syntax

import (
	"strings"
	"testing"
)

func TestSourceBasic(t *testing.T) {
	src := newSource(strings.NewReader("abc"), nil)

	// First character should be 'a'
	if src.ch != 'a' {
		t.Errorf("initial ch = %q, want 'a'", src.ch)
	}
	if src.line != 0 || src.col != 0 {
		t.Errorf("initial pos = %d:%d, want 0:0", src.line, src.col)
	}

	src.nextch()
	if src.ch != 'b' || src.col != 1 {
		t.Errorf("got ch=%q col=%d, want ch='b' col=1", src.ch, src.col)
	}

	src.nextch()
	src.nextch()
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}

	// nextch at EOF is a no-op
	src.nextch()
	if src.ch != -1 || src.offs != 3 {
		t.Errorf("after EOF: ch=%d offs=%d, want -1 and 3", src.ch, src.offs)
	}
}

func TestSourceNewline(t *testing.T) {
	src := newSource(strings.NewReader("a\nb\r\nc"), nil)

	steps := []struct {
		ch        rune
		line, col uint32
	}{
		{'a', 0, 0},
		{'\n', 0, 1},
		{'b', 1, 0},
		{'\r', 1, 1},
		{'\n', 1, 2},
		{'c', 2, 0},
	}
	for i, want := range steps {
		if i > 0 {
			src.nextch()
		}
		if src.ch != want.ch || src.line != want.line || src.col != want.col {
			t.Errorf("step %d: got ch=%q pos=%d:%d, want ch=%q pos=%d:%d",
				i, src.ch, src.line, src.col, want.ch, want.line, want.col)
		}
	}
}

func TestSourceUTF8(t *testing.T) {
	src := newSource(strings.NewReader("a中b"), nil)

	src.nextch()
	if src.ch != '中' {
		t.Errorf("ch = %q, want '中'", src.ch)
	}
	if src.col != 1 {
		t.Errorf("col = %d, want 1", src.col)
	}

	// 'b' follows a 3-byte character; columns are byte offsets
	src.nextch()
	if src.ch != 'b' {
		t.Errorf("ch = %q, want 'b'", src.ch)
	}
	if src.col != 4 {
		t.Errorf("col = %d, want 4", src.col)
	}
}

func TestSourceBOM(t *testing.T) {
	src := newSource(strings.NewReader("\xef\xbb\xbfx"), nil)
	if src.ch != 'x' || src.col != 0 {
		t.Errorf("got ch=%q col=%d, want 'x' at col 0", src.ch, src.col)
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource(strings.NewReader(""), nil)
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
	if got := src.restOfLine(); len(got) != 0 {
		t.Errorf("restOfLine() = %q, want empty", got)
	}
}

func TestSourceLookahead(t *testing.T) {
	src := newSource(strings.NewReader("ab, cd\nef"), nil)

	if got := src.peek(1); got != 'b' {
		t.Errorf("peek(1) = %q, want 'b'", got)
	}
	if got := src.peek(100); got != 0 {
		t.Errorf("peek(100) = %q, want 0", got)
	}
	if got := string(src.restOfLine()); got != "ab, cd" {
		t.Errorf("restOfLine() = %q, want %q", got, "ab, cd")
	}

	src.skip(4)
	if src.ch != 'c' || src.col != 4 {
		t.Errorf("after skip(4): ch=%q col=%d, want 'c' at col 4", src.ch, src.col)
	}
	if got := string(src.restOfLine()); got != "cd" {
		t.Errorf("restOfLine() = %q, want %q", got, "cd")
	}
	if got := src.pos(); got != NewPos(0, 4) {
		t.Errorf("pos() = %v, want %v", got, NewPos(0, 4))
	}
}

func TestSourceError(t *testing.T) {
	var errMsg string
	var errLine, errCol uint32

	errh := func(line, col uint32, msg string) {
		errLine = line
		errCol = col
		errMsg = msg
	}

	src := newSource(strings.NewReader("ab"), errh)
	src.nextch()
	src.error("test error")

	if errMsg != "test error" {
		t.Errorf("error message = %q, want %q", errMsg, "test error")
	}
	if errLine != 0 || errCol != 1 {
		t.Errorf("error pos = %d:%d, want 0:1", errLine, errCol)
	}
}

func TestSourceErrorNilHandler(t *testing.T) {
	// Should not panic with nil error handler
	src := newSource(strings.NewReader("a"), nil)
	src.error("test error")
}

// Character classification helpers

func TestIsLetter(t *testing.T) {
	letters := []rune{'a', 'z', 'A', 'Z', '_', 'é'}
	for _, r := range letters {
		if !isLetter(r) {
			t.Errorf("isLetter(%q) = false, want true", r)
		}
	}

	nonLetters := []rune{'0', '9', ' ', '\n', '+', '#', '$'}
	for _, r := range nonLetters {
		if isLetter(r) {
			t.Errorf("isLetter(%q) = true, want false", r)
		}
	}
}

func TestIsIdentChar(t *testing.T) {
	for _, r := range []rune{'a', '_', '0', '#', '@', '$'} {
		if !isIdentChar(r) {
			t.Errorf("isIdentChar(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{' ', '.', '%', ',', '(', ':'} {
		if isIdentChar(r) {
			t.Errorf("isIdentChar(%q) = true, want false", r)
		}
	}
}

func TestIsHexDigit(t *testing.T) {
	for _, r := range []rune{'0', '9', 'a', 'f', 'A', 'F'} {
		if !isHexDigit(r) {
			t.Errorf("isHexDigit(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'g', 'G', 'z', ' ', '+'} {
		if isHexDigit(r) {
			t.Errorf("isHexDigit(%q) = true, want false", r)
		}
	}
}

func TestLower(t *testing.T) {
	tests := []struct {
		input rune
		want  rune
	}{
		{'A', 'a'},
		{'Z', 'z'},
		{'a', 'a'},
		{'0', '0'},
	}

	for _, tt := range tests {
		if got := lower(tt.input); got != tt.want {
			t.Errorf("lower(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsWhitespace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\r'} {
		if !isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = false, want true", r)
		}
	}

	// '\n' ends a logical line and is not whitespace
	for _, r := range []rune{'\n', 'a', '0'} {
		if isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = true, want false", r)
		}
	}
}
