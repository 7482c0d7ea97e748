package syntax

import "fmt"

// Pos represents a position in a source document.
// Line and column are zero-based; the column is a byte offset in the line.
type Pos struct {
	line uint32
	col  uint32
}

// NewPos creates a new Pos with the given zero-based line and column.
func NewPos(line, col uint32) Pos {
	return Pos{line: line, col: col}
}

// String returns the position as "line:col" using one-based numbers,
// which is how editors and compilers print locations.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.line+1, p.col+1)
}

// Line returns the zero-based line number.
func (p Pos) Line() uint32 {
	return p.line
}

// Col returns the zero-based column number (byte offset in line).
func (p Pos) Col() uint32 {
	return p.col
}

// Before reports whether p comes strictly before q.
func (p Pos) Before(q Pos) bool {
	return p.line < q.line || p.line == q.line && p.col < q.col
}

// Compare returns -1, 0 or +1 depending on whether p is before, equal to
// or after q.
func (p Pos) Compare(q Pos) int {
	switch {
	case p.Before(q):
		return -1
	case q.Before(p):
		return 1
	}
	return 0
}

// Range is a half-open span [Start, End) of source text.
type Range struct {
	Start Pos
	End   Pos
}

// MakeRange returns the range between start and end.
func MakeRange(start, end Pos) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// IsEmpty reports whether the range has zero width.
// Missing tokens and recovered nodes produce empty ranges.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether other lies within r (bounds inclusive).
func (r Range) Contains(other Range) bool {
	return !other.Start.Before(r.Start) && !r.End.Before(other.End)
}

// ContainsPos reports whether p lies within r (bounds inclusive).
func (r Range) ContainsPos(p Pos) bool {
	return !p.Before(r.Start) && !r.End.Before(p)
}
