package syntax

// List is an ordered sequence of elements interleaved with delimiter
// tokens (commas, or dots in a member chain). A trailing delimiter is
// allowed and omitted elements are kept as nil, so Delims may hold as
// many entries as Elems, or one fewer.
type List[T Node] struct {
	Elems  []T
	Delims []Token
}

// Len returns the number of elements, counting omitted ones.
func (l *List[T]) Len() int {
	return len(l.Elems)
}

// At returns the i'th element.
func (l *List[T]) At(i int) T {
	return l.Elems[i]
}

// Children returns the number of raw children: elements plus delimiters.
func (l *List[T]) Children() int {
	return len(l.Elems) + len(l.Delims)
}

// append adds an element.
func (l *List[T]) append(elem T) {
	l.Elems = append(l.Elems, elem)
}

// delim adds a delimiter token.
func (l *List[T]) delim(tok Token) {
	l.Delims = append(l.Delims, tok)
}
