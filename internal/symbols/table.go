package symbols

import "github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"

// Table is the symbol table of one document: an arena of scopes rooted
// at the global scope, the tables of included files and the builtin
// table consulted last.
type Table struct {
	uri      string
	scopes   []*Scope
	includes []*Table
	builtin  *Table
}

// NewTable creates a table for uri with an empty global scope.
// builtin may be nil.
func NewTable(uri string, builtin *Table) *Table {
	t := &Table{uri: uri, builtin: builtin}
	t.NewScope(GlobalScope, "", NoScope, nil, syntax.Range{})
	return t
}

// NewBuiltinTable creates the table holding predefined symbols.
func NewBuiltinTable() *Table {
	t := &Table{}
	t.NewScope(BuiltinScope, "", NoScope, nil, syntax.Range{})
	return t
}

// URI returns the document the table was built for.
func (t *Table) URI() string {
	return t.uri
}

// Global returns the root scope.
func (t *Table) Global() *Scope {
	return t.scopes[0]
}

// Builtin returns the builtin table, or nil.
func (t *Table) Builtin() *Table {
	return t.builtin
}

// Scope returns the scope with the given ID, or nil for NoScope or an
// unknown ID.
func (t *Table) Scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(t.scopes) {
		return nil
	}
	return t.scopes[id]
}

// Scopes returns all scopes in creation order.
func (t *Table) Scopes() []*Scope {
	return t.scopes
}

// NewScope opens a scope of the given kind inside enclosing. When owner
// is a function or a class, the scope becomes its body or member scope.
func (t *Table) NewScope(kind ScopeKind, name string, enclosing ScopeID, owner Symbol, rng syntax.Range) *Scope {
	s := &Scope{
		table:     t,
		id:        ScopeID(len(t.scopes)),
		kind:      kind,
		name:      name,
		enclosing: enclosing,
		owner:     owner,
		elems:     make(map[string]Symbol),
		rng:       rng,
	}
	t.scopes = append(t.scopes, s)
	if parent := t.Scope(enclosing); parent != nil {
		parent.children = append(parent.children, s.id)
	}

	switch owner := owner.(type) {
	case *Func:
		owner.Body = s.id
	case *Class:
		owner.Members = s.id
		owner.members = s
	}
	return s
}

// AddInclude registers the table of an included file. Lexical resolution
// falls through to included tables in registration order.
func (t *Table) AddInclude(inc *Table) {
	if inc == nil || inc == t {
		return
	}
	for _, existing := range t.includes {
		if existing == inc {
			return
		}
	}
	t.includes = append(t.includes, inc)
}

// Includes returns the registered included tables.
func (t *Table) Includes() []*Table {
	return t.includes
}

// Owns reports whether sym was defined in t rather than in an included
// or builtin table.
func (t *Table) Owns(sym Symbol) bool {
	s := t.Scope(sym.Scope())
	return s != nil && s.elems[Key(sym.Name())] == sym
}

// ScopeAt returns the innermost scope containing pos.
func (t *Table) ScopeAt(pos syntax.Pos) *Scope {
	return t.Global().Innermost(pos)
}

// Symbols returns every symbol defined in the table, scope by scope.
// Aliases are skipped.
func (t *Table) Symbols() []Symbol {
	var list []Symbol
	for _, s := range t.scopes {
		for _, key := range s.order {
			if sym := s.elems[key]; sym.Scope() == s.id {
				list = append(list, sym)
			}
		}
	}
	return list
}

func (t *Table) String() string {
	return t.Global().String()
}
