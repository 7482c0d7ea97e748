package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// ScopeID is the index of a Scope in its Table.
type ScopeID int32

// NoScope is the ScopeID of a missing scope.
const NoScope ScopeID = -1

// ScopeKind identifies what introduced a scope.
type ScopeKind uint8

const (
	GlobalScope ScopeKind = iota
	FuncScope
	ClassScope
	GetterScope
	SetterScope
	BuiltinScope
)

var scopeKindNames = [...]string{
	GlobalScope:  "global",
	FuncScope:    "func",
	ClassScope:   "class",
	GetterScope:  "get",
	SetterScope:  "set",
	BuiltinScope: "builtin",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "scope"
}

// Scope is a set of symbols keyed by lower-cased name. Scopes live in the
// arena of a Table and refer to each other by ScopeID.
type Scope struct {
	table     *Table
	id        ScopeID
	kind      ScopeKind
	name      string
	enclosing ScopeID
	owner     Symbol // function, class or property that opened the scope
	elems     map[string]Symbol
	order     []string // keys in insertion order
	children  []ScopeID
	rng       syntax.Range
}

// ID returns the index of the scope in its table.
func (s *Scope) ID() ScopeID {
	return s.id
}

// Kind returns the scope kind.
func (s *Scope) Kind() ScopeKind {
	return s.kind
}

// Name returns the name of the function, class or property that opened
// the scope; empty for the global scope.
func (s *Scope) Name() string {
	return s.name
}

// Owner returns the symbol that opened the scope, or nil.
func (s *Scope) Owner() Symbol {
	return s.owner
}

// Table returns the table holding the scope.
func (s *Scope) Table() *Table {
	return s.table
}

// Range returns the source range covered by the scope.
func (s *Scope) Range() syntax.Range {
	return s.rng
}

// Enclosing returns the lexically enclosing scope, or nil for the root.
func (s *Scope) Enclosing() *Scope {
	return s.table.Scope(s.enclosing)
}

// Children returns the scopes opened directly inside s.
func (s *Scope) Children() []*Scope {
	list := make([]*Scope, len(s.children))
	for i, id := range s.children {
		list[i] = s.table.scopes[id]
	}
	return list
}

// Lookup returns the symbol with the given name in s itself, or nil.
func (s *Scope) Lookup(name string) Symbol {
	return s.elems[Key(name)]
}

// Insert adds sym to s. If a symbol with the same name already exists,
// Insert returns it and leaves s unchanged. Otherwise it returns nil.
func (s *Scope) Insert(sym Symbol) Symbol {
	key := Key(sym.Name())
	if existing := s.elems[key]; existing != nil {
		return existing
	}
	s.elems[key] = sym
	s.order = append(s.order, key)
	sym.setScope(s.id)
	return nil
}

// Alias makes sym visible in s under its name without changing the
// scope the symbol belongs to.
func (s *Scope) Alias(sym Symbol) {
	key := Key(sym.Name())
	if _, ok := s.elems[key]; !ok {
		s.order = append(s.order, key)
	}
	s.elems[key] = sym
}

// Resolve looks name up lexically: in s, in the enclosing scopes, in the
// global scopes of the included tables in registration order, and
// finally in the builtin table.
func (s *Scope) Resolve(name string) Symbol {
	key := Key(name)
	for scope := s; scope != nil; scope = scope.Enclosing() {
		if sym := scope.elems[key]; sym != nil {
			return sym
		}
	}
	for _, inc := range s.table.includes {
		if sym := inc.Global().elems[key]; sym != nil {
			return sym
		}
	}
	if b := s.table.builtin; b != nil {
		return b.Global().elems[key]
	}
	return nil
}

// ResolveProp looks a member name up along the inheritance chain of a
// class scope: the class itself, then its base classes, ending with the
// builtin Object class. Included tables are not consulted.
func (s *Scope) ResolveProp(name string) Symbol {
	key := Key(name)
	for _, scope := range s.classChain() {
		if sym := scope.elems[key]; sym != nil {
			return sym
		}
	}
	return nil
}

// AllSymbols returns the symbols of s in insertion order. For a class
// scope, inherited members not shadowed by a subclass follow, each name
// appearing once.
func (s *Scope) AllSymbols() []Symbol {
	if s.kind != ClassScope {
		list := make([]Symbol, len(s.order))
		for i, key := range s.order {
			list[i] = s.elems[key]
		}
		return list
	}

	seen := make(map[string]bool)
	var list []Symbol
	for _, scope := range s.classChain() {
		for _, key := range scope.order {
			if seen[key] {
				continue
			}
			seen[key] = true
			list = append(list, scope.elems[key])
		}
	}
	return list
}

// Base returns the member scope of the base class of a class scope, or
// nil when there is none.
func (s *Scope) Base() *Scope {
	class, ok := s.owner.(*Class)
	if !ok {
		return nil
	}
	if len(class.Extends) == 0 {
		if Key(class.Name()) == "object" {
			return nil
		}
		return s.Enclosing().resolveClass([]string{"Object"})
	}
	return s.Enclosing().resolveClass(class.Extends)
}

// classChain returns s followed by its base class scopes. Inheritance
// cycles are cut at the first repeated scope.
func (s *Scope) classChain() []*Scope {
	visited := make(map[*Scope]bool)
	var chain []*Scope
	for scope := s; scope != nil && !visited[scope]; {
		visited[scope] = true
		chain = append(chain, scope)
		if scope.kind != ClassScope {
			break
		}
		scope = scope.Base()
	}
	return chain
}

// resolveClass resolves a class path such as Outer.Inner from s and
// returns the member scope of the class.
func (s *Scope) resolveClass(path []string) *Scope {
	if s == nil || len(path) == 0 {
		return nil
	}
	class, _ := s.Resolve(path[0]).(*Class)
	for _, name := range path[1:] {
		if class == nil {
			return nil
		}
		members := class.MemberScope()
		if members == nil {
			return nil
		}
		class, _ = members.Lookup(name).(*Class)
	}
	if class == nil {
		return nil
	}
	return class.MemberScope()
}

// ResolveClass resolves a dotted class path from s.
func (s *Scope) ResolveClass(path []string) *Class {
	members := s.resolveClass(path)
	if members == nil {
		return nil
	}
	class, _ := members.owner.(*Class)
	return class
}

// Names returns the display names of the symbols in s, sorted
// case-insensitively.
func (s *Scope) Names() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	sort.Strings(keys)
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = s.elems[key].Name()
	}
	return names
}

// NumSymbols returns the number of symbols in s.
func (s *Scope) NumSymbols() int {
	return len(s.elems)
}

// Innermost returns the innermost scope at or below s whose range
// contains pos.
func (s *Scope) Innermost(pos syntax.Pos) *Scope {
	for _, child := range s.Children() {
		if child.rng.ContainsPos(pos) {
			return child.Innermost(pos)
		}
	}
	return s
}

// String returns a string representation of the scope tree for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	s.writeTo(&buf, 0)
	return buf.String()
}

func (s *Scope) writeTo(buf *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	if s.name != "" {
		fmt.Fprintf(buf, "%sscope %s %s {\n", prefix, s.kind, s.name)
	} else {
		fmt.Fprintf(buf, "%sscope %s {\n", prefix, s.kind)
	}
	for _, key := range s.order {
		sym := s.elems[key]
		if sym.Scope() != s.id {
			fmt.Fprintf(buf, "%s  %s: alias of %s\n", prefix, sym.Name(), Describe(sym))
			continue
		}
		fmt.Fprintf(buf, "%s  %s: %s\n", prefix, sym.Name(), Describe(sym))
	}
	for _, child := range s.Children() {
		child.writeTo(buf, indent+1)
	}
	fmt.Fprintf(buf, "%s}\n", prefix)
}

// Describe returns a one-line description of sym.
func Describe(sym Symbol) string {
	switch sym := sym.(type) {
	case *Var:
		return withType("var", sym.Type())
	case *Param:
		desc := "param"
		if sym.ByRef {
			desc = "byref " + desc
		}
		if sym.Spread {
			desc += " variadic"
		} else if sym.Optional {
			desc += " optional"
		}
		return desc
	case *Func:
		switch {
		case sym.Command:
			return "command " + sym.Signature()
		case sym.Static:
			return "static func " + sym.Signature()
		}
		return "func " + sym.Signature()
	case *Class:
		if len(sym.Extends) > 0 {
			return "class extends " + strings.Join(sym.Extends, ".")
		}
		return "class"
	case *Property:
		desc := "property"
		if sym.Static {
			desc = "static " + desc
		}
		if sym.Getter != NoScope {
			desc += " get"
		}
		if sym.Setter != NoScope {
			desc += " set"
		}
		return withType(desc, sym.Type())
	}
	return sym.Kind().String()
}

func withType(desc string, typ []string) string {
	if len(typ) == 0 {
		return desc
	}
	return desc + " " + strings.Join(typ, ".")
}
