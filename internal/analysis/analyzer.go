package analysis

import (
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// Analyzer holds the state of one analysis run.
type Analyzer struct {
	conf    *Config
	file    *syntax.File
	uri     string
	dir     string
	table   *symbols.Table
	dialect syntax.Dialect
	res     *Result

	// builtin is set while loading builtin definitions.
	builtin bool

	scope *symbols.Scope // current scope
	fn    *funcContext   // innermost function body; nil at top level

	funcs   map[*syntax.FuncDecl]*symbols.Func
	classes map[*syntax.ClassDecl]*symbols.Class
	props   map[*syntax.PropertyDecl]*symbols.Property

	docs map[uint32]syntax.Comment // comments by last line
}

// funcContext is the per-body state of a function, method or accessor.
type funcContext struct {
	assumeGlobal bool // bare global declaration seen
}

// openScope opens a child scope of the current scope and makes it current.
func (a *Analyzer) openScope(kind symbols.ScopeKind, name string, owner symbols.Symbol, rng syntax.Range) *symbols.Scope {
	a.scope = a.table.NewScope(kind, name, a.scope.ID(), owner, rng)
	return a.scope
}

// closeScope makes the enclosing scope current.
func (a *Analyzer) closeScope() {
	a.scope = a.scope.Enclosing()
}

// enterFunc starts a new function context and returns a function that
// restores the previous one.
func (a *Analyzer) enterFunc() func() {
	saved := a.fn
	a.fn = &funcContext{}
	return func() { a.fn = saved }
}

// global returns the global scope of the document.
func (a *Analyzer) global() *symbols.Scope {
	return a.table.Global()
}

// isGlobal reports whether s is the document's root scope.
func (a *Analyzer) isGlobal(s *symbols.Scope) bool {
	return s.Enclosing() == nil
}

// methodClass returns the class scope when the current scope is a method
// or accessor body. Anonymous functions inside a method see the method's
// class.
func (a *Analyzer) methodClass() *symbols.Scope {
	s := a.scope
	for s != nil && s.Kind() == symbols.FuncScope && s.Name() == "" {
		s = s.Enclosing()
	}
	if s == nil {
		return nil
	}
	switch s.Kind() {
	case symbols.FuncScope, symbols.GetterScope, symbols.SetterScope:
		if outer := s.Enclosing(); outer != nil && outer.Kind() == symbols.ClassScope {
			return outer
		}
	}
	return nil
}

// insert adds sym to scope and records the defining name.
// It returns the symbol that ends up in the scope.
func (a *Analyzer) insert(scope *symbols.Scope, sym symbols.Symbol, name *syntax.Name) symbols.Symbol {
	if existing := scope.Insert(sym); existing != nil {
		sym = existing
	}
	if name != nil {
		a.res.Defs[name] = sym
	}
	return sym
}

// use records a resolved reference.
func (a *Analyzer) use(name *syntax.Name, sym symbols.Symbol) {
	if sym != nil {
		a.res.Uses[name] = sym
	}
}

// ----------------------------------------------------------------------------
// Hoisting
//
// Functions, classes, labels, hotkeys and hotstrings are visible before
// their definition, so they are collected before the walk. Variables are
// not hoisted.

// hoist defines the hoistable declarations of stmts in the current scope.
// It descends into nested blocks but not into function or class bodies.
func (a *Analyzer) hoist(stmts []syntax.Stmt) {
	for _, s := range stmts {
		a.hoistStmt(s)
	}
}

func (a *Analyzer) hoistStmt(s syntax.Stmt) {
	switch s := s.(type) {
	case nil:
		// nothing to do
	case *syntax.FuncDecl:
		a.declareFunc(s)
	case *syntax.ClassDecl:
		a.declareClass(s)
	case *syntax.PropertyDecl:
		if a.scope.Kind() == symbols.ClassScope {
			a.declareProperty(s)
		}
	case *syntax.LabelStmt:
		name := s.Label.Text
		label := symbols.NewLabel(a.uri, s.Label.Range(), name)
		if existing := a.scope.Insert(label); existing != nil {
			a.errorf(s.Label.Range(), CodeRedeclared, "label %s redeclared", name)
		}
	case *syntax.HotkeyStmt:
		// The same hotkey may be defined under several #If contexts.
		a.scope.Insert(symbols.NewHotkey(a.uri, s.Range(), s.Key()))
		if a.dialect == syntax.V1 {
			a.hoistStmt(s.Body)
		}
	case *syntax.HotstringStmt:
		hs := symbols.NewHotstring(a.uri, s.Range(), s.Trigger.Text)
		hs.Options = s.Options()
		hs.Replacement = s.Replacement.Text
		a.scope.Insert(hs)
		if a.dialect == syntax.V1 {
			a.hoistStmt(s.Body)
		}
	case *syntax.BlockStmt:
		a.hoist(s.Stmts)
	case *syntax.IfStmt:
		a.hoistStmt(s.Then)
		a.hoistStmt(s.Else)
	case *syntax.LoopStmt:
		a.hoistStmt(s.Body)
	case *syntax.WhileStmt:
		a.hoistStmt(s.Body)
	case *syntax.ForStmt:
		a.hoistStmt(s.Body)
	case *syntax.TryStmt:
		a.hoistStmt(s.Body)
		if s.Catch != nil {
			a.hoistStmt(s.Catch.Body)
		}
		a.hoistStmt(s.Finally)
	case *syntax.SwitchStmt:
		for _, c := range s.Cases {
			a.hoist(c.Body)
		}
	}
}

// ----------------------------------------------------------------------------
// Doc comments

func (a *Analyzer) indexComments() {
	a.docs = make(map[uint32]syntax.Comment)
	for _, c := range a.file.Comments {
		a.docs[c.Range.End.Line()] = c
	}
}

// docFor returns the documentation written directly above the line of
// pos: one block comment, or a run of line comments.
func (a *Analyzer) docFor(pos syntax.Pos) string {
	line := pos.Line()
	if line == 0 {
		return ""
	}
	c, ok := a.docs[line-1]
	if !ok {
		return ""
	}
	if c.Block {
		return blockCommentText(c.Text)
	}

	lines := []string{lineCommentText(c.Text)}
	for l := c.Range.Start.Line(); l > 0; l-- {
		prev, ok := a.docs[l-1]
		if !ok || prev.Block {
			break
		}
		lines = append(lines, lineCommentText(prev.Text))
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

func lineCommentText(text string) string {
	return strings.TrimSpace(strings.TrimLeft(text, ";"))
}

func blockCommentText(text string) string {
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
