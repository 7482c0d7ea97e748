package analysis

import (
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// commandTag marks a builtin function written in command form.
const commandTag = "@command"

// ----------------------------------------------------------------------------
// Functions

// declareFunc defines the function symbol of d in the current scope.
func (a *Analyzer) declareFunc(d *syntax.FuncDecl) *symbols.Func {
	if fn := a.funcs[d]; fn != nil {
		return fn
	}
	fn := symbols.NewFunc(a.uri, d.Name.Range(), d.Name.Value)
	fn.Static = d.Static.Text != ""
	fn.Builtin = a.builtin
	fn.Params = a.params(d.Params)
	a.setDoc(fn, d.Pos())
	a.funcs[d] = fn

	if existing := a.scope.Insert(fn); existing != nil {
		a.errorf(d.Name.Range(), CodeRedeclared, "%s redeclared in this scope", d.Name.Value)
		return fn
	}
	a.res.Defs[d.Name] = fn
	return fn
}

// params builds the parameter symbols of a parameter list. A bare * has
// no name and yields no symbol.
func (a *Analyzer) params(list syntax.List[*syntax.Param]) []*symbols.Param {
	var params []*symbols.Param
	optional := false
	for _, p := range list.Elems {
		if p == nil || p.Name == nil {
			continue
		}
		param := symbols.NewParam(a.uri, p.Name.Range(), p.Name.Value)
		param.ByRef = p.IsByRef()
		param.Spread = p.IsVariadic()
		param.Optional = p.IsOptional()
		if p.Default != nil {
			param.Default = exprText(p.Default)
		}
		if param.Optional {
			optional = true
		} else if optional && !a.builtin {
			a.warnf(p.Name.Range(), CodeParamOrder, "required parameter %s follows an optional parameter", p.Name.Value)
		}
		params = append(params, param)
	}
	return params
}

// defineParams inserts the parameters of fn into the current scope:
// required parameters first, then optional ones.
func (a *Analyzer) defineParams(list syntax.List[*syntax.Param], params []*symbols.Param) {
	names := make(map[*symbols.Param]*syntax.Name)
	i := 0
	for _, p := range list.Elems {
		if p == nil || p.Name == nil {
			continue
		}
		if i < len(params) {
			names[params[i]] = p.Name
		}
		i++
	}
	for _, pass := range []bool{false, true} {
		for _, param := range params {
			if param.Optional != pass {
				continue
			}
			if existing := a.scope.Insert(param); existing != nil {
				a.errorf(param.Range(), CodeRedeclared, "duplicate parameter %s", param.Name())
				continue
			}
			if name := names[param]; name != nil {
				a.res.Defs[name] = param
			}
		}
	}
}

// paramDefaults walks the default values of a parameter list.
func (a *Analyzer) paramDefaults(list syntax.List[*syntax.Param]) {
	for _, p := range list.Elems {
		if p != nil && p.Default != nil {
			a.expr(p.Default)
		}
	}
}

// funcDecl walks a function or method declaration.
func (a *Analyzer) funcDecl(d *syntax.FuncDecl) {
	fn := a.funcs[d]
	if fn == nil {
		fn = a.declareFunc(d)
	}
	a.paramDefaults(d.Params)

	restore := a.enterFunc()
	defer restore()
	a.openScope(symbols.FuncScope, fn.Name(), fn, d.Range())
	defer a.closeScope()

	if a.scope.Enclosing().Kind() == symbols.ClassScope {
		a.defineMethodVars(d.Name.Range())
	}
	a.defineParams(d.Params, fn.Params)

	if d.Body != nil {
		a.hoist(d.Body.Stmts)
		a.stmtList(d.Body.Stmts)
	}
	if d.Arrow != nil {
		a.expr(d.Arrow)
	}
}

// defineMethodVars defines the implicit variables of a method body.
func (a *Analyzer) defineMethodVars(rng syntax.Range) {
	names := []string{"this", "base"}
	if a.dialect == syntax.V2 {
		names[1] = "super"
	}
	for _, name := range names {
		a.scope.Insert(symbols.NewVar(a.uri, rng, name))
	}
}

// funcLit walks an anonymous function in its own scope.
func (a *Analyzer) funcLit(f *syntax.FuncLit) {
	a.paramDefaults(f.Params)
	restore := a.enterFunc()
	defer restore()
	a.openScope(symbols.FuncScope, "", nil, f.Range())
	defer a.closeScope()

	a.defineParams(f.Params, a.params(f.Params))
	a.expr(f.Body)
}

// ----------------------------------------------------------------------------
// Classes

// declareClass defines the class symbol of d in the current scope and
// opens its member scope. Methods, properties and nested classes are
// declared at once so that class paths and members resolve before the
// class body is walked.
func (a *Analyzer) declareClass(d *syntax.ClassDecl) *symbols.Class {
	if class := a.classes[d]; class != nil {
		return class
	}
	class := symbols.NewClass(a.uri, d.Name.Range(), d.Name.Value)
	class.Builtin = a.builtin
	class.Extends = exprPath(d.Parent)
	a.setDoc(class, d.Pos())
	a.classes[d] = class

	if existing := a.scope.Insert(class); existing != nil {
		a.errorf(d.Name.Range(), CodeRedeclared, "class %s redeclared in this scope", d.Name.Value)
	} else {
		a.res.Defs[d.Name] = class
	}

	a.openScope(symbols.ClassScope, class.Name(), class, d.Range())
	a.hoist(d.Members)
	a.closeScope()
	return class
}

// classDecl walks the members of a class with the class scope current.
func (a *Analyzer) classDecl(d *syntax.ClassDecl) {
	class := a.classes[d]
	if class == nil {
		class = a.declareClass(d)
	}
	if d.Parent != nil {
		a.classRef(d.Parent)
	}

	saved := a.scope
	a.scope = class.MemberScope()
	defer func() { a.scope = saved }()

	a.stmtList(d.Members)
}

// classRef records the use of a class path such as Outer.Inner.
func (a *Analyzer) classRef(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.Name:
		a.use(x, a.scope.Resolve(x.Value))
	case *syntax.SelectorExpr:
		a.classRef(x.X)
	default:
		a.expr(x)
	}
}

// ----------------------------------------------------------------------------
// Properties

// declareProperty defines the property symbol of d in the current class
// scope.
func (a *Analyzer) declareProperty(d *syntax.PropertyDecl) *symbols.Property {
	if prop := a.props[d]; prop != nil {
		return prop
	}
	prop := symbols.NewProperty(a.uri, d.Name.Range(), d.Name.Value)
	prop.Static = d.Static.Text != ""
	a.setDoc(prop, d.Pos())
	a.props[d] = prop

	if existing := a.scope.Insert(prop); existing != nil {
		a.errorf(d.Name.Range(), CodeRedeclared, "property %s redeclared in this class", d.Name.Value)
	} else {
		a.res.Defs[d.Name] = prop
	}
	return prop
}

// propertyDecl walks a dynamic property. Each accessor gets its own
// scope under the class scope.
func (a *Analyzer) propertyDecl(d *syntax.PropertyDecl) {
	if a.scope.Kind() != symbols.ClassScope {
		return
	}
	prop := a.props[d]
	if prop == nil {
		prop = a.declareProperty(d)
	}
	a.paramDefaults(d.Params)

	if d.Arrow != nil {
		prop.Getter = a.accessor(prop, symbols.GetterScope, d, d.Range(), func() {
			a.expr(d.Arrow)
		})
	}
	for _, acc := range d.Accessors {
		kind := symbols.GetterScope
		if acc.IsSetter() {
			kind = symbols.SetterScope
		}
		id := a.accessor(prop, kind, d, acc.Range(), func() {
			if acc.Body != nil {
				a.hoist(acc.Body.Stmts)
				a.stmtList(acc.Body.Stmts)
			}
			if acc.Arrow != nil {
				a.expr(acc.Arrow)
			}
		})
		if kind == symbols.SetterScope {
			prop.Setter = id
		} else {
			prop.Getter = id
		}
	}
}

// accessor opens an accessor scope, defines its implicit variables and
// index parameters, and runs body inside it.
func (a *Analyzer) accessor(prop *symbols.Property, kind symbols.ScopeKind, d *syntax.PropertyDecl, rng syntax.Range, body func()) symbols.ScopeID {
	restore := a.enterFunc()
	defer restore()
	scope := a.openScope(kind, prop.Name(), prop, rng)
	defer a.closeScope()

	a.defineMethodVars(d.Name.Range())
	if kind == symbols.SetterScope {
		a.scope.Insert(symbols.NewVar(a.uri, d.Name.Range(), "value"))
	}
	a.defineParams(d.Params, a.params(d.Params))
	body()
	return scope.ID()
}

// ----------------------------------------------------------------------------
// Variable declarations

// varDecl handles global, local and static declarations.
func (a *Analyzer) varDecl(d *syntax.VarDecl) {
	switch d.Scope.Kind {
	case syntax.Static:
		if a.isGlobal(a.scope) {
			a.errorf(d.Scope.Range(), CodeStaticScope, "static declaration outside of a function or class")
		}
	case syntax.Local:
		if a.isGlobal(a.scope) {
			a.errorf(d.Scope.Range(), CodeLocalScope, "local declaration at global scope")
		}
	case syntax.Global:
		if len(d.Specs.Elems) == 0 && a.fn != nil {
			a.fn.assumeGlobal = true
		}
	}

	for _, spec := range d.Specs.Elems {
		if spec == nil || spec.Name == nil {
			continue
		}
		if spec.Value != nil {
			a.expr(spec.Value)
		}
		sym := a.declareVar(d.Scope.Kind, spec.Name)
		if spec.Value != nil {
			a.setType(sym, a.typeOf(spec.Op.Kind, spec.Value))
		}
	}
}

// declareVar defines name as requested by a declaration keyword and
// returns the symbol visible in the current scope.
func (a *Analyzer) declareVar(kw syntax.TokenKind, name *syntax.Name) symbols.Symbol {
	scope := a.scope
	switch kw {
	case syntax.Static:
		if scope.Kind() == symbols.ClassScope {
			prop := symbols.NewProperty(a.uri, name.Range(), name.Value)
			prop.Static = true
			return a.insert(scope, prop, name)
		}
		v := symbols.NewVar(a.uri, name.Range(), name.Value)
		v.Static = true
		return a.insert(scope, v, name)

	case syntax.Global:
		if a.builtin && a.isGlobal(scope) {
			return a.insert(scope, symbols.NewBuiltinVar(name.Value), name)
		}
		global := a.global()
		if scope == global {
			return a.insert(scope, symbols.NewVar(a.uri, name.Range(), name.Value), name)
		}
		if existing := global.Lookup(name.Value); existing != nil {
			scope.Alias(existing)
			a.use(name, existing)
			return existing
		}
		// First declaration of a global from inside a function defines
		// the name in both scopes.
		global.Insert(symbols.NewVar(a.uri, name.Range(), name.Value))
		return a.insert(scope, symbols.NewVar(a.uri, name.Range(), name.Value), name)
	}

	return a.insert(scope, symbols.NewVar(a.uri, name.Range(), name.Value), name)
}

// ----------------------------------------------------------------------------
// Hotkeys and hotstrings

// hotkeyBody walks the action of a hotkey or hotstring. In v2 the action
// is a function with the ThisHotkey parameter.
func (a *Analyzer) hotkeyBody(name string, rng syntax.Range, body syntax.Stmt) {
	if body == nil {
		return
	}
	if a.dialect == syntax.V1 {
		a.stmt(body)
		return
	}

	restore := a.enterFunc()
	defer restore()
	a.openScope(symbols.FuncScope, name, nil, rng)
	defer a.closeScope()

	a.scope.Insert(symbols.NewParam(a.uri, rng, "ThisHotkey"))
	a.hoistStmt(body)
	a.stmt(body)
}

// ----------------------------------------------------------------------------
// Helpers

// setDoc attaches the comment above pos to sym. Builtin functions tagged
// as commands are marked and the tag is removed.
func (a *Analyzer) setDoc(sym symbols.Symbol, pos syntax.Pos) {
	doc := a.docFor(pos)
	if fn, ok := sym.(*symbols.Func); ok && a.builtin && strings.Contains(doc, commandTag) {
		fn.Command = true
		doc = strings.TrimSpace(strings.Replace(doc, commandTag, "", 1))
	}
	if doc != "" {
		sym.SetDoc(doc)
	}
}

// exprPath returns the dotted name path of a *Name or a chain of
// selectors on a *Name, or nil for any other expression.
func exprPath(x syntax.Expr) []string {
	switch x := x.(type) {
	case *syntax.Name:
		return []string{x.Value}
	case *syntax.SelectorExpr:
		if strings.HasPrefix(x.Sel.Value, "%") {
			return nil
		}
		if path := exprPath(x.X); path != nil {
			return append(path, x.Sel.Value)
		}
	case *syntax.ParenExpr:
		return exprPath(x.X)
	}
	return nil
}

// exprText renders a simple expression, such as a parameter default, as
// source text.
func exprText(x syntax.Expr) string {
	switch x := x.(type) {
	case *syntax.BasicLit:
		return x.Raw
	case *syntax.Name:
		return x.Value
	case *syntax.UnaryExpr:
		if !x.Postfix {
			return strings.TrimSpace(x.Op.Text) + exprText(x.X)
		}
	case *syntax.SelectorExpr:
		if path := exprPath(x); path != nil {
			return strings.Join(path, ".")
		}
	case *syntax.ArrayLit:
		if len(x.Elems.Elems) == 0 {
			return "[]"
		}
	case *syntax.ObjectLit:
		if len(x.Elems.Elems) == 0 {
			return "{}"
		}
	}
	return "..."
}
