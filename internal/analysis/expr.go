package analysis

import (
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

func (a *Analyzer) exprList(list []syntax.Expr) {
	for _, x := range list {
		a.expr(x)
	}
}

// expr walks an expression, resolving the names it references.
func (a *Analyzer) expr(x syntax.Expr) {
	switch x := x.(type) {
	case nil, *syntax.BadExpr, *syntax.BasicLit:
		// nothing to do

	case *syntax.Name:
		a.ident(x)

	case *syntax.UnaryExpr:
		// &x in v2 passes an output variable, which it defines.
		if name, ok := x.X.(*syntax.Name); ok && !x.Postfix && x.Op.Kind == syntax.And && a.dialect == syntax.V2 {
			a.implicitVar(name)
			return
		}
		a.expr(x.X)

	case *syntax.BinaryExpr:
		if x.Op.Kind.IsAssign() {
			a.assign(x.X, x.Op.Kind, x.Y)
			return
		}
		a.expr(x.X)
		a.expr(x.Y)

	case *syntax.TernaryExpr:
		a.expr(x.Cond)
		a.expr(x.Then)
		a.expr(x.Else)

	case *syntax.ParenExpr:
		a.expr(x.X)

	case *syntax.SeqExpr:
		a.exprList(x.List.Elems)

	case *syntax.CallExpr:
		a.call(x)

	case *syntax.IndexExpr:
		a.expr(x.X)
		a.exprList(x.Index.Elems)

	case *syntax.SelectorExpr:
		a.expr(x.X)

	case *syntax.ArrayLit:
		a.exprList(x.Elems.Elems)

	case *syntax.ObjectLit:
		for _, kv := range x.Elems.Elems {
			if kv == nil {
				continue
			}
			if _, ok := kv.Key.(*syntax.Name); !ok {
				a.expr(kv.Key)
			}
			a.expr(kv.Value)
		}

	case *syntax.NewExpr:
		a.classRef(x.Class)
		a.exprList(x.Args.Elems)
		if path := exprPath(x.Class); path != nil {
			a.callSite(append(path, "__New"), x.Args.Elems, x.Pos())
		}

	case *syntax.DerefExpr:
		a.expr(x.X)

	case *syntax.TextExpr:
		a.exprList(x.Parts)

	case *syntax.FuncLit:
		a.funcLit(x)

	case *syntax.CommandArg:
		a.expr(x.X)

	case *syntax.KeyValue:
		a.expr(x.Value)

	default:
		logger().Debug("unhandled expression", "kind", syntax.NodeKind(x), "pos", x.Pos())
	}
}

// ident resolves a name used as a value and warns when it is undefined.
func (a *Analyzer) ident(name *syntax.Name) {
	if sym := a.scope.Resolve(name.Value); sym != nil {
		a.use(name, sym)
		return
	}
	if a.builtin {
		return
	}
	msg := "undefined variable " + name.Value
	if s := suggest(name.Value, a.visibleNames()); s != "" {
		msg += "; did you mean " + s + "?"
	}
	a.warnf(name.Range(), CodeUndefinedVar, "%s", msg)
}

// call walks a call expression and records its call site. A plain name
// as call target is not reported when undefined: functions may come from
// libraries the analyzer does not see.
func (a *Analyzer) call(c *syntax.CallExpr) {
	switch fun := c.Fun.(type) {
	case *syntax.Name:
		a.use(fun, a.scope.Resolve(fun.Value))
	default:
		a.expr(fun)
	}
	a.exprList(c.Args.Elems)
	if path := exprPath(c.Fun); path != nil {
		a.callSite(path, c.Args.Elems, c.Pos())
	}
}

func (a *Analyzer) callSite(path []string, args []syntax.Expr, site syntax.Pos) {
	cs := &CallSite{CalleePath: path, Site: site}
	for _, arg := range args {
		if arg == nil {
			cs.ArgPositions = append(cs.ArgPositions, nil)
			continue
		}
		pos := arg.Pos()
		cs.ArgPositions = append(cs.ArgPositions, &pos)
	}
	a.res.CallSites = append(a.res.CallSites, cs)
}

// ----------------------------------------------------------------------------
// Assignments

// assign handles lhs op rhs. Assigning to a name that does not resolve
// defines it: as a variable, or as a property in a class body. Assigning
// to this.name inside a method defines a property of the class.
func (a *Analyzer) assign(lhs syntax.Expr, op syntax.TokenKind, rhs syntax.Expr) {
	a.expr(rhs)

	var sym symbols.Symbol
	switch x := lhs.(type) {
	case *syntax.Name:
		sym = a.assignName(x)
	case *syntax.SelectorExpr:
		if isThis(x.X) {
			sym = a.assignThis(x)
		} else {
			a.expr(x.X)
		}
	default:
		a.expr(lhs)
	}

	if sym != nil {
		a.setType(sym, a.typeOf(op, rhs))
	}
}

func (a *Analyzer) assignName(name *syntax.Name) symbols.Symbol {
	if a.scope.Kind() == symbols.ClassScope {
		if sym := a.scope.Lookup(name.Value); sym != nil {
			a.use(name, sym)
			return sym
		}
		return a.insert(a.scope, symbols.NewProperty(a.uri, name.Range(), name.Value), name)
	}
	return a.implicitVar(name)
}

// assignThis defines the property written by this.name := value.
func (a *Analyzer) assignThis(x *syntax.SelectorExpr) symbols.Symbol {
	this := x.X.(*syntax.Name)
	class := a.methodClass()
	if class == nil {
		a.errorf(x.Range(), CodeThisOutsideMethod, "%s.%s assigned outside of a class method", this.Value, x.Sel.Value)
		return nil
	}
	a.use(this, a.scope.Resolve(this.Value))
	if strings.HasPrefix(x.Sel.Value, "%") {
		return nil
	}
	if sym := class.ResolveProp(x.Sel.Value); sym != nil {
		a.use(x.Sel, sym)
		return sym
	}
	return a.insert(class, symbols.NewProperty(a.uri, x.Sel.Range(), x.Sel.Value), x.Sel)
}

func isThis(x syntax.Expr) bool {
	name, ok := x.(*syntax.Name)
	return ok && symbols.Key(name.Value) == "this"
}

// ----------------------------------------------------------------------------
// Type tags

// typeOf returns the class path of the value assigned by op, or nil when
// nothing is known. Only := carries a type; other assignments clear it.
func (a *Analyzer) typeOf(op syntax.TokenKind, x syntax.Expr) []string {
	if op != syntax.Define {
		return nil
	}
	return a.exprType(x)
}

func (a *Analyzer) exprType(x syntax.Expr) []string {
	switch x := x.(type) {
	case *syntax.ParenExpr:
		return a.exprType(x.X)
	case *syntax.NewExpr:
		return exprPath(x.Class)
	case *syntax.CallExpr:
		path := exprPath(x.Fun)
		if len(path) == 1 && symbols.Key(path[0]) == "fileopen" {
			return []string{"File"}
		}
		if a.dialect == syntax.V2 && path != nil && a.scope.ResolveClass(path) != nil {
			return path
		}
	}
	return nil
}

type typedSymbol interface {
	SetType(path []string)
}

// setType records the type tag of sym. The last assignment wins. Symbols
// of included and builtin tables are shared between analyses and keep
// their tags.
func (a *Analyzer) setType(sym symbols.Symbol, path []string) {
	if !a.table.Owns(sym) {
		return
	}
	if t, ok := sym.(typedSymbol); ok {
		t.SetType(path)
	}
}
