package analysis

import (
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

func (a *Analyzer) stmtList(list []syntax.Stmt) {
	for _, s := range list {
		a.stmt(s)
	}
}

func (a *Analyzer) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case nil, *syntax.BadStmt, *syntax.LabelStmt:
		// nothing to do

	case *syntax.BlockStmt:
		a.stmtList(s.Stmts)

	case *syntax.ExprStmt:
		a.expr(s.X)

	case *syntax.AssignStmt:
		a.assign(s.LHS, s.Op.Kind, s.RHS)

	case *syntax.VarDecl:
		a.varDecl(s)

	case *syntax.FuncDecl:
		a.funcDecl(s)

	case *syntax.ClassDecl:
		a.classDecl(s)

	case *syntax.PropertyDecl:
		a.propertyDecl(s)

	case *syntax.CommandStmt:
		a.command(s)

	case *syntax.DirectiveStmt:
		a.directive(s)

	case *syntax.HotkeyStmt:
		a.hotkeyBody(s.Key(), s.Range(), s.Body)

	case *syntax.HotstringStmt:
		a.hotkeyBody(s.Trigger.Text, s.Range(), s.Body)

	case *syntax.IfStmt:
		a.expr(s.Cond)
		a.stmt(s.Then)
		a.stmt(s.Else)

	case *syntax.SwitchStmt:
		a.expr(s.Tag)
		for _, c := range s.Cases {
			a.exprList(c.List.Elems)
			a.stmtList(c.Body)
		}

	case *syntax.LoopStmt:
		a.exprList(s.Args.Elems)
		a.stmt(s.Body)
		a.expr(s.Until)

	case *syntax.WhileStmt:
		a.expr(s.Cond)
		a.stmt(s.Body)
		a.expr(s.Until)

	case *syntax.ForStmt:
		a.expr(s.X)
		a.implicitVar(s.Key)
		a.implicitVar(s.Value)
		a.stmt(s.Body)
		a.expr(s.Until)

	case *syntax.TryStmt:
		a.stmt(s.Body)
		if c := s.Catch; c != nil {
			if c.Class != nil {
				a.classRef(c.Class)
			}
			a.implicitVar(c.Var)
			a.stmt(c.Body)
		}
		a.stmt(s.Finally)

	case *syntax.ReturnStmt:
		a.expr(s.Result)

	case *syntax.ThrowStmt:
		a.expr(s.X)

	case *syntax.BranchStmt:
		if name, ok := s.Label.(*syntax.Name); ok {
			a.label(name.Value, name.Range())
		} else {
			a.expr(s.Label)
		}

	case *syntax.GotoStmt:
		a.gotoStmt(s)

	default:
		logger().Debug("unhandled statement", "kind", syntax.NodeKind(s), "pos", s.Pos())
	}
}

// implicitVar defines name in the current scope unless it already
// resolves. Loop and catch variables are defined this way.
func (a *Analyzer) implicitVar(name *syntax.Name) symbols.Symbol {
	if name == nil {
		return nil
	}
	if sym := a.scope.Resolve(name.Value); sym != nil {
		a.use(name, sym)
		return sym
	}
	return a.insert(a.defScope(), symbols.NewVar(a.uri, name.Range(), name.Value), name)
}

// defScope returns the scope implicit variables are defined in.
func (a *Analyzer) defScope() *symbols.Scope {
	if a.fn != nil && a.fn.assumeGlobal {
		return a.global()
	}
	return a.scope
}

// ----------------------------------------------------------------------------
// Commands

// command walks a command invocation and records its call site. Output
// variables of builtin v1 commands are defined from their literal
// arguments.
func (a *Analyzer) command(s *syntax.CommandStmt) {
	site := &CallSite{
		CalleePath: []string{s.Name.Text},
		Site:       s.Pos(),
		IsCommand:  !s.Call,
	}
	cmd, _ := a.scope.Resolve(s.Name.Text).(*symbols.Func)

	for i, arg := range s.Args.Elems {
		if arg == nil {
			site.ArgPositions = append(site.ArgPositions, nil)
			continue
		}
		pos := arg.Pos()
		site.ArgPositions = append(site.ArgPositions, &pos)

		if name := outputVar(cmd, i, arg); name != "" && !s.Call {
			if a.scope.Resolve(name) == nil {
				a.defScope().Insert(symbols.NewVar(a.uri, arg.Range(), name))
			}
			continue
		}
		a.expr(arg.X)
	}
	a.res.CallSites = append(a.res.CallSites, site)
}

// outputVar returns the variable name written as the i'th argument of cmd
// when that parameter is an output variable.
func outputVar(cmd *symbols.Func, i int, arg *syntax.CommandArg) string {
	if cmd == nil || !cmd.Command || i >= len(cmd.Params) {
		return ""
	}
	if !strings.HasPrefix(symbols.Key(cmd.Params[i].Name()), "output") {
		return ""
	}
	text, ok := arg.X.(*syntax.TextExpr)
	if !ok || len(text.Parts) != 1 {
		return ""
	}
	lit, ok := text.Parts[0].(*syntax.BasicLit)
	if !ok {
		return ""
	}
	name := strings.TrimSpace(lit.Value)
	if !isIdent(name) {
		return ""
	}
	return name
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '#' || r == '@' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r >= 0x80:
		default:
			return false
		}
	}
	return true
}

// ----------------------------------------------------------------------------
// Jumps

// gotoStmt checks the target of goto and gosub. Dynamic targets are
// walked as expressions.
func (a *Analyzer) gotoStmt(s *syntax.GotoStmt) {
	switch x := s.Label.(type) {
	case *syntax.Name:
		a.label(x.Value, x.Range())
	case *syntax.TextExpr:
		if len(x.Parts) == 1 {
			if lit, ok := x.Parts[0].(*syntax.BasicLit); ok {
				a.label(strings.TrimSpace(lit.Value), x.Range())
				return
			}
		}
		a.expr(x)
	default:
		a.expr(x)
	}
}

// label reports a jump to a label that does not exist.
func (a *Analyzer) label(name string, rng syntax.Range) {
	if name == "" {
		return
	}
	switch a.scope.Resolve(name).(type) {
	case *symbols.Label, *symbols.Hotkey, *symbols.Hotstring:
		return
	}
	a.errorf(rng, CodeUndefinedLabel, "label %s not found", name)
}

// ----------------------------------------------------------------------------
// Directives

func (a *Analyzer) directive(s *syntax.DirectiveStmt) {
	switch strings.ToLower(s.Name.Text) {
	case "#include", "#includeagain":
		a.include(s)
	default:
		a.expr(s.X)
	}
}

// include records an #Include directive and links the included table
// when the resolver can supply it.
func (a *Analyzer) include(s *syntax.DirectiveStmt) {
	raw := strings.TrimSpace(s.Text.Text)
	optional := false
	if len(raw) > 2 && (raw[:2] == "*i" || raw[:2] == "*I") {
		optional = true
		raw = strings.TrimSpace(raw[2:])
	}
	raw = strings.Trim(raw, `"'`)
	if raw == "" {
		return
	}

	inc := &Include{
		Path:  raw,
		Range: s.Range(),
		Again: strings.EqualFold(s.Name.Text, "#IncludeAgain"),
	}
	a.res.Includes = append(a.res.Includes, inc)

	r := a.conf.Includes
	if r == nil {
		return
	}
	resolved, ok := r.ResolveInclude(raw, a.dir)
	if !ok {
		if !optional {
			a.warnf(s.Text.Range(), CodeIncludeNotFound, "cannot find included file %s", raw)
		}
		return
	}
	inc.Resolved = resolved

	if linker, ok := r.(IncludeLinker); ok {
		a.table.AddInclude(linker.IncludeTable(resolved))
	}
}
