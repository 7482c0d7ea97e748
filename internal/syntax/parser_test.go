package syntax

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test helpers

// parseFile parses src and fails the test on any error.
func parseFile(t *testing.T, src string, d Dialect) *File {
	t.Helper()
	res := ParseFile("test.ahk", src, d)
	if res.File == nil {
		t.Fatal("ParseFile returned a nil File")
	}
	for _, err := range res.SyntaxErrors {
		t.Errorf("syntax error: %v", err)
	}
	for _, err := range res.TokenErrors {
		t.Errorf("token error: %v", err.Error())
	}
	return res.File
}

// parseFileWithErrors parses src and returns the tree with the error messages.
func parseFileWithErrors(t *testing.T, src string, d Dialect) (*File, []string) {
	t.Helper()
	var errs []string
	errh := func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	}
	p := NewParser("test.ahk", strings.NewReader(src), d, errh)
	f := p.Parse()
	if f == nil {
		t.Fatal("Parse returned nil")
	}
	return f, errs
}

// onlyStmt returns the single top-level statement of f.
func onlyStmt(t *testing.T, f *File) Stmt {
	t.Helper()
	if len(f.Stmts) != 1 {
		var kinds []string
		for _, s := range f.Stmts {
			kinds = append(kinds, NodeKind(s))
		}
		t.Fatalf("got %d statements %v, want 1", len(f.Stmts), kinds)
	}
	return f.Stmts[0]
}

// parseExpr parses "x := src" and returns the right-hand side.
func parseExpr(t *testing.T, src string, d Dialect) Expr {
	t.Helper()
	f := parseFile(t, "x := "+src, d)
	s, ok := onlyStmt(t, f).(*AssignStmt)
	if !ok {
		t.Fatalf("got %T, want *AssignStmt", f.Stmts[0])
	}
	return s.RHS
}

// exprString renders x with explicit grouping for comparisons.
func exprString(x Expr) string {
	switch x := x.(type) {
	case nil:
		return "nil"
	case *BadExpr:
		return "BAD"
	case *Name:
		return x.Value
	case *BasicLit:
		return x.Raw
	case *UnaryExpr:
		if x.Postfix {
			return "(" + exprString(x.X) + x.Op.Kind.String() + ")"
		}
		return "(" + x.Op.Kind.String() + exprString(x.X) + ")"
	case *BinaryExpr:
		op := strings.TrimSpace(x.Op.Kind.String())
		return "(" + exprString(x.X) + " " + op + " " + exprString(x.Y) + ")"
	case *TernaryExpr:
		return "(" + exprString(x.Cond) + " ? " + exprString(x.Then) + " : " + exprString(x.Else) + ")"
	case *ParenExpr:
		if _, ok := x.X.(*SeqExpr); ok {
			return "(" + exprString(x.X) + ")"
		}
		return exprString(x.X)
	case *SeqExpr:
		return exprList(x.List.Elems)
	case *CallExpr:
		return exprString(x.Fun) + "(" + exprList(x.Args.Elems) + ")"
	case *IndexExpr:
		return exprString(x.X) + "[" + exprList(x.Index.Elems) + "]"
	case *SelectorExpr:
		return exprString(x.X) + "." + x.Sel.Value
	case *ArrayLit:
		return "[" + exprList(x.Elems.Elems) + "]"
	case *ObjectLit:
		var parts []string
		for _, kv := range x.Elems.Elems {
			parts = append(parts, exprString(kv.Key)+": "+exprString(kv.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *NewExpr:
		return "new " + exprString(x.Class) + "(" + exprList(x.Args.Elems) + ")"
	case *DerefExpr:
		return "%" + exprString(x.X) + "%"
	case *TextExpr:
		var b strings.Builder
		for _, p := range x.Parts {
			if lit, ok := p.(*BasicLit); ok {
				b.WriteString(lit.Value)
			} else {
				b.WriteString(exprString(p))
			}
		}
		return "`" + b.String() + "`"
	case *FuncLit:
		var params []string
		for _, p := range x.Params.Elems {
			params = append(params, p.Name.Value)
		}
		return "(" + strings.Join(params, ", ") + ") => " + exprString(x.Body)
	}
	return "?"
}

func exprList(list []Expr) string {
	parts := make([]string, len(list))
	for i, x := range list {
		parts[i] = exprString(x)
	}
	return strings.Join(parts, ", ")
}

// ----------------------------------------------------------------------------
// Expressions

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		d    Dialect
		want string
	}{
		{"precedence", "1 + 2 * 3", V2, "(1 + (2 * 3))"},
		{"left assoc", "a - b - c", V2, "((a - b) - c)"},
		{"parens", "(1 + 2) * 3", V2, "((1 + 2) * 3)"},
		{"power right assoc in v2", "2 ** 3 ** 2", V2, "(2 ** (3 ** 2))"},
		{"power left assoc in v1", "2 ** 3 ** 2", V1, "((2 ** 3) ** 2)"},
		{"unary minus below power", "-2 ** 2", V2, "(-(2 ** 2))"},
		{"logical", "a || b && c", V2, "(a || (b && c))"},
		{"word operators", "a and not b = c", V2, "(a && (not(b = c)))"},
		{"bitwise", "a & b | c ^ d", V2, "((a & b) | (c ^ d))"},
		{"shift below additive", "a << b + c", V2, "(a << (b + c))"},
		{"ternary right assoc", "a ? b : c ? d : e", V2, "(a ? b : (c ? d : e))"},
		{"chained assignment", "a := b += 1", V2, "(a := (b += 1))"},
		{"comparison", "a < b = c", V2, "((a < b) = c)"},
		{"regex match", "s ~= \"\\d+\"", V2, "(s ~= \"\\d+\")"},
		{"is", "x is Integer", V2, "(x is Integer)"},
		{"explicit concat", "a . b", V2, "(a . b)"},
		{"implicit concat", `"a" b`, V2, `("a" . b)`},
		{"implicit concat chain", `a . b c`, V2, "((a . b) . c)"},
		{"implicit concat binds below additive", `"n=" n + 1`, V2, `("n=" . (n + 1))`},
		{"implicit concat with parens", `"x" (y)`, V2, `("x" . y)`},
		{"minus is not concat", "a -1", V2, "(a - 1)"},
		{"postfix increment", "i++ + 1", V2, "((i++) + 1)"},
		{"prefix increment", "++i", V2, "(++i)"},
		{"not", "!a.b", V2, "(!a.b)"},
		{"reference", "&x", V2, "(&x)"},
		{"call", "f(a, , b)", V2, "f(a, nil, b)"},
		{"call trailing comma", "f(a,)", V2, "f(a)"},
		{"spread", "f(args*)", V2, "f((args*))"},
		{"multiply is not spread", "f(a * b)", V2, "f((a * b))"},
		{"unset check", "x?", V2, "(x?)"},
		{"member chain", "obj.m(1)[2].k", V2, "obj.m(1)[2].k"},
		{"keyword member", "obj.class", V2, "obj.class"},
		{"array", "[1, [2, 3]]", V2, "[1, [2, 3]]"},
		{"object", "{a: 1, b: 2}", V2, "{a: 1, b: 2}"},
		{"object string key", `{"k": v}`, V2, `{"k": v}`},
		{"arrow", "(a, b) => a + b", V2, "(a, b) => (a + b)"},
		{"arrow single param", "x => x * 2", V2, "(x) => (x * 2)"},
		{"sequence in parens", "(a := 1, b)", V2, "((a := 1), b)"},
		{"new", "new Foo.Bar(1)", V1, "new Foo.Bar(1)"},
		{"new without args", "new Foo", V1, "new Foo()"},
		{"deref", "%name%", V1, "%name%"},
		{"dynamic member", "obj.%key%", V2, "obj.%key%"},
		{"hex", "0x1F + 1", V2, "(0x1F + 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := parseExpr(t, tt.src, tt.d)
			if got := exprString(x); got != tt.want {
				t.Errorf("parse %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseImplicitConcat(t *testing.T) {
	x := parseExpr(t, `"a" b`, V2)
	b, ok := x.(*BinaryExpr)
	if !ok {
		t.Fatalf("got %T, want *BinaryExpr", x)
	}
	if !b.Implicit || b.Op.Kind != _Concat {
		t.Errorf("Implicit = %v, Op = %v; want implicit concat", b.Implicit, b.Op.Kind)
	}
	if !b.Op.Range().IsEmpty() {
		t.Errorf("implicit operator range = %v, want empty", b.Op.Range())
	}
}

func TestParseStringValues(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"a""b"`, `a"b`},
		{"\"tab`there\"", "tab\there"},
		{"\"\n(\nabc\n)\"", "\nabc\n"},
	}

	for _, tt := range tests {
		lit, ok := parseExpr(t, tt.src, V2).(*BasicLit)
		if !ok || lit.Kind != StringLit {
			t.Fatalf("%q: want a string literal", tt.src)
		}
		if lit.Value != tt.want {
			t.Errorf("%q: Value = %q, want %q", tt.src, lit.Value, tt.want)
		}
	}
}

func TestParseContinuationLine(t *testing.T) {
	f := parseFile(t, "123\n\n+ 99", V2)
	s, ok := onlyStmt(t, f).(*ExprStmt)
	if !ok {
		t.Fatalf("got %T, want *ExprStmt", f.Stmts[0])
	}
	if got := exprString(s.X); got != "(123 + 99)" {
		t.Errorf("got %s, want (123 + 99)", got)
	}
}

// ----------------------------------------------------------------------------
// Declarations

func TestParseFuncDecl(t *testing.T) {
	src := "Add(a, b := 1, c*) {\n    return a + b\n}"
	f := parseFile(t, src, V2)

	fn, ok := onlyStmt(t, f).(*FuncDecl)
	if !ok {
		t.Fatalf("got %T, want *FuncDecl", f.Stmts[0])
	}
	if fn.Name.Value != "Add" {
		t.Errorf("Name = %q, want Add", fn.Name.Value)
	}
	if fn.Params.Len() != 3 {
		t.Fatalf("got %d params, want 3", fn.Params.Len())
	}
	if p := fn.Params.At(0); p.IsOptional() || p.IsVariadic() {
		t.Errorf("param a: optional=%v variadic=%v", p.IsOptional(), p.IsVariadic())
	}
	if p := fn.Params.At(1); !p.IsOptional() || exprString(p.Default) != "1" {
		t.Errorf("param b: optional=%v default=%s", p.IsOptional(), exprString(p.Default))
	}
	if p := fn.Params.At(2); !p.IsVariadic() {
		t.Error("param c is not variadic")
	}
	if fn.Body == nil || len(fn.Body.Stmts) != 1 {
		t.Fatalf("body = %+v, want one statement", fn.Body)
	}
	if _, ok := fn.Body.Stmts[0].(*ReturnStmt); !ok {
		t.Errorf("body[0] = %T, want *ReturnStmt", fn.Body.Stmts[0])
	}
	if fn.Range() != MakeRange(NewPos(0, 0), NewPos(2, 1)) {
		t.Errorf("range = %v, want 1:1-3:2", fn.Range())
	}
}

func TestParseFuncDeclForms(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		d     Dialect
		arrow bool
		byref bool
	}{
		{"brace on next line", "f()\n{\n}", V2, false, false},
		{"fat arrow", "Sq(x) => x * x", V2, true, false},
		{"byref v1", "Swap(ByRef a, ByRef b) {\n}", V1, false, true},
		{"ref v2", "Swap(&a, &b) {\n}", V2, false, true},
		{"nested parens in default", "f(a := (1 + 2)) {\n}", V2, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFile(t, tt.src, tt.d)
			fn, ok := onlyStmt(t, f).(*FuncDecl)
			if !ok {
				t.Fatalf("got %T, want *FuncDecl", f.Stmts[0])
			}
			if (fn.Arrow != nil) != tt.arrow || (fn.Body != nil) == tt.arrow {
				t.Errorf("Arrow = %v, Body = %v; want arrow=%v", fn.Arrow, fn.Body, tt.arrow)
			}
			for _, p := range fn.Params.Elems {
				if p.IsByRef() != tt.byref {
					t.Errorf("param %s: IsByRef() = %v, want %v", p.Name.Value, p.IsByRef(), tt.byref)
				}
			}
		})
	}
}

func TestParseCallIsNotFuncDecl(t *testing.T) {
	f := parseFile(t, "f(1)\nx := 2", V2)
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(f.Stmts))
	}
	s, ok := f.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("got %T, want *ExprStmt", f.Stmts[0])
	}
	if _, ok := s.X.(*CallExpr); !ok {
		t.Errorf("got %T, want *CallExpr", s.X)
	}
}

func TestParseVarDecl(t *testing.T) {
	f := parseFile(t, "f() {\n    global a, b := 1\n    static n := 0\n    local\n}", V2)
	fn := onlyStmt(t, f).(*FuncDecl)
	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(fn.Body.Stmts))
	}

	g := fn.Body.Stmts[0].(*VarDecl)
	if g.Scope.Kind != _Global || g.Specs.Len() != 2 {
		t.Errorf("global decl: scope=%v specs=%d", g.Scope.Kind, g.Specs.Len())
	}
	if g.Specs.At(1).Value == nil {
		t.Error("b has no initializer")
	}

	s := fn.Body.Stmts[1].(*VarDecl)
	if s.Scope.Kind != _Static || s.Specs.At(0).Name.Value != "n" {
		t.Errorf("static decl = %+v", s)
	}

	l := fn.Body.Stmts[2].(*VarDecl)
	if l.Scope.Kind != _Local || l.Specs.Len() != 0 {
		t.Errorf("bare local: scope=%v specs=%d", l.Scope.Kind, l.Specs.Len())
	}
}

func TestParseClassDecl(t *testing.T) {
	src := `class Foo extends Bar {
    static count := 0
    x := 1
    __New(a) {
        this.x := a
    }
    Value {
        get {
            return this.x
        }
        set {
            this.x := value
        }
    }
    Area => this.x * 2
    static Make() => Foo()
    class Inner {
    }
}`
	f := parseFile(t, src, V2)
	c, ok := onlyStmt(t, f).(*ClassDecl)
	if !ok {
		t.Fatalf("got %T, want *ClassDecl", f.Stmts[0])
	}
	if c.Name.Value != "Foo" || exprString(c.Parent) != "Bar" {
		t.Errorf("class %s extends %s", c.Name.Value, exprString(c.Parent))
	}

	want := []string{"VarDecl", "AssignStmt", "FuncDecl", "PropertyDecl", "PropertyDecl", "FuncDecl", "ClassDecl"}
	if len(c.Members) != len(want) {
		var got []string
		for _, m := range c.Members {
			got = append(got, NodeKind(m))
		}
		t.Fatalf("members = %v, want %v", got, want)
	}
	for i, m := range c.Members {
		if NodeKind(m) != want[i] {
			t.Errorf("member %d = %s, want %s", i, NodeKind(m), want[i])
		}
	}

	value := c.Members[3].(*PropertyDecl)
	if len(value.Accessors) != 2 || value.Accessors[0].IsSetter() || !value.Accessors[1].IsSetter() {
		t.Errorf("Value accessors = %+v", value.Accessors)
	}
	if area := c.Members[4].(*PropertyDecl); area.Arrow == nil {
		t.Error("Area has no arrow body")
	}
	if mk := c.Members[5].(*FuncDecl); mk.Static.Kind != _Static || mk.Arrow == nil {
		t.Errorf("Make: static=%v arrow=%v", mk.Static.Kind, mk.Arrow)
	}
}

func TestParseClassDeclV1(t *testing.T) {
	src := "class Foo {\n  __New() {\n  }\n  Prop[] {\n    get {\n      return 1\n    }\n  }\n}"
	f := parseFile(t, src, V1)
	c := onlyStmt(t, f).(*ClassDecl)
	if len(c.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(c.Members))
	}
	p, ok := c.Members[1].(*PropertyDecl)
	if !ok {
		t.Fatalf("member 1 = %T, want *PropertyDecl", c.Members[1])
	}
	if p.Name.Value != "Prop" || len(p.Accessors) != 1 {
		t.Errorf("property %s with %d accessors", p.Name.Value, len(p.Accessors))
	}
}

// ----------------------------------------------------------------------------
// Statements

func TestParseIfElse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		d    Dialect
		then string
		els  string
	}{
		{"next line bodies", "if (x > 1)\n  y := 1\nelse\n  y := 2", V2, "AssignStmt", "AssignStmt"},
		{"one true brace", "if x {\n  a()\n} else {\n  b()\n}", V2, "BlockStmt", "BlockStmt"},
		{"else on own line", "if x\n{\n}\nelse\n{\n}", V1, "BlockStmt", "BlockStmt"},
		{"else if", "if a\n  x := 1\nelse if b\n  x := 2", V2, "AssignStmt", "IfStmt"},
		{"no else", "if (x)\n  MsgBox, hi", V1, "CommandStmt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFile(t, tt.src, tt.d)
			s, ok := onlyStmt(t, f).(*IfStmt)
			if !ok {
				t.Fatalf("got %T, want *IfStmt", f.Stmts[0])
			}
			if got := NodeKind(s.Then); got != tt.then {
				t.Errorf("Then = %s, want %s", got, tt.then)
			}
			if tt.els == "" {
				if s.Else != nil {
					t.Errorf("Else = %s, want nil", NodeKind(s.Else))
				}
			} else if s.Else == nil || NodeKind(s.Else) != tt.els {
				t.Errorf("Else = %v, want %s", s.Else, tt.els)
			}
		})
	}
}

func TestParseLoops(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		d     Dialect
		kind  LoopKind
		nargs int
	}{
		{"plain v2", "loop {\n}", V2, LoopPlain, 0},
		{"count v2", "loop 5 {\n}", V2, LoopCount, 1},
		{"parse v2", "loop parse, str, \",\"\n  x := A_LoopField", V2, LoopParse, 2},
		{"files v2", "Loop Files, \"*.txt\"\n{\n}", V2, LoopFiles, 1},
		{"plain v1", "Loop\n{\n}", V1, LoopPlain, 0},
		{"count v1", "Loop 3 {\n}", V1, LoopCount, 1},
		{"parse v1", "Loop, Parse, str, `,\n{\n}", V1, LoopParse, 2},
		{"count deref v1", "Loop, %n%\n  x++", V1, LoopCount, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFile(t, tt.src, tt.d)
			s, ok := onlyStmt(t, f).(*LoopStmt)
			if !ok {
				t.Fatalf("got %T, want *LoopStmt", f.Stmts[0])
			}
			if s.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", s.Kind, tt.kind)
			}
			if s.Args.Len() != tt.nargs {
				t.Errorf("got %d args, want %d", s.Args.Len(), tt.nargs)
			}
			if s.Body == nil {
				t.Error("loop has no body")
			}
		})
	}
}

func TestParseLoopUntil(t *testing.T) {
	f := parseFile(t, "loop {\n  i++\n}\nuntil i > 3", V2)
	s := onlyStmt(t, f).(*LoopStmt)
	if got := exprString(s.Until); got != "(i > 3)" {
		t.Errorf("Until = %s, want (i > 3)", got)
	}
}

func TestParseWhileFor(t *testing.T) {
	f := parseFile(t, "while i < 3\n  i++\nfor k, v in obj {\n}", V2)
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(f.Stmts))
	}

	w := f.Stmts[0].(*WhileStmt)
	if exprString(w.Cond) != "(i < 3)" {
		t.Errorf("while cond = %s", exprString(w.Cond))
	}
	if _, ok := w.Body.(*ExprStmt); !ok {
		t.Errorf("while body = %T, want *ExprStmt", w.Body)
	}

	fs := f.Stmts[1].(*ForStmt)
	if fs.Key.Value != "k" || fs.Value == nil || fs.Value.Value != "v" || exprString(fs.X) != "obj" {
		t.Errorf("for %s, %v in %s", fs.Key.Value, fs.Value, exprString(fs.X))
	}
}

func TestParseTry(t *testing.T) {
	f := parseFile(t, "try {\n} catch Error as e {\n} finally {\n}", V2)
	s := onlyStmt(t, f).(*TryStmt)
	if s.Catch == nil || exprString(s.Catch.Class) != "Error" || s.Catch.Var == nil || s.Catch.Var.Value != "e" {
		t.Errorf("catch = %+v", s.Catch)
	}
	if s.Finally == nil {
		t.Error("missing finally")
	}

	f = parseFile(t, "try\n{\n}\ncatch e\n{\n}", V1)
	s = onlyStmt(t, f).(*TryStmt)
	if s.Catch == nil || s.Catch.Class != nil || s.Catch.Var == nil || s.Catch.Var.Value != "e" {
		t.Errorf("v1 catch = %+v", s.Catch)
	}
}

func TestParseSwitch(t *testing.T) {
	src := "switch x {\ncase 1, 2:\n  a()\n  b()\ndefault:\n  c()\n}"
	f := parseFile(t, src, V2)
	s := onlyStmt(t, f).(*SwitchStmt)
	if exprString(s.Tag) != "x" {
		t.Errorf("Tag = %s, want x", exprString(s.Tag))
	}
	if len(s.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(s.Cases))
	}
	if c := s.Cases[0]; c.List.Len() != 2 || len(c.Body) != 2 {
		t.Errorf("case 0: %d values, %d statements", c.List.Len(), len(c.Body))
	}
	if c := s.Cases[1]; c.Case.Kind != _Default || len(c.Body) != 1 {
		t.Errorf("case 1: kind %v, %d statements", c.Case.Kind, len(c.Body))
	}
}

func TestParseJumps(t *testing.T) {
	f := parseFile(t, "start:\nGoto, start\nGosub start\nreturn\nbreak outer", V1)
	want := []string{"LabelStmt", "GotoStmt", "GotoStmt", "ReturnStmt", "BranchStmt"}
	if len(f.Stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(f.Stmts), len(want))
	}
	for i, s := range f.Stmts {
		if NodeKind(s) != want[i] {
			t.Errorf("stmt %d = %s, want %s", i, NodeKind(s), want[i])
		}
	}
	if l := f.Stmts[0].(*LabelStmt); l.Label.Text != "start" {
		t.Errorf("label = %q, want start", l.Label.Text)
	}
	if g := f.Stmts[1].(*GotoStmt); exprString(g.Label) != "start" {
		t.Errorf("goto label = %s", exprString(g.Label))
	}
	if b := f.Stmts[4].(*BranchStmt); exprString(b.Label) != "outer" {
		t.Errorf("break label = %s", exprString(b.Label))
	}
}

func TestParseReturnThrow(t *testing.T) {
	f := parseFile(t, "f() {\n  if x\n    throw Error(\"bad\")\n  return a, b\n}", V2)
	fn := onlyStmt(t, f).(*FuncDecl)
	ret := fn.Body.Stmts[1].(*ReturnStmt)
	if _, ok := ret.Result.(*SeqExpr); !ok {
		t.Errorf("Result = %T, want *SeqExpr", ret.Result)
	}
	th := fn.Body.Stmts[0].(*IfStmt).Then.(*ThrowStmt)
	if exprString(th.X) != `Error("bad")` {
		t.Errorf("throw %s", exprString(th.X))
	}
}

func TestParseCommands(t *testing.T) {
	f := parseFile(t, "MsgBox, 4, Title, Text %x%\nSleep % t * 2\nSend", V1)
	if len(f.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(f.Stmts))
	}

	m := f.Stmts[0].(*CommandStmt)
	if m.Name.Text != "MsgBox" || m.Call || m.Args.Len() != 3 {
		t.Fatalf("MsgBox: call=%v args=%d", m.Call, m.Args.Len())
	}
	if got := exprString(m.Args.At(2).X); got != "`Text %x%`" {
		t.Errorf("arg 2 = %s", got)
	}
	if m.Args.At(0).IsExpr() {
		t.Error("literal argument reported as expression")
	}

	s := f.Stmts[1].(*CommandStmt)
	if s.Args.Len() != 1 || !s.Args.At(0).IsExpr() || exprString(s.Args.At(0).X) != "(t * 2)" {
		t.Errorf("Sleep forced arg = %s", exprString(s.Args.At(0).X))
	}

	if send := f.Stmts[2].(*CommandStmt); send.Args.Len() != 0 {
		t.Errorf("Send has %d args, want 0", send.Args.Len())
	}
}

func TestParseCommandOmittedArgs(t *testing.T) {
	f := parseFile(t, "WinMove, , , 10, 20", V1)
	c := onlyStmt(t, f).(*CommandStmt)
	if c.Args.Len() != 4 {
		t.Fatalf("got %d args, want 4", c.Args.Len())
	}
	if c.Args.At(0) != nil || c.Args.At(1) != nil {
		t.Error("omitted arguments should be nil")
	}
	if exprString(c.Args.At(3).X) != "`20`" {
		t.Errorf("arg 3 = %s", exprString(c.Args.At(3).X))
	}
}

func TestParseLegacyAssign(t *testing.T) {
	f := parseFile(t, "x = hello, %name%\ny =", V1)
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(f.Stmts))
	}
	a := f.Stmts[0].(*AssignStmt)
	if a.Op.Kind != _Eql || exprString(a.RHS) != "`hello, %name%`" {
		t.Errorf("x = %s (op %v)", exprString(a.RHS), a.Op.Kind)
	}
	b := f.Stmts[1].(*AssignStmt)
	if rhs, ok := b.RHS.(*TextExpr); !ok || len(rhs.Parts) != 0 {
		t.Errorf("y = %s, want empty text", exprString(b.RHS))
	}
}

func TestParseV2CommandCall(t *testing.T) {
	f := parseFile(t, "MsgBox \"hi\", 2\nExitApp\nx - 1\nSend -1", V2)
	if len(f.Stmts) != 4 {
		t.Fatalf("got %d statements, want 4", len(f.Stmts))
	}
	m := f.Stmts[0].(*CommandStmt)
	if !m.Call || m.Args.Len() != 2 {
		t.Errorf("MsgBox: call=%v args=%d", m.Call, m.Args.Len())
	}
	if e := f.Stmts[1].(*CommandStmt); e.Args.Len() != 0 {
		t.Errorf("ExitApp has %d args", e.Args.Len())
	}
	if _, ok := f.Stmts[2].(*ExprStmt); !ok {
		t.Errorf("x - 1 = %T, want *ExprStmt", f.Stmts[2])
	}
	if s := f.Stmts[3].(*CommandStmt); exprString(s.Args.At(0).X) != "(-1)" {
		t.Errorf("Send arg = %s", exprString(s.Args.At(0).X))
	}
}

func TestParseHotkeys(t *testing.T) {
	f := parseFile(t, "^j::\nSend, hi\nreturn\na::b\n~LButton & RButton::MsgBox, both", V1)
	if len(f.Stmts) != 5 {
		t.Fatalf("got %d statements, want 5", len(f.Stmts))
	}

	h := f.Stmts[0].(*HotkeyStmt)
	if h.Key() != "^j" || h.Body != nil {
		t.Errorf("hotkey %q body %v", h.Key(), h.Body)
	}
	if r := f.Stmts[3].(*HotkeyStmt); r.Remap.Text != "b" {
		t.Errorf("remap = %q, want b", r.Remap.Text)
	}
	c := f.Stmts[4].(*HotkeyStmt)
	if c.Key() != "~LButton & RButton" {
		t.Errorf("key = %q", c.Key())
	}
	if _, ok := c.Body.(*CommandStmt); !ok {
		t.Errorf("body = %T, want *CommandStmt", c.Body)
	}
}

func TestParseHotkeyBlockV2(t *testing.T) {
	f := parseFile(t, "^k::\n{\n  MsgBox \"x\"\n}\nF1::MsgBox(\"y\")", V2)
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(f.Stmts))
	}
	if b, ok := f.Stmts[0].(*HotkeyStmt).Body.(*BlockStmt); !ok || len(b.Stmts) != 1 {
		t.Errorf("^k body = %v", f.Stmts[0].(*HotkeyStmt).Body)
	}
	if _, ok := f.Stmts[1].(*HotkeyStmt).Body.(*ExprStmt); !ok {
		t.Errorf("F1 body = %T", f.Stmts[1].(*HotkeyStmt).Body)
	}
}

func TestParseHotstringDirectiveLabel(t *testing.T) {
	f := parseFile(t, ":*:btw::by the way\n#Include lib.ahk\n#HotIf WinActive(\"x\")\nfinish:", V2)
	if len(f.Stmts) != 4 {
		t.Fatalf("got %d statements, want 4", len(f.Stmts))
	}

	hs := f.Stmts[0].(*HotstringStmt)
	if hs.Options() != "*" || hs.Trigger.Text != "btw" || hs.Replacement.Text != "by the way" {
		t.Errorf("hotstring %q %q %q", hs.Options(), hs.Trigger.Text, hs.Replacement.Text)
	}
	inc := f.Stmts[1].(*DirectiveStmt)
	if inc.Name.Text != "#Include" || inc.Text.Text != "lib.ahk" {
		t.Errorf("include %q %q", inc.Name.Text, inc.Text.Text)
	}
	if hif := f.Stmts[2].(*DirectiveStmt); exprString(hif.X) != `WinActive("x")` {
		t.Errorf("#HotIf %s", exprString(hif.X))
	}
	if l := f.Stmts[3].(*LabelStmt); l.Label.Text != "finish" {
		t.Errorf("label %q", l.Label.Text)
	}
}

func TestParseMultilineObject(t *testing.T) {
	f := parseFile(t, "o := {\n  a: 1,\n  b: 2\n}\nx := [1,\n 2]", V2)
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(f.Stmts))
	}
	if got := exprString(f.Stmts[0].(*AssignStmt).RHS); got != "{a: 1, b: 2}" {
		t.Errorf("object = %s", got)
	}
	if got := exprString(f.Stmts[1].(*AssignStmt).RHS); got != "[1, 2]" {
		t.Errorf("array = %s", got)
	}
}

// ----------------------------------------------------------------------------
// Error recovery

func TestParseMissingCloseParen(t *testing.T) {
	f, errs := parseFileWithErrors(t, "if (x > 1", V2)
	if len(errs) == 0 {
		t.Fatal("expected syntax errors")
	}

	s, ok := onlyStmt(t, f).(*IfStmt)
	if !ok {
		t.Fatalf("got %T, want *IfStmt", f.Stmts[0])
	}
	paren, ok := s.Cond.(*ParenExpr)
	if !ok {
		t.Fatalf("Cond = %T, want *ParenExpr", s.Cond)
	}
	if !paren.Rparen.Missing || !paren.Rparen.Range().IsEmpty() {
		t.Errorf("Rparen = %+v, want a missing zero-width token", paren.Rparen)
	}
	if paren.Rparen.Start != NewPos(0, 9) {
		t.Errorf("Rparen at %v, want 1:10", paren.Rparen.Start)
	}
	if _, ok := s.Then.(*BadStmt); !ok {
		t.Errorf("Then = %T, want *BadStmt", s.Then)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []string
	}{
		{"bad expression", "x := )\ny := 2", []string{"AssignStmt", "BadStmt", "AssignStmt"}},
		{"stray brace", "}\nx := 1", []string{"BadStmt", "AssignStmt"}},
		{"stray else", "else\nx := 1", []string{"BadStmt", "AssignStmt"}},
		{"unclosed paren in body", "f() {\n  x := (1 +\n}\ny := 2", []string{"FuncDecl", "AssignStmt"}},
		{"trailing junk", "x := 1 )\ny := 2", []string{"AssignStmt", "BadStmt", "AssignStmt"}},
		{"unclosed block", "f() {\n  x := 1\n", []string{"FuncDecl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, errs := parseFileWithErrors(t, tt.src, V2)
			if len(errs) == 0 {
				t.Error("expected syntax errors")
			}
			var got []string
			for _, s := range f.Stmts {
				got = append(got, NodeKind(s))
			}
			if strings.Join(got, " ") != strings.Join(tt.kinds, " ") {
				t.Errorf("statements = %v, want %v", got, tt.kinds)
			}
		})
	}
}

func TestParseFileNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"(",
		"f(",
		"class",
		"class A extends",
		"switch {",
		"x := {a:",
		"%",
		"::",
		":*:",
		"Loop, %",
		"try catch finally",
		"a ? b",
		"[1, 2",
		"static",
		"#",
	}
	for _, src := range inputs {
		for _, d := range []Dialect{V1, V2} {
			res := ParseFile("test.ahk", src, d)
			if res == nil || res.File == nil {
				t.Fatalf("ParseFile(%q, %v) returned no file", src, d)
			}
			checkRanges(t, src, res.File)
		}
	}
}

// ----------------------------------------------------------------------------
// Ranges

// checkRanges verifies that every node lies within its parent and that
// no range ends before it starts.
func checkRanges(t *testing.T, src string, root Node) {
	t.Helper()
	var check func(parent Node)
	check = func(parent Node) {
		pr := parent.Range()
		if pr.End.Before(pr.Start) {
			t.Errorf("%q: %s range %v is inverted", src, NodeKind(parent), pr)
		}
		for _, c := range Children(parent) {
			if !pr.Contains(c.Range()) {
				t.Errorf("%q: %s %v is outside %s %v", src, NodeKind(c), c.Range(), NodeKind(parent), pr)
			}
			check(c)
		}
	}
	check(root)
}

func TestParseRangesNested(t *testing.T) {
	sources := []string{
		"x := a + b * c\nf(x, , y)[1].z",
		"if (a)\n  b := 1\nelse {\n  c()\n}",
		"class A extends B {\n  m(x := 1) => x\n  p {\n    get => 1\n  }\n}",
		"switch v {\ncase 1:\n  x()\ndefault:\n}",
		"o := {a: [1, 2], b: (x) => x}",
		"^a::Send(\"x\")\n:*:a::b",
	}
	for _, src := range sources {
		res := ParseFile("test.ahk", src, V2)
		checkRanges(t, src, res.File)
	}

	v1 := "MsgBox, % a . b, Text %c%\nx = legacy %y%\nLoop, Parse, s\n{\n}"
	checkRanges(t, v1, ParseFile("test.ahk", v1, V1).File)
}

func TestParseRangesRecovery(t *testing.T) {
	tests := []struct {
		src string
		d   Dialect
	}{
		{"o := {  !x: 1}", V1},
		{"o := {  !x: 1}", V2},
		{"o := {a: 1,  : 2}", V2},
		{"static   := 1", V1},
		{"static   := 1", V2},
		{"MsgBox 1,  *", V2},
		{"A 0\n,\n*", V2},
		{"00&{ !0", V1},
		{"00&{ !0", V2},
	}
	for _, tt := range tests {
		res := ParseFile("test.ahk", tt.src, tt.d)
		if len(res.SyntaxErrors) == 0 {
			t.Errorf("%q: no syntax error", tt.src)
		}
		checkRanges(t, tt.src, res.File)
	}
}

type faultReader struct{}

func (faultReader) Read([]byte) (int, error) {
	panic("read fault")
}

func TestParseReaderFault(t *testing.T) {
	res := parse("fault.ahk", faultReader{}, V2)
	if res == nil || res.File == nil {
		t.Fatal("no file after a reader fault")
	}
	if len(res.SyntaxErrors) != 1 || !strings.Contains(res.SyntaxErrors[0].Msg, "internal parser error: read fault") {
		t.Errorf("syntax errors = %v", res.SyntaxErrors)
	}
}

func TestParseFileRange(t *testing.T) {
	f := parseFile(t, "x := 1\ny := 2\n", V2)
	if f.Pos() != NewPos(0, 0) {
		t.Errorf("file starts at %v, want 1:1", f.Pos())
	}
	if f.End() != NewPos(2, 0) {
		t.Errorf("file ends at %v, want 3:1", f.End())
	}
	if f.URI != "test.ahk" || f.Dialect != V2 {
		t.Errorf("URI = %q, Dialect = %v", f.URI, f.Dialect)
	}
}

// ----------------------------------------------------------------------------
// Printers and traversal

func TestFprint(t *testing.T) {
	f := parseFile(t, "x := 1", V2)
	var buf bytes.Buffer
	Fprint(&buf, f)

	want := `File 1:1-1:7 uri="test.ahk" dialect=v2
  AssignStmt 1:1-1:7 op=:=
    Name 1:1-1:2 value=x
    BasicLit 1:6-1:7 kind=Number value="1"
`
	if got := buf.String(); got != want {
		t.Errorf("Fprint output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFprintJSON(t *testing.T) {
	f := parseFile(t, "f(a) {\n  return a\n}", V2)
	var buf bytes.Buffer
	if err := FprintJSON(&buf, f); err != nil {
		t.Fatal(err)
	}

	var root struct {
		Type     string `json:"type"`
		Children []struct {
			Type  string `json:"type"`
			Range struct {
				End struct {
					Line int `json:"line"`
					Col  int `json:"col"`
				} `json:"end"`
			} `json:"range"`
		} `json:"children"`
	}
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if root.Type != "File" || len(root.Children) != 1 || root.Children[0].Type != "FuncDecl" {
		t.Fatalf("unexpected JSON tree: %s", buf.String())
	}
	if end := root.Children[0].Range.End; end.Line != 2 || end.Col != 1 {
		t.Errorf("FuncDecl end = %d:%d, want 2:1", end.Line, end.Col)
	}
}

func TestWalk(t *testing.T) {
	f := parseFile(t, "f() {\n  x := 1 + 2\n  if x > 0\n    return g(x)\n}", V2)

	var nameCount, ifCount int
	Walk(f, func(n Node) bool {
		switch n.(type) {
		case *Name:
			nameCount++
		case *IfStmt:
			ifCount++
		}
		return true
	})
	// f, x, x, g, x
	if nameCount != 5 {
		t.Errorf("visited %d names, want 5", nameCount)
	}
	if ifCount != 1 {
		t.Errorf("visited %d if statements, want 1", ifCount)
	}

	var visited int
	Inspect(f, func(n Node) bool {
		visited++
		_, isFunc := n.(*FuncDecl)
		return !isFunc
	})
	if visited != 2 {
		t.Errorf("Inspect visited %d nodes with pruning, want 2", visited)
	}
}

func TestParseGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/parse_*.ahk")
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			src, err := os.ReadFile(f)
			if err != nil {
				t.Fatal(err)
			}

			d := V2
			if strings.Contains(f, "_v1") {
				d = V1
			}
			res := ParseFile(f, string(src), d)
			for _, e := range res.SyntaxErrors {
				t.Errorf("syntax error: %v", e)
			}
			checkRanges(t, f, res.File)

			var buf bytes.Buffer
			Fprint(&buf, res.File)
			got := buf.String()

			golden := strings.TrimSuffix(f, ".ahk") + ".ast.golden"

			if os.Getenv("UPDATE_GOLDEN") != "" {
				if err := os.WriteFile(golden, []byte(got), 0644); err != nil {
					t.Fatal(err)
				}
				return
			}

			want, err := os.ReadFile(golden)
			if err != nil {
				// If golden file doesn't exist, create it
				if os.IsNotExist(err) {
					if err := os.WriteFile(golden, []byte(got), 0644); err != nil {
						t.Fatal(err)
					}
					t.Logf("created golden file: %s", golden)
					return
				}
				t.Fatal(err)
			}

			if got != string(want) {
				t.Errorf("AST mismatch for %s\nRun with UPDATE_GOLDEN=1 to update", f)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Fuzz test

func FuzzParse(f *testing.F) {
	seeds := []string{
		"x := 1 + 2 * 3",
		"f(a, b := 1) {\n return a\n}",
		"class A extends B {\n m() {\n }\n}",
		"MsgBox, Hello %name%",
		"^j::Send, hi",
		"if (x > 1",
		"switch x {\ncase 1:\n}",
		"o := {a: [1, 2]}",
		"loop parse, s\n  x++",
		"o := {  !x: 1}",
		"static   := 1",
		"MsgBox 1,  *",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		for _, d := range []Dialect{V1, V2} {
			res := ParseFile("fuzz", src, d)
			if res.File == nil {
				t.Fatalf("no file for %q", src)
			}
			checkRanges(t, src, res.File)
		}
	})
}
