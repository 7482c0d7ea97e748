package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented textual representation of the tree rooted at
// node to w, one node per line:
//
//	AssignStmt 1:1-1:7 op=:=
//	  Name 1:1-1:2 value=x
//	  BasicLit 1:6-1:7 kind=Number value=1
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	var b strings.Builder
	b.WriteString(NodeKind(node))
	b.WriteByte(' ')
	b.WriteString(node.Range().String())
	for _, a := range nodeAttrs(node) {
		b.WriteByte(' ')
		b.WriteString(a.key)
		b.WriteByte('=')
		b.WriteString(a.value)
	}
	p.printf("%s\n", b.String())

	p.indent++
	for _, c := range Children(node) {
		p.print(c)
	}
	p.indent--
}

// NodeKind returns the type name of a node, such as "IfStmt".
func NodeKind(n Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*syntax.")
}

// Children returns the direct children of n in source order, skipping
// omitted list elements.
func Children(n Node) []Node {
	var list []Node
	Walk(n, func(c Node) bool {
		if c == n {
			return true
		}
		list = append(list, c)
		return false
	})
	return list
}

type attr struct {
	key, value string
}

// nodeAttrs returns the scalar properties of a node shown by the printers.
func nodeAttrs(node Node) []attr {
	var attrs []attr
	add := func(key, value string) {
		attrs = append(attrs, attr{key, value})
	}
	flag := func(key string, set bool) {
		if set {
			add(key, "true")
		}
	}
	tok := func(key string, t Token) {
		if t.Text != "" {
			add(key, t.Text)
		}
	}

	switch n := node.(type) {
	case *File:
		add("uri", strconv.Quote(n.URI))
		add("dialect", n.Dialect.String())

	case *VarDecl:
		add("scope", lowerASCII(n.Scope.Text))
	case *VarSpec:
		tok("op", n.Op)
	case *FuncDecl:
		tok("static", n.Static)
	case *Param:
		flag("byref", n.IsByRef())
		flag("variadic", n.IsVariadic())
		flag("optional", n.IsOptional())
	case *PropertyDecl:
		tok("static", n.Static)
	case *Accessor:
		add("name", lowerASCII(n.Name.Text))

	case *Name:
		add("value", n.Value)
	case *BasicLit:
		add("kind", n.Kind.String())
		add("value", strconv.Quote(n.Value))
	case *UnaryExpr:
		add("op", n.Op.Kind.String())
		flag("postfix", n.Postfix)
	case *BinaryExpr:
		add("op", n.Op.Kind.String())
		flag("implicit", n.Implicit)

	case *BadStmt:
		add("tokens", strconv.Itoa(len(n.Tokens)))
	case *AssignStmt:
		add("op", n.Op.Kind.String())
	case *CommandStmt:
		add("name", n.Name.Text)
		flag("call", n.Call)
	case *CommandArg:
		flag("force", n.Force.Kind == _ForceExpr)
	case *DirectiveStmt:
		add("name", n.Name.Text)
		if n.Text.Kind == _Text {
			add("text", strconv.Quote(n.Text.Text))
		}
	case *LabelStmt:
		add("label", n.Label.Text)
	case *HotkeyStmt:
		add("key", strconv.Quote(n.Key()))
		if n.Remap.Kind == _Name {
			add("remap", n.Remap.Text)
		}
	case *HotstringStmt:
		add("options", strconv.Quote(n.Options()))
		add("trigger", strconv.Quote(n.Trigger.Text))
		if n.Replacement.Kind == _Text {
			add("replacement", strconv.Quote(n.Replacement.Text))
		}
	case *CaseClause:
		flag("default", n.Case.Kind == _Default)
	case *LoopStmt:
		add("kind", n.Kind.String())
	case *BranchStmt:
		add("tok", lowerASCII(n.Tok.Text))
	case *GotoStmt:
		add("tok", lowerASCII(n.Tok.Text))
	}
	return attrs
}
