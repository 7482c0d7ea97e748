package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Statements, and Declarations.
// All nodes implement the Node interface. Declarations are statements too:
// AutoHotkey allows functions and classes wherever a statement may appear.

// Node is the interface implemented by all syntax tree nodes.
type Node interface {
	Pos() Pos     // position of first character belonging to the node
	End() Pos     // position of first character immediately after the node
	Range() Range // [Pos, End)
	aNode()       // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for declaration statements.
type Decl interface {
	Stmt
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all nodes.
type node struct {
	pos Pos
	end Pos
}

func (n *node) Pos() Pos     { return n.pos }
func (n *node) End() Pos     { return n.end }
func (n *node) Range() Range { return Range{Start: n.pos, End: n.end} }
func (n *node) aNode()       {}

func (n *node) setRange(pos, end Pos) {
	n.pos = pos
	n.end = end
}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// decl is embedded in all declaration nodes.
type decl struct{ stmt }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// File

// File represents a parsed script.
type File struct {
	node
	URI      string
	Dialect  Dialect
	Stmts    []Stmt
	Comments []Comment
}

// ----------------------------------------------------------------------------
// Declarations

// VarDecl represents a scope declaration: global x, y := 1
// Scope is the global, local or static keyword.
type VarDecl struct {
	decl
	Scope Token
	Specs List[*VarSpec]
}

// VarSpec is one name of a VarDecl with its optional initializer.
type VarSpec struct {
	node
	Name  *Name
	Op    Token // := or =; zero Token if there is no initializer
	Value Expr  // nil if there is no initializer
}

// FuncDecl represents a function or method declaration.
// Name(Params) { Body } or Name(Params) => Arrow
type FuncDecl struct {
	decl
	Static Token // static keyword for static methods; zero Token otherwise
	Name   *Name
	Lparen Token
	Params List[*Param]
	Rparen Token
	Body   *BlockStmt // nil for a fat-arrow function
	Arrow  Expr       // expression body; nil for a block body
}

// Param represents a function parameter.
//
//	ByRef x, &x        by reference
//	x := 1, x = 1      optional with default
//	x*, *              variadic (Name is nil for a bare *)
//	x?                 optional without default (v2)
type Param struct {
	node
	ByRef    Token // ByRef keyword or & operator; zero Token otherwise
	Name     *Name // nil for a bare *
	Star     Token // * of a variadic parameter; zero Token otherwise
	Question Token // ? of an optional parameter; zero Token otherwise
	Op       Token // := or = before a default value; zero Token otherwise
	Default  Expr  // default value; nil if none
}

// IsByRef reports whether the parameter is passed by reference.
func (p *Param) IsByRef() bool { return p.ByRef.Kind == _ByRef || p.ByRef.Kind == _And }

// IsVariadic reports whether the parameter collects the remaining arguments.
func (p *Param) IsVariadic() bool { return p.Star.Kind == _Mul }

// IsOptional reports whether the parameter may be omitted.
func (p *Param) IsOptional() bool {
	return p.Default != nil || p.Question.Kind == _Question || p.IsVariadic()
}

// ClassDecl represents a class declaration.
// class Name [extends Parent] { Members }
type ClassDecl struct {
	decl
	Class   Token
	Name    *Name
	Extends Token // zero Token when there is no base class
	Parent  Expr  // *Name or *SelectorExpr; nil when there is no base class
	Lbrace  Token
	Members []Stmt
	Rbrace  Token
}

// PropertyDecl represents a dynamic property.
//
//	Name[Params] { get {...} set {...} }
//	Name => Expr
type PropertyDecl struct {
	decl
	Static    Token
	Name      *Name
	Params    List[*Param] // index parameters in [ ]; empty if none
	Arrow     Expr         // fat-arrow getter; nil otherwise
	Accessors []*Accessor
}

// Accessor is the get or set body of a PropertyDecl.
type Accessor struct {
	node
	Name  Token      // get or set (a name token)
	Body  *BlockStmt // nil for a fat-arrow accessor
	Arrow Expr
}

// IsSetter reports whether the accessor is the setter.
func (a *Accessor) IsSetter() bool { return lowerASCII(a.Name.Text) == "set" }

// ----------------------------------------------------------------------------
// Expressions

// BadExpr is a placeholder for an expression that failed to parse.
type BadExpr struct {
	expr
}

// Name represents an identifier.
type Name struct {
	expr
	Value string // identifier as written
}

// LitKind is the kind of a BasicLit.
type LitKind uint8

const (
	NumberLit LitKind = iota
	StringLit
)

func (k LitKind) String() string {
	if k == StringLit {
		return "String"
	}
	return "Number"
}

// BasicLit represents a number or string literal.
type BasicLit struct {
	expr
	Kind  LitKind
	Raw   string // source text
	Value string // decoded value (strings are unquoted)
}

// UnaryExpr represents a prefix or postfix operation.
// A postfix * is the spread marker: f(args*).
type UnaryExpr struct {
	expr
	Op      Token
	X       Expr
	Postfix bool
}

// BinaryExpr represents a binary operation, including assignment
// operators inside expressions. Implicit is set for concatenation by
// juxtaposition ("a" b), whose Op is a zero-width _Concat token.
type BinaryExpr struct {
	expr
	Op       Token
	X        Expr
	Y        Expr
	Implicit bool
}

// TernaryExpr represents Cond ? Then : Else.
type TernaryExpr struct {
	expr
	Cond     Expr
	Question Token
	Then     Expr
	Colon    Token
	Else     Expr
}

// ParenExpr represents a parenthesized expression: (X)
type ParenExpr struct {
	expr
	Lparen Token
	X      Expr
	Rparen Token
}

// SeqExpr represents comma-separated expressions evaluated in order.
type SeqExpr struct {
	expr
	List List[Expr]
}

// CallExpr represents a function call: Fun(Args...)
// Omitted arguments are nil elements of Args.
type CallExpr struct {
	expr
	Fun    Expr
	Lparen Token
	Args   List[Expr]
	Rparen Token
}

// IndexExpr represents an index expression: X[Index...]
type IndexExpr struct {
	expr
	X      Expr
	Lbrack Token
	Index  List[Expr]
	Rbrack Token
}

// SelectorExpr represents member access: X.Sel
type SelectorExpr struct {
	expr
	X   Expr
	Dot Token
	Sel *Name
}

// ArrayLit represents [a, b, c].
type ArrayLit struct {
	expr
	Lbrack Token
	Elems  List[Expr]
	Rbrack Token
}

// ObjectLit represents {key: value, ...}.
type ObjectLit struct {
	expr
	Lbrace Token
	Elems  List[*KeyValue]
	Rbrace Token
}

// KeyValue is one entry of an ObjectLit.
type KeyValue struct {
	expr
	Key   Expr // *Name, *BasicLit or *DerefExpr
	Colon Token
	Value Expr
}

// NewExpr represents new Class(Args...) (v1).
type NewExpr struct {
	expr
	New    Token
	Class  Expr // *Name or *SelectorExpr
	Lparen Token
	Args   List[Expr]
	Rparen Token
}

// DerefExpr represents %X%: a dynamic variable reference.
type DerefExpr struct {
	expr
	Lpercent Token
	X        Expr
	Rpercent Token
}

// TextExpr represents literal command text. Parts are string literals
// (Kind StringLit, Raw text) interleaved with dereferences.
type TextExpr struct {
	expr
	Parts []Expr
}

// FuncLit represents an anonymous fat-arrow function: (a, b) => a + b
type FuncLit struct {
	expr
	Params List[*Param]
	Arrow  Token
	Body   Expr
}

// ----------------------------------------------------------------------------
// Statements

// BadStmt holds tokens the parser could not place in the tree.
// Tokens are marked Skipped; a BadStmt may also be empty and zero-width
// where a required statement is missing.
type BadStmt struct {
	stmt
	Tokens []Token
}

// BlockStmt represents a braced block: { Stmts... }
type BlockStmt struct {
	stmt
	Lbrace Token
	Stmts  []Stmt
	Rbrace Token
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// AssignStmt represents a statement-level assignment: LHS op RHS.
// For a v1 legacy assignment (x = text) Op is = and RHS is a TextExpr.
type AssignStmt struct {
	stmt
	LHS Expr
	Op  Token
	RHS Expr
}

// CommandStmt represents a command invocation.
// In v1 it is a legacy command with literal arguments; in v2 (Call set)
// it is a function called without parentheses: MsgBox "hi", "title".
type CommandStmt struct {
	stmt
	Name Token
	Args List[*CommandArg] // omitted arguments are nil
	Call bool
}

// CommandArg is one argument of a CommandStmt. X is a TextExpr for
// literal text, or an expression when Force holds the "% " marker or the
// command is a v2 call.
type CommandArg struct {
	expr
	Force Token
	X     Expr
}

// IsExpr reports whether the argument was written as an expression.
func (a *CommandArg) IsExpr() bool {
	_, text := a.X.(*TextExpr)
	return !text
}

// DirectiveStmt represents #Name [Text] or #If Expr.
type DirectiveStmt struct {
	stmt
	Name Token
	Text Token // argument text; zero Token if none
	X    Expr  // expression argument of #If / #HotIf
}

// LabelStmt represents Name:
type LabelStmt struct {
	stmt
	Label Token // Text holds the name
}

// HotkeyStmt represents a hotkey: ^!a:: [Body]
type HotkeyStmt struct {
	stmt
	Keys  []Token // modifiers, keys, &, UP
	Mark  Token   // ::
	Remap Token   // target key of a v1 remap such as a::b
	Body  Stmt    // same-line action or block; nil when the action follows
}

// Key returns the hotkey as written, without the closing "::".
func (h *HotkeyStmt) Key() string {
	var b []byte
	for i, tok := range h.Keys {
		if i > 0 && tok.Space {
			b = append(b, ' ')
		}
		b = append(b, tok.Text...)
	}
	return string(b)
}

// HotstringStmt represents :options:trigger::replacement
type HotstringStmt struct {
	stmt
	Open        Token // :options:
	Trigger     Token
	Mark        Token
	Replacement Token // zero Token when absent
	Body        Stmt  // action for the X option or a following block
}

// Options returns the option letters between the leading colons.
func (h *HotstringStmt) Options() string {
	text := h.Open.Text
	if len(text) < 2 {
		return ""
	}
	return text[1 : len(text)-1]
}

// IfStmt represents if Cond Then [else Else].
type IfStmt struct {
	stmt
	If   Token
	Cond Expr
	Then Stmt
	Else Stmt // nil, *IfStmt, *BlockStmt or any statement
}

// SwitchStmt represents switch [Tag] { Cases... }
type SwitchStmt struct {
	stmt
	Tag    Expr // nil for a tagless switch
	Lbrace Token
	Cases  []*CaseClause
	Rbrace Token
}

// CaseClause represents case a, b: Body or default: Body.
type CaseClause struct {
	stmt
	Case  Token      // case or default
	List  List[Expr] // empty for default
	Colon Token
	Body  []Stmt
}

// LoopKind distinguishes the forms of the loop statement.
type LoopKind uint8

const (
	LoopPlain LoopKind = iota // loop
	LoopCount                 // loop n
	LoopParse                 // loop parse, s, delims
	LoopRead                  // loop read, in, out
	LoopFiles                 // loop files, pattern
	LoopReg                   // loop reg, key
)

var loopKindNames = [...]string{
	LoopPlain: "plain",
	LoopCount: "count",
	LoopParse: "parse",
	LoopRead:  "read",
	LoopFiles: "files",
	LoopReg:   "reg",
}

func (k LoopKind) String() string {
	if int(k) < len(loopKindNames) {
		return loopKindNames[k]
	}
	return "loop"
}

// LoopStmt represents loop [Kind,] [Args] Body [until Until].
// Args are TextExprs in v1 literal form, expressions otherwise.
type LoopStmt struct {
	stmt
	Loop  Token
	Kind  LoopKind
	Args  List[Expr]
	Body  Stmt
	Until Expr // nil if there is no until clause
}

// WhileStmt represents while Cond Body [until Until].
type WhileStmt struct {
	stmt
	Cond  Expr
	Body  Stmt
	Until Expr
}

// ForStmt represents for Key [, Value] in X Body [until Until].
type ForStmt struct {
	stmt
	Key   *Name
	Value *Name // nil if only one variable
	In    Token
	X     Expr
	Body  Stmt
	Until Expr
}

// TryStmt represents try Body [catch ...] [finally Finally].
type TryStmt struct {
	stmt
	Body    Stmt
	Catch   *CatchClause // nil if absent
	Finally Stmt         // nil if absent
}

// CatchClause represents catch [Class] [as] [Var] Body.
type CatchClause struct {
	stmt
	Class Expr // error class filter (v2); nil if absent
	Var   *Name
	Body  Stmt
}

// ReturnStmt represents return [Result].
type ReturnStmt struct {
	stmt
	Result Expr // nil for a bare return
}

// BranchStmt represents break or continue with an optional label.
type BranchStmt struct {
	stmt
	Tok   Token // _Break or _Continue
	Label Expr  // nil if absent
}

// ThrowStmt represents throw [X].
type ThrowStmt struct {
	stmt
	X Expr
}

// GotoStmt represents goto Label or gosub Label.
type GotoStmt struct {
	stmt
	Tok   Token // _Goto or _Gosub
	Label Expr  // *Name, *TextExpr or a forced expression
}

// lowerASCII lower-cases ASCII letters in s.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = byte(lower(rune(c)))
	}
	return string(b)
}
