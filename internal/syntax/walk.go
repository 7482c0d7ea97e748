package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses a syntax tree in depth-first order.
// If visitor returns false, children are not visited.
// Omitted list elements (nil) are skipped.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		walkStmts(n.Stmts, v)

	// Declarations
	case *VarDecl:
		walkList(&n.Specs, v)

	case *VarSpec:
		walkName(n.Name, v)
		walkExpr(n.Value, v)

	case *FuncDecl:
		walkName(n.Name, v)
		walkList(&n.Params, v)
		if n.Body != nil {
			Walk(n.Body, v)
		}
		walkExpr(n.Arrow, v)

	case *Param:
		walkName(n.Name, v)
		walkExpr(n.Default, v)

	case *ClassDecl:
		walkName(n.Name, v)
		walkExpr(n.Parent, v)
		walkStmts(n.Members, v)

	case *PropertyDecl:
		walkName(n.Name, v)
		walkList(&n.Params, v)
		walkExpr(n.Arrow, v)
		for _, a := range n.Accessors {
			Walk(a, v)
		}

	case *Accessor:
		if n.Body != nil {
			Walk(n.Body, v)
		}
		walkExpr(n.Arrow, v)

	// Expressions
	case *UnaryExpr:
		walkExpr(n.X, v)

	case *BinaryExpr:
		walkExpr(n.X, v)
		walkExpr(n.Y, v)

	case *TernaryExpr:
		walkExpr(n.Cond, v)
		walkExpr(n.Then, v)
		walkExpr(n.Else, v)

	case *ParenExpr:
		walkExpr(n.X, v)

	case *SeqExpr:
		walkList(&n.List, v)

	case *CallExpr:
		walkExpr(n.Fun, v)
		walkList(&n.Args, v)

	case *IndexExpr:
		walkExpr(n.X, v)
		walkList(&n.Index, v)

	case *SelectorExpr:
		walkExpr(n.X, v)
		walkName(n.Sel, v)

	case *ArrayLit:
		walkList(&n.Elems, v)

	case *ObjectLit:
		walkList(&n.Elems, v)

	case *KeyValue:
		walkExpr(n.Key, v)
		walkExpr(n.Value, v)

	case *NewExpr:
		walkExpr(n.Class, v)
		walkList(&n.Args, v)

	case *DerefExpr:
		walkExpr(n.X, v)

	case *TextExpr:
		for _, p := range n.Parts {
			walkExpr(p, v)
		}

	case *FuncLit:
		walkList(&n.Params, v)
		walkExpr(n.Body, v)

	// Statements
	case *BlockStmt:
		walkStmts(n.Stmts, v)

	case *ExprStmt:
		walkExpr(n.X, v)

	case *AssignStmt:
		walkExpr(n.LHS, v)
		walkExpr(n.RHS, v)

	case *CommandStmt:
		walkList(&n.Args, v)

	case *CommandArg:
		walkExpr(n.X, v)

	case *DirectiveStmt:
		walkExpr(n.X, v)

	case *HotkeyStmt:
		walkStmt(n.Body, v)

	case *HotstringStmt:
		walkStmt(n.Body, v)

	case *IfStmt:
		walkExpr(n.Cond, v)
		walkStmt(n.Then, v)
		walkStmt(n.Else, v)

	case *SwitchStmt:
		walkExpr(n.Tag, v)
		for _, c := range n.Cases {
			Walk(c, v)
		}

	case *CaseClause:
		walkList(&n.List, v)
		walkStmts(n.Body, v)

	case *LoopStmt:
		walkList(&n.Args, v)
		walkStmt(n.Body, v)
		walkExpr(n.Until, v)

	case *WhileStmt:
		walkExpr(n.Cond, v)
		walkStmt(n.Body, v)
		walkExpr(n.Until, v)

	case *ForStmt:
		walkName(n.Key, v)
		walkName(n.Value, v)
		walkExpr(n.X, v)
		walkStmt(n.Body, v)
		walkExpr(n.Until, v)

	case *TryStmt:
		walkStmt(n.Body, v)
		if n.Catch != nil {
			Walk(n.Catch, v)
		}
		walkStmt(n.Finally, v)

	case *CatchClause:
		walkExpr(n.Class, v)
		walkName(n.Var, v)
		walkStmt(n.Body, v)

	case *ReturnStmt:
		walkExpr(n.Result, v)

	case *BranchStmt:
		walkExpr(n.Label, v)

	case *ThrowStmt:
		walkExpr(n.X, v)

	case *GotoStmt:
		walkExpr(n.Label, v)

	// Leaf nodes: Name, BasicLit, BadExpr, BadStmt, LabelStmt
	// No children to visit
	}
}

func walkName(n *Name, v Visitor) {
	if n != nil {
		Walk(n, v)
	}
}

func walkExpr(x Expr, v Visitor) {
	if x != nil {
		Walk(x, v)
	}
}

func walkStmt(s Stmt, v Visitor) {
	if s != nil {
		Walk(s, v)
	}
}

func walkStmts(list []Stmt, v Visitor) {
	for _, s := range list {
		walkStmt(s, v)
	}
}

func walkList[T Node](l *List[T], v Visitor) {
	for _, elem := range l.Elems {
		if Node(elem) != nil && !isNilNode(elem) {
			Walk(elem, v)
		}
	}
}

// isNilNode reports whether n holds a nil pointer of one of the element
// types used in lists.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *Param:
		return n == nil
	case *VarSpec:
		return n == nil
	case *KeyValue:
		return n == nil
	case *CommandArg:
		return n == nil
	}
	return false
}

// Inspect traverses a syntax tree and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
