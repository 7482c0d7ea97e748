package syntax

// ----------------------------------------------------------------------------
// Declarations

// funcDefFollows reports whether the current name starts a function
// definition: Name(params) followed by { (possibly on the next line) or
// =>. Anything else, such as a call statement, is left to simpleStmt.
func (p *Parser) funcDefFollows() bool {
	if next := p.peek(1); next.Kind != _Lparen || next.Space {
		return false
	}

	m := p.mark()
	defer p.reset(m)

	p.next() // name
	for depth := 0; ; {
		switch p.tok.Kind {
		case _Lparen:
			depth++
		case _Rparen:
			depth--
		case _EOL, _EOF:
			return false
		}
		p.next()
		if depth == 0 {
			break
		}
	}
	if p.tok.Kind == _Arrow {
		return true
	}
	p.gotEOLBefore(_Lbrace)
	return p.tok.Kind == _Lbrace
}

// funcDecl parses a function or method definition at the current name.
func (p *Parser) funcDecl(static Token, start Pos) *FuncDecl {
	d := &FuncDecl{Static: static}

	d.Name = p.memberName()
	d.Lparen = p.want(_Lparen)
	p.paramList(&d.Params, _Rparen)
	d.Rparen = p.want(_Rparen)
	d.Body, d.Arrow = p.funcBody()

	p.finish(d, start)
	return d
}

// funcBody parses a block body or a fat-arrow expression body.
func (p *Parser) funcBody() (*BlockStmt, Expr) {
	if p.got(_Arrow) {
		return nil, p.expr()
	}
	p.gotEOLBefore(_Lbrace)
	return p.blockStmt(), nil
}

// paramList parses parameters up to the closing token.
func (p *Parser) paramList(list *List[*Param], close TokenKind) {
	for p.tok.Kind != close && !p.atLineEnd() {
		list.append(p.param())
		if p.tok.Kind != _Comma {
			break
		}
		list.delim(p.tok)
		p.next()
	}
}

// param parses one parameter:
//
//	[ByRef|&] Name [*] [?] [:= Default]
//	*
func (p *Parser) param() *Param {
	prm := &Param{}
	start := p.tok.Start

	if p.tok.Kind == _ByRef || p.tok.Kind == _And {
		prm.ByRef = p.tok
		p.next()
	}
	if p.tok.Kind == _Mul {
		prm.Star = p.tok
		p.next()
		p.finish(prm, start)
		return prm
	}

	prm.Name = p.name()
	if p.tok.Kind == _Mul {
		prm.Star = p.tok
		p.next()
	}
	if p.tok.Kind == _Question {
		prm.Question = p.tok
		p.next()
	}
	if p.tok.Kind == _Define || p.tok.Kind == _Eql {
		prm.Op = p.tok
		p.next()
		prm.Default = p.binaryExpr(precAssign)
	}

	p.finish(prm, start)
	return prm
}

// classDecl parses: class Name [extends Parent] { members... }
func (p *Parser) classDecl() *ClassDecl {
	d := &ClassDecl{Class: p.tok}
	start := p.tok.Start
	p.next()

	d.Name = p.name()
	if p.tok.Kind == _Extends {
		d.Extends = p.tok
		p.next()
		d.Parent = p.classRef()
	}

	p.gotEOLBefore(_Lbrace)
	d.Lbrace = p.want(_Lbrace)
	if !d.Lbrace.Missing {
		d.Members = p.stmtList(ctxClassMembers, p.classMember)
		d.Rbrace = p.want(_Rbrace)
	} else {
		d.Rbrace = p.missing(_Rbrace)
	}

	p.finish(d, start)
	return d
}

// classRef parses a class reference: Name{.Name}
func (p *Parser) classRef() Expr {
	var x Expr = p.name()
	for p.tok.Kind == _Dot {
		s := &SelectorExpr{X: x, Dot: p.tok}
		p.next()
		s.Sel = p.memberName()
		p.finish(s, x.Pos())
		x = s
	}
	return x
}

// classMember parses one member of a class body: a nested class, a
// method, a property, a static or instance field.
func (p *Parser) classMember() Stmt {
	start := p.tok.Start

	var static Token
	if p.tok.Kind == _Static {
		if !p.memberDeclFollows(1) {
			return p.varDecl()
		}
		static = p.tok
		p.next()
	}

	switch {
	case p.tok.Kind == _Class:
		return p.classDecl()
	case p.memberDeclFollows(0):
		if p.peek(1).Kind == _Lparen {
			return p.funcDecl(static, start)
		}
		return p.propertyDecl(static, start)
	}
	return p.simpleStmt()
}

// memberNameFollows reports whether a keyword in a class body is used as
// the name of a method or property.
func (p *Parser) memberNameFollows() bool {
	return p.memberDeclFollows(0)
}

// memberDeclFollows reports whether the token n positions ahead names a
// method or property: Name(, Name[, Name =>, Name { or Name followed by
// a line starting with {.
func (p *Parser) memberDeclFollows(n int) bool {
	if !isMemberName(p.peek(n)) {
		return false
	}
	switch next := p.peek(n + 1); next.Kind {
	case _Lparen, _Lbrack:
		return !next.Space
	case _Arrow, _Lbrace:
		return true
	case _EOL:
		return p.peek(n+2).Kind == _Lbrace
	}
	return false
}

// isMemberName reports whether tok can name a member. Keywords are
// allowed after a dot and in class bodies.
func isMemberName(tok Token) bool {
	return tok.Kind == _Name || tok.Kind.IsKeyword()
}

// memberName parses a name that may also be a keyword or, after a dot in
// v1, a number.
func (p *Parser) memberName() *Name {
	if isMemberName(p.tok) || p.tok.Kind == _Number {
		n := &Name{Value: p.tok.Text}
		n.setRange(p.tok.Start, p.tok.End)
		p.next()
		return n
	}
	return p.name()
}

// propertyDecl parses a property definition:
//
//	Name[params] { get {...} set {...} }
//	Name => expr
func (p *Parser) propertyDecl(static Token, start Pos) *PropertyDecl {
	d := &PropertyDecl{Static: static}

	d.Name = p.memberName()
	if p.got(_Lbrack) {
		p.paramList(&d.Params, _Rbrack)
		p.want(_Rbrack)
	}

	if p.got(_Arrow) {
		d.Arrow = p.expr()
		p.finish(d, start)
		return d
	}

	p.gotEOLBefore(_Lbrace)
	if lbrace := p.want(_Lbrace); lbrace.Missing {
		p.finish(d, start)
		return d
	}
	for {
		p.skipEOLs()
		if p.tok.Kind == _Rbrace || p.tok.Kind == _EOF {
			break
		}
		if isAccessorName(p.tok) {
			d.Accessors = append(d.Accessors, p.accessor())
			continue
		}
		tok := p.tok
		p.syntaxError("expected get or set, found " + tok.describe())
		p.next()
	}
	p.want(_Rbrace)

	p.finish(d, start)
	return d
}

func isAccessorName(tok Token) bool {
	if tok.Kind != _Name {
		return false
	}
	name := lowerASCII(tok.Text)
	return name == "get" || name == "set"
}

// accessor parses get { ... }, set { ... } or their fat-arrow forms.
func (p *Parser) accessor() *Accessor {
	a := &Accessor{Name: p.tok}
	start := p.tok.Start
	p.next()

	a.Body, a.Arrow = p.funcBody()

	p.finish(a, start)
	return a
}
