package syntax

// ----------------------------------------------------------------------------
// Expressions

// seqExpr parses a comma-separated expression sequence: a := 1, b := 2
func (p *Parser) seqExpr() Expr {
	x := p.expr()
	if p.tok.Kind != _Comma {
		return x
	}

	s := &SeqExpr{}
	s.List.append(x)
	for p.tok.Kind == _Comma {
		s.List.delim(p.tok)
		p.next()
		if p.atLineEnd() {
			break
		}
		s.List.append(p.expr())
	}

	p.finish(s, x.Pos())
	return s
}

// expr parses a single expression.
func (p *Parser) expr() Expr {
	return p.binaryExpr(precNone)
}

// binaryExpr parses a binary expression whose operators bind tighter than
// prec. Left-associative operators recurse with their own precedence,
// right-associative ones with one less.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()

	for {
		op := p.tok

		switch {
		case op.Kind == _Mul && !p.startsOperand(p.peek(1)):
			// spread argument: f(args*)
			u := &UnaryExpr{Op: op, X: x, Postfix: true}
			p.next()
			p.finish(u, x.Pos())
			x = u
			continue

		case op.Kind == _Question && !p.startsOperand(p.peek(1)):
			// unset check: x?
			u := &UnaryExpr{Op: op, X: x, Postfix: true}
			p.next()
			p.finish(u, x.Pos())
			x = u
			continue

		case precConcat > prec && p.implicitConcatFollows():
			b := &BinaryExpr{
				Op:       Token{Kind: _Concat, Start: p.prevEnd, End: p.prevEnd},
				X:        x,
				Implicit: true,
			}
			b.Y = p.binaryExpr(precConcat)
			p.finish(b, x.Pos())
			x = b
			continue
		}

		oprec := op.Kind.Precedence()
		if oprec <= prec {
			return x
		}

		if op.Kind == _Question {
			x = p.ternaryExpr(x)
			continue
		}

		p.next()
		next := oprec
		if op.Kind.RightAssoc(p.dialect) {
			next--
		}
		b := &BinaryExpr{Op: op, X: x}
		b.Y = p.binaryExpr(next)
		p.finish(b, x.Pos())
		x = b
	}
}

// ternaryExpr parses the rest of Cond ? Then : Else.
func (p *Parser) ternaryExpr(cond Expr) *TernaryExpr {
	t := &TernaryExpr{Cond: cond, Question: p.tok}
	p.next()

	t.Then = p.expr()
	t.Colon = p.want(_Colon)
	t.Else = p.binaryExpr(precTernary - 1)

	p.finish(t, cond.Pos())
	return t
}

// implicitConcatFollows reports whether the current token starts an
// operand that is concatenated to the previous one: "a" b, x (y).
func (p *Parser) implicitConcatFollows() bool {
	if p.noConcat > 0 || !p.tok.Space {
		return false
	}
	switch p.tok.Kind {
	case _Name, _Number, _String, _Percent, _Lparen:
		return true
	case _New:
		return p.dialect == V1
	}
	return false
}

// startsOperand reports whether tok can start an operand.
func (p *Parser) startsOperand(tok Token) bool {
	switch tok.Kind {
	case _Name, _Number, _String, _Lparen, _Lbrack, _Lbrace, _Percent,
		_Not, _KwNot, _Tilde, _Sub, _Add, _And, _Inc, _Dec:
		return true
	case _New:
		return p.dialect == V1
	}
	return false
}

// unaryExpr parses prefix operators.
func (p *Parser) unaryExpr() Expr {
	switch p.tok.Kind {
	case _Not, _Sub, _Add, _Tilde, _And, _Inc, _Dec:
		u := &UnaryExpr{Op: p.tok}
		start := p.tok.Start
		p.next()
		u.X = p.binaryExpr(precUnary)
		p.finish(u, start)
		return u

	case _KwNot:
		u := &UnaryExpr{Op: p.tok}
		start := p.tok.Start
		p.next()
		u.X = p.binaryExpr(precNot)
		p.finish(u, start)
		return u
	}
	return p.postfixExpr()
}

// postfixExpr parses an operand followed by calls, indexes, member
// accesses and postfix increments.
func (p *Parser) postfixExpr() Expr {
	x := p.operand()
	for {
		switch {
		case p.tok.Kind == _Lparen && !p.tok.Space:
			x = p.callExpr(x)
		case p.tok.Kind == _Lbrack && !p.tok.Space:
			x = p.indexExpr(x)
		case p.tok.Kind == _Dot:
			x = p.selectorExpr(x)
		case (p.tok.Kind == _Inc || p.tok.Kind == _Dec) && !p.tok.Space:
			u := &UnaryExpr{Op: p.tok, X: x, Postfix: true}
			p.next()
			p.finish(u, x.Pos())
			x = u
		default:
			return x
		}
	}
}

// operand parses a primary expression.
func (p *Parser) operand() Expr {
	switch p.tok.Kind {
	case _Name:
		if p.peek(1).Kind == _Arrow {
			return p.funcLit()
		}
		return p.name()

	case _Number:
		lit := &BasicLit{Kind: NumberLit, Raw: p.tok.Text, Value: p.tok.Text}
		lit.setRange(p.tok.Start, p.tok.End)
		p.next()
		return lit

	case _String:
		lit := &BasicLit{Kind: StringLit, Raw: p.tok.Text, Value: Unquote(p.tok.Text)}
		lit.setRange(p.tok.Start, p.tok.End)
		p.next()
		return lit

	case _Lparen:
		if p.arrowFuncFollows() {
			return p.funcLit()
		}
		return p.parenExpr()

	case _Lbrack:
		return p.arrayLit()

	case _Lbrace:
		return p.objectLit()

	case _Percent:
		return p.derefExpr()

	case _New:
		if p.dialect == V1 {
			return p.newExpr()
		}
	}
	return p.badExpr()
}

// badExpr reports a missing expression and returns a zero-width BadExpr
// at the end of the previous token. The current token is not consumed.
func (p *Parser) badExpr() *BadExpr {
	p.syntaxError("expected expression, found " + p.tok.describe())
	x := &BadExpr{}
	x.setRange(p.prevEnd, p.prevEnd)
	return x
}

// name parses an identifier. A missing name yields a zero-width Name with
// an empty Value.
func (p *Parser) name() *Name {
	if p.tok.Kind != _Name {
		p.syntaxError("expected name, found " + p.tok.describe())
		n := &Name{}
		n.setRange(p.prevEnd, p.prevEnd)
		return n
	}
	n := &Name{Value: p.tok.Text}
	n.setRange(p.tok.Start, p.tok.End)
	p.next()
	return n
}

// parenExpr parses ( expr )
func (p *Parser) parenExpr() *ParenExpr {
	e := &ParenExpr{Lparen: p.tok}
	start := p.tok.Start
	p.next()

	saved := p.noConcat
	p.noConcat = 0
	e.X = p.seqExpr()
	p.noConcat = saved
	e.Rparen = p.want(_Rparen)

	p.finish(e, start)
	return e
}

// arrowFuncFollows reports whether the parenthesis at the current token
// opens the parameter list of a fat-arrow function: (a, b) => ...
func (p *Parser) arrowFuncFollows() bool {
	m := p.mark()
	defer p.reset(m)

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
	return p.tok.Kind == _Arrow
}

// funcLit parses a fat-arrow function: x => expr or (params) => expr
func (p *Parser) funcLit() *FuncLit {
	f := &FuncLit{}
	start := p.tok.Start

	if p.tok.Kind == _Name {
		prm := &Param{}
		prm.Name = p.name()
		p.finish(prm, start)
		f.Params.append(prm)
	} else {
		p.want(_Lparen)
		p.paramList(&f.Params, _Rparen)
		p.want(_Rparen)
	}
	f.Arrow = p.want(_Arrow)
	f.Body = p.expr()

	p.finish(f, start)
	return f
}

// argList parses comma-separated arguments up to the closing token.
// Omitted arguments are nil. A trailing comma adds nothing.
func (p *Parser) argList(list *List[Expr], close TokenKind) {
	saved := p.noConcat
	p.noConcat = 0
	defer func() { p.noConcat = saved }()

	for {
		p.gotEOLBefore(close)
		if p.tok.Kind == close || p.atLineEnd() {
			return
		}
		if p.tok.Kind == _Comma {
			list.append(nil)
		} else {
			list.append(p.expr())
		}
		if p.tok.Kind != _Comma {
			p.gotEOLBefore(close)
			return
		}
		list.delim(p.tok)
		p.next()
		p.skipEOLs()
	}
}

// callExpr parses Fun(args...)
func (p *Parser) callExpr(fun Expr) *CallExpr {
	c := &CallExpr{Fun: fun, Lparen: p.tok}
	p.next()

	p.argList(&c.Args, _Rparen)
	c.Rparen = p.want(_Rparen)

	p.finish(c, fun.Pos())
	return c
}

// indexExpr parses X[index...]
func (p *Parser) indexExpr(x Expr) *IndexExpr {
	e := &IndexExpr{X: x, Lbrack: p.tok}
	p.next()

	p.argList(&e.Index, _Rbrack)
	e.Rbrack = p.want(_Rbrack)

	p.finish(e, x.Pos())
	return e
}

// selectorExpr parses X.Name or X.%expr%
func (p *Parser) selectorExpr(x Expr) *SelectorExpr {
	s := &SelectorExpr{X: x, Dot: p.tok}
	p.next()

	if p.tok.Kind == _Percent {
		d := p.derefExpr()
		value := "%%"
		if n, ok := d.X.(*Name); ok {
			value = "%" + n.Value + "%"
		}
		s.Sel = &Name{Value: value}
		s.Sel.setRange(d.Pos(), d.End())
	} else {
		s.Sel = p.memberName()
	}

	p.finish(s, x.Pos())
	return s
}

// arrayLit parses [a, b, c]
func (p *Parser) arrayLit() *ArrayLit {
	a := &ArrayLit{Lbrack: p.tok}
	start := p.tok.Start
	p.next()

	p.argList(&a.Elems, _Rbrack)
	a.Rbrack = p.want(_Rbrack)

	p.finish(a, start)
	return a
}

// objectLit parses {key: value, ...}. Entries may span lines.
func (p *Parser) objectLit() *ObjectLit {
	o := &ObjectLit{Lbrace: p.tok}
	start := p.tok.Start
	p.next()

	saved := p.noConcat
	p.noConcat = 0
	defer func() { p.noConcat = saved }()

	for {
		if p.tok.Kind == _EOL && (p.peek(1).Kind == _Rbrace || p.peek(2).Kind == _Colon) {
			p.next()
		}
		if p.tok.Kind == _Rbrace || p.atLineEnd() {
			break
		}

		kv := &KeyValue{}
		kstart := p.tok.Start
		kv.Key = p.objectKey()
		kv.Colon = p.want(_Colon)
		kv.Value = p.expr()
		p.finish(kv, kstart)
		o.Elems.append(kv)

		p.gotEOLBefore(_Comma)
		if p.tok.Kind != _Comma {
			break
		}
		o.Elems.delim(p.tok)
		p.next()
		p.skipEOLs()
	}
	p.gotEOLBefore(_Rbrace)
	o.Rbrace = p.want(_Rbrace)

	p.finish(o, start)
	return o
}

// objectKey parses the key of an object literal entry.
func (p *Parser) objectKey() Expr {
	switch {
	case p.tok.Kind == _Percent:
		return p.derefExpr()
	case p.tok.Kind == _String:
		return p.operand()
	case isMemberName(p.tok) || p.tok.Kind == _Number:
		return p.memberName()
	}
	return p.badExpr()
}

// newExpr parses new Class[(args...)] (v1).
func (p *Parser) newExpr() *NewExpr {
	n := &NewExpr{New: p.tok}
	start := p.tok.Start
	p.next()

	n.Class = p.classRef()
	if p.tok.Kind == _Lparen && !p.tok.Space {
		n.Lparen = p.tok
		p.next()
		p.argList(&n.Args, _Rparen)
		n.Rparen = p.want(_Rparen)
	}

	p.finish(n, start)
	return n
}

// derefExpr parses %name% or %expr%.
func (p *Parser) derefExpr() *DerefExpr {
	d := &DerefExpr{Lpercent: p.tok}
	start := p.tok.Start
	p.next()

	saved := p.noConcat
	p.noConcat = 0
	if p.tok.Kind == _Name && p.peek(1).Kind == _Percent {
		d.X = p.name()
	} else {
		d.X = p.expr()
	}
	p.noConcat = saved
	d.Rpercent = p.want(_Percent)

	p.finish(d, start)
	return d
}
