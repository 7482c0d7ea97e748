package syntax

import "strings"

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement.
func (p *Parser) stmt() Stmt {
	switch p.tok.Kind {
	case _Lbrace:
		return p.blockStmt()

	case _If:
		return p.ifStmt()

	case _Switch:
		return p.switchStmt()

	case _Loop:
		return p.loopStmt()

	case _While:
		return p.whileStmt()

	case _For:
		return p.forStmt()

	case _Try:
		return p.tryStmt()

	case _Return:
		return p.returnStmt()

	case _Break, _Continue:
		return p.branchStmt()

	case _Throw:
		return p.throwStmt()

	case _Goto, _Gosub:
		return p.gotoStmt()

	case _Global, _Local, _Static:
		return p.varDecl()

	case _Class:
		return p.classDecl()

	case _Command:
		return p.commandStmt()

	case _Directive:
		return p.directiveStmt()

	case _Label:
		return p.labelStmt()

	case _HotkeyModifier, _HotkeyKey:
		return p.hotkeyStmt()

	case _HotstringOpen:
		return p.hotstringStmt()

	case _Name:
		switch {
		case p.funcDefFollows():
			return p.funcDecl(Token{}, p.tok.Start)
		case p.dialect == V1 && p.peek(1).Kind == _Eql && isLiteralStart(p.peek(2).Kind):
			return p.legacyAssign()
		case p.dialect == V2 && p.commandCallFollows():
			return p.commandCall()
		}
	}
	return p.simpleStmt()
}

// simpleStmt parses an expression statement. A top-level assignment
// becomes an AssignStmt.
func (p *Parser) simpleStmt() Stmt {
	start := p.tok.Start
	x := p.seqExpr()

	if b, ok := x.(*BinaryExpr); ok && b.Op.Kind.IsAssign() {
		s := &AssignStmt{LHS: b.X, Op: b.Op, RHS: b.Y}
		s.setRange(b.Pos(), b.End())
		return s
	}

	s := &ExprStmt{X: x}
	p.finish(s, start)
	return s
}

// blockStmt parses { stmts... }
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	start := p.tok.Start

	if p.tok.Kind != _Lbrace {
		b.Lbrace = p.want(_Lbrace)
		b.Rbrace = p.missing(_Rbrace)
		p.finish(b, start)
		return b
	}
	b.Lbrace = p.tok
	p.next()
	b.Stmts = p.stmtList(ctxBlock, p.stmt)
	b.Rbrace = p.want(_Rbrace)

	p.finish(b, start)
	return b
}

// body parses the statement controlled by if, else, loop, while, for,
// try, catch or finally. It may start on the next line.
func (p *Parser) body() Stmt {
	if p.tok.Kind == _EOL && startsStmt(p.peek(1).Kind) {
		p.next()
	}
	if !startsStmt(p.tok.Kind) {
		return p.badStmt()
	}
	return p.stmt()
}

// actionBody parses the optional action of a hotkey or hotstring: the
// rest of the line, or a block starting on the next line.
func (p *Parser) actionBody() Stmt {
	if !p.atLineEnd() {
		if !startsStmt(p.tok.Kind) {
			return nil
		}
		return p.stmt()
	}
	if p.gotEOLBefore(_Lbrace) {
		return p.blockStmt()
	}
	return nil
}

// condExpr parses the condition of if, while and switch. Implicit
// concatenation is off at its top level so that "if (x) stmt" works.
func (p *Parser) condExpr() Expr {
	if p.atLineEnd() {
		return p.badExpr()
	}
	p.noConcat++
	defer func() { p.noConcat-- }()
	return p.expr()
}

// ifStmt parses: if Cond Then [else Else]
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{If: p.tok}
	start := p.tok.Start
	p.next()

	s.Cond = p.condExpr()
	s.Then = p.body()

	if p.tok.Kind == _Else || p.gotEOLBefore(_Else) {
		p.next()
		s.Else = p.body()
	}

	p.finish(s, start)
	return s
}

// switchStmt parses: switch [Tag [, CaseSense]] { cases... }
func (p *Parser) switchStmt() *SwitchStmt {
	s := &SwitchStmt{}
	start := p.tok.Start
	p.next()

	if !p.atLineEnd() && p.tok.Kind != _Lbrace {
		s.Tag = p.condExpr()
		if p.got(_Comma) {
			p.expr() // case sensitivity option
		}
	}

	p.gotEOLBefore(_Lbrace)
	s.Lbrace = p.want(_Lbrace)
	if !s.Lbrace.Missing {
		for _, c := range p.stmtList(ctxSwitchCases, p.caseClause) {
			if cc, ok := c.(*CaseClause); ok {
				s.Cases = append(s.Cases, cc)
			}
		}
		s.Rbrace = p.want(_Rbrace)
	} else {
		s.Rbrace = p.missing(_Rbrace)
	}

	p.finish(s, start)
	return s
}

// caseClause parses: case a, b: stmts... or default: stmts...
func (p *Parser) caseClause() Stmt {
	c := &CaseClause{Case: p.tok}
	start := p.tok.Start

	if p.got(_Default) {
		c.Colon = p.want(_Colon)
	} else {
		p.want(_Case)
		for {
			c.List.append(p.expr())
			if p.tok.Kind != _Comma {
				break
			}
			c.List.delim(p.tok)
			p.next()
		}
		c.Colon = p.want(_Colon)
	}

	c.Body = p.stmtList(ctxCaseBody, p.stmt)
	p.finish(c, start)
	return c
}

// loopStmt parses the loop forms:
//
//	loop [count]
//	loop parse|read|files|reg, args...
//	Loop, Parse, %var%      (v1 literal arguments)
//
// followed by the body and an optional until clause.
func (p *Parser) loopStmt() *LoopStmt {
	s := &LoopStmt{Loop: p.tok}
	start := p.tok.Start
	p.next()

	switch {
	case p.dialect == V1 && isLiteralStart(p.tok.Kind):
		p.got(_Comma)
		for !p.atLineEnd() && p.tok.Kind != _Lbrace {
			_, x := p.literalArg()
			s.Args.append(x)
			if p.tok.Kind != _Comma {
				break
			}
			s.Args.delim(p.tok)
			p.next()
		}

	case !p.atLineEnd() && p.tok.Kind != _Lbrace:
		p.got(_Comma)
		p.noConcat++
		for {
			if p.tok.Kind == _Comma {
				s.Args.append(nil)
			} else {
				s.Args.append(p.expr())
			}
			if p.tok.Kind != _Comma {
				break
			}
			s.Args.delim(p.tok)
			p.next()
		}
		p.noConcat--
	}
	s.Kind = loopKindOf(&s.Args)

	s.Body = p.body()
	s.Until = p.untilClause()

	p.finish(s, start)
	return s
}

// loopKindOf determines the loop form from its arguments. A leading
// parse/read/files/reg word followed by a comma selects the form and is
// removed from args.
func loopKindOf(args *List[Expr]) LoopKind {
	if args.Len() == 0 {
		return LoopPlain
	}
	if len(args.Delims) > 0 {
		var word string
		switch x := args.Elems[0].(type) {
		case *Name:
			word = x.Value
		case *TextExpr:
			if len(x.Parts) == 1 {
				if lit, ok := x.Parts[0].(*BasicLit); ok {
					word = lit.Value
				}
			}
		}
		if kind, ok := loopKinds[strings.ToLower(word)]; ok {
			args.Elems = args.Elems[1:]
			args.Delims = args.Delims[1:]
			return kind
		}
	}
	return LoopCount
}

// untilClause parses an optional "until Cond" after a loop body.
func (p *Parser) untilClause() Expr {
	if p.tok.Kind == _Until || p.gotEOLBefore(_Until) {
		p.next()
		return p.condExpr()
	}
	return nil
}

// whileStmt parses: while Cond Body [until Cond]
func (p *Parser) whileStmt() *WhileStmt {
	s := &WhileStmt{}
	start := p.tok.Start
	p.next()

	s.Cond = p.condExpr()
	s.Body = p.body()
	s.Until = p.untilClause()

	p.finish(s, start)
	return s
}

// forStmt parses: for Key [, Value] in X Body [until Cond]
func (p *Parser) forStmt() *ForStmt {
	s := &ForStmt{}
	start := p.tok.Start
	p.next()

	s.Key = p.name()
	if p.got(_Comma) {
		s.Value = p.name()
	}
	s.In = p.want(_In)
	s.X = p.condExpr()
	s.Body = p.body()
	s.Until = p.untilClause()

	p.finish(s, start)
	return s
}

// tryStmt parses: try Body [catch ...] [finally Body]
func (p *Parser) tryStmt() *TryStmt {
	s := &TryStmt{}
	start := p.tok.Start
	p.next()

	s.Body = p.body()
	if p.tok.Kind == _Catch || p.gotEOLBefore(_Catch) {
		s.Catch = p.catchClause()
	}
	if p.tok.Kind == _Finally || p.gotEOLBefore(_Finally) {
		p.next()
		s.Finally = p.body()
	}

	p.finish(s, start)
	return s
}

// catchClause parses the catch forms:
//
//	catch e                  (v1: e is the variable)
//	catch Class [, ...] [as e]
//	catch as e
func (p *Parser) catchClause() *CatchClause {
	c := &CatchClause{}
	start := p.tok.Start
	p.next()

	switch {
	case isAs(p.tok):
		p.next()
		c.Var = p.name()

	case p.tok.Kind == _Name:
		first := p.classRef()
		for p.got(_Comma) {
			p.classRef()
		}
		switch {
		case isAs(p.tok):
			p.next()
			c.Class = first
			c.Var = p.name()
		case p.dialect == V1:
			if n, ok := first.(*Name); ok {
				c.Var = n
			} else {
				c.Class = first
			}
		default:
			c.Class = first
		}
	}

	c.Body = p.body()
	p.finish(c, start)
	return c
}

// isAs reports whether tok is the contextual keyword "as".
func isAs(tok Token) bool {
	return tok.Kind == _Name && strings.EqualFold(tok.Text, "as")
}

// returnStmt parses: return [expr]
func (p *Parser) returnStmt() *ReturnStmt {
	s := &ReturnStmt{}
	start := p.tok.Start
	p.next()

	p.got(_Comma)
	if !p.atLineEnd() && p.tok.Kind != _Rbrace {
		s.Result = p.seqExpr()
	}

	p.finish(s, start)
	return s
}

// branchStmt parses: break [label] or continue [label]
func (p *Parser) branchStmt() *BranchStmt {
	s := &BranchStmt{Tok: p.tok}
	start := p.tok.Start
	p.next()

	p.got(_Comma)
	if !p.atLineEnd() && p.tok.Kind != _Rbrace {
		s.Label = p.expr()
	}

	p.finish(s, start)
	return s
}

// throwStmt parses: throw [expr]
func (p *Parser) throwStmt() *ThrowStmt {
	s := &ThrowStmt{}
	start := p.tok.Start
	p.next()

	p.got(_Comma)
	if !p.atLineEnd() && p.tok.Kind != _Rbrace {
		s.X = p.expr()
	}

	p.finish(s, start)
	return s
}

// gotoStmt parses: goto Label or gosub Label
func (p *Parser) gotoStmt() *GotoStmt {
	s := &GotoStmt{Tok: p.tok}
	start := p.tok.Start
	p.next()

	p.got(_Comma)
	if p.atLineEnd() {
		s.Label = p.badExpr()
	} else {
		s.Label = p.expr()
	}

	p.finish(s, start)
	return s
}

// varDecl parses: global|local|static [name [:= value], ...]
// A bare global or local switches the function's default scope.
func (p *Parser) varDecl() *VarDecl {
	d := &VarDecl{Scope: p.tok}
	start := p.tok.Start
	p.next()

	if !p.atLineEnd() && p.tok.Kind != _Rbrace {
		for {
			spec := &VarSpec{}
			sstart := p.tok.Start
			spec.Name = p.name()
			if p.tok.Kind == _Define || p.tok.Kind == _Eql {
				spec.Op = p.tok
				p.next()
				spec.Value = p.expr()
			}
			p.finish(spec, sstart)
			d.Specs.append(spec)

			if p.tok.Kind != _Comma {
				break
			}
			d.Specs.delim(p.tok)
			p.next()
		}
	}

	p.finish(d, start)
	return d
}

// ----------------------------------------------------------------------------
// Commands

// isLiteralStart reports whether a token of the given kind can follow a
// command name in command-literal mode.
func isLiteralStart(kind TokenKind) bool {
	switch kind {
	case _Comma, _Text, _Percent, _ForceExpr, _EOL, _EOF:
		return true
	}
	return false
}

// commandStmt parses a v1 command: Name[,] arg, arg, ...
func (p *Parser) commandStmt() *CommandStmt {
	s := &CommandStmt{Name: p.tok}
	start := p.tok.Start
	p.next()

	p.got(_Comma) // optional separator after the command name
	for !p.atLineEnd() {
		astart := p.tok.Start
		force, x := p.literalArg()
		if x == nil {
			s.Args.append(nil)
		} else {
			arg := &CommandArg{Force: force, X: x}
			p.finish(arg, astart)
			s.Args.append(arg)
		}
		if p.tok.Kind != _Comma {
			break
		}
		s.Args.delim(p.tok)
		p.next()
	}

	p.finish(s, start)
	return s
}

// literalArg parses one command-literal argument: text with %name%
// dereferences, or "% expr". It returns nil for an omitted argument.
func (p *Parser) literalArg() (Token, Expr) {
	if p.tok.Kind == _ForceExpr {
		force := p.tok
		p.next()
		if p.atLineEnd() || p.tok.Kind == _Comma {
			return force, p.badExpr()
		}
		return force, p.expr()
	}

	t := &TextExpr{}
	start := p.tok.Start
loop:
	for {
		switch p.tok.Kind {
		case _Text:
			lit := &BasicLit{Kind: StringLit, Raw: p.tok.Text, Value: UnescapeText(p.tok.Text)}
			lit.setRange(p.tok.Start, p.tok.End)
			t.Parts = append(t.Parts, lit)
			p.next()
		case _Percent:
			t.Parts = append(t.Parts, p.derefExpr())
		default:
			break loop
		}
	}
	if len(t.Parts) == 0 {
		return Token{}, nil
	}
	p.finish(t, start)
	return Token{}, t
}

// legacyAssign parses a v1 legacy assignment: name = literal text
func (p *Parser) legacyAssign() *AssignStmt {
	s := &AssignStmt{}
	start := p.tok.Start

	s.LHS = p.name()
	s.Op = p.want(_Eql)
	if _, x := p.literalArg(); x != nil {
		s.RHS = x
	} else {
		// x =   assigns the empty string
		t := &TextExpr{}
		t.setRange(p.prevEnd, p.prevEnd)
		s.RHS = t
	}

	p.finish(s, start)
	return s
}

// commandCallFollows reports whether the current name starts a v2 call
// statement without parentheses: MsgBox "hi", Sleep 100, or a bare name.
func (p *Parser) commandCallFollows() bool {
	next := p.peek(1)
	switch next.Kind {
	case _EOL, _EOF, _Comma:
		return true
	}
	if !next.Space {
		return false
	}
	switch next.Kind {
	case _Name, _Number, _String, _Percent, _Not, _KwNot, _Lparen, _Lbrack:
		return true
	case _Sub, _Add, _And, _Tilde:
		// MsgBox -1, but not x - 1
		after := p.peek(2)
		return !after.Space && after.Kind != _EOL && after.Kind != _EOF
	}
	return false
}

// commandCall parses a v2 call statement: Name arg, arg, ...
func (p *Parser) commandCall() *CommandStmt {
	s := &CommandStmt{Name: p.tok, Call: true}
	start := p.tok.Start
	p.next()

	p.got(_Comma)
	for !p.atLineEnd() && p.tok.Kind != _Rbrace {
		if p.tok.Kind == _Comma {
			s.Args.append(nil)
		} else {
			arg := &CommandArg{}
			astart := p.tok.Start
			arg.X = p.expr()
			p.finish(arg, astart)
			s.Args.append(arg)
		}
		if p.tok.Kind != _Comma {
			break
		}
		s.Args.delim(p.tok)
		p.next()
	}

	p.finish(s, start)
	return s
}

// ----------------------------------------------------------------------------
// Line constructs

// directiveStmt parses: #Name [text] or #If expr
func (p *Parser) directiveStmt() *DirectiveStmt {
	s := &DirectiveStmt{Name: p.tok}
	start := p.tok.Start
	p.next()

	switch {
	case p.tok.Kind == _Text:
		s.Text = p.tok
		p.next()
	case !p.atLineEnd():
		s.X = p.expr()
	}

	p.finish(s, start)
	return s
}

// labelStmt parses: Name:
func (p *Parser) labelStmt() *LabelStmt {
	s := &LabelStmt{Label: p.tok}
	s.setRange(p.tok.Start, p.tok.End)
	p.next()
	return s
}

// hotkeyStmt parses a hotkey header and its optional action:
//
//	^!a::Action
//	~LButton & RButton::
//	a::b          (v1 remap)
func (p *Parser) hotkeyStmt() *HotkeyStmt {
	s := &HotkeyStmt{}
	start := p.tok.Start

	for p.tok.Kind.IsHotkey() && p.tok.Kind != _HotkeyMark {
		s.Keys = append(s.Keys, p.tok)
		p.next()
	}
	s.Mark = p.want(_HotkeyMark)

	if p.dialect == V1 && p.tok.Kind == _Name && isLineEnd(p.peek(1).Kind) {
		s.Remap = p.tok
		p.next()
	} else {
		s.Body = p.actionBody()
	}

	p.finish(s, start)
	return s
}

// isLineEnd reports whether kind ends a logical line.
func isLineEnd(kind TokenKind) bool {
	return kind == _EOL || kind == _EOF
}

// hotstringStmt parses :options:trigger::replacement
func (p *Parser) hotstringStmt() *HotstringStmt {
	s := &HotstringStmt{Open: p.tok}
	start := p.tok.Start
	p.next()

	s.Trigger = p.want(_Text)
	s.Mark = p.want(_HotstringMark)
	if p.tok.Kind == _Text {
		s.Replacement = p.tok
		p.next()
	} else {
		s.Body = p.actionBody()
	}

	p.finish(s, start)
	return s
}
