package parser

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// parseExpr parses a full expression including assignment.
func (p *Parser) parseExpr() (ast.NodeID, bool) {
	return p.parseBinary(precAssignment)
}

// parsePatternExpr parses a case pattern: an expression that stops before
// '=' and may contain let/var bindings.
func (p *Parser) parsePatternExpr() (ast.NodeID, bool) {
	first := p.pos
	e, ok := p.parseBinary(precTernary)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindExprPattern, first, ast.NoTok, "", e), true
}

// parseBinary — разбор бинарных выражений с учётом приоритетов (precedence climbing).
func (p *Parser) parseBinary(minPrec int) (ast.NodeID, bool) {
	if !p.enter() {
		return ast.NoNodeID, false
	}
	defer p.leave()

	first := p.pos
	lhs, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		op := p.binaryOp()
		if op.prec < 0 || op.prec < minPrec {
			return lhs, true
		}
		switch op.prec {
		case precTernary:
			p.advance() // ?
			then, ok := p.parseBinary(precTernary)
			if !ok {
				return ast.NoNodeID, false
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in ternary expression"); !ok {
				return ast.NoNodeID, false
			}
			els, ok := p.parseBinary(precTernary)
			if !ok {
				return ast.NoNodeID, false
			}
			lhs = p.node(ast.KindTernaryExpr, first, op.idx, "?:", lhs, then, els)
			continue
		case precCasting:
			p.advance() // as / is
			text := op.text
			if op.text == "as" && p.atAny(token.Question, token.Bang) && p.adjacent() {
				text += p.toks[p.advance()].Text
			}
			ty, ok := p.parseType()
			if !ok {
				return ast.NoNodeID, false
			}
			lhs = p.node(ast.KindCastExpr, first, op.idx, text, lhs, ty)
			continue
		}
		p.pos += op.width
		next := op.prec + 1
		if op.right {
			next = op.prec
		}
		rhs, ok := p.parseBinary(next)
		if !ok {
			return ast.NoNodeID, false
		}
		lhs = p.node(ast.KindBinaryExpr, first, op.idx, op.text, lhs, rhs)
	}
}

type binOp struct {
	idx   int
	text  string
	width int
	prec  int
	right bool
}

var noOp = binOp{prec: -1}

// binaryOp classifies the current token as a binary operator.
func (p *Parser) binaryOp() binOp {
	t := p.peek()
	// оператор в начале строки, прилипший к операнду, — префиксный оператор
	// следующего выражения
	if t.NewlineBefore() && isPrefixOp(t.Kind) && p.isAdjacentAt(1) {
		return noOp
	}
	switch t.Kind {
	case token.Question:
		if !t.SpaceBefore() {
			return noOp
		}
		return binOp{idx: p.pos, text: "?", width: 1, prec: precTernary, right: true}
	case token.KwAs, token.KwIs:
		return binOp{idx: p.pos, text: t.Text, width: 1, prec: precCasting}
	case token.Gt:
		if p.isAdjacentAt(1) {
			switch p.peekN(1).Kind {
			case token.Gt:
				return binOp{idx: p.pos, text: ">>", width: 2, prec: precShift}
			case token.GtEq:
				return binOp{idx: p.pos, text: ">>=", width: 2, prec: precAssignment, right: true}
			}
		}
	case token.DotDotDot:
		if p.isRangeEnd(1) {
			return noOp
		}
	}
	prec, right := binaryPrec(t.Kind)
	if prec < 0 {
		return noOp
	}
	return binOp{idx: p.pos, text: t.Text, width: 1, prec: prec, right: right}
}

// isRangeEnd reports whether the token n ahead ends an open range `a...`.
func (p *Parser) isRangeEnd(n int) bool {
	t := p.peekN(n)
	if t.NewlineBefore() {
		return true
	}
	switch t.Kind {
	case token.RParen, token.RBracket, token.RBrace, token.Comma, token.Colon,
		token.Semicolon, token.EOF:
		return true
	}
	return false
}

// startsExprAt reports whether the token n ahead can begin an operand on
// the same line.
func (p *Parser) startsExprAt(n int) bool {
	t := p.peekN(n)
	if t.NewlineBefore() {
		return false
	}
	switch t.Kind {
	case token.EOF, token.RParen, token.RBracket, token.RBrace, token.Comma, token.Colon,
		token.Semicolon, token.Dot, token.Question, token.Bang, token.KwIn:
		return false
	}
	if prec, _ := binaryPrec(t.Kind); prec >= 0 && !isPrefixOp(t.Kind) {
		return false
	}
	return true
}

func (p *Parser) parseUnary() (ast.NodeID, bool) {
	first := p.pos
	t := p.peek()
	switch {
	case t.Kind == token.KwTry:
		p.advance()
		text := "try"
		if p.atAny(token.Question, token.Bang) && p.adjacent() {
			text += p.toks[p.advance()].Text
		}
		operand, ok := p.parseBinary(precTernary)
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindTryExpr, first, first, text, operand), true
	case t.Is("await") && p.startsExprAt(1):
		p.advance()
		operand, ok := p.parseBinary(precTernary)
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindAwaitExpr, first, first, "await", operand), true
	case t.IsPunctOrOp() && p.atOperatorValue():
		// reduce(0, +)
		p.advance()
		return p.node(ast.KindIdentExpr, first, first, t.Text), true
	case isPrefixOp(t.Kind):
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindPrefixExpr, first, first, t.Text, operand), true
	}
	return p.parsePostfix()
}

// atOperatorValue reports whether the current operator token is used as a
// function value inside an argument list.
func (p *Parser) atOperatorValue() bool {
	t := p.peek()
	if prec, _ := binaryPrec(t.Kind); prec < 0 && !isPrefixOp(t.Kind) {
		return false
	}
	return p.peekN(1).Kind == token.RParen || p.peekN(1).Kind == token.Comma
}

// parsePostfix — постфиксная цепочка: .member, вызовы, индексы, !, ?.
func (p *Parser) parsePostfix() (ast.NodeID, bool) {
	first := p.pos
	e, ok := p.parsePrimary()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		t := p.peek()
		switch {
		case t.Kind == token.Dot:
			p.advance()
			nt := p.peek()
			if !isName(nt) && nt.Kind != token.IntLit {
				return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected member name after '.'")
			}
			idx := p.advance()
			e = p.node(ast.KindMemberExpr, first, idx, nt.Text, e)
		case t.Kind == token.LParen && !t.NewlineBefore():
			args, ok := p.parseArgList(token.LParen, token.RParen)
			if !ok {
				return ast.NoNodeID, false
			}
			kids := []ast.NodeID{e, args}
			closures, ok := p.parseTrailingClosures()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, closures...)
			e = p.node(ast.KindCallExpr, first, p.calleeTok(e), p.calleeName(e), kids...)
		case t.Kind == token.LBracket && !t.NewlineBefore():
			args, ok := p.parseArgList(token.LBracket, token.RBracket)
			if !ok {
				return ast.NoNodeID, false
			}
			e = p.node(ast.KindSubscriptExpr, first, ast.NoTok, "", e, args)
		case t.Kind == token.Bang && p.adjacent():
			idx := p.advance()
			e = p.node(ast.KindForceUnwrapExpr, first, idx, "!", e)
		case t.Kind == token.Question && p.adjacent():
			idx := p.advance()
			e = p.node(ast.KindOptionalChainExpr, first, idx, "?", e)
		case t.Kind == token.LBrace && p.atTrailingClosure():
			closures, ok := p.parseTrailingClosures()
			if !ok {
				return ast.NoNodeID, false
			}
			e = p.node(ast.KindCallExpr, first, p.calleeTok(e), p.calleeName(e), append([]ast.NodeID{e}, closures...)...)
		case t.Kind == token.Lt && p.adjacent():
			base := e
			spec, ok := p.speculate(func() (ast.NodeID, bool) {
				return p.parseSpecialization(first, base)
			})
			if !ok {
				return e, true
			}
			e = spec
		case t.Kind == token.DotDotDot && p.isRangeEnd(1):
			idx := p.advance()
			e = p.node(ast.KindPostfixExpr, first, idx, "...", e)
		default:
			return e, true
		}
	}
}

func (p *Parser) calleeName(callee ast.NodeID) string {
	n := p.b.Nodes.Get(uint32(callee))
	switch n.Kind {
	case ast.KindIdentExpr, ast.KindMemberExpr, ast.KindImplicitMemberExpr, ast.KindPoundExpr:
		return n.Text
	}
	return ""
}

func (p *Parser) calleeTok(callee ast.NodeID) int {
	n := p.b.Nodes.Get(uint32(callee))
	switch n.Kind {
	case ast.KindIdentExpr, ast.KindMemberExpr, ast.KindImplicitMemberExpr, ast.KindPoundExpr:
		return n.Tok
	}
	return ast.NoTok
}

// atTrailingClosure reports whether '{' on the current line attaches to the
// preceding expression.
func (p *Parser) atTrailingClosure() bool {
	return p.at(token.LBrace) && !p.noTrailingClosure && !p.newlineBefore() && !p.atObserverBlock()
}

// parseTrailingClosures parses `{ } label: { }` after a call.
func (p *Parser) parseTrailingClosures() ([]ast.NodeID, bool) {
	if !p.atTrailingClosure() {
		return nil, true
	}
	c, ok := p.parseClosure()
	if !ok {
		return nil, false
	}
	out := []ast.NodeID{c}
	for p.at(token.Ident) && p.peekN(1).Kind == token.Colon && p.peekN(2).Kind == token.LBrace {
		label := p.toks[p.advance()].Text
		p.advance() // :
		c, ok := p.parseClosure()
		if !ok {
			return nil, false
		}
		p.b.SetLabel(c, label)
		out = append(out, c)
	}
	return out, true
}

// parseArgList parses `(label: value, ...)` or `[...]` for subscripts.
func (p *Parser) parseArgList(open, closeKind token.Kind) (ast.NodeID, bool) {
	first := p.advance()
	saved := p.noTrailingClosure
	p.noTrailingClosure = false
	defer func() { p.noTrailingClosure = saved }()

	var args []ast.NodeID
	for !p.at(closeKind) {
		af := p.pos
		label := ""
		if isParamName(p.peek()) && p.peekN(1).Kind == token.Colon {
			label = p.toks[p.advance()].Text + ":"
			p.advance()
			// function references: foo(_:bar:)
			for isParamName(p.peek()) && p.peekN(1).Kind == token.Colon && p.adjacent() {
				label += p.toks[p.advance()].Text + ":"
				p.advance()
			}
		}
		var kids []ast.NodeID
		if label == "" || !p.atAny(token.Comma, closeKind) {
			val, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, val)
		}
		arg := p.node(ast.KindArg, af, ast.NoTok, "", kids...)
		if label != "" {
			p.b.SetLabel(arg, label[:len(label)-1])
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(closeKind, unclosedCode(closeKind), "expected '"+closeKind.String()+"' to close argument list"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindArgList, first, ast.NoTok, open.String(), args...), true
}

// parseSpecialization parses explicit generic arguments `<T>` after an
// expression. Used speculatively.
func (p *Parser) parseSpecialization(first int, base ast.NodeID) (ast.NodeID, bool) {
	p.advance() // <
	kids := []ast.NodeID{base}
	for {
		ty, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, ty)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>'"); !ok {
		return ast.NoNodeID, false
	}
	next := p.peek()
	if !next.NewlineBefore() && !p.atAny(token.LParen, token.Dot, token.RParen, token.RBracket,
		token.Comma, token.Semicolon, token.RBrace, token.EOF) {
		return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "unexpected token after generic arguments")
	}
	return p.node(ast.KindSpecializeExpr, first, ast.NoTok, "", kids...), true
}

func (p *Parser) parsePrimary() (ast.NodeID, bool) {
	first := p.pos
	t := p.peek()
	switch t.Kind {
	case token.Ident, token.KwOpen:
		idx := p.advance()
		if p.bindIdents && !(p.adjacent() && p.atAny(token.Dot, token.LParen, token.Lt)) {
			return p.node(ast.KindIdentPattern, idx, idx, t.Text), true
		}
		return p.node(ast.KindIdentExpr, idx, idx, t.Text), true
	case token.KwSelfType, token.KwAny:
		idx := p.advance()
		return p.node(ast.KindIdentExpr, idx, idx, t.Text), true
	case token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNil:
		idx := p.advance()
		return p.node(ast.KindLiteralExpr, idx, idx, t.Text), true
	case token.KwSelf:
		idx := p.advance()
		return p.node(ast.KindSelfExpr, idx, idx, "self"), true
	case token.KwSuper:
		idx := p.advance()
		return p.node(ast.KindSuperExpr, idx, idx, "super"), true
	case token.Underscore:
		idx := p.advance()
		if p.bindIdents {
			return p.node(ast.KindWildcardPattern, idx, ast.NoTok, "_"), true
		}
		return p.node(ast.KindWildcardExpr, idx, ast.NoTok, "_"), true
	case token.Dot:
		p.advance()
		if !isName(p.peek()) {
			return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected member name after '.'")
		}
		idx := p.advance()
		return p.node(ast.KindImplicitMemberExpr, first, idx, p.toks[idx].Text), true
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseCollection()
	case token.LBrace:
		return p.parseClosure()
	case token.Backslash:
		return p.parseKeyPath()
	case token.Hash:
		return p.parsePound()
	case token.KwLet, token.KwVar:
		p.advance()
		saved := p.bindIdents
		p.bindIdents = true
		inner, ok := p.parsePostfix()
		p.bindIdents = saved
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindValueBindingPattern, first, first, t.Text, inner), true
	case token.KwIs:
		p.advance()
		ty, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindTypedPattern, first, first, "is", ty), true
	case token.KwIf:
		return p.parseIf()
	case token.KwSwitch:
		return p.parseSwitch()
	}
	return ast.NoNodeID, p.fail(diag.SynExpectExpression, "expected expression")
}

// parseParenOrTuple parses `(e)`, `()` and `(a, label: b)`.
func (p *Parser) parseParenOrTuple() (ast.NodeID, bool) {
	first := p.advance() // (
	saved := p.noTrailingClosure
	p.noTrailingClosure = false
	defer func() { p.noTrailingClosure = saved }()

	var elems []ast.NodeID
	labeled, trailingComma := false, false
	for !p.at(token.RParen) {
		trailingComma = false
		ef := p.pos
		label := ""
		if isParamName(p.peek()) && p.peekN(1).Kind == token.Colon {
			label = p.toks[p.advance()].Text
			p.advance()
			labeled = true
		}
		val, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		if label != "" {
			val = p.node(ast.KindArg, ef, ast.NoTok, "", val)
			p.b.SetLabel(val, label)
		}
		elems = append(elems, val)
		if !p.eat(token.Comma) {
			break
		}
		trailingComma = true
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parenthesized expression"); !ok {
		return ast.NoNodeID, false
	}
	if len(elems) == 1 && !labeled && !trailingComma {
		return p.node(ast.KindParenExpr, first, ast.NoTok, "", elems[0]), true
	}
	return p.node(ast.KindTupleExpr, first, ast.NoTok, "", elems...), true
}

// parseCollection parses array and dictionary literals including `[:]`.
func (p *Parser) parseCollection() (ast.NodeID, bool) {
	first := p.advance() // [
	saved, savedBind := p.noTrailingClosure, p.bindIdents
	p.noTrailingClosure, p.bindIdents = false, false
	defer func() { p.noTrailingClosure, p.bindIdents = saved, savedBind }()

	if p.at(token.Colon) && p.peekN(1).Kind == token.RBracket {
		p.advance()
		p.advance()
		return p.node(ast.KindDictExpr, first, ast.NoTok, ""), true
	}
	var elems []ast.NodeID
	isDict := false
	for !p.at(token.RBracket) {
		ef := p.pos
		key, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		if p.eat(token.Colon) {
			isDict = true
			val, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			key = p.node(ast.KindDictElement, ef, ast.NoTok, "", key, val)
		}
		elems = append(elems, key)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close collection literal"); !ok {
		return ast.NoNodeID, false
	}
	kind := ast.KindArrayExpr
	if isDict {
		kind = ast.KindDictExpr
	}
	return p.node(kind, first, ast.NoTok, "", elems...), true
}

// parseClosure parses `{ [captures] (params) -> R in statements }`.
func (p *Parser) parseClosure() (ast.NodeID, bool) {
	if !p.enter() {
		return ast.NoNodeID, false
	}
	defer p.leave()

	first := p.advance() // {
	saved, savedBind := p.noTrailingClosure, p.bindIdents
	p.noTrailingClosure, p.bindIdents = false, false
	defer func() { p.noTrailingClosure, p.bindIdents = saved, savedBind }()

	var kids []ast.NodeID
	if sig, ok := p.speculate(p.parseClosureSignature); ok {
		kids = append(kids, sig)
	}
	bodyFirst := p.pos
	stmts, ok := p.parseStatementsUntil(token.RBrace)
	if !ok {
		return ast.NoNodeID, false
	}
	kids = append(kids, p.node(ast.KindCodeBlock, bodyFirst, ast.NoTok, "", stmts...))
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close closure"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindClosureExpr, first, ast.NoTok, "", kids...), true
}

func (p *Parser) parseClosureSignature() (ast.NodeID, bool) {
	first := p.pos
	var kids []ast.NodeID
	for p.at(token.At) {
		attr, ok := p.parseAttribute()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, attr)
	}
	if p.at(token.LBracket) {
		cf := p.pos
		if !p.skipBalanced() {
			return ast.NoNodeID, false
		}
		kids = append(kids, p.node(ast.KindCaptureList, cf, ast.NoTok, ""))
	}
	switch {
	case p.at(token.LParen):
		params, ok := p.parseClosureParams()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, params)
	case p.atAny(token.Ident, token.Underscore):
		pf := p.pos
		var params []ast.NodeID
		for {
			if !p.atAny(token.Ident, token.Underscore) {
				return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected closure parameter")
			}
			idx := p.advance()
			params = append(params, p.node(ast.KindParam, idx, idx, p.toks[idx].Text))
			if !p.eat(token.Comma) {
				break
			}
		}
		kids = append(kids, p.node(ast.KindParamList, pf, ast.NoTok, "", params...))
	}
	if _, ok := p.parseEffects(); !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.Arrow) {
		ret, ok := p.parseReturnClause()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, ret)
	}
	if _, ok := p.expect(token.KwIn, diag.SynExpectIn, "expected 'in' after closure signature"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindClosureSignature, first, ast.NoTok, "", kids...), true
}

// parseClosureParams parses `(a, b: Int, _ c: T)` with optional types.
func (p *Parser) parseClosureParams() (ast.NodeID, bool) {
	first := p.advance() // (
	var params []ast.NodeID
	for !p.at(token.RParen) {
		pf := p.pos
		if !isParamName(p.peek()) {
			return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected closure parameter")
		}
		nameIdx := p.advance()
		label := ""
		if isParamName(p.peek()) {
			label = p.toks[nameIdx].Text
			nameIdx = p.advance()
		}
		var kids []ast.NodeID
		if p.eat(token.Colon) {
			ty, ok := p.parseType()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, ty)
			p.eat(token.DotDotDot)
		}
		prm := p.node(ast.KindParam, pf, nameIdx, p.toks[nameIdx].Text, kids...)
		p.b.SetLabel(prm, label)
		params = append(params, prm)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindParamList, first, ast.NoTok, "", params...), true
}

// parseKeyPath parses `\Type.member?.other[0]` and `\.member`.
func (p *Parser) parseKeyPath() (ast.NodeID, bool) {
	first := p.advance() // \
	if p.adjacent() && p.atAny(token.Ident, token.KwSelfType) {
		p.advance()
	}
loop:
	for p.adjacent() {
		switch {
		case p.at(token.Dot) && isName(p.peekN(1)):
			p.advance()
			p.advance()
		case p.atAny(token.Question, token.Bang):
			p.advance()
		case p.at(token.LBracket):
			if !p.skipBalanced() {
				return ast.NoNodeID, false
			}
		default:
			break loop
		}
	}
	if p.pos == first+1 {
		return ast.NoNodeID, p.fail(diag.SynExpectExpression, "expected key path")
	}
	return p.node(ast.KindKeyPathExpr, first, ast.NoTok, p.textBetween(first, p.pos)), true
}

// parsePound parses `#file`, `#selector(...)` and macro expansions.
func (p *Parser) parsePound() (ast.NodeID, bool) {
	first := p.advance() // #
	if !isName(p.peek()) || !p.adjacent() {
		return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected name after '#'")
	}
	nameIdx := p.advance()
	var kids []ast.NodeID
	if p.at(token.LParen) && p.adjacent() {
		args, ok := p.parseArgList(token.LParen, token.RParen)
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, args)
	}
	return p.node(ast.KindPoundExpr, first, nameIdx, "#"+p.toks[nameIdx].Text, kids...), true
}
