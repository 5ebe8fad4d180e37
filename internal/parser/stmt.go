package parser

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

var directiveNames = map[string]bool{
	"if": true, "elseif": true, "else": true, "endif": true,
	"warning": true, "error": true, "sourceLocation": true,
}

// parseStatement разбирает одно выражение/объявление/оператор.
func (p *Parser) parseStatement() (ast.NodeID, bool) {
	if !p.enter() {
		return ast.NoNodeID, false
	}
	defer p.leave()

	t := p.peek()
	switch t.Kind {
	case token.Hash:
		if next := p.peekN(1); p.isAdjacentAt(1) && directiveNames[next.Text] {
			return p.parseDirective()
		}
	case token.KwIf:
		return p.parseIf()
	case token.KwGuard:
		return p.parseGuard()
	case token.KwFor:
		return p.parseForIn()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwRepeat:
		return p.parseRepeat()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwDo:
		return p.parseDo()
	case token.KwDefer:
		first := p.advance()
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindDeferStmt, first, first, "defer", body), true
	case token.KwReturn:
		return p.parseValueStmt(ast.KindReturnStmt, false)
	case token.KwThrow:
		return p.parseValueStmt(ast.KindThrowStmt, true)
	case token.KwBreak, token.KwContinue:
		first := p.advance()
		kind := ast.KindBreakStmt
		if t.Kind == token.KwContinue {
			kind = ast.KindContinueStmt
		}
		label := ""
		if p.at(token.Ident) && !p.newlineBefore() {
			label = p.toks[p.advance()].Text
		}
		id := p.node(kind, first, first, t.Text)
		p.b.SetLabel(id, label)
		return id, true
	case token.KwFallthrough:
		first := p.advance()
		return p.node(ast.KindFallthroughStmt, first, first, "fallthrough"), true
	case token.Ident:
		if p.peekN(1).Kind == token.Colon && isLabelable(p.peekN(2).Kind) {
			return p.parseLabeled()
		}
	}
	if p.isDeclStart(0, false) {
		return p.parseDecl(false)
	}
	return p.parseExpr()
}

func isLabelable(k token.Kind) bool {
	switch k {
	case token.KwFor, token.KwWhile, token.KwRepeat, token.KwSwitch, token.KwIf, token.KwDo:
		return true
	}
	return false
}

func (p *Parser) isAdjacentAt(n int) bool {
	return len(p.peekN(n).Leading) == 0
}

func (p *Parser) parseLabeled() (ast.NodeID, bool) {
	first := p.advance()
	p.advance() // :
	inner, ok := p.parseStatement()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindLabeledStmt, first, first, p.toks[first].Text, inner), true
}

// parseDirective consumes a `#if`-family line. Both branches of a
// conditional block are parsed as ordinary code.
func (p *Parser) parseDirective() (ast.NodeID, bool) {
	first := p.advance() // #
	nameIdx := p.pos
	name := p.peek().Text
	if name == "warning" || name == "error" || name == "sourceLocation" {
		p.advance()
		if p.at(token.LParen) {
			if !p.skipBalanced() {
				return ast.NoNodeID, false
			}
		}
	} else {
		p.skipToLineEnd()
	}
	return p.node(ast.KindDirective, first, nameIdx, "#"+name), true
}

// parseValueStmt parses return/throw with an optional same-line operand.
func (p *Parser) parseValueStmt(kind ast.Kind, required bool) (ast.NodeID, bool) {
	first := p.advance()
	var kids []ast.NodeID
	if !p.newlineBefore() && !p.atAny(token.RBrace, token.Semicolon, token.EOF, token.KwCase, token.KwDefault) {
		val, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, val)
	} else if required {
		return ast.NoNodeID, p.fail(diag.SynExpectExpression, "expected expression after 'throw'")
	}
	return p.node(kind, first, first, p.toks[first].Text, kids...), true
}

// parseBlock parses `{ statements }`.
func (p *Parser) parseBlock() (ast.NodeID, bool) {
	if !p.enter() {
		return ast.NoNodeID, false
	}
	defer p.leave()

	first, ok := p.expect(token.LBrace, diag.SynExpectBody, "expected '{'")
	if !ok {
		return ast.NoNodeID, false
	}
	saved, savedBind := p.noTrailingClosure, p.bindIdents
	p.noTrailingClosure, p.bindIdents = false, false
	defer func() { p.noTrailingClosure, p.bindIdents = saved, savedBind }()

	stmts, ok := p.parseStatementsUntil(token.RBrace)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindCodeBlock, first, ast.NoTok, "", stmts...), true
}

// parseStatementsUntil parses statements until one of the stop kinds.
func (p *Parser) parseStatementsUntil(stop ...token.Kind) ([]ast.NodeID, bool) {
	var stmts []ast.NodeID
	for !p.atAny(stop...) {
		if p.at(token.EOF) {
			return nil, p.fail(diag.SynUnclosedBrace, "expected '}'")
		}
		if p.eat(token.Semicolon) {
			continue
		}
		st, ok := p.parseStatement()
		if !ok {
			return nil, false
		}
		stmts = append(stmts, st)
		if !p.endOfStatement() {
			return nil, false
		}
	}
	return stmts, true
}

// parseConditions parses a comma separated condition list ending before '{'
// (or `else` for guard).
func (p *Parser) parseConditions() (ast.NodeID, bool) {
	saved := p.noTrailingClosure
	p.noTrailingClosure = true
	defer func() { p.noTrailingClosure = saved }()

	first := p.pos
	var conds []ast.NodeID
	for {
		c, ok := p.parseCondition()
		if !ok {
			return ast.NoNodeID, false
		}
		conds = append(conds, c)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.node(ast.KindConditionList, first, ast.NoTok, "", conds...), true
}

// parseBindingPattern also takes `self`, which may be rebound in a condition
// (`guard let self = self`, `guard let self`).
func (p *Parser) parseBindingPattern() (ast.NodeID, bool) {
	if p.at(token.KwSelf) {
		idx := p.advance()
		return p.node(ast.KindIdentPattern, idx, idx, p.toks[idx].Text), true
	}
	return p.parsePattern()
}

func (p *Parser) parseCondition() (ast.NodeID, bool) {
	first := p.pos
	switch {
	case p.atAny(token.KwLet, token.KwVar):
		kw := p.advance()
		pat, ok := p.parseBindingPattern()
		if !ok {
			return ast.NoNodeID, false
		}
		kids := []ast.NodeID{pat}
		if p.eat(token.Colon) {
			ty, ok := p.parseType()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, ty)
		}
		// `if let x` без инициализатора — сокращённая форма
		if p.eat(token.Assign) {
			val, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, val)
		}
		return p.node(ast.KindOptionalBinding, first, kw, p.toks[kw].Text, kids...), true
	case p.at(token.KwCase):
		kw := p.advance()
		pat, ok := p.parsePatternExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in case condition"); !ok {
			return ast.NoNodeID, false
		}
		val, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindCaseCondition, first, kw, "case", pat, val), true
	case p.at(token.Hash) && (p.peekN(1).Is("available") || p.peekN(1).Is("unavailable")):
		p.advance()
		nameIdx := p.advance()
		if !p.at(token.LParen) {
			return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected '(' after availability condition")
		}
		if !p.skipBalanced() {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindAvailabilityCondition, first, nameIdx, "#"+p.toks[nameIdx].Text), true
	}
	return p.parseExpr()
}

func (p *Parser) parseIf() (ast.NodeID, bool) {
	first := p.advance() // if
	conds, ok := p.parseConditions()
	if !ok {
		return ast.NoNodeID, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	kids := []ast.NodeID{conds, then}
	if p.eat(token.KwElse) {
		var els ast.NodeID
		if p.at(token.KwIf) {
			els, ok = p.parseIf()
		} else {
			els, ok = p.parseBlock()
		}
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, els)
	}
	return p.node(ast.KindIfStmt, first, first, "if", kids...), true
}

func (p *Parser) parseGuard() (ast.NodeID, bool) {
	first := p.advance() // guard
	conds, ok := p.parseConditions()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.KwElse, diag.SynExpectElse, "expected 'else' after guard condition"); !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindGuardStmt, first, first, "guard", conds, body), true
}

// parseForIn parses `for [try] [await] [case] pattern [: T] in seq [where cond] { }`.
func (p *Parser) parseForIn() (ast.NodeID, bool) {
	first := p.advance() // for
	for p.at(token.KwTry) || p.atIdent("await") {
		p.advance()
	}
	var (
		pat ast.NodeID
		ok  bool
	)
	if p.eat(token.KwCase) {
		pat, ok = p.parsePatternExpr()
	} else {
		pat, ok = p.parsePattern()
	}
	if !ok {
		return ast.NoNodeID, false
	}
	kids := []ast.NodeID{pat}
	if p.eat(token.Colon) {
		ty, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, ty)
	}
	if _, ok := p.expect(token.KwIn, diag.SynExpectIn, "expected 'in' after for-in pattern"); !ok {
		return ast.NoNodeID, false
	}
	saved := p.noTrailingClosure
	p.noTrailingClosure = true
	seq, ok := p.parseExpr()
	if ok && p.eat(token.KwWhere) {
		var cond ast.NodeID
		cond, ok = p.parseExpr()
		kids = append(kids, seq, cond)
	} else {
		kids = append(kids, seq)
	}
	p.noTrailingClosure = saved
	if !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	kids = append(kids, body)
	return p.node(ast.KindForInStmt, first, first, "for", kids...), true
}

func (p *Parser) parseWhile() (ast.NodeID, bool) {
	first := p.advance() // while
	conds, ok := p.parseConditions()
	if !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindWhileStmt, first, first, "while", conds, body), true
}

func (p *Parser) parseRepeat() (ast.NodeID, bool) {
	first := p.advance() // repeat
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after repeat body"); !ok {
		return ast.NoNodeID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindRepeatWhileStmt, first, first, "repeat", body, cond), true
}

// parseSwitch parses `switch subject { case ...: stmts default: stmts }`.
func (p *Parser) parseSwitch() (ast.NodeID, bool) {
	first := p.advance() // switch
	saved := p.noTrailingClosure
	p.noTrailingClosure = true
	subject, ok := p.parseExpr()
	p.noTrailingClosure = saved
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectBody, "expected '{' after switch subject"); !ok {
		return ast.NoNodeID, false
	}
	kids := []ast.NodeID{subject}
	for !p.at(token.RBrace) {
		switch {
		case p.at(token.EOF):
			return ast.NoNodeID, p.fail(diag.SynUnclosedBrace, "expected '}' to close switch")
		case p.at(token.Hash):
			d, ok := p.parseStatement()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, d)
		case p.atAny(token.KwCase, token.KwDefault, token.At):
			c, ok := p.parseSwitchCase()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, c)
		default:
			return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected 'case' or 'default' in switch")
		}
	}
	p.advance() // }
	return p.node(ast.KindSwitchStmt, first, first, "switch", kids...), true
}

func (p *Parser) parseSwitchCase() (ast.NodeID, bool) {
	first := p.pos
	var kids []ast.NodeID
	if p.at(token.At) {
		attr, ok := p.parseAttribute()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, attr)
	}
	kwIdx := p.pos
	text := p.peek().Text
	switch {
	case p.eat(token.KwDefault):
	case p.eat(token.KwCase):
		for {
			pat, ok := p.parsePatternExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, pat)
			if p.eat(token.KwWhere) {
				cond, ok := p.parseExpr()
				if !ok {
					return ast.NoNodeID, false
				}
				kids = append(kids, cond)
			}
			if !p.eat(token.Comma) {
				break
			}
		}
	default:
		return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected 'case' or 'default'")
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case label"); !ok {
		return ast.NoNodeID, false
	}
	bodyFirst := p.pos
	stmts, ok := p.parseStatementsUntil(token.KwCase, token.KwDefault, token.RBrace, token.At)
	if !ok {
		return ast.NoNodeID, false
	}
	kids = append(kids, p.node(ast.KindCodeBlock, bodyFirst, ast.NoTok, "", stmts...))
	return p.node(ast.KindSwitchCase, first, kwIdx, text, kids...), true
}

// parseDo parses `do { } catch pattern where cond { }`.
func (p *Parser) parseDo() (ast.NodeID, bool) {
	first := p.advance() // do
	if p.at(token.KwThrows) {
		if _, ok := p.parseEffects(); !ok {
			return ast.NoNodeID, false
		}
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	kids := []ast.NodeID{body}
	for p.at(token.KwCatch) {
		cf := p.advance()
		var ckids []ast.NodeID
		saved := p.noTrailingClosure
		p.noTrailingClosure = true
		for !p.at(token.LBrace) {
			pat, ok := p.parsePatternExpr()
			if !ok {
				p.noTrailingClosure = saved
				return ast.NoNodeID, false
			}
			ckids = append(ckids, pat)
			if p.eat(token.KwWhere) {
				cond, ok := p.parseExpr()
				if !ok {
					p.noTrailingClosure = saved
					return ast.NoNodeID, false
				}
				ckids = append(ckids, cond)
			}
			if !p.eat(token.Comma) {
				break
			}
		}
		p.noTrailingClosure = saved
		cbody, ok := p.parseBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		ckids = append(ckids, cbody)
		kids = append(kids, p.node(ast.KindCatchClause, cf, cf, "catch", ckids...))
	}
	return p.node(ast.KindDoStmt, first, first, "do", kids...), true
}
