package parser

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// parseVarDecl parses `let`/`var` with one or more comma separated bindings.
func (p *Parser) parseVarDecl(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	kwIdx := p.advance()
	children := prefix
	for {
		bf := p.pos
		pat, ok := p.parsePattern()
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
		hasInit := false
		if p.eat(token.Assign) {
			val, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, val)
			hasInit = true
		}
		if p.at(token.LBrace) && (!hasInit || p.atObserverBlock()) {
			acc, ok := p.parseAccessorBlock()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, acc...)
		}
		pn := p.b.Nodes.Get(uint32(pat))
		children = append(children, p.node(ast.KindBinding, bf, pn.Tok, pn.Text, kids...))
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.node(ast.KindVarDecl, first, kwIdx, p.toks[kwIdx].Text, children...), true
}

// parsePattern parses an identifier, wildcard or tuple pattern.
func (p *Parser) parsePattern() (ast.NodeID, bool) {
	if !p.enter() {
		return ast.NoNodeID, false
	}
	defer p.leave()

	t := p.peek()
	switch {
	case t.Kind == token.Underscore:
		idx := p.advance()
		return p.node(ast.KindWildcardPattern, idx, ast.NoTok, "_"), true
	case t.Kind == token.Ident || t.Kind == token.KwOpen:
		idx := p.advance()
		return p.node(ast.KindIdentPattern, idx, idx, t.Text), true
	case t.Kind == token.LParen:
		first := p.advance()
		var elems []ast.NodeID
		for !p.at(token.RParen) {
			el, ok := p.parsePattern()
			if !ok {
				return ast.NoNodeID, false
			}
			elems = append(elems, el)
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close tuple pattern"); !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindTuplePattern, first, ast.NoTok, "", elems...), true
	}
	return ast.NoNodeID, p.fail(diag.SynExpectPattern, "expected pattern")
}

func isAccessorName(text string) bool {
	switch text {
	case "get", "set", "willSet", "didSet", "_read", "_modify", "unsafeAddress", "unsafeMutableAddress":
		return true
	}
	return false
}

// atObserverBlock reports whether '{' opens willSet/didSet observers.
func (p *Parser) atObserverBlock() bool {
	if !p.at(token.LBrace) {
		return false
	}
	n := 1
	for p.peekN(n).Kind == token.At {
		n += 2
	}
	next := p.peekN(n)
	return next.Is("willSet") || next.Is("didSet")
}

// atAccessorList reports whether the '{' at the current position starts
// explicit accessors rather than an implicit getter body.
func (p *Parser) atAccessorList() bool {
	n := 1
	for {
		t := p.peekN(n)
		if t.Kind == token.At {
			n += 2
			if p.peekN(n).Kind == token.LParen {
				return false
			}
			continue
		}
		if t.Is("mutating") || t.Is("nonmutating") || t.Is("__consuming") {
			n++
			continue
		}
		break
	}
	name := p.peekN(n)
	if name.Kind != token.Ident || !isAccessorName(name.Text) {
		return false
	}
	after := p.peekN(n + 1)
	switch after.Kind {
	case token.LBrace, token.RBrace, token.KwThrows:
		return true
	case token.LParen:
		return name.Text != "get"
	case token.Ident:
		return isAccessorName(after.Text) || after.Text == "async"
	}
	return after.NewlineBefore()
}

// parseAccessorBlock returns either accessor nodes or a single code block
// holding the implicit getter.
func (p *Parser) parseAccessorBlock() ([]ast.NodeID, bool) {
	if !p.atAccessorList() {
		body, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return []ast.NodeID{body}, true
	}
	p.advance() // {
	var out []ast.NodeID
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.fail(diag.SynUnclosedBrace, "expected '}' to close accessor block")
		}
		acc, ok := p.parseAccessor()
		if !ok {
			return nil, false
		}
		out = append(out, acc)
		p.eat(token.Semicolon)
	}
	p.advance() // }
	return out, true
}

func (p *Parser) parseAccessor() (ast.NodeID, bool) {
	first := p.pos
	var kids []ast.NodeID
	for {
		if p.at(token.At) {
			attr, ok := p.parseAttribute()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, attr)
			continue
		}
		if p.atIdent("mutating") || p.atIdent("nonmutating") || p.atIdent("__consuming") {
			idx := p.advance()
			kids = append(kids, p.node(ast.KindModifier, idx, idx, p.toks[idx].Text))
			continue
		}
		break
	}
	if !p.at(token.Ident) || !isAccessorName(p.peek().Text) {
		return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected accessor")
	}
	nameIdx := p.advance()
	if p.at(token.LParen) {
		if !p.skipBalanced() {
			return ast.NoNodeID, false
		}
	}
	if _, ok := p.parseEffects(); !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.LBrace) {
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, body)
	}
	return p.node(ast.KindAccessor, first, nameIdx, p.toks[nameIdx].Text, kids...), true
}
