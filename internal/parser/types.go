package parser

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

var typeSpecifiers = map[string]bool{
	"borrowing": true, "consuming": true, "sending": true, "__owned": true, "__shared": true,
}

// parseType parses a full type: attributes, specifiers, some/any,
// compositions and function types.
func (p *Parser) parseType() (ast.NodeID, bool) {
	if !p.enter() {
		return ast.NoNodeID, false
	}
	defer p.leave()

	first := p.pos
	t := p.peek()
	switch {
	case t.Kind == token.At:
		attr, ok := p.parseAttribute()
		if !ok {
			return ast.NoNodeID, false
		}
		inner, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		name := p.b.Nodes.Get(uint32(attr)).Text
		return p.node(ast.KindAttributedType, first, first, "@"+name, attr, inner), true
	case t.Kind == token.KwInout || t.Kind == token.Ident && typeSpecifiers[t.Text] && p.startsTypeAt(1):
		p.advance()
		inner, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindAttributedType, first, first, t.Text, inner), true
	case (t.Is("some") || t.Is("any")) && p.startsTypeAt(1):
		p.advance()
		inner, ok := p.parseComposition()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindOpaqueType, first, first, t.Text, inner), true
	}

	ty, ok := p.parseComposition()
	if !ok {
		return ast.NoNodeID, false
	}
	if p.b.Nodes.Get(uint32(ty)).Kind == ast.KindTupleType &&
		(p.atIdent("async") || p.atAny(token.KwThrows, token.KwRethrows, token.Arrow)) {
		if _, ok := p.parseEffects(); !ok {
			return ast.NoNodeID, false
		}
		arrow, ok := p.expect(token.Arrow, diag.SynExpectType, "expected '->' in function type")
		if !ok {
			return ast.NoNodeID, false
		}
		ret, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.node(ast.KindFunctionType, first, arrow, "->", ty, ret), true
	}
	return ty, true
}

// startsTypeAt reports whether the token n ahead can begin a type.
func (p *Parser) startsTypeAt(n int) bool {
	switch p.peekN(n).Kind {
	case token.Ident, token.KwAny, token.KwSelfType, token.LParen, token.LBracket, token.At:
		return true
	}
	return false
}

// parseComposition parses `A & B & C`.
func (p *Parser) parseComposition() (ast.NodeID, bool) {
	first := p.pos
	ty, ok := p.parseTypePostfix()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.at(token.Amp) {
		return ty, true
	}
	parts := []ast.NodeID{ty}
	for p.eat(token.Amp) {
		next, ok := p.parseTypePostfix()
		if !ok {
			return ast.NoNodeID, false
		}
		parts = append(parts, next)
	}
	return p.node(ast.KindCompositionType, first, ast.NoTok, "&", parts...), true
}

// parseTypePostfix — суффиксы типа: T?, T!, T.Type, T.Protocol.
func (p *Parser) parseTypePostfix() (ast.NodeID, bool) {
	first := p.pos
	ty, ok := p.parseTypePrimary()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		switch {
		case p.at(token.Question) && p.adjacent():
			idx := p.advance()
			ty = p.node(ast.KindOptionalType, first, idx, "?", ty)
		case p.at(token.Bang) && p.adjacent():
			idx := p.advance()
			ty = p.node(ast.KindIUOType, first, idx, "!", ty)
		case p.at(token.Dot) && (p.peekN(1).Is("Type") || p.peekN(1).Is("Protocol")):
			p.advance()
			idx := p.advance()
			ty = p.node(ast.KindMetatype, first, idx, p.toks[idx].Text, ty)
		default:
			return ty, true
		}
	}
}

func (p *Parser) parseTypePrimary() (ast.NodeID, bool) {
	first := p.pos
	switch p.peek().Kind {
	case token.LParen:
		return p.parseTupleType()
	case token.LBracket:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		kind, kids := ast.KindArrayType, []ast.NodeID{elem}
		if p.eat(token.Colon) {
			val, ok := p.parseType()
			if !ok {
				return ast.NoNodeID, false
			}
			kind, kids = ast.KindDictType, append(kids, val)
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' in collection type"); !ok {
			return ast.NoNodeID, false
		}
		return p.node(kind, first, ast.NoTok, "", kids...), true
	case token.Ident, token.KwAny, token.KwSelfType:
		ty, ok := p.parseTypeIdent()
		if !ok {
			return ast.NoNodeID, false
		}
		for p.at(token.Dot) && isName(p.peekN(1)) && !p.peekN(1).Is("Type") && !p.peekN(1).Is("Protocol") {
			p.advance()
			idx := p.advance()
			kids := []ast.NodeID{ty}
			args, ok := p.parseGenericArgs()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, args...)
			ty = p.node(ast.KindMemberType, first, idx, p.textBetween(first, idx+1), kids...)
		}
		return ty, true
	}
	return ast.NoNodeID, p.fail(diag.SynExpectType, "expected type")
}

func (p *Parser) parseTypeIdent() (ast.NodeID, bool) {
	idx := p.advance()
	args, ok := p.parseGenericArgs()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindTypeIdent, idx, idx, p.toks[idx].Text, args...), true
}

// parseGenericArgs parses `<A, B>` glued to the preceding name.
func (p *Parser) parseGenericArgs() ([]ast.NodeID, bool) {
	if !p.at(token.Lt) || !p.adjacent() {
		return nil, true
	}
	p.advance()
	var args []ast.NodeID
	for !p.at(token.Gt) {
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		args = append(args, ty)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.Gt, diag.SynExpectType, "expected '>' to close generic arguments"); !ok {
		return nil, false
	}
	return args, true
}

// parseTupleType parses `(Int, label: String, _ name: T...)`. Also used for
// enum associated values.
func (p *Parser) parseTupleType() (ast.NodeID, bool) {
	first := p.advance() // (
	var elems []ast.NodeID
	for !p.at(token.RParen) {
		ef := p.pos
		label := ""
		switch {
		case isParamName(p.peek()) && p.peekN(1).Kind == token.Colon:
			label = p.toks[p.advance()].Text
			p.advance()
		case isParamName(p.peek()) && isParamName(p.peekN(1)) && p.peekN(2).Kind == token.Colon:
			p.advance()
			label = p.toks[p.advance()].Text
			p.advance()
		}
		ty, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		p.eat(token.DotDotDot)
		kids := []ast.NodeID{ty}
		if p.eat(token.Assign) {
			def, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, def)
		}
		el := p.node(ast.KindTupleTypeElement, ef, ast.NoTok, "", kids...)
		p.b.SetLabel(el, label)
		elems = append(elems, el)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close tuple type"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindTupleType, first, ast.NoTok, "", elems...), true
}
