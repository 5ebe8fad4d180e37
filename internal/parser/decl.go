package parser

import (
	"strings"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// isDeclStart reports whether the token n positions ahead begins a
// declaration. allowCase admits enum case declarations inside type bodies.
func (p *Parser) isDeclStart(n int, allowCase bool) bool {
	t := p.peekN(n)
	switch t.Kind {
	case token.At:
		return true
	case token.KwImport, token.KwStruct, token.KwEnum, token.KwProtocol, token.KwExtension,
		token.KwTypealias, token.KwAssociatedtype, token.KwFunc, token.KwDeinit,
		token.KwSubscript, token.KwLet, token.KwVar, token.KwOperator, token.KwClass:
		return true
	case token.KwInit:
		switch p.peekN(n + 1).Kind {
		case token.LParen, token.Question, token.Bang, token.Lt:
			return true
		}
		return false
	case token.KwPrivate, token.KwFileprivate, token.KwInternal, token.KwPublic, token.KwStatic:
		return true
	case token.KwOpen:
		return p.isDeclStart(n+p.modifierArgLen(n+1)+1, allowCase)
	case token.KwCase:
		return allowCase
	case token.Ident:
		next := p.peekN(n + 1)
		switch t.Text {
		case "actor", "precedencegroup", "macro":
			if next.Kind == token.Ident {
				return true
			}
		}
		if ast.IsModifier(t.Text) {
			return p.isDeclStart(n+p.modifierArgLen(n+1)+1, allowCase)
		}
	}
	return false
}

// modifierArgLen returns the length of a `(set)`-style modifier argument
// starting n tokens ahead, or zero.
func (p *Parser) modifierArgLen(n int) int {
	if p.peekN(n).Kind == token.LParen && p.peekN(n+1).Kind == token.Ident && p.peekN(n+2).Kind == token.RParen {
		return 3
	}
	return 0
}

// atModifier reports whether the current token is a declaration modifier
// rather than the start of the declaration itself.
func (p *Parser) atModifier(allowCase bool) bool {
	t := p.peek()
	switch t.Kind {
	case token.KwPrivate, token.KwFileprivate, token.KwInternal, token.KwPublic,
		token.KwStatic, token.KwOpen:
		return true
	case token.KwClass:
		// class func / class var / class override ...
		next := p.peekN(1)
		return next.Kind != token.Ident || ast.IsModifier(next.Text) && p.isDeclStart(1, allowCase)
	case token.Ident:
		return ast.IsModifier(t.Text) && p.isDeclStart(1+p.modifierArgLen(1), allowCase)
	}
	return false
}

// parseDecl — разбор объявления: атрибуты, модификаторы, затем ключевое слово.
func (p *Parser) parseDecl(allowCase bool) (ast.NodeID, bool) {
	if !p.enter() {
		return ast.NoNodeID, false
	}
	defer p.leave()

	first := p.pos
	var prefix []ast.NodeID
	for {
		if p.at(token.At) {
			attr, ok := p.parseAttribute()
			if !ok {
				return ast.NoNodeID, false
			}
			prefix = append(prefix, attr)
			continue
		}
		if p.atModifier(allowCase) {
			prefix = append(prefix, p.parseModifier())
			continue
		}
		break
	}

	t := p.peek()
	switch t.Kind {
	case token.KwImport:
		return p.parseImport(first, prefix)
	case token.KwClass:
		return p.parseTypeDecl(first, prefix, ast.KindClassDecl)
	case token.KwStruct:
		return p.parseTypeDecl(first, prefix, ast.KindStructDecl)
	case token.KwEnum:
		return p.parseTypeDecl(first, prefix, ast.KindEnumDecl)
	case token.KwProtocol:
		return p.parseTypeDecl(first, prefix, ast.KindProtocolDecl)
	case token.KwExtension:
		return p.parseExtension(first, prefix)
	case token.KwTypealias:
		return p.parseTypealias(first, prefix)
	case token.KwAssociatedtype:
		return p.parseAssociatedType(first, prefix)
	case token.KwFunc:
		return p.parseFunc(first, prefix)
	case token.KwInit:
		return p.parseInit(first, prefix)
	case token.KwDeinit:
		return p.parseDeinit(first, prefix)
	case token.KwSubscript:
		return p.parseSubscript(first, prefix)
	case token.KwLet, token.KwVar:
		return p.parseVarDecl(first, prefix)
	case token.KwCase:
		if allowCase {
			return p.parseEnumCase(first, prefix)
		}
	case token.KwOperator:
		return p.parseOperatorDecl(first, prefix)
	case token.Ident:
		switch t.Text {
		case "actor":
			return p.parseTypeDecl(first, prefix, ast.KindActorDecl)
		case "precedencegroup":
			return p.parsePrecedenceGroup(first, prefix)
		case "macro":
			return p.parseFunc(first, prefix)
		}
	}
	return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected declaration")
}

// parseAttribute parses `@name` with an optional argument clause glued to it.
func (p *Parser) parseAttribute() (ast.NodeID, bool) {
	first := p.advance() // @
	if !isName(p.peek()) || !p.adjacent() {
		return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected attribute name after '@'")
	}
	nameIdx := p.advance()
	name := p.toks[nameIdx].Text
	// @unknown default, @available(...), @objc(name:)
	for p.at(token.Dot) && p.adjacent() && isName(p.peekN(1)) {
		p.advance()
		name += "." + p.toks[p.advance()].Text
	}
	if p.at(token.LParen) && p.adjacent() {
		if !p.skipBalanced() {
			return ast.NoNodeID, false
		}
	}
	return p.node(ast.KindAttribute, first, nameIdx, name), true
}

func (p *Parser) parseModifier() ast.NodeID {
	first := p.advance()
	text := p.toks[first].Text
	if n := p.modifierArgLen(0); n > 0 {
		text += "(" + p.peekN(1).Text + ")"
		p.pos += n
	}
	return p.node(ast.KindModifier, first, first, text)
}

func (p *Parser) parseImport(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // import
	switch p.peek().Kind {
	case token.KwStruct, token.KwClass, token.KwEnum, token.KwProtocol,
		token.KwTypealias, token.KwFunc, token.KwLet, token.KwVar:
		p.advance()
	}
	if !isName(p.peek()) {
		return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected module name")
	}
	nameIdx := p.advance()
	var path strings.Builder
	path.WriteString(p.toks[nameIdx].Text)
	for p.at(token.Dot) && isName(p.peekN(1)) {
		p.advance()
		path.WriteString(".")
		path.WriteString(p.toks[p.advance()].Text)
	}
	return p.node(ast.KindImportDecl, first, nameIdx, path.String(), prefix...), true
}

// expectName consumes a declared name.
func (p *Parser) expectName(what string) (int, bool) {
	if p.at(token.Ident) {
		return p.advance(), true
	}
	return -1, p.fail(diag.SynExpectIdentifier, "expected "+what+" name")
}

func (p *Parser) parseTypeDecl(first int, prefix []ast.NodeID, kind ast.Kind) (ast.NodeID, bool) {
	p.advance() // class / struct / enum / protocol / actor
	nameIdx, ok := p.expectName("type")
	if !ok {
		return ast.NoNodeID, false
	}
	children := prefix
	if p.at(token.Lt) {
		gp, ok := p.parseGenericParams()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, gp)
	}
	if p.at(token.Colon) {
		inh, ok := p.parseInheritance()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, inh)
	}
	if p.at(token.KwWhere) {
		wc, ok := p.parseWhereClause()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, wc)
	}
	body, ok := p.parseMemberBlock(kind == ast.KindEnumDecl)
	if !ok {
		return ast.NoNodeID, false
	}
	children = append(children, body)
	return p.node(kind, first, nameIdx, p.toks[nameIdx].Text, children...), true
}

func (p *Parser) parseExtension(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // extension
	typeFirst := p.pos
	ext, ok := p.parseType()
	if !ok {
		return ast.NoNodeID, false
	}
	typeEnd := p.pos
	children := append(prefix, ext)
	if p.at(token.Colon) {
		inh, ok := p.parseInheritance()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, inh)
	}
	if p.at(token.KwWhere) {
		wc, ok := p.parseWhereClause()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, wc)
	}
	body, ok := p.parseMemberBlock(false)
	if !ok {
		return ast.NoNodeID, false
	}
	children = append(children, body)
	return p.node(ast.KindExtensionDecl, first, typeFirst, p.textBetween(typeFirst, typeEnd), children...), true
}

// parseMemberBlock parses `{ members }` of a type or extension.
func (p *Parser) parseMemberBlock(allowCase bool) (ast.NodeID, bool) {
	first, ok := p.expect(token.LBrace, diag.SynExpectBody, "expected '{' to start type body")
	if !ok {
		return ast.NoNodeID, false
	}
	var members []ast.NodeID
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return ast.NoNodeID, p.fail(diag.SynUnclosedBrace, "expected '}' to close type body")
		}
		if p.eat(token.Semicolon) {
			continue
		}
		var (
			id ast.NodeID
			ok bool
		)
		switch {
		case p.at(token.Hash):
			id, ok = p.parseStatement()
		case p.isDeclStart(0, allowCase):
			id, ok = p.parseDecl(allowCase)
		default:
			return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected declaration in type body")
		}
		if !ok {
			return ast.NoNodeID, false
		}
		members = append(members, id)
		if !p.endOfStatement() {
			return ast.NoNodeID, false
		}
	}
	p.advance() // }
	return p.node(ast.KindCodeBlock, first, ast.NoTok, "members", members...), true
}

func (p *Parser) parseInheritance() (ast.NodeID, bool) {
	first := p.advance() // :
	var types []ast.NodeID
	for {
		var (
			ty ast.NodeID
			ok bool
		)
		if p.at(token.KwClass) {
			// protocol P: class
			idx := p.advance()
			ty, ok = p.node(ast.KindTypeIdent, idx, idx, "class"), true
		} else {
			ty, ok = p.parseType()
		}
		if !ok {
			return ast.NoNodeID, false
		}
		types = append(types, ty)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.node(ast.KindInheritance, first, ast.NoTok, "", types...), true
}

// parseGenericParams parses `<T, U: P>`.
func (p *Parser) parseGenericParams() (ast.NodeID, bool) {
	first := p.advance() // <
	var params []ast.NodeID
	for !p.at(token.Gt) {
		pf := p.pos
		if p.atIdent("each") && p.peekN(1).Kind == token.Ident {
			p.advance()
		}
		nameIdx, ok := p.expectName("generic parameter")
		if !ok {
			return ast.NoNodeID, false
		}
		var kids []ast.NodeID
		if p.eat(token.Colon) {
			bound, ok := p.parseType()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, bound)
		}
		params = append(params, p.node(ast.KindGenericParam, pf, nameIdx, p.toks[nameIdx].Text, kids...))
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>' to close generic parameters"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindGenericParams, first, ast.NoTok, "", params...), true
}

// parseWhereClause parses `where T: P, T.Element == U`.
func (p *Parser) parseWhereClause() (ast.NodeID, bool) {
	first := p.advance() // where
	var reqs []ast.NodeID
	for {
		lhs, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		reqs = append(reqs, lhs)
		if p.at(token.Colon) || p.at(token.EqEq) {
			p.advance()
			rhs, ok := p.parseType()
			if !ok {
				return ast.NoNodeID, false
			}
			reqs = append(reqs, rhs)
		} else {
			return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected ':' or '==' in where clause")
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.node(ast.KindWhereClause, first, ast.NoTok, "", reqs...), true
}

func (p *Parser) parseTypealias(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // typealias
	nameIdx, ok := p.expectName("typealias")
	if !ok {
		return ast.NoNodeID, false
	}
	children := prefix
	if p.at(token.Lt) {
		gp, ok := p.parseGenericParams()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, gp)
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in typealias"); !ok {
		return ast.NoNodeID, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.NoNodeID, false
	}
	children = append(children, ty)
	return p.node(ast.KindTypealiasDecl, first, nameIdx, p.toks[nameIdx].Text, children...), true
}

func (p *Parser) parseAssociatedType(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // associatedtype
	nameIdx, ok := p.expectName("associated type")
	if !ok {
		return ast.NoNodeID, false
	}
	children := prefix
	if p.at(token.Colon) {
		inh, ok := p.parseInheritance()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, inh)
	}
	if p.eat(token.Assign) {
		ty, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, ty)
	}
	if p.at(token.KwWhere) {
		wc, ok := p.parseWhereClause()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, wc)
	}
	return p.node(ast.KindAssociatedTypeDecl, first, nameIdx, p.toks[nameIdx].Text, children...), true
}

// parseOperatorDecl parses `infix operator <> : Group`.
func (p *Parser) parseOperatorDecl(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // operator
	if !p.peek().IsPunctOrOp() {
		return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, "expected operator")
	}
	nameIdx := p.pos
	var name strings.Builder
	name.WriteString(p.toks[p.advance()].Text)
	for p.peek().IsPunctOrOp() && p.adjacent() && !p.atAny(token.Colon, token.LBrace) {
		name.WriteString(p.toks[p.advance()].Text)
	}
	if p.eat(token.Colon) {
		if _, ok := p.expectName("precedence group"); !ok {
			return ast.NoNodeID, false
		}
	}
	return p.node(ast.KindOperatorDecl, first, nameIdx, name.String(), prefix...), true
}

// parsePrecedenceGroup keeps the group body opaque.
func (p *Parser) parsePrecedenceGroup(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // precedencegroup
	nameIdx, ok := p.expectName("precedence group")
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.at(token.LBrace) {
		return ast.NoNodeID, p.fail(diag.SynExpectBody, "expected '{' after precedence group name")
	}
	if !p.skipBalanced() {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindOperatorDecl, first, nameIdx, p.toks[nameIdx].Text, prefix...), true
}

// parseEnumCase parses `case a, b(Int), c = 3`.
func (p *Parser) parseEnumCase(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // case
	children := prefix
	for {
		ef := p.pos
		nameIdx, ok := p.expectName("enum case")
		if !ok {
			return ast.NoNodeID, false
		}
		var kids []ast.NodeID
		if p.at(token.LParen) {
			assoc, ok := p.parseTupleType()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, assoc)
		}
		if p.eat(token.Assign) {
			raw, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			kids = append(kids, raw)
		}
		children = append(children, p.node(ast.KindEnumElement, ef, nameIdx, p.toks[nameIdx].Text, kids...))
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.node(ast.KindEnumCaseDecl, first, ast.NoTok, "case", children...), true
}
