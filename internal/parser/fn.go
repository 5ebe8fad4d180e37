package parser

import (
	"strings"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// parseFunc parses `func name<T>(params) async throws -> R where ... { body }`.
// The body is optional for protocol requirements.
func (p *Parser) parseFunc(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	p.advance() // func
	nameIdx := p.pos
	var name string
	switch {
	case p.at(token.Ident):
		name = p.toks[p.advance()].Text
	case p.peek().IsPunctOrOp() && !p.atAny(token.LParen, token.LBrace):
		// operator implementation: static func == (lhs: T, rhs: T) -> Bool
		var sb strings.Builder
		sb.WriteString(p.toks[p.advance()].Text)
		for p.peek().IsPunctOrOp() && p.adjacent() && !p.atAny(token.LParen, token.Lt) {
			sb.WriteString(p.toks[p.advance()].Text)
		}
		name = sb.String()
	default:
		return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected function name")
	}
	children, ok := p.parseSignature(prefix, true)
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.LBrace) {
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, body)
	}
	return p.node(ast.KindFuncDecl, first, nameIdx, name, children...), true
}

// parseSignature parses generic params, the parameter list, effects, the
// optional return clause and the where clause.
func (p *Parser) parseSignature(children []ast.NodeID, allowReturn bool) ([]ast.NodeID, bool) {
	if p.at(token.Lt) {
		gp, ok := p.parseGenericParams()
		if !ok {
			return nil, false
		}
		children = append(children, gp)
	}
	if !p.at(token.LParen) {
		return nil, p.fail(diag.SynUnexpectedToken, "expected '(' to start parameter list")
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil, false
	}
	children = append(children, params)
	if _, ok := p.parseEffects(); !ok {
		return nil, false
	}
	if allowReturn && p.at(token.Arrow) {
		ret, ok := p.parseReturnClause()
		if !ok {
			return nil, false
		}
		children = append(children, ret)
	}
	if p.at(token.KwWhere) {
		wc, ok := p.parseWhereClause()
		if !ok {
			return nil, false
		}
		children = append(children, wc)
	}
	return children, true
}

// parseEffects consumes `async`, `throws`, `rethrows` and typed throws.
func (p *Parser) parseEffects() (string, bool) {
	var effects []string
	for {
		switch {
		case p.atIdent("async") || p.atIdent("reasync"):
			effects = append(effects, p.toks[p.advance()].Text)
		case p.atAny(token.KwThrows, token.KwRethrows):
			effects = append(effects, p.toks[p.advance()].Text)
			if p.at(token.LParen) && p.adjacent() {
				if !p.skipBalanced() {
					return "", false
				}
			}
		default:
			return strings.Join(effects, " "), true
		}
	}
}

func (p *Parser) parseReturnClause() (ast.NodeID, bool) {
	first := p.advance() // ->
	ty, ok := p.parseType()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindReturnClause, first, ast.NoTok, "", ty), true
}

func (p *Parser) parseParamList() (ast.NodeID, bool) {
	first := p.advance() // (
	var params []ast.NodeID
	for !p.at(token.RParen) {
		prm, ok := p.parseParam()
		if !ok {
			return ast.NoNodeID, false
		}
		params = append(params, prm)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list"); !ok {
		return ast.NoNodeID, false
	}
	return p.node(ast.KindParamList, first, ast.NoTok, "", params...), true
}

func isParamName(t token.Token) bool {
	return isName(t) || t.Kind == token.Underscore
}

// parseParam parses `[label] name: Type[...] [= default]`.
func (p *Parser) parseParam() (ast.NodeID, bool) {
	first := p.pos
	var kids []ast.NodeID
	for p.at(token.At) {
		attr, ok := p.parseAttribute()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, attr)
	}
	if !isParamName(p.peek()) {
		return ast.NoNodeID, p.fail(diag.SynExpectIdentifier, "expected parameter name")
	}
	nameIdx := p.advance()
	label := ""
	if isParamName(p.peek()) {
		label = p.toks[nameIdx].Text
		nameIdx = p.advance()
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' and type after parameter name"); !ok {
		return ast.NoNodeID, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.NoNodeID, false
	}
	kids = append(kids, ty)
	p.eat(token.DotDotDot)
	if p.eat(token.Assign) {
		def, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		kids = append(kids, def)
	}
	id := p.node(ast.KindParam, first, nameIdx, p.toks[nameIdx].Text, kids...)
	p.b.SetLabel(id, label)
	return id, true
}

// parseInit parses `init?<T>(params) throws { body }`.
func (p *Parser) parseInit(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	nameIdx := p.advance() // init
	text := "init"
	if p.atAny(token.Question, token.Bang) && p.adjacent() {
		text += p.toks[p.advance()].Text
	}
	children, ok := p.parseSignature(prefix, false)
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.LBrace) {
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, body)
	}
	return p.node(ast.KindInitDecl, first, nameIdx, text, children...), true
}

func (p *Parser) parseDeinit(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	nameIdx := p.advance() // deinit
	children := prefix
	if p.at(token.LBrace) {
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, body)
	}
	return p.node(ast.KindDeinitDecl, first, nameIdx, "deinit", children...), true
}

// parseSubscript parses `subscript(i: Int) -> T { get set }`.
func (p *Parser) parseSubscript(first int, prefix []ast.NodeID) (ast.NodeID, bool) {
	nameIdx := p.advance() // subscript
	children, ok := p.parseSignature(prefix, true)
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.LBrace) {
		acc, ok := p.parseAccessorBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, acc...)
	}
	return p.node(ast.KindSubscriptDecl, first, nameIdx, "subscript", children...), true
}
