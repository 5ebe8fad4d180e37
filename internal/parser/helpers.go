package parser

import (
	"slices"
	"strings"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

func (p *Parser) peek() token.Token { return p.peekN(0) }

// peekN looks n tokens ahead; past the end it returns EOF.
func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atIdent reports whether the next token is the contextual keyword text.
func (p *Parser) atIdent(text string) bool {
	return p.peek().Is(text)
}

// advance съедает текущий токен и возвращает его индекс.
func (p *Parser) advance() int {
	i := p.pos
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return i
}

// eat consumes the token when it has kind k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect — ожидаем конкретный токен. Если нет — фиксируем ошибку и возвращаем false.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (int, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return -1, p.fail(code, msg)
}

// fail records the syntax error at the current token and returns false so
// callers can `return ..., p.fail(...)`.
func (p *Parser) fail(code diag.Code, msg string) bool {
	if p.speculating > 0 {
		return false
	}
	if p.err == nil {
		tok := p.peek()
		sp := tok.Span
		if tok.Kind == token.EOF && p.pos > 0 {
			prev := p.toks[p.pos-1].Span
			sp.Start, sp.End = prev.End, prev.End
		}
		if tok.Kind != token.EOF {
			msg += ", found '" + tok.Text + "'"
		} else {
			msg += ", found end of file"
		}
		p.err = &Error{Code: code, Span: sp, Msg: msg}
	}
	return false
}

// newlineBefore reports whether the next token starts a new line.
func (p *Parser) newlineBefore() bool {
	return p.peek().NewlineBefore()
}

// adjacent reports whether the next token follows the previous one without
// any whitespace or comment.
func (p *Parser) adjacent() bool {
	return p.pos > 0 && len(p.peek().Leading) == 0
}

func (p *Parser) node(kind ast.Kind, first, tok int, text string, children ...ast.NodeID) ast.NodeID {
	return p.b.New(kind, first, p.pos-1, tok, text, children...)
}

func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		return p.fail(diag.SynTooDeep, "nesting exceeds parser limit")
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

// speculate runs fn as a lookahead parse. On failure the position and the
// node arena are restored and no error is recorded.
func (p *Parser) speculate(fn func() (ast.NodeID, bool)) (ast.NodeID, bool) {
	pos, nodes, depth := p.pos, p.b.Nodes.Len(), p.depth
	p.speculating++
	id, ok := fn()
	p.speculating--
	if ok {
		return id, true
	}
	p.pos, p.depth = pos, depth
	p.b.Nodes.Truncate(nodes)
	return ast.NoNodeID, false
}

// endOfStatement checks the separator after a statement: ';', a newline, a
// closing brace or the end of file.
func (p *Parser) endOfStatement() bool {
	if p.err != nil {
		return false
	}
	if p.eat(token.Semicolon) {
		return true
	}
	if p.atAny(token.RBrace, token.EOF) || p.newlineBefore() {
		return true
	}
	if p.atAny(token.KwCase, token.KwDefault) {
		return true
	}
	return p.fail(diag.SynUnexpectedToken, "consecutive statements on a line must be separated by ';'")
}

// skipBalanced consumes a parenthesised group starting at '(' or '['.
func (p *Parser) skipBalanced() bool {
	open := p.peek().Kind
	var closeKind token.Kind
	switch open {
	case token.LParen:
		closeKind = token.RParen
	case token.LBracket:
		closeKind = token.RBracket
	case token.LBrace:
		closeKind = token.RBrace
	default:
		return true
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.advance()
		if depth == 0 {
			return true
		}
	}
	return p.fail(unclosedCode(closeKind), "unclosed '"+open.String()+"'")
}

func unclosedCode(k token.Kind) diag.Code {
	switch k {
	case token.RParen:
		return diag.SynUnclosedParen
	case token.RBracket:
		return diag.SynUnclosedBracket
	default:
		return diag.SynUnclosedBrace
	}
}

// skipToLineEnd consumes tokens until the next one starts a new line.
func (p *Parser) skipToLineEnd() {
	for !p.at(token.EOF) {
		p.advance()
		if p.newlineBefore() {
			return
		}
	}
}

// isName reports whether tok may be used as a name after '.' or as an
// argument label: identifiers and keywords.
func isName(tok token.Token) bool {
	return tok.IsWord()
}

// textBetween joins the spelling of tokens [from, to) without trivia.
func (p *Parser) textBetween(from, to int) string {
	var sb strings.Builder
	for i := from; i < to && i < len(p.toks); i++ {
		sb.WriteString(p.toks[i].Text)
	}
	return sb.String()
}
