package lexer

import (
	"unicode/utf8"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет LookupKeyword.
// Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.makeToken(token.Invalid, start)
	}
	if r < utf8.RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		lx.bumpRune()
	}
	for {
		b := lx.cursor.Peek()
		if b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.makeToken(token.Ident, start)
	if tok.Text == "_" {
		tok.Kind = token.Underscore
		return tok
	}
	// ключевые слова после '.' (.default, .init) парсер принимает как имена членов
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanQuotedIdent scans `name`, which is always an identifier.
func (lx *Lexer) scanQuotedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '`' {
			lx.cursor.Bump()
			return lx.makeToken(token.Ident, start)
		}
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	tok := lx.makeToken(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unterminated quoted identifier")
	return tok
}

// scanDollarIdent scans closure shorthand arguments ($0) and property wrapper
// projections ($value).
func (lx *Lexer) scanDollarIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	n := 0
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	if n == 0 {
		tok := lx.makeToken(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected '$'")
		return tok
	}
	return lx.makeToken(token.Ident, start)
}
