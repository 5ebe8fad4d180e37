package lexer

import (
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// Поддержка: 0, 1_000, 0b..., 0o..., 0x..., 1.5, 1e-3, 0x1p-2.
// После '.' читаем только целое: t.0.1 — это доступ к элементам кортежа.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'b':
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.finishRadix(start, func(b byte) bool { return b == '0' || b == '1' })
		case 'o':
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.finishRadix(start, func(b byte) bool { return b >= '0' && b <= '7' })
		case 'x':
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.scanHexNumber(start)
		}
	}

	lx.eatDigits(isDec)

	if lx.prevKind == token.Dot {
		return lx.finishNumber(start, kind)
	}

	// дробная часть: только если за точкой цифра ("1...5" — диапазон)
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.eatDigits(isDec)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			tok := lx.makeToken(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digit in exponent")
			return tok
		}
		lx.eatDigits(isDec)
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) scanHexNumber(start Mark) token.Token {
	kind := token.IntLit
	if !isHex(lx.cursor.Peek()) {
		tok := lx.makeToken(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "expected hexadecimal digit")
		return tok
	}
	lx.eatDigits(isHex)
	if lx.cursor.Peek() == '.' && isHex(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.eatDigits(isHex)
	}
	if b := lx.cursor.Peek(); b == 'p' || b == 'P' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			tok := lx.makeToken(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digit in exponent")
			return tok
		}
		lx.eatDigits(isDec)
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) finishRadix(start Mark, digit func(byte) bool) token.Token {
	if !digit(lx.cursor.Peek()) {
		tok := lx.makeToken(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after radix prefix")
		return tok
	}
	lx.eatDigits(digit)
	return lx.finishNumber(start, token.IntLit)
}

// finishNumber rejects identifier characters glued to a literal (12abc).
func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if b := lx.cursor.Peek(); isIdentStartByte(b) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		tok := lx.makeToken(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "invalid character in number literal")
		return tok
	}
	return lx.makeToken(kind, start)
}

func (lx *Lexer) eatDigits(digit func(byte) bool) {
	for {
		b := lx.cursor.Peek()
		if !digit(b) && b != '_' {
			return
		}
		lx.cursor.Bump()
	}
}
