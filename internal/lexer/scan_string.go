package lexer

import (
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// scanString сканирует "...", """...""" и их raw-варианты с hashes решётками.
// Поддерживаются escape \0 \\ \t \n \r \" \' \u{...} и интерполяция \( ... ).
// Весь литерал, включая интерполяции, — один токен StringLit.
func (lx *Lexer) scanString(hashes int) token.Token {
	start := lx.cursor.Mark()
	for range hashes {
		lx.cursor.Bump()
	}
	if !lx.scanStringLiteral(hashes) {
		return lx.makeToken(token.Invalid, start)
	}
	return lx.makeToken(token.StringLit, start)
}

func (lx *Lexer) isRawStringStart() bool {
	n := uint32(0)
	for lx.cursor.PeekAt(n) == '#' {
		n++
	}
	return n > 0 && lx.cursor.PeekAt(n) == '"'
}

func (lx *Lexer) scanRawString() token.Token {
	hashes := 0
	for lx.cursor.PeekAt(uint32(hashes)) == '#' { // #nosec G115 -- bounded by file size
		hashes++
	}
	return lx.scanString(hashes)
}

// scanStringLiteral starts at the opening quote(s) and consumes through the
// closing delimiter. It reports false after recording a lexical error.
func (lx *Lexer) scanStringLiteral(hashes int) bool {
	start := lx.cursor.Mark()
	multi := lx.try3('"', '"', '"')
	if !multi {
		lx.cursor.Bump() // '"'
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"' && lx.atStringClose(multi, hashes):
			return true
		case b == '\n' && !multi:
			lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "newline in string literal")
			return false
		case b == '\\' && lx.escapeHashesMatch(hashes):
			lx.cursor.Bump()
			for range hashes {
				lx.cursor.Bump()
			}
			if !lx.scanEscape(multi) {
				return false
			}
		default:
			lx.bumpRune()
		}
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
	return false
}

// atStringClose consumes the closing delimiter when present.
func (lx *Lexer) atStringClose(multi bool, hashes int) bool {
	q := uint32(1)
	if multi {
		q = 3
	}
	for i := range q {
		if lx.cursor.PeekAt(i) != '"' {
			return false
		}
	}
	for i := range uint32(hashes) { // #nosec G115 -- small
		if lx.cursor.PeekAt(q+i) != '#' {
			return false
		}
	}
	lx.cursor.Off += q + uint32(hashes) // #nosec G115 -- small
	return true
}

func (lx *Lexer) escapeHashesMatch(hashes int) bool {
	for i := range uint32(hashes) { // #nosec G115 -- small
		if lx.cursor.PeekAt(1+i) != '#' {
			return false
		}
	}
	return true
}

// scanEscape is called after the backslash (and raw hashes) were consumed.
func (lx *Lexer) scanEscape(multi bool) bool {
	escStart := lx.cursor.Mark() - 1
	b := lx.cursor.Peek()
	switch b {
	case '0', '\\', 't', 'n', 'r', '"', '\'':
		lx.cursor.Bump()
		return true
	case 'u':
		lx.cursor.Bump()
		if !lx.cursor.Eat('{') {
			break
		}
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n > 0 && n <= 8 && lx.cursor.Eat('}') {
			return true
		}
	case '(':
		lx.cursor.Bump()
		return lx.scanInterpolation()
	case '\n', ' ', '\t':
		// продолжение строки в многострочном литерале: "\" + пробелы + '\n'
		if multi {
			for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
				lx.cursor.Bump()
			}
			if lx.cursor.Eat('\n') {
				return true
			}
		}
	}
	lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid escape sequence in string literal")
	return false
}

// scanInterpolation consumes an interpolated expression up to its closing ')'.
// Nested parentheses and nested string literals are balanced.
func (lx *Lexer) scanInterpolation() bool {
	start := lx.cursor.Mark()
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '(':
			depth++
			lx.cursor.Bump()
		case b == ')':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
		case b == '"':
			if !lx.scanStringLiteral(0) {
				return false
			}
		case b == '#' && lx.isRawStringStart():
			hashes := 0
			for lx.cursor.Peek() == '#' {
				lx.cursor.Bump()
				hashes++
			}
			if !lx.scanStringLiteral(hashes) {
				return false
			}
		default:
			lx.bumpRune()
		}
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string interpolation")
	return false
}
