package lexer

import (
	"swiftstyle/internal/diag"
	"swiftstyle/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\r', '\f', '\v' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... до \n -> TriviaLineComment, ///... -> TriviaDocLine
//   - /* ... */ -> TriviaBlockComment, /** ... */ -> TriviaDocBlock (вложенность поддерживается)
//   - #! в начале файла -> TriviaLineComment
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	if lx.cursor.Off == 0 {
		lx.scanShebang()
	}
	for !lx.cursor.EOF() && lx.err == nil {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if isSpace(b) {
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanComment() {
			continue
		}

		break
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) scanShebang() {
	if b0, b1, ok := lx.cursor.Peek2(); !ok || b0 != '#' || b1 != '!' {
		return
	}
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	lx.pushTrivia(token.TriviaLineComment, start)
}

// scanComment handles //, ///, /* */ and /** */.
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		kind := token.TriviaLineComment
		// "///" is a doc comment, "////" is a plain one
		if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		return true

	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		kind := token.TriviaBlockComment
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocBlock
		}
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if c0, c1, ok := lx.cursor.Peek2(); ok {
				if c0 == '/' && c1 == '*' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth++
					continue
				}
				if c0 == '*' && c1 == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		return true
	}
	return false
}
