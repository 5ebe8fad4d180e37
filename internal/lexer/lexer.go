package lexer

import (
	"iter"
	"unicode/utf8"

	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

type Lexer struct {
	file     *source.File
	cursor   Cursor
	opts     Options
	look     *token.Token   // 1 элементный буфер для токена
	hold     []token.Trivia // накопленные leading trivia
	prevKind token.Kind
	err      *Error
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		opts:     opts,
		prevKind: token.Invalid,
	}
}

// Err returns the first lexical error, or nil.
func (lx *Lexer) Err() *Error { return lx.err }

// Next returns the next significant token with its Leading trivia.
// After EOF or after the first error it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.err != nil {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	lx.collectLeadingTrivia()

	// EOF забирает хвостовые trivia, чтобы поток покрывал весь файл
	if lx.cursor.EOF() || lx.err != nil {
		tok := token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Leading: lx.takeHold(),
		}
		lx.prevKind = token.EOF
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '_':
		// одиночный "_" → Underscore, "_foo" → идентификатор
		if isIdentContinueByte(lx.cursor.PeekAt(1)) || lx.cursor.PeekAt(1) >= utf8.RuneSelf {
			tok = lx.scanIdentOrKeyword()
		} else {
			tok = lx.scanOperatorOrPunct()
		}

	case isIdentStartByte(ch) || ch >= utf8.RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case ch == '`':
		tok = lx.scanQuotedIdent()

	case ch == '$':
		tok = lx.scanDollarIdent()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString(0)

	case ch == '#' && lx.isRawStringStart():
		tok = lx.scanRawString()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.takeHold()
	lx.prevKind = tok.Kind
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) takeHold() []token.Trivia {
	if len(lx.hold) == 0 {
		return nil
	}
	out := make([]token.Trivia, len(lx.hold))
	copy(out, lx.hold)
	lx.hold = lx.hold[:0]
	return out
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) makeToken(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// Tokens returns a restartable sequence of the file's tokens, ending with EOF.
// Every range over the sequence lexes the file again from the start.
func Tokens(file *source.File, opts Options) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		lx := New(file, opts)
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// All lexes the whole file. On a lexical error it returns the tokens
// scanned so far together with the error.
func All(file *source.File, opts Options) ([]token.Token, error) {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if err := lx.Err(); err != nil {
		return toks, err
	}
	return toks, nil
}
