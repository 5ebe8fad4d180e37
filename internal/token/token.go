package token

import (
	"swiftstyle/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, nil or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind < kindCount
}

// IsKeyword reports whether the token is a reserved keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAssociatedtype && t.Kind <= KwTry
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWord reports whether the token is an identifier or keyword. Swift allows
// keywords as member names after '.', e.g. `.default` or `.init`.
func (t Token) IsWord() bool { return t.IsIdent() || t.IsKeyword() }

// Is reports whether the token is an identifier spelled text.
func (t Token) Is(text string) bool { return t.Kind == Ident && t.Text == text }

// NewlineBefore reports whether any leading trivia contains a line break.
func (t Token) NewlineBefore() bool {
	for _, tv := range t.Leading {
		if tv.Newlines() > 0 {
			return true
		}
	}
	return false
}

// SpaceBefore reports whether the token has any leading trivia at all.
func (t Token) SpaceBefore() bool { return len(t.Leading) > 0 }

// IsAssignOp reports whether the token is '=' or a compound assignment.
func (t Token) IsAssignOp() bool {
	switch t.Kind {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign:
		return true
	default:
		return false
	}
}
