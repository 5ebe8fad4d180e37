package token

import (
	"strings"

	"swiftstyle/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine  // ///
	TriviaDocBlock // /** */
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	case TriviaDocBlock:
		return "DocBlock"
	}
	return "Unknown"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsComment reports whether the trivia is any comment form.
func (t Trivia) IsComment() bool {
	switch t.Kind {
	case TriviaLineComment, TriviaBlockComment, TriviaDocLine, TriviaDocBlock:
		return true
	default:
		return false
	}
}

// Newlines counts '\n' characters inside the trivia.
func (t Trivia) Newlines() int {
	if t.Kind == TriviaNewline {
		return len(t.Text)
	}
	return strings.Count(t.Text, "\n")
}
