package token_test

import (
	"testing"

	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

func TestNewlineBefore(t *testing.T) {
	same := token.Token{Kind: token.LParen, Leading: []token.Trivia{{Kind: token.TriviaSpace, Text: " "}}}
	if same.NewlineBefore() {
		t.Fatal("space-only trivia must not count as newline")
	}
	block := token.Token{Kind: token.LParen, Leading: []token.Trivia{{
		Kind: token.TriviaBlockComment,
		Span: source.Span{Start: 0, End: 7},
		Text: "/*\n x*/",
	}}}
	if !block.NewlineBefore() {
		t.Fatal("multi-line block comment must count as newline")
	}
	nl := token.Trivia{Kind: token.TriviaNewline, Text: "\n\n\n"}
	if nl.Newlines() != 3 {
		t.Fatalf("Newlines = %d", nl.Newlines())
	}
	if !(token.Trivia{Kind: token.TriviaDocLine}).IsComment() {
		t.Fatal("doc line is a comment")
	}
}
