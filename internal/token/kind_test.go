package token_test

import (
	"testing"

	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNil}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwLet, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Minus, token.Assign, token.ShlAssign, token.EqEqEq,
		token.BangEqEq, token.QQ, token.DotDotDot, token.DotDotLt, token.Arrow,
		token.LBrace, token.RBracket, token.At, token.Hash, token.Backslash, token.Underscore,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.KwFunc, token.StringLit, token.EOF} {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, k := range []token.Kind{token.KwAssociatedtype, token.KwGuard, token.KwTry, token.KwSelfType} {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
	if tok(token.Ident).IsKeyword() || tok(token.IntLit).IsKeyword() {
		t.Fatal("ident/literal must not be keywords")
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.KwGuard:  "guard",
		token.DotDotLt: "..<",
		token.EOF:      "EOF",
		token.Ident:    "Ident",
		token.QQ:       "??",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
