package rules

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// spacing describes the whitespace between a token and its predecessor.
type spacing uint8

const (
	spaceNone    spacing = iota // tokens touch
	spaceSingle                 // exactly one ' '
	spaceWide                   // several spaces or a tab
	spaceNewline                // a line break (or comment block) intervenes
	spaceComment                // an inline comment intervenes
)

// spacingBefore classifies the leading trivia of tok.
func spacingBefore(tok token.Token) spacing {
	switch {
	case len(tok.Leading) == 0:
		return spaceNone
	case tok.NewlineBefore():
		return spaceNewline
	case len(tok.Leading) == 1 && tok.Leading[0].Kind == token.TriviaSpace:
		if tok.Leading[0].Text == " " {
			return spaceSingle
		}
		return spaceWide
	}
	return spaceComment
}

// gapBefore returns the span of the whitespace in front of tok, which must
// be a single space trivia.
func gapBefore(tok token.Token) source.Span {
	if len(tok.Leading) == 0 {
		return source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start}
	}
	return tok.Leading[len(tok.Leading)-1].Span
}

// opaqueTokens marks tokens inside constructs whose punctuation follows its
// own conventions: attributes, #selector and friends, directives, key paths
// and availability conditions.
func opaqueTokens(tree *ast.Tree) []bool {
	out := make([]bool, len(tree.Tokens))
	for _, n := range tree.All() {
		switch n.Kind {
		case ast.KindAttribute, ast.KindPoundExpr, ast.KindDirective, ast.KindKeyPathExpr,
			ast.KindAvailabilityCondition, ast.KindOperatorDecl:
			for i := n.First; i <= n.Last && i < len(out); i++ {
				out[i] = true
			}
		}
	}
	return out
}

// tokenAt returns the token at i or the EOF token when i is past the end.
func tokenAt(toks []token.Token, i int) token.Token {
	if i < 0 {
		return token.Token{Kind: token.Invalid}
	}
	if i >= len(toks) {
		return toks[len(toks)-1]
	}
	return toks[i]
}
