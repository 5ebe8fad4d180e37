package rules

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/fix"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/token"
)

func trailingSemicolon() *rule.Rule {
	return &rule.Rule{
		ID:          "trailing_semicolon",
		Code:        diag.StyTrailingSemicolon,
		Description: "Statements do not end with a semicolon.",
		Severity:    diag.SevWarning,
		Check:       checkTrailingSemicolon,
	}
}

func checkTrailingSemicolon(p *rule.Pass) {
	toks := p.Unit.Tokens
	for i, tok := range toks {
		if tok.Kind != token.Semicolon {
			continue
		}
		next := tokenAt(toks, i+1)
		if next.Kind != token.EOF && !next.NewlineBefore() {
			continue
		}
		p.Finding(tok.Span, "line ends with a semicolon").
			WithFixSuggestion(fix.Safe("remove semicolon", fix.Delete(tok.Span, ";"))).
			Emit()
	}
}

func commaSpacing() *rule.Rule {
	return &rule.Rule{
		ID:          "comma_spacing",
		Code:        diag.StyCommaSpacing,
		Description: "No space before a comma and one space after it.",
		Severity:    diag.SevWarning,
		Check:       checkCommaSpacing,
	}
}

func checkCommaSpacing(p *rule.Pass) {
	toks := p.Unit.Tokens
	opaque := opaqueTokens(p.Unit.Tree)
	for i, tok := range toks {
		if tok.Kind != token.Comma || opaque[i] {
			continue
		}
		if s := spacingBefore(tok); s == spaceSingle || s == spaceWide {
			p.Finding(gapBefore(tok), "unexpected space before ','").Emit()
		}
		next := tokenAt(toks, i+1)
		switch next.Kind {
		case token.RParen, token.RBracket, token.RBrace, token.EOF:
			continue
		}
		switch spacingBefore(next) {
		case spaceNone:
			p.Finding(tok.Span, "missing space after ','").Emit()
		case spaceWide:
			p.Finding(gapBefore(next), "expected a single space after ','").Emit()
		}
	}
}

func colonSpacing() *rule.Rule {
	return &rule.Rule{
		ID:          "colon_spacing",
		Code:        diag.StyColonSpacing,
		Description: "Colons have no space before and one space after; ternary colons are exempt.",
		Severity:    diag.SevWarning,
		Check:       checkColonSpacing,
	}
}

func checkColonSpacing(p *rule.Pass) {
	tree := p.Unit.Tree
	toks := p.Unit.Tokens
	skip := opaqueTokens(tree)
	for _, n := range tree.All() {
		if n.Kind != ast.KindTernaryExpr || len(n.Children) < 2 {
			continue
		}
		// ':' тернарного оператора стоит сразу после ветки then
		then := tree.Node(n.Children[1])
		if i := then.Last + 1; i < len(skip) && toks[i].Kind == token.Colon {
			skip[i] = true
		}
	}
	for i, tok := range toks {
		if tok.Kind != token.Colon || skip[i] {
			continue
		}
		prev, next := tokenAt(toks, i-1), tokenAt(toks, i+1)
		// [:]
		if prev.Kind == token.LBracket && next.Kind == token.RBracket {
			continue
		}
		if s := spacingBefore(tok); s == spaceSingle || s == spaceWide {
			p.Finding(gapBefore(tok), "unexpected space before ':'").Emit()
		}
		if next.Kind == token.EOF {
			continue
		}
		switch spacingBefore(next) {
		case spaceNone:
			p.Finding(tok.Span, "missing space after ':'").Emit()
		case spaceWide:
			p.Finding(gapBefore(next), "expected a single space after ':'").Emit()
		}
	}
}

func operatorSpacing() *rule.Rule {
	return &rule.Rule{
		ID:          "operator_spacing",
		Code:        diag.StyOperatorSpacing,
		Description: "Binary operators are surrounded by single spaces; range operators are exempt.",
		Severity:    diag.SevWarning,
		Check:       checkOperatorSpacing,
	}
}

func checkOperatorSpacing(p *rule.Pass) {
	tree := p.Unit.Tree
	toks := p.Unit.Tokens
	for _, n := range tree.All() {
		if n.Kind != ast.KindBinaryExpr || !n.HasTok() {
			continue
		}
		switch n.Text {
		case "...", "..<":
			continue
		}
		op := toks[n.Tok]
		width := 1
		if n.Text == ">>" || n.Text == ">>=" {
			width = 2
		}
		sp := op.Span
		if width == 2 {
			sp = sp.Cover(toks[n.Tok+1].Span)
		}
		after := tokenAt(toks, n.Tok+width)
		before, behind := spacingBefore(op), spacingBefore(after)
		switch {
		case before == spaceNone && behind == spaceNone:
			p.Finding(sp, "operator '"+n.Text+"' should be surrounded by spaces").Emit()
		case before == spaceNone:
			p.Finding(sp, "missing space before '"+n.Text+"'").Emit()
		case behind == spaceNone:
			p.Finding(sp, "missing space after '"+n.Text+"'").Emit()
		}
		if before == spaceWide {
			p.Finding(gapBefore(op), "expected a single space before '"+n.Text+"'").Emit()
		}
		if behind == spaceWide {
			p.Finding(gapBefore(after), "expected a single space after '"+n.Text+"'").Emit()
		}
	}
}

func openingBrace() *rule.Rule {
	return &rule.Rule{
		ID:          "opening_brace",
		Code:        diag.StyOpeningBrace,
		Description: "Opening braces stay on the line of their declaration or statement, after one space.",
		Severity:    diag.SevWarning,
		Check:       checkOpeningBrace,
	}
}

func checkOpeningBrace(p *rule.Pass) {
	tree := p.Unit.Tree
	toks := p.Unit.Tokens
	for _, n := range tree.All() {
		brace := -1
		switch n.Kind {
		case ast.KindCodeBlock:
			parent := tree.Node(n.Parent)
			if parent == nil || parent.Kind == ast.KindClosureExpr || parent.Kind == ast.KindSwitchCase {
				continue
			}
			brace = n.First
		case ast.KindSwitchStmt:
			if len(n.Children) > 0 {
				brace = tree.Node(n.Children[0]).Last + 1
			}
		}
		if brace < 0 || brace >= len(toks) || toks[brace].Kind != token.LBrace {
			continue
		}
		tok := toks[brace]
		switch spacingBefore(tok) {
		case spaceNewline:
			p.Finding(tok.Span, "opening brace should be on the same line as its declaration or statement").Emit()
		case spaceNone:
			p.Finding(tok.Span, "missing space before '{'").Emit()
		case spaceWide:
			p.Finding(gapBefore(tok), "expected a single space before '{'").Emit()
		}
	}
}
