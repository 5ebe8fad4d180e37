package rules

import (
	"fmt"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/fix"
	"swiftstyle/internal/rule"
)

func nestingDepth() *rule.Rule {
	return &rule.Rule{
		ID:          "nesting_depth",
		Code:        diag.StyNestingDepth,
		Description: "Control-flow statements should not nest deeper than the limit; prefer early exits with guard.",
		Severity:    diag.SevWarning,
		Params: []rule.Param{
			{Name: "max", Kind: rule.ParamInt, Default: 3, Min: 1, Doc: "maximum nesting of control-flow statements"},
		},
		Check: checkNestingDepth,
	}
}

func checkNestingDepth(p *rule.Pass) {
	tree := p.Unit.Tree
	limit := p.Params.Int("max")
	for id, n := range tree.All() {
		if !countsAsNesting(tree, id) {
			continue
		}
		// сообщаем только о самом внешнем нарушении
		if depth := controlDepth(tree, id); depth == limit+1 {
			kw := n.Text
			p.Finding(tree.Tokens[n.Tok].Span, fmt.Sprintf("'%s' is nested %d levels deep, limit is %d", kw, depth, limit)).Emit()
		}
	}
}

// countsAsNesting reports whether id opens a nesting level. `else if`
// continues the chain of its parent.
func countsAsNesting(tree *ast.Tree, id ast.NodeID) bool {
	n := tree.Node(id)
	if !n.Kind.IsControlFlow() {
		return false
	}
	if n.Kind == ast.KindIfStmt {
		if parent := tree.Node(n.Parent); parent != nil && parent.Kind == ast.KindIfStmt &&
			len(parent.Children) == 3 && parent.Children[2] == id {
			return false
		}
	}
	return true
}

// controlDepth counts nesting levels from the nearest function, closure or
// type boundary down to id, inclusive.
func controlDepth(tree *ast.Tree, id ast.NodeID) int {
	depth := 1
	for anc := range tree.Ancestors(id) {
		k := tree.Node(anc).Kind
		if k.IsFunctionLike() || k.IsTypeDecl() || k == ast.KindClosureExpr || k == ast.KindExtensionDecl {
			break
		}
		if countsAsNesting(tree, anc) {
			depth++
		}
	}
	return depth
}

func conditionParentheses() *rule.Rule {
	return &rule.Rule{
		ID:          "condition_parentheses",
		Code:        diag.StyConditionParentheses,
		Description: "Conditions of if, while and guard are not wrapped in parentheses.",
		Severity:    diag.SevWarning,
		Check:       checkConditionParentheses,
	}
}

func checkConditionParentheses(p *rule.Pass) {
	tree := p.Unit.Tree
	toks := p.Unit.Tokens
	for _, n := range tree.All() {
		switch n.Kind {
		case ast.KindIfStmt, ast.KindWhileStmt, ast.KindGuardStmt:
		default:
			continue
		}
		conds := tree.Node(n.Children[0])
		if len(conds.Children) != 1 {
			continue
		}
		paren := tree.Node(conds.Children[0])
		if paren.Kind != ast.KindParenExpr || containsClosure(tree, conds.Children[0]) {
			continue
		}
		open, closing := toks[paren.First], toks[paren.Last]
		// `if(x){` — вместо скобок нужен пробел
		openText, closeText := "", ""
		if spacingBefore(open) == spaceNone {
			openText = " "
		}
		if spacingBefore(tokenAt(toks, paren.Last+1)) == spaceNone {
			closeText = " "
		}
		p.Finding(paren.Span, fmt.Sprintf("'%s' condition is wrapped in redundant parentheses", n.Text)).
			WithFixSuggestion(fix.Safe("remove parentheses",
				fix.Replace(open.Span, openText, "("),
				fix.Replace(closing.Span, closeText, ")"),
			)).
			Emit()
	}
}

func containsClosure(tree *ast.Tree, id ast.NodeID) bool {
	found := false
	tree.Walk(id, func(_ ast.NodeID, n *ast.Node) bool {
		if n.Kind == ast.KindClosureExpr {
			found = true
		}
		return !found
	})
	return found
}
