package rules

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/rule"
)

func forceUnwrap() *rule.Rule {
	return &rule.Rule{
		ID:          "force_unwrap",
		Code:        diag.StyForceUnwrap,
		Description: "Avoid force unwrapping, force casts, try! and implicitly unwrapped optionals.",
		Severity:    diag.SevWarning,
		Params: []rule.Param{
			{Name: "allow_iboutlets", Kind: rule.ParamBool, Default: true, Doc: "accept T! on @IBOutlet properties"},
		},
		Check: checkForceUnwrap,
	}
}

func checkForceUnwrap(p *rule.Pass) {
	tree := p.Unit.Tree
	toks := p.Unit.Tokens
	allowOutlets := p.Params.Bool("allow_iboutlets")
	for id, n := range tree.All() {
		switch n.Kind {
		case ast.KindForceUnwrapExpr:
			if len(n.Children) == 1 && checkedNonNil(tree, id, exprText(tree, n.Children[0])) {
				continue
			}
			p.Finding(toks[n.Tok].Span, "force unwrap of '"+exprText(tree, n.Children[0])+"'").Emit()
		case ast.KindCastExpr:
			if n.Text == "as!" {
				p.Finding(toks[n.Tok].Span.Cover(toks[n.Tok+1].Span), "force cast with 'as!'; use 'as?' and handle failure").Emit()
			}
		case ast.KindTryExpr:
			if n.Text == "try!" {
				p.Finding(toks[n.Tok].Span.Cover(toks[n.Tok+1].Span), "'try!' crashes on error; use 'try' or 'try?'").Emit()
			}
		case ast.KindIUOType:
			if allowOutlets && isOutlet(tree, id) {
				continue
			}
			p.Finding(toks[n.Tok].Span, "implicitly unwrapped optional type").Emit()
		}
	}
}

// exprText returns the source text of an expression node.
func exprText(tree *ast.Tree, id ast.NodeID) string {
	n := tree.Node(id)
	if n == nil {
		return ""
	}
	return tree.File.Text(n.Span)
}

// isNilCheck reports whether cond is `x != nil` (or `nil != x`) for text x.
func isNilCheck(tree *ast.Tree, cond ast.NodeID, x string) bool {
	n := tree.Node(cond)
	if n == nil || n.Kind != ast.KindBinaryExpr || n.Text != "!=" || len(n.Children) != 2 {
		return false
	}
	lhs, rhs := tree.Node(n.Children[0]), tree.Node(n.Children[1])
	if rhs.Kind == ast.KindLiteralExpr && rhs.Text == "nil" {
		return exprText(tree, n.Children[0]) == x
	}
	if lhs.Kind == ast.KindLiteralExpr && lhs.Text == "nil" {
		return exprText(tree, n.Children[1]) == x
	}
	return false
}

// conditionsCheck reports whether a condition list contains a nil check of x,
// looking through && chains.
func conditionsCheck(tree *ast.Tree, conds ast.NodeID, x string) bool {
	var visit func(id ast.NodeID) bool
	visit = func(id ast.NodeID) bool {
		n := tree.Node(id)
		if n == nil {
			return false
		}
		if n.Kind == ast.KindBinaryExpr && n.Text == "&&" {
			return visit(n.Children[0]) || visit(n.Children[1])
		}
		if n.Kind == ast.KindParenExpr && len(n.Children) == 1 {
			return visit(n.Children[0])
		}
		return isNilCheck(tree, id, x)
	}
	for _, c := range tree.Children(conds) {
		if visit(c) {
			return true
		}
	}
	return false
}

// checkedNonNil reports whether the unwrap at id is preceded by
// `guard x != nil` in an enclosing block or sits in the then-branch of
// `if x != nil`.
func checkedNonNil(tree *ast.Tree, id ast.NodeID, x string) bool {
	if x == "" {
		return false
	}
	at := tree.Node(id).Span.Start
	child := id
	for anc := range tree.Ancestors(id) {
		an := tree.Node(anc)
		switch an.Kind {
		case ast.KindIfStmt:
			if len(an.Children) >= 2 && an.Children[1] == child && conditionsCheck(tree, an.Children[0], x) {
				return true
			}
		case ast.KindCodeBlock:
			for _, st := range an.Children {
				sn := tree.Node(st)
				if sn.Span.Start >= at {
					break
				}
				if sn.Kind == ast.KindGuardStmt && conditionsCheck(tree, sn.Children[0], x) {
					return true
				}
			}
		case ast.KindClosureExpr, ast.KindFuncDecl, ast.KindInitDecl, ast.KindAccessor:
			// проверка снаружи функции или замыкания не защищает
			return false
		}
		child = anc
	}
	return false
}

// isOutlet reports whether the type at id annotates an @IBOutlet property.
func isOutlet(tree *ast.Tree, id ast.NodeID) bool {
	decl := tree.Enclosing(id, func(k ast.Kind) bool { return k == ast.KindVarDecl || k.IsFunctionLike() })
	if decl == ast.NoNodeID || tree.Node(decl).Kind != ast.KindVarDecl {
		return false
	}
	for _, attr := range tree.ChildrenOf(decl, ast.KindAttribute) {
		if tree.Node(attr).Text == "IBOutlet" {
			return true
		}
	}
	return false
}
