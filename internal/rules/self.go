package rules

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/rule"
)

func explicitSelf() *rule.Rule {
	return &rule.Rule{
		ID:          "explicit_self",
		Code:        diag.StyExplicitSelf,
		Description: "Omit self. in methods unless a local name shadows the member; initialisers and closures are exempt.",
		Severity:    diag.SevInfo,
		Check:       checkExplicitSelf,
	}
}

func checkExplicitSelf(p *rule.Pass) {
	tree := p.Unit.Tree
	toks := p.Unit.Tokens
	scopes := map[ast.NodeID]map[string]bool{}
	for id, n := range tree.All() {
		if n.Kind != ast.KindMemberExpr || len(n.Children) != 1 {
			continue
		}
		base := tree.Node(n.Children[0])
		if base.Kind != ast.KindSelfExpr {
			continue
		}
		fn := enclosingMethod(tree, id)
		if fn == ast.NoNodeID {
			continue
		}
		names, ok := scopes[fn]
		if !ok {
			names = localNames(tree, fn)
			scopes[fn] = names
		}
		if names[n.Text] {
			continue
		}
		// "self." — от self до точки
		sp := base.Span.Cover(toks[n.Tok-1].Span)
		p.Finding(sp, "redundant 'self.' before '"+n.Text+"'").Emit()
	}
}

// enclosingMethod returns the method, accessor or computed property body
// holding id. Initialisers, closures and property initialisers yield NoNodeID.
func enclosingMethod(tree *ast.Tree, id ast.NodeID) ast.NodeID {
	for anc := range tree.Ancestors(id) {
		switch tree.Node(anc).Kind {
		case ast.KindInitDecl, ast.KindClosureExpr:
			return ast.NoNodeID
		case ast.KindFuncDecl, ast.KindAccessor, ast.KindSubscriptDecl, ast.KindDeinitDecl:
			return anc
		case ast.KindCodeBlock:
			// неявный геттер вычисляемого свойства
			if parent := tree.Node(tree.Node(anc).Parent); parent != nil && parent.Kind == ast.KindBinding {
				return anc
			}
		case ast.KindClassDecl, ast.KindStructDecl, ast.KindEnumDecl,
			ast.KindActorDecl, ast.KindExtensionDecl, ast.KindProtocolDecl:
			return ast.NoNodeID
		}
	}
	return ast.NoNodeID
}

// localNames collects parameters and locals declared inside fn. Setters and
// observers declare newValue and oldValue implicitly.
func localNames(tree *ast.Tree, fn ast.NodeID) map[string]bool {
	names := map[string]bool{}
	if n := tree.Node(fn); n.Kind == ast.KindAccessor {
		names["newValue"] = true
		names["oldValue"] = true
		if sub := tree.Enclosing(fn, func(k ast.Kind) bool { return k == ast.KindSubscriptDecl }); sub != ast.NoNodeID {
			fn = sub
		}
	}
	tree.Walk(fn, func(_ ast.NodeID, c *ast.Node) bool {
		switch c.Kind {
		case ast.KindParam, ast.KindIdentPattern:
			names[c.Text] = true
		}
		return true
	})
	return names
}
