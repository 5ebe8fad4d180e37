package rules

import (
	"fmt"
	"strings"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/fix"
	"swiftstyle/internal/rule"
)

func booleanParameter() *rule.Rule {
	return &rule.Rule{
		ID:          "boolean_parameter",
		Code:        diag.StyBooleanParameter,
		Description: "Bool parameters need an argument label so call sites read clearly.",
		Severity:    diag.SevWarning,
		Check:       checkBooleanParameter,
	}
}

func checkBooleanParameter(p *rule.Pass) {
	tree := p.Unit.Tree
	for _, n := range tree.All() {
		if n.Kind != ast.KindParam || n.Label != "_" {
			continue
		}
		list := tree.Node(n.Parent)
		if list == nil || list.Kind != ast.KindParamList {
			continue
		}
		switch tree.Node(list.Parent).Kind {
		case ast.KindFuncDecl, ast.KindInitDecl, ast.KindSubscriptDecl:
		default:
			continue
		}
		for _, c := range n.Children {
			ty := tree.Node(c)
			if ty.Kind == ast.KindTypeIdent && ty.Text == "Bool" && len(ty.Children) == 0 {
				p.Finding(n.Span, fmt.Sprintf("Bool parameter '%s' has no argument label", n.Text)).
					WithNote(ty.Span, "label the argument so the call site reads as a phrase").
					Emit()
				break
			}
		}
	}
}

func voidReturn() *rule.Rule {
	return &rule.Rule{
		ID:          "void_return",
		Code:        diag.StyVoidReturn,
		Description: "Functions returning nothing omit the return type.",
		Severity:    diag.SevWarning,
		Check:       checkVoidReturn,
	}
}

func checkVoidReturn(p *rule.Pass) {
	tree := p.Unit.Tree
	toks := p.Unit.Tokens
	for id, n := range tree.All() {
		if n.Kind != ast.KindFuncDecl {
			continue
		}
		ret := tree.Child(id, ast.KindReturnClause)
		if ret == ast.NoNodeID {
			continue
		}
		rn := tree.Node(ret)
		ty := tree.Node(rn.Children[0])
		isVoid := ty.Kind == ast.KindTypeIdent && ty.Text == "Void" && len(ty.Children) == 0 ||
			ty.Kind == ast.KindTupleType && len(ty.Children) == 0
		if !isVoid || rn.First == 0 {
			continue
		}
		// удаляем вместе с пробелом перед '->'
		cut := p.Unit.Span(toks[rn.First-1].Span.End, rn.Span.End)
		p.Finding(rn.Span, fmt.Sprintf("function '%s' spells out an empty return type", n.Text)).
			WithFixSuggestion(fix.Safe("remove '"+tree.File.Text(rn.Span)+"'", fix.Delete(cut, tree.File.Text(cut)))).
			Emit()
	}
}

func modifierOrder() *rule.Rule {
	return &rule.Rule{
		ID:          "modifier_order",
		Code:        diag.StyModifierOrder,
		Description: "Access control leads the modifier list; only static or class may precede it.",
		Severity:    diag.SevWarning,
		Check:       checkModifierOrder,
	}
}

func checkModifierOrder(p *rule.Pass) {
	tree := p.Unit.Tree
	for id, n := range tree.All() {
		if !n.Kind.IsDecl() {
			continue
		}
		mods := tree.ChildrenOf(id, ast.KindModifier)
		var before []string
		for _, m := range mods {
			mn := tree.Node(m)
			spec, ok := ast.LookupModifier(mn.Text)
			if !ok {
				continue
			}
			if spec.Group == ast.ModGroupAccess {
				if len(before) > 0 {
					p.Finding(mn.Span, fmt.Sprintf("access control '%s' should come before '%s'", mn.Text, strings.Join(before, " "))).Emit()
				}
				break
			}
			if spec.Group != ast.ModGroupTypeMember {
				before = append(before, mn.Text)
			}
		}
	}
}

func preferPrivate() *rule.Rule {
	return &rule.Rule{
		ID:          "prefer_private",
		Code:        diag.StyPreferPrivate,
		Description: "Use private unless a declaration is used elsewhere in the file.",
		Severity:    diag.SevInfo,
		Check:       checkPreferPrivate,
	}
}

func checkPreferPrivate(p *rule.Pass) {
	tree := p.Unit.Tree
	var uses []*ast.Node
	for _, n := range tree.All() {
		switch n.Kind {
		case ast.KindIdentExpr, ast.KindMemberExpr, ast.KindImplicitMemberExpr, ast.KindTypeIdent, ast.KindCallExpr:
			uses = append(uses, n)
		}
	}
	for id, n := range tree.All() {
		if !n.Kind.IsDecl() {
			continue
		}
		for _, m := range tree.ChildrenOf(id, ast.KindModifier) {
			mn := tree.Node(m)
			if mn.Text != "fileprivate" && mn.Text != "fileprivate(set)" {
				continue
			}
			replacement := strings.Replace(mn.Text, "fileprivate", "private", 1)
			if n.Parent == tree.Root {
				// на уровне файла private и fileprivate равнозначны
				p.Finding(mn.Span, "prefer 'private' over 'fileprivate' at file scope").
					WithFixSuggestion(fix.Safe("use '"+replacement+"'", fix.Replace(mn.Span, replacement, mn.Text))).
					Emit()
				continue
			}
			owner := tree.Enclosing(id, func(k ast.Kind) bool { return k.IsTypeDecl() || k == ast.KindExtensionDecl })
			if owner == ast.NoNodeID || usedOutside(uses, declNames(tree, id), tree.Node(owner)) {
				continue
			}
			p.Finding(mn.Span, "'fileprivate' member is only used inside its type; prefer 'private'").Emit()
		}
	}
}

// declNames returns the names introduced by a declaration.
func declNames(tree *ast.Tree, id ast.NodeID) []string {
	n := tree.Node(id)
	if n.Kind != ast.KindVarDecl {
		return []string{n.Text}
	}
	var names []string
	tree.Walk(id, func(_ ast.NodeID, c *ast.Node) bool {
		if c.Kind == ast.KindIdentPattern {
			names = append(names, c.Text)
		}
		return c.Kind != ast.KindAccessor && c.Kind != ast.KindCodeBlock
	})
	return names
}

func usedOutside(uses []*ast.Node, names []string, owner *ast.Node) bool {
	for _, u := range uses {
		if owner.Span.Contains(u.Span) {
			continue
		}
		for _, name := range names {
			if u.Text == name {
				return true
			}
		}
	}
	return false
}

func shorthandType() *rule.Rule {
	return &rule.Rule{
		ID:          "shorthand_type",
		Code:        diag.StyShorthandType,
		Description: "Prefer [T], [K: V] and T? over their generic spellings.",
		Severity:    diag.SevWarning,
		Check:       checkShorthandType,
	}
}

func checkShorthandType(p *rule.Pass) {
	tree := p.Unit.Tree
	for _, n := range tree.All() {
		if n.Kind != ast.KindTypeIdent {
			continue
		}
		args := make([]string, len(n.Children))
		for i, c := range n.Children {
			args[i] = exprText(tree, c)
		}
		var short string
		switch {
		case n.Text == "Array" && len(args) == 1:
			short = "[" + args[0] + "]"
		case n.Text == "Dictionary" && len(args) == 2:
			short = "[" + args[0] + ": " + args[1] + "]"
		case n.Text == "Optional" && len(args) == 1:
			short = args[0] + "?"
			if tree.Node(n.Children[0]).Kind == ast.KindFunctionType {
				short = "(" + args[0] + ")?"
			}
		default:
			continue
		}
		p.Finding(n.Span, fmt.Sprintf("use '%s' instead of '%s'", short, tree.File.Text(n.Span))).Emit()
	}
}
