package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/lexer"
	"swiftstyle/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// parseSource lexes and parses src, returning the tree (nil on error) and
// the collected diagnostics.
func parseSource(t *testing.T, src string, opts Options) (*ast.Tree, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.swift", []byte(src)))
	toks, err := lexer.All(file, lexer.Options{})
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	tree, err := ParseFile(context.Background(), file, toks, opts)
	return tree, bag, err
}

func mustParse(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, bag, err := parseSource(t, src, Options{})
	if err != nil {
		t.Fatalf("parse %q: %v (%s)", src, err, diagnosticsSummary(bag))
	}
	return tree
}

func findFirst(tree *ast.Tree, kind ast.Kind) (ast.NodeID, *ast.Node) {
	for id, n := range tree.All() {
		if n.Kind == kind {
			return id, n
		}
	}
	return ast.NoNodeID, nil
}

func countKind(tree *ast.Tree, kind ast.Kind) int {
	n := 0
	for _, node := range tree.All() {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

// sexpr renders the subtree rooted at id as a compact S-expression.
func sexpr(tree *ast.Tree, id ast.NodeID) string {
	n := tree.Node(id)
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Kind.String())
	if n.Text != "" {
		sb.WriteString(" " + n.Text)
	}
	for _, c := range n.Children {
		sb.WriteString(" ")
		sb.WriteString(sexpr(tree, c))
	}
	sb.WriteString(")")
	return sb.String()
}
