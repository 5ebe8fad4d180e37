// Package testkit holds structural checks shared by the lexer, parser and
// fuzz tests.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// CheckTokenRoundTrip verifies that leading trivia plus token text of every
// token, EOF included, reproduces the file byte for byte, and that every
// token's span selects exactly its text.
func CheckTokenRoundTrip(file *source.File, toks []token.Token) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return fmt.Errorf("token stream must end with EOF")
	}
	var b strings.Builder
	b.Grow(len(file.Content))
	for i, tok := range toks {
		for _, tv := range tok.Leading {
			b.WriteString(tv.Text)
		}
		b.WriteString(tok.Text)
		if err := checkSpan(file, tok.Span); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		if got := string(file.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
			return fmt.Errorf("token %d: span selects %q, text is %q", i, got, tok.Text)
		}
	}
	if b.String() != string(file.Content) {
		return fmt.Errorf("round trip mismatch: %d bytes rebuilt, %d in file", b.Len(), len(file.Content))
	}
	return nil
}

// CheckTreeInvariants walks the tree from its root and checks:
// 1) the root spans the whole file
// 2) every node is reached exactly once and points back at its parent
// 3) every span lies within the file and inside its parent's span
func CheckTreeInvariants(tree *ast.Tree) error {
	if tree == nil || tree.File == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.Node(tree.Root)
	if root == nil {
		return fmt.Errorf("root node not found")
	}
	size, err := safecast.Conv[uint32](len(tree.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.Start != 0 || root.Span.End != size {
		return fmt.Errorf("root span %d..%d does not cover file of %d bytes", root.Span.Start, root.Span.End, size)
	}

	seen := make(map[ast.NodeID]bool, tree.Len())
	var walk func(id ast.NodeID, parent *ast.Node) error
	walk = func(id ast.NodeID, parent *ast.Node) error {
		if seen[id] {
			return fmt.Errorf("node %d reached twice", id)
		}
		seen[id] = true
		n := tree.Node(id)
		if n == nil {
			return fmt.Errorf("dangling node id %d", id)
		}
		if err := checkSpan(tree.File, n.Span); err != nil {
			return fmt.Errorf("%s node %d: %w", n.Kind, id, err)
		}
		if parent != nil && (n.Span.Start < parent.Span.Start || n.Span.End > parent.Span.End) {
			return fmt.Errorf("%s node %d span %d..%d outside parent %s %d..%d",
				n.Kind, id, n.Span.Start, n.Span.End, parent.Kind, parent.Span.Start, parent.Span.End)
		}
		for _, c := range n.Children {
			if cn := tree.Node(c); cn != nil && cn.Parent != id {
				return fmt.Errorf("%s node %d: parent is %d, want %d", cn.Kind, c, cn.Parent, id)
			}
			if err := walk(c, n); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(tree.Root, nil)
}

// CheckFindingSpans verifies that every diagnostic of file lies within the
// file bounds.
func CheckFindingSpans(file *source.File, diags []diag.Diagnostic) error {
	for _, d := range diags {
		if d.Primary.File != file.ID {
			continue
		}
		if err := checkSpan(file, d.Primary); err != nil {
			return fmt.Errorf("%s [%s]: %w", d.Code.ID(), d.Rule, err)
		}
	}
	return nil
}

func checkSpan(file *source.File, sp source.Span) error {
	if sp.File != file.ID {
		return fmt.Errorf("span points to file %d, want %d", sp.File, file.ID)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %d..%d", sp.Start, sp.End)
	}
	if int(sp.End) > len(file.Content) {
		return fmt.Errorf("span end %d beyond content of %d bytes", sp.End, len(file.Content))
	}
	return nil
}
