package diagfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/source"
)

var errEmptyTree = errors.New("empty tree")

// NodeOutput is the JSON form of a syntax node.
type NodeOutput struct {
	Kind     string       `json:"kind"`
	Text     string       `json:"text,omitempty"`
	Label    string       `json:"label,omitempty"`
	Span     source.Span  `json:"span"`
	Children []NodeOutput `json:"children,omitempty"`
}

// FormatTreePretty печатает дерево с рамками ├─ / └─.
func FormatTreePretty(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	if tree == nil || !tree.Root.IsValid() {
		return errEmptyTree
	}
	header := "File"
	if fs != nil && tree.File != nil {
		header = tree.File.FormatPath("auto", fs.BaseDir())
	}
	if _, err := fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(tree.Node(tree.Root).Span, tree.File)); err != nil {
		return err
	}
	return writeChildren(w, tree, tree.Root, "")
}

func writeChildren(w io.Writer, tree *ast.Tree, id ast.NodeID, prefix string) error {
	children := tree.Children(id)
	for i, child := range children {
		branch, indent := "├─ ", "│  "
		if i == len(children)-1 {
			branch, indent = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(tree, child)); err != nil {
			return err
		}
		if err := writeChildren(w, tree, child, prefix+indent); err != nil {
			return err
		}
	}
	return nil
}

func nodeLabel(tree *ast.Tree, id ast.NodeID) string {
	n := tree.Node(id)
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	if n.Text != "" {
		fmt.Fprintf(&sb, " %q", n.Text)
	}
	if n.Label != "" {
		fmt.Fprintf(&sb, " label=%q", n.Label)
	}
	fmt.Fprintf(&sb, " (span: %s)", formatSpan(n.Span, tree.File))
	return sb.String()
}

// formatSpan renders "startLine:startCol-endLine:endCol", or raw offsets
// without a file.
func formatSpan(span source.Span, f *source.File) string {
	if f == nil {
		return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
	}
	start, end := f.Position(span.Start), f.Position(span.End)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// FormatTreeJSON выводит дерево в JSON.
func FormatTreeJSON(w io.Writer, tree *ast.Tree) error {
	if tree == nil || !tree.Root.IsValid() {
		return errEmptyTree
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodeJSON(tree, tree.Root))
}

func nodeJSON(tree *ast.Tree, id ast.NodeID) NodeOutput {
	n := tree.Node(id)
	out := NodeOutput{Kind: n.Kind.String(), Text: n.Text, Label: n.Label, Span: n.Span}
	for _, child := range tree.Children(id) {
		out.Children = append(out.Children, nodeJSON(tree, child))
	}
	return out
}
