package ast

import (
	"iter"

	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// Tree is the read-only syntax tree of one file together with the token
// stream it was built from.
type Tree struct {
	File   *source.File
	Tokens []token.Token
	Nodes  *Arena[Node]
	Root   NodeID
}

// Node returns the node for id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return int(t.Nodes.Len()) }

// Children returns the child ids of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

// Child returns the first child of id with the given kind.
func (t *Tree) Child(id NodeID, kind Kind) NodeID {
	for _, c := range t.Children(id) {
		if t.Node(c).Kind == kind {
			return c
		}
	}
	return NoNodeID
}

// ChildrenOf returns the children of id with the given kind.
func (t *Tree) ChildrenOf(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.Node(c).Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// KeyToken returns the node's key token.
func (t *Tree) KeyToken(id NodeID) (token.Token, bool) {
	n := t.Node(id)
	if n == nil || !n.HasTok() {
		return token.Token{}, false
	}
	return t.Tokens[n.Tok], true
}

// NodeTokens returns the token slice covered by id.
func (t *Tree) NodeTokens(id NodeID) []token.Token {
	n := t.Node(id)
	if n == nil || n.Last < n.First {
		return nil
	}
	return t.Tokens[n.First : n.Last+1]
}

// Ancestors yields the parents of id from the nearest outwards.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for n := t.Node(id); n != nil && n.Parent.IsValid(); n = t.Node(n.Parent) {
			if !yield(n.Parent) {
				return
			}
		}
	}
}

// Enclosing returns the nearest ancestor of id whose kind satisfies match.
func (t *Tree) Enclosing(id NodeID, match func(Kind) bool) NodeID {
	for a := range t.Ancestors(id) {
		if match(t.Node(a).Kind) {
			return a
		}
	}
	return NoNodeID
}

// Walk visits the subtree rooted at id in pre-order. Returning false from
// visit skips the node's children.
func (t *Tree) Walk(id NodeID, visit func(id NodeID, n *Node) bool) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if !visit(id, n) {
		return
	}
	for _, c := range n.Children {
		t.Walk(c, visit)
	}
}

// All yields every node of the tree in pre-order.
func (t *Tree) All() iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		stop := false
		t.Walk(t.Root, func(id NodeID, n *Node) bool {
			if stop {
				return false
			}
			if !yield(id, n) {
				stop = true
				return false
			}
			return true
		})
	}
}

// Builder allocates nodes bottom-up: children are created first and are
// adopted by the parent passed to New.
type Builder struct {
	Nodes  *Arena[Node]
	Tokens []token.Token
	File   source.FileID
}

// NewBuilder returns a builder over toks with a capacity hint derived from
// the token count.
func NewBuilder(file source.FileID, toks []token.Token) *Builder {
	return &Builder{
		Nodes:  NewArena[Node](uint(len(toks)/2 + 1)),
		Tokens: toks,
		File:   file,
	}
}

// New allocates a node spanning tokens first..last (inclusive) and sets the
// parent of every child.
func (b *Builder) New(kind Kind, first, last, tok int, text string, children ...NodeID) NodeID {
	n := Node{
		Kind:     kind,
		First:    first,
		Last:     last,
		Tok:      tok,
		Text:     text,
		Children: children,
	}
	n.Span = b.spanOf(first, last)
	// дочерние узлы могут выходить за токенный диапазон (пустые узлы) — покрываем их
	for _, c := range children {
		if cn := b.Nodes.Get(uint32(c)); cn != nil {
			n.Span = n.Span.Cover(cn.Span)
		}
	}
	id := NodeID(b.Nodes.Allocate(n))
	for _, c := range children {
		if cn := b.Nodes.Get(uint32(c)); cn != nil {
			cn.Parent = id
		}
	}
	return id
}

// SetLabel records a label on an existing node.
func (b *Builder) SetLabel(id NodeID, label string) {
	if n := b.Nodes.Get(uint32(id)); n != nil {
		n.Label = label
	}
}

func (b *Builder) spanOf(first, last int) source.Span {
	if first < 0 || first >= len(b.Tokens) {
		return source.Span{File: b.File}
	}
	if last < first {
		at := b.Tokens[first].Span.Start
		return source.Span{File: b.File, Start: at, End: at}
	}
	if last >= len(b.Tokens) {
		last = len(b.Tokens) - 1
	}
	return source.Span{
		File:  b.File,
		Start: b.Tokens[first].Span.Start,
		End:   b.Tokens[last].Span.End,
	}
}

// Finish wraps the arena into a Tree rooted at root.
func (b *Builder) Finish(file *source.File, root NodeID) *Tree {
	return &Tree{
		File:   file,
		Tokens: b.Tokens,
		Nodes:  b.Nodes,
		Root:   root,
	}
}
