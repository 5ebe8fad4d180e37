package ast

import (
	"swiftstyle/internal/source"
)

// NodeID is a 1-based index into a Tree's node arena.
type NodeID uint32

// NoNodeID marks an absent node.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// NoTok marks a node without a key token.
const NoTok = -1

// Node is one syntax tree node. Each child has exactly one parent and the
// node's span covers all of its descendants.
type Node struct {
	Kind     Kind
	Span     source.Span
	Parent   NodeID
	Children []NodeID
	First    int // first token index, inclusive
	Last     int // last token index, inclusive; Last < First for empty nodes
	Tok      int // key token: declared name, operator or keyword
	Text     string
	Label    string
}

// HasTok reports whether the node has a key token.
func (n *Node) HasTok() bool { return n.Tok != NoTok }
