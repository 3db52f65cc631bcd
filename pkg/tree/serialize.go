package tree

import (
	"github.com/oakwood-commons/cardtree/pkg/codec"
	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
)

// Serialize converts the whole tree back into a document made of
// *jsondoc.Object, []any and scalars.
func (t *Tree) Serialize() any {
	return t.SerializeNode(t.root)
}

// SerializeNode converts the subtree rooted at n.
//
// A list node is emitted as an array only while every child key still has
// the "[N]" shape; otherwise it falls back to an object. Leaves keep their
// original typed value until their text is edited, after which the text is
// re-typed with codec.Decode.
func (t *Tree) SerializeNode(n *Node) any {
	switch n.kind {
	case KindList:
		if listShaped(n) {
			out := make([]any, len(n.children))
			for i, c := range n.children {
				out[i] = t.SerializeNode(c)
			}
			return out
		}
		return t.serializeObject(n)
	case KindMap:
		return t.serializeObject(n)
	default:
		return leafValue(n)
	}
}

func listShaped(n *Node) bool {
	for _, c := range n.children {
		if !IsIndexLabel(c.key) {
			return false
		}
	}
	return true
}

func leafValue(n *Node) any {
	if n.typed && n.value == n.scalarText {
		return n.scalar
	}
	return codec.Decode(n.value)
}

// serializeObject diverts leaves labeled by a details block into that block
// and writes each block back under its property, placed where its first line
// appeared.
func (t *Tree) serializeObject(n *Node) any {
	obj := jsondoc.NewObject(len(n.children))
	var collected []*detailRows
	for _, c := range n.children {
		if bi, ok := t.detailsOf(c); ok {
			if collected == nil {
				collected = make([]*detailRows, len(t.details))
			}
			if collected[bi] == nil {
				collected[bi] = &detailRows{labeled: make(map[string]string)}
				obj.Set(t.details[bi].Property, nil)
			}
			collected[bi].add(c)
			continue
		}
		obj.Set(c.key, t.SerializeNode(c))
	}
	for bi, rows := range collected {
		if rows == nil {
			continue
		}
		obj.Set(t.details[bi].Property, joinDetails(t.details[bi], rows))
	}
	return obj
}

// detailsOf returns the block a leaf row belongs to: the block it was
// expanded from, or the block owning its label.
func (t *Tree) detailsOf(c *Node) (int, bool) {
	if c.kind != KindLeaf {
		return -1, false
	}
	if c.block > 0 && c.block <= len(t.details) {
		return c.block - 1, true
	}
	bi, ok := t.byLabel[c.key]
	return bi, ok
}
