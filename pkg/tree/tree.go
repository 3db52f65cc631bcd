// Package tree maps an arbitrary JSON document onto a labeled tree of rows
// and back. Objects become key-labeled children, arrays become "[i]"-labeled
// children, and configured details properties are expanded into one labeled
// row per line.
//
// A Tree is not safe for concurrent use. All mutation must happen from a
// single goroutine.
package tree

import (
	"github.com/oakwood-commons/cardtree/pkg/codec"
	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
)

// Tree owns every node reachable from its root.
type Tree struct {
	root    *Node
	details []DetailsBlock
	byLabel map[string]int
	nextID  ID
}

// Option configures a Tree.
type Option func(*Tree)

// WithDetails replaces the details blocks used for expansion and
// recombination. Passing no blocks disables the details rule.
func WithDetails(blocks ...DetailsBlock) Option {
	return func(t *Tree) {
		t.details = append([]DetailsBlock(nil), blocks...)
	}
}

func newTree(opts []Option) *Tree {
	t := &Tree{details: DefaultDetails()}
	for _, opt := range opts {
		opt(t)
	}
	t.byLabel = make(map[string]int)
	for i, b := range t.details {
		for _, l := range b.Labels {
			t.byLabel[l] = i
		}
	}
	return t
}

// New returns a tree holding an empty object.
func New(opts ...Option) *Tree {
	t := newTree(opts)
	t.root = t.newNode("", KindMap)
	return t
}

// Build converts a decoded document (as returned by jsondoc.Parse) into a tree.
func Build(doc any, opts ...Option) *Tree {
	t := newTree(opts)
	t.root = t.buildValue("", doc)
	return t
}

// Root returns the node standing for the whole document.
func (t *Tree) Root() *Node { return t.root }

// Details returns the configured details blocks.
func (t *Tree) Details() []DetailsBlock {
	return append([]DetailsBlock(nil), t.details...)
}

// Owns reports whether n is attached to this tree.
func (t *Tree) Owns(n *Node) bool {
	if n == nil || n.owner != t {
		return false
	}
	for p := n; p != nil; p = p.parent {
		if p == t.root {
			return true
		}
	}
	return false
}

// Walk visits attached nodes in pre-order, root first. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)
}

// Find returns the attached node with the given ID.
func (t *Tree) Find(id ID) (*Node, bool) {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Len returns the number of attached nodes, root included.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

func (t *Tree) newNode(key string, kind Kind) *Node {
	t.nextID++
	return &Node{id: t.nextID, owner: t, key: key, kind: kind}
}

func (t *Tree) newLeaf(key string, v any) *Node {
	n := t.newNode(key, KindLeaf)
	n.value = codec.Encode(v)
	n.editable = true
	n.scalar = v
	n.scalarText = n.value
	n.typed = true
	return n
}

func (t *Tree) buildValue(key string, v any) *Node {
	switch val := v.(type) {
	case *jsondoc.Object:
		n := t.newNode(key, KindMap)
		t.buildObject(n, val)
		return n
	case map[string]any:
		return t.buildValue(key, jsondoc.FromMap(val))
	case []any:
		n := t.newNode(key, KindList)
		for i, e := range val {
			t.adopt(n, t.buildValue(IndexLabel(i), e))
		}
		return n
	default:
		return t.newLeaf(key, val)
	}
}

func (t *Tree) buildObject(n *Node, obj *jsondoc.Object) {
	for _, m := range obj.Members() {
		if bi, ok := t.block(m.Key); ok {
			if lines, ok := detailLines(m.Value); ok {
				for i, line := range lines {
					row := t.newLeaf(detailLabel(t.details[bi], i), line)
					row.block = bi + 1
					t.adopt(n, row)
				}
				continue
			}
		}
		t.adopt(n, t.buildValue(m.Key, m.Value))
	}
}

func (t *Tree) block(property string) (int, bool) {
	for i, b := range t.details {
		if b.Property == property {
			return i, true
		}
	}
	return -1, false
}

func (t *Tree) adopt(parent, child *Node) {
	child.parent = parent
	parent.children = append(parent.children, child)
}
