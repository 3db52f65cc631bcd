package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ID identifies a node for the lifetime of its tree. IDs are never reused.
type ID uint64

// Kind tells leaves, maps and lists apart. It is fixed when a node is built.
type Kind int

const (
	KindLeaf Kind = iota
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	indexLabelPattern = regexp.MustCompile(`^\[[0-9]+\]$`)
	identPattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// IndexLabel returns the synthesized key for the i-th element of a list.
func IndexLabel(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// IsIndexLabel reports whether key has the "[N]" shape used for list elements.
func IsIndexLabel(key string) bool {
	return indexLabelPattern.MatchString(key)
}

// Node is a row of the tree: a key label plus either a scalar value (leaf)
// or an ordered list of children (container). Nodes are owned by a Tree and
// mutated only through Tree methods.
type Node struct {
	id       ID
	owner    *Tree
	key      string
	value    string
	kind     Kind
	editable bool
	parent   *Node
	children []*Node

	// scalar is the typed value the leaf was built from; it is emitted as-is
	// while value still equals scalarText.
	scalar     any
	scalarText string
	typed      bool

	// block is 1 + the index of the details block a row was expanded from,
	// or 0. Overflow rows past the labels are found through it.
	block int
}

func (n *Node) ID() ID         { return n.id }
func (n *Node) Key() string    { return n.key }
func (n *Node) Value() string  { return n.value }
func (n *Node) Kind() Kind     { return n.kind }
func (n *Node) Editable() bool { return n.editable }
func (n *Node) Parent() *Node  { return n.parent }
func (n *Node) Len() int       { return len(n.children) }

// IsLeaf reports whether n carries a scalar value.
func (n *Node) IsLeaf() bool { return n.kind == KindLeaf }

// Children returns a copy of the child slice.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildByKey returns the first child keyed key, or nil.
func (n *Node) ChildByKey(key string) *Node {
	for _, c := range n.children {
		if c.key == key {
			return c
		}
	}
	return nil
}

// Index returns the position of n among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Path returns an address for n that Tree.Resolve accepts, e.g.
// sections[0].cards[1]["Area Bruta:"]. The root has the empty path.
func (n *Node) Path() string {
	var segs []*Node
	for p := n; p != nil && p.parent != nil; p = p.parent {
		segs = append(segs, p)
	}
	var b strings.Builder
	for i := len(segs) - 1; i >= 0; i-- {
		key := segs[i].key
		switch {
		case IsIndexLabel(key):
			b.WriteString(key)
		case identPattern.MatchString(key):
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(key)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(key))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func (n *Node) String() string {
	if n.kind == KindLeaf {
		return n.key + ": " + n.value
	}
	return fmt.Sprintf("%s (%s, %d)", n.key, n.kind, len(n.children))
}
