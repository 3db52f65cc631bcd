package tree

import "fmt"

// SetValue replaces the text of an editable leaf. The next Serialize re-types
// the new text.
func (t *Tree) SetValue(n *Node, text string) error {
	if !t.Owns(n) {
		return ErrNotFound
	}
	if n.kind != KindLeaf || !n.editable {
		return fmt.Errorf("%s: %w", n.Path(), ErrNotEditable)
	}
	n.value = text
	return nil
}

// Remove detaches n and its subtree from its parent. The root and nodes that
// are not attached to t yield ErrNotFound. Remaining list siblings are
// relabeled so their keys stay "[0]".."[N-1]".
func (t *Tree) Remove(n *Node) error {
	if n == nil || n == t.root || n.parent == nil || !t.Owns(n) {
		return ErrNotFound
	}
	parent := n.parent
	i := n.Index()
	if i < 0 {
		return ErrNotFound
	}
	parent.children = append(parent.children[:i], parent.children[i+1:]...)
	n.parent = nil
	relabel(parent)
	return nil
}

// Insert attaches the detached node child under parent at position index
// (0 <= index <= parent.Len()).
func (t *Tree) Insert(parent *Node, index int, child *Node) error {
	if !t.Owns(parent) || child == nil || child.owner != t {
		return ErrNotFound
	}
	if parent.kind == KindLeaf {
		return fmt.Errorf("%s: %w", parent.Path(), ErrNotContainer)
	}
	if child.parent != nil || child == t.root {
		return ErrAttached
	}
	if index < 0 || index > len(parent.children) {
		return fmt.Errorf("insert at %d of %d: %w", index, len(parent.children), ErrIndexOutOfRange)
	}
	if parent.kind == KindMap && parent.ChildByKey(child.key) != nil {
		return fmt.Errorf("%q: %w", child.key, ErrDuplicateKey)
	}

	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = child
	child.parent = parent
	relabel(parent)
	return nil
}

// Clone deep-copies n and its descendants. The copy is detached, owned by t,
// and gets fresh IDs; keys, values, editable flags and typed scalars are kept.
func (t *Tree) Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := t.newNode(n.key, n.kind)
	c.value = n.value
	c.editable = n.editable
	c.scalar = n.scalar
	c.scalarText = n.scalarText
	c.typed = n.typed
	c.block = n.block
	if len(n.children) > 0 {
		c.children = make([]*Node, 0, len(n.children))
		for _, ch := range n.children {
			t.adopt(c, t.Clone(ch))
		}
	}
	return c
}

// AppendClonedRow clones the first child of container, keys the copy with the
// next index label and appends it. A missing, leaf or empty container yields
// ErrEditRejected and leaves the tree untouched.
func (t *Tree) AppendClonedRow(container *Node) (*Node, error) {
	if !t.Owns(container) || container.kind == KindLeaf || len(container.children) == 0 {
		return nil, ErrEditRejected
	}
	row := t.Clone(container.children[0])
	row.key = IndexLabel(len(container.children))
	t.adopt(container, row)
	return row, nil
}

func relabel(n *Node) {
	if n.kind != KindList {
		return
	}
	for i, c := range n.children {
		c.key = IndexLabel(i)
	}
}

// Copy returns an independent tree with the same nodes, IDs and details
// configuration. Nodes of the copy are owned by the copy.
func (t *Tree) Copy() *Tree {
	c := &Tree{
		details: t.Details(),
		byLabel: make(map[string]int, len(t.byLabel)),
		nextID:  t.nextID,
	}
	for k, v := range t.byLabel {
		c.byLabel[k] = v
	}
	var dup func(n *Node) *Node
	dup = func(n *Node) *Node {
		d := *n
		d.owner = c
		d.parent = nil
		d.children = nil
		for _, ch := range n.children {
			c.adopt(&d, dup(ch))
		}
		return &d
	}
	c.root = dup(t.root)
	return c
}
