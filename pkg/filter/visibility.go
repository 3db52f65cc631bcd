package filter

import "github.com/oakwood-commons/cardtree/pkg/tree"

// Set is the outcome of filtering a tree snapshot: which rows are shown and
// which of them matched on their own text.
type Set struct {
	visible map[tree.ID]bool
	matched map[tree.ID]bool
}

// Visible reports whether the row with the given ID is shown.
func (s Set) Visible(id tree.ID) bool { return s.visible[id] }

// Matched reports whether the row's own text matched the query.
func (s Set) Matched(id tree.ID) bool { return s.matched[id] }

// Len returns the number of visible rows, root included.
func (s Set) Len() int { return len(s.visible) }

// Matches returns the number of rows whose own text matched.
func (s Set) Matches() int { return len(s.matched) }

// Visibility computes the visible rows of t in one pass. Subtree match
// results are computed bottom-up once, so the cost is linear in the tree size.
func Visibility(t *tree.Tree, opts Options) Set {
	f := New(opts)
	s := Set{visible: make(map[tree.ID]bool), matched: make(map[tree.ID]bool)}

	// below[id] is true when some strict descendant of id matches.
	below := make(map[tree.ID]bool)
	var scan func(n *tree.Node) bool
	scan = func(n *tree.Node) bool {
		hit := false
		for _, c := range n.Children() {
			if scan(c) {
				hit = true
			}
		}
		below[n.ID()] = hit
		self := f.Active() && f.Matches(n)
		if self && n.Parent() != nil {
			s.matched[n.ID()] = true
		}
		return hit || self
	}
	scan(t.Root())

	t.Walk(func(n *tree.Node, _ int) bool {
		p := n.Parent()
		if p == nil {
			s.visible[n.ID()] = true
			return true
		}
		ok := !f.Active() || s.matched[n.ID()] || below[n.ID()] ||
			(opts.ShowWholeCard && p.Parent() != nil && below[p.ID()])
		if !ok {
			return false
		}
		s.visible[n.ID()] = true
		return true
	})
	return s
}
