// Package filter computes which tree rows stay visible for a free-text query.
//
// A row is accepted when its own text matches, when any descendant matches,
// or, in whole-card mode, when its parent's subtree holds a match. A row is
// shown only if it is accepted and its parent row is shown. The filter never
// mutates the tree.
package filter

import (
	"strings"

	"github.com/oakwood-commons/cardtree/pkg/tree"
)

// Options holds the filter state.
type Options struct {
	// Query is matched case-insensitively as a substring. Empty shows everything.
	Query string `yaml:"query" json:"query"`
	// SearchInKeys matches key labels instead of leaf values.
	SearchInKeys bool `yaml:"search_in_keys" json:"search_in_keys"`
	// ShowWholeCard reveals the siblings of a matching row.
	ShowWholeCard bool `yaml:"show_whole_card" json:"show_whole_card"`
}

// DefaultOptions searches values and shows whole cards.
func DefaultOptions() Options {
	return Options{ShowWholeCard: true}
}

// Filter evaluates Options against a tree.
type Filter struct {
	opts  Options
	query string
}

// New returns a filter for opts.
func New(opts Options) *Filter {
	return &Filter{opts: opts, query: strings.ToLower(opts.Query)}
}

// Options returns the filter state.
func (f *Filter) Options() Options { return f.opts }

// Active reports whether the query is non-empty.
func (f *Filter) Active() bool { return f.query != "" }

// Matches reports whether n's own key or value (per SearchInKeys) contains
// the query.
func (f *Filter) Matches(n *tree.Node) bool {
	if !f.Active() {
		return true
	}
	text := n.Value()
	if f.opts.SearchInKeys {
		text = n.Key()
	}
	return strings.Contains(strings.ToLower(text), f.query)
}

// SubtreeMatches reports whether any descendant of n, at any depth, matches.
// n itself is not considered.
func (f *Filter) SubtreeMatches(n *tree.Node) bool {
	for _, c := range n.Children() {
		if f.Matches(c) || f.SubtreeMatches(c) {
			return true
		}
	}
	return false
}

// Accepts reports whether n passes the filter on its own, ignoring whether
// its ancestors are shown. Whole-card mode looks exactly one level up and
// does not apply to top-level rows.
func (f *Filter) Accepts(n *tree.Node) bool {
	if !f.Active() {
		return true
	}
	if f.Matches(n) || f.SubtreeMatches(n) {
		return true
	}
	if f.opts.ShowWholeCard {
		if p := n.Parent(); p != nil && p.Parent() != nil && f.SubtreeMatches(p) {
			return true
		}
	}
	return false
}

// IsRowVisible reports whether n is shown: it and every ancestor row accept.
// The root is always visible.
func (f *Filter) IsRowVisible(n *tree.Node) bool {
	for p := n; p != nil && p.Parent() != nil; p = p.Parent() {
		if !f.Accepts(p) {
			return false
		}
	}
	return true
}
