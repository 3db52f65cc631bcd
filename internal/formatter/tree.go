package formatter

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/cardtree/pkg/filter"
	"github.com/oakwood-commons/cardtree/pkg/tree"
)

const ellipsis = "…"

var (
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// Title labels the root; empty uses ".".
	Title string
	// MaxDepth limits tree depth (0 = unlimited). Cut branches end in "…".
	MaxDepth int
	// MaxValueLen truncates leaf values to this display width (0 = unlimited).
	MaxValueLen int
	// Color styles keys and values and highlights matching rows.
	Color bool
}

// FormatTree renders the rows of t that vis marks visible as an ASCII tree.
// Rows are shown in document order with their key labels; leaves carry their
// value text, lists their element count.
func FormatTree(t *tree.Tree, vis filter.Set, opts TreeOptions) string {
	var root treeprint.Tree
	if opts.Title != "" {
		root = treeprint.NewWithRoot(opts.Title)
	} else {
		root = treeprint.New()
	}
	r := treeRenderer{vis: vis, opts: opts}
	top := t.Root()
	if top.IsLeaf() {
		root.AddNode(r.value(top))
		return root.String()
	}
	r.children(root, top, 0)
	return root.String()
}

type treeRenderer struct {
	vis  filter.Set
	opts TreeOptions
}

func (r treeRenderer) children(branch treeprint.Tree, n *tree.Node, depth int) {
	if r.opts.MaxDepth > 0 && depth >= r.opts.MaxDepth {
		if n.Len() > 0 {
			branch.AddNode(ellipsis)
		}
		return
	}
	for _, c := range n.Children() {
		if !r.vis.Visible(c.ID()) {
			continue
		}
		if c.IsLeaf() {
			branch.AddNode(r.key(c) + ": " + r.value(c))
			continue
		}
		child := branch.AddBranch(r.containerLabel(c))
		r.children(child, c, depth+1)
	}
}

func (r treeRenderer) key(n *tree.Node) string {
	k := n.Key()
	if !r.opts.Color {
		return k
	}
	if r.vis.Matched(n.ID()) {
		return matchStyle.Render(k)
	}
	return keyStyle.Render(k)
}

func (r treeRenderer) value(n *tree.Node) string {
	v := strings.ReplaceAll(n.Value(), "\n", `\n`)
	if r.opts.MaxValueLen > 0 && runewidth.StringWidth(v) > r.opts.MaxValueLen {
		v = runewidth.Truncate(v, r.opts.MaxValueLen, ellipsis)
	}
	if !r.opts.Color {
		return v
	}
	if r.vis.Matched(n.ID()) {
		return matchStyle.Render(v)
	}
	return valueStyle.Render(v)
}

func (r treeRenderer) containerLabel(n *tree.Node) string {
	label := r.key(n)
	if n.Kind() != tree.KindList {
		return label
	}
	count := "[" + strconv.Itoa(n.Len()) + "]"
	if r.opts.Color {
		count = countStyle.Render(count)
	}
	return label + " " + count
}
