package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cardtree/pkg/filter"
	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
	"github.com/oakwood-commons/cardtree/pkg/tree"
)

func buildTree(t *testing.T, src string) *tree.Tree {
	t.Helper()
	doc, err := jsondoc.Parse([]byte(src))
	require.NoError(t, err)
	return tree.Build(doc)
}

func TestFormatTreeShowsAllRows(t *testing.T) {
	tr := buildTree(t, `{"a": 1, "cards": [{"city": "Lisboa", "detailsRight": "100 m²"}]}`)
	out := FormatTree(tr, filter.Visibility(tr, filter.DefaultOptions()), TreeOptions{})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, ".", lines[0])
	assert.Contains(t, out, "├── a: 1")
	assert.Contains(t, out, "└── cards [1]")
	assert.Contains(t, out, "[0]")
	assert.Contains(t, out, "city: Lisboa")
	assert.Contains(t, out, "Area Bruta:: 100 m²")
	assert.NotContains(t, out, "\x1b[", "no styling without color")
}

func TestFormatTreeHonorsVisibility(t *testing.T) {
	tr := buildTree(t, `{"s": {"x": "Lisboa", "y": "Porto"}, "t": "other"}`)
	vis := filter.Visibility(tr, filter.Options{Query: "lisboa"})
	out := FormatTree(tr, vis, TreeOptions{Title: "catalog.json"})

	assert.True(t, strings.HasPrefix(out, "catalog.json\n"))
	assert.Contains(t, out, "x: Lisboa")
	assert.NotContains(t, out, "Porto")
	assert.NotContains(t, out, "other")
}

func TestFormatTreeDepthAndTruncation(t *testing.T) {
	tr := buildTree(t, `{"deep": {"deeper": {"leaf": 1}}, "long": "abcdefghijklmnop", "multi": "a\nb"}`)
	vis := filter.Visibility(tr, filter.DefaultOptions())

	out := FormatTree(tr, vis, TreeOptions{MaxDepth: 2, MaxValueLen: 5})
	assert.Contains(t, out, "deeper")
	assert.NotContains(t, out, "leaf")
	assert.Contains(t, out, ellipsis)
	assert.Contains(t, out, "long: abcd…")
	assert.Contains(t, out, `multi: a\nb`)
}

func TestFormatTreeColorHighlightsMatches(t *testing.T) {
	tr := buildTree(t, `{"city": "Lisboa"}`)
	vis := filter.Visibility(tr, filter.Options{Query: "lis"})

	out := FormatTree(tr, vis, TreeOptions{Color: true})
	assert.Contains(t, out, matchStyle.Render("Lisboa"))
}

func TestFormatTreeScalarRoot(t *testing.T) {
	tr := buildTree(t, `"just text"`)
	out := FormatTree(tr, filter.Visibility(tr, filter.DefaultOptions()), TreeOptions{})
	assert.Contains(t, out, "just text")
}
