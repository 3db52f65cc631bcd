package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tr := Build(parse(t, `{
		"sections": [{"cards": [{"detailsRight": "100 m²", "x.y": 1}]}],
		"7": "seven",
		"m": {"[0]": "bracketed"}
	}`))

	tests := []struct {
		path string
		want string
	}{
		{path: "", want: ""},
		{path: "sections", want: "sections"},
		{path: "sections[0]", want: "sections[0]"},
		{path: "sections.0.cards", want: "sections[0].cards"},
		{path: `sections[0].cards[0]["Area Bruta:"]`, want: `sections[0].cards[0]["Area Bruta:"]`},
		{path: `sections[0].cards[0]["x.y"]`, want: `sections[0].cards[0]["x.y"]`},
		{path: "7", want: `["7"]`},
		{path: `["7"]`, want: `["7"]`},
		{path: "m[0]", want: "m[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, err := tr.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Path())
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tr := Build(parse(t, `{"l": ["a"], "m": {"k": 1}}`))

	for _, path := range []string{"missing", "l[1]", "m.k.deeper", `m["K"]`, "l[0"} {
		t.Run(path, func(t *testing.T) {
			_, err := tr.Resolve(path)
			require.Error(t, err)
		})
	}

	_, err := tr.Resolve("l[3]")
	assert.ErrorIs(t, err, ErrPathNotFound)
	_, err = tr.Resolve(`m["k`)
	assert.Error(t, err)
}

func TestPathRoundTripsThroughResolve(t *testing.T) {
	tr := Build(parse(t, catalogJSON))
	tr.Walk(func(n *Node, _ int) bool {
		got, err := tr.Resolve(n.Path())
		if assert.NoError(t, err, "path %q", n.Path()) {
			assert.Same(t, n, got)
		}
		return true
	})
}
