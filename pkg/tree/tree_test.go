package tree

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
)

const catalogJSON = `{
  "title": "Catalog",
  "sections": [
    {
      "name": "Lisboa",
      "cards": [
        {
          "id": 1,
          "price": 250000.50,
          "featured": true,
          "agent": null,
          "detailsLeft": "90 m²\n120 m²\nT2\n3",
          "tags": ["vista rio", "garagem"],
          "detailsRight": "100 m²\n80 m²\n1999"
        }
      ]
    }
  ]
}`

func parse(t *testing.T, src string) any {
	t.Helper()
	doc, err := jsondoc.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func mustResolve(t *testing.T, tr *Tree, path string) *Node {
	t.Helper()
	n, err := tr.Resolve(path)
	require.NoError(t, err)
	return n
}

func keys(n *Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Key())
	}
	return out
}

func TestBuildShapesRows(t *testing.T) {
	tr := Build(parse(t, catalogJSON))

	root := tr.Root()
	assert.Equal(t, KindMap, root.Kind())
	assert.Equal(t, []string{"title", "sections"}, keys(root))

	sections := root.ChildByKey("sections")
	require.NotNil(t, sections)
	assert.Equal(t, KindList, sections.Kind())
	assert.Equal(t, []string{"[0]"}, keys(sections))

	card := mustResolve(t, tr, "sections[0].cards[0]")
	assert.Equal(t, []string{
		"id", "price", "featured", "agent",
		"Area Bruta Privativa:", "Area Total do Lote:", "Quartos:", "Piso:",
		"tags",
		"Area Bruta:", "Area Util:", "Ano de Construção:",
	}, keys(card))

	piso := card.ChildByKey("Piso:")
	require.NotNil(t, piso)
	assert.True(t, piso.IsLeaf())
	assert.True(t, piso.Editable())
	assert.Equal(t, "3", piso.Value())

	assert.Equal(t, "null", card.ChildByKey("agent").Value())
	assert.Equal(t, "250000.50", card.ChildByKey("price").Value())
	assert.False(t, card.Editable())
}

func TestSerializeRoundTrip(t *testing.T) {
	doc := parse(t, catalogJSON)
	tr := Build(doc)

	out := tr.Serialize()
	assert.True(t, jsondoc.Equal(doc, out))

	b, err := jsondoc.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, catalogJSON, string(b))
	assert.Contains(t, string(b), `"price": 250000.50`)
}

func TestSerializeUnchangedLeavesKeepType(t *testing.T) {
	doc := parse(t, `{"code": "007", "n": "12", "flag": "true", "real": true}`)
	out := Build(doc).Serialize()
	assert.True(t, jsondoc.Equal(doc, out), "string leaves that look like literals must stay strings")
}

func TestSerializeEditedLeafRetypes(t *testing.T) {
	tests := []struct {
		text string
		want any
	}{
		{text: "42", want: json.Number("42")},
		{text: "False", want: false},
		{text: "None", want: nil},
		{text: "'quoted'", want: "quoted"},
		{text: "free text", want: "free text"},
		{text: "[1, 2]", want: []any{int64(1), int64(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			tr := Build(parse(t, `{"v": "x"}`))
			v := tr.Root().ChildByKey("v")
			require.NoError(t, tr.SetValue(v, tt.text))

			got, _ := tr.Serialize().(*jsondoc.Object).Get("v")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetailsRecombineInCanonicalOrder(t *testing.T) {
	tr := Build(parse(t, `{"a": 1, "detailsRight": "x\ny", "b": 2}`))
	root := tr.Root()
	assert.Equal(t, []string{"a", "Area Bruta:", "Area Util:", "b"}, keys(root))

	// move "Area Bruta:" after "Area Util:"; the saved text keeps label order
	bruta := root.ChildByKey("Area Bruta:")
	require.NoError(t, tr.Remove(bruta))
	require.NoError(t, tr.Insert(root, 2, bruta))
	require.NoError(t, tr.SetValue(bruta, "z"))

	obj := tr.Serialize().(*jsondoc.Object)
	assert.Equal(t, []string{"a", "detailsRight", "b"}, obj.Keys())
	v, _ := obj.Get("detailsRight")
	assert.Equal(t, "z\ny", v)
}

func TestDetailsOverflowLines(t *testing.T) {
	src := `{"detailsLeft": "1\n2\n3\n4\n5\n6\n7\n8"}`
	tr := Build(parse(t, src))

	got := keys(tr.Root())
	require.Len(t, got, 8)
	assert.Equal(t, "Carr. Carros Eletricos:", got[5])
	assert.Equal(t, []string{"[6]", "[7]"}, got[6:])

	v, _ := tr.Serialize().(*jsondoc.Object).Get("detailsLeft")
	assert.Equal(t, "1\n2\n3\n4\n5\n6\n7\n8", v)
}

func TestDetailsEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantKeys []string
		wantOut  string
	}{
		{
			name:     "array value",
			src:      `{"detailsLeft": ["90", 3]}`,
			wantKeys: []string{"Area Bruta Privativa:", "Area Total do Lote:"},
			wantOut:  `{"detailsLeft": "90\n3"}`,
		},
		{
			name:     "crlf and trailing newline",
			src:      `{"detailsRight": "a\r\nb\n"}`,
			wantKeys: []string{"Area Bruta:", "Area Util:"},
			wantOut:  `{"detailsRight": "a\nb"}`,
		},
		{
			name:     "empty string has no rows",
			src:      `{"detailsLeft": "", "x": 1}`,
			wantKeys: []string{"x"},
			wantOut:  `{"x": 1}`,
		},
		{
			name:     "other types stay members",
			src:      `{"detailsLeft": 5}`,
			wantKeys: []string{"detailsLeft"},
			wantOut:  `{"detailsLeft": 5}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Build(parse(t, tt.src))
			assert.Equal(t, tt.wantKeys, keys(tr.Root()))
			b, err := jsondoc.Marshal(tr.Serialize())
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantOut, string(b))
		})
	}
}

func TestCustomDetailsBlocks(t *testing.T) {
	blocks := []DetailsBlock{{Property: "specs", Labels: []string{"CPU:", "RAM:"}}}
	require.NoError(t, ValidateDetails(blocks))

	tr := Build(parse(t, `{"specs": "M2\n16GB", "detailsLeft": "kept"}`), WithDetails(blocks...))
	assert.Equal(t, []string{"CPU:", "RAM:", "detailsLeft"}, keys(tr.Root()))

	tr = Build(parse(t, `{"detailsLeft": "a"}`), WithDetails())
	assert.Equal(t, []string{"detailsLeft"}, keys(tr.Root()))
}

func TestValidateDetails(t *testing.T) {
	tests := []struct {
		name   string
		blocks []DetailsBlock
		ok     bool
	}{
		{name: "defaults", blocks: DefaultDetails(), ok: true},
		{name: "no property", blocks: []DetailsBlock{{Labels: []string{"a"}}}},
		{name: "duplicate property", blocks: []DetailsBlock{{Property: "p"}, {Property: "p"}}},
		{name: "empty label", blocks: []DetailsBlock{{Property: "p", Labels: []string{""}}}},
		{name: "index label", blocks: []DetailsBlock{{Property: "p", Labels: []string{"[0]"}}}},
		{
			name: "shared label",
			blocks: []DetailsBlock{
				{Property: "p", Labels: []string{"x"}},
				{Property: "q", Labels: []string{"x"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDetails(tt.blocks)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
		})
	}
}

func TestListMapDetection(t *testing.T) {
	t.Run("empty containers keep their kind", func(t *testing.T) {
		doc := parse(t, `{"l": [], "m": {}}`)
		b, err := jsondoc.Marshal(Build(doc).Serialize())
		require.NoError(t, err)
		assert.JSONEq(t, `{"l": [], "m": {}}`, string(b))
	})

	t.Run("object with index-like keys stays an object", func(t *testing.T) {
		doc := parse(t, `{"[0]": "a", "[1]": "b"}`)
		out := Build(doc).Serialize()
		_, ok := out.(*jsondoc.Object)
		assert.True(t, ok, "got %T", out)
	})

	t.Run("node moved into a list takes an index label", func(t *testing.T) {
		tr := Build(parse(t, `{"l": ["a"], "m": {"k": 1}}`))
		list := tr.Root().ChildByKey("l")
		k := tr.Root().ChildByKey("m").ChildByKey("k")
		require.NoError(t, tr.Remove(k))
		require.NoError(t, tr.Insert(list, 1, k))
		assert.Equal(t, "[1]", k.Key())

		b, err := jsondoc.Marshal(tr.Serialize())
		require.NoError(t, err)
		assert.JSONEq(t, `{"l": ["a", 1], "m": {}}`, string(b))
	})
}

func TestNodeIDsAreUnique(t *testing.T) {
	tr := Build(parse(t, catalogJSON))
	seen := map[ID]bool{}
	tr.Walk(func(n *Node, _ int) bool {
		assert.False(t, seen[n.ID()], "duplicate id %d", n.ID())
		seen[n.ID()] = true
		found, ok := tr.Find(n.ID())
		assert.True(t, ok)
		assert.Same(t, n, found)
		return true
	})
	assert.Equal(t, tr.Len(), len(seen))
}

func TestRoundTripProperty(t *testing.T) {
	keyGen := rapid.SampledFrom([]string{"a", "b", "name", "cards", "x y", "[0]", "Área", ""})
	scalarGen := rapid.OneOf(
		rapid.Map(rapid.String(), func(s string) any { return s }),
		rapid.Map(rapid.Int64(), func(i int64) any { return json.Number(strconv.FormatInt(i, 10)) }),
		rapid.Map(rapid.Bool(), func(b bool) any { return b }),
		rapid.Just[any](nil),
	)
	var valueGen func(depth int) *rapid.Generator[any]
	valueGen = func(depth int) *rapid.Generator[any] {
		return rapid.Custom(func(t *rapid.T) any {
			kind := 0
			if depth < 3 {
				kind = rapid.IntRange(0, 2).Draw(t, "kind")
			}
			switch kind {
			case 1:
				n := rapid.IntRange(0, 4).Draw(t, "len")
				out := make([]any, n)
				for i := range out {
					out[i] = valueGen(depth+1).Draw(t, "elem")
				}
				return out
			case 2:
				n := rapid.IntRange(0, 4).Draw(t, "members")
				obj := jsondoc.NewObject(n)
				for i := 0; i < n; i++ {
					obj.Set(keyGen.Draw(t, "key"), valueGen(depth+1).Draw(t, "value"))
				}
				return obj
			default:
				return scalarGen.Draw(t, "scalar")
			}
		})
	}

	rapid.Check(t, func(t *rapid.T) {
		doc := valueGen(0).Draw(t, "doc")
		out := Build(doc).Serialize()
		if !jsondoc.Equal(doc, out) {
			t.Fatalf("round trip changed the document\nin:  %s\nout: %s", dump(doc), dump(out))
		}
	})
}

func dump(v any) string {
	b, err := jsondoc.MarshalCompact(v)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
