package editor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cardtree/pkg/logger"
	"github.com/oakwood-commons/cardtree/pkg/tree"
)

const catalog = `{
  "sections": [
    {
      "name": "Lisboa",
      "cards": [
        {
          "id": 1,
          "detailsLeft": "90 m²\nT2",
          "city": "Lisboa"
        }
      ]
    }
  ],
  "empty": []
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func loaded(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	e := New(opts...)
	require.NoError(t, e.Load(catalog))
	return e
}

func resolve(t *testing.T, e *Editor, path string) *tree.Node {
	t.Helper()
	n, err := e.Resolve(path)
	require.NoError(t, err)
	return n
}

func TestNewHoldsEmptyObject(t *testing.T) {
	e := New()
	out, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
	assert.False(t, e.Dirty())
	assert.Empty(t, e.Path())
}

func TestLoadSaveRoundTrip(t *testing.T) {
	e := loaded(t)
	out, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, catalog, string(out))
}

func TestLoadErrorKeepsPreviousTree(t *testing.T) {
	e := loaded(t)
	before := e.Tree()

	err := e.Load(`{"broken": `)
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Empty(t, le.Path)
	assert.Same(t, before, e.Tree())

	err = e.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.json")
	assert.Same(t, before, e.Tree())
}

func TestLoadFileRemembersPath(t *testing.T) {
	path := writeFile(t, "catalog.json", catalog)
	e := New()
	require.NoError(t, e.LoadFile(path))
	assert.Equal(t, path, e.Path())

	city := resolve(t, e, "sections[0].cards[0].city")
	require.NoError(t, e.EditLeafValue(city, "Porto"))
	assert.True(t, e.Dirty())

	require.NoError(t, e.SaveFile(""))
	assert.False(t, e.Dirty())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"city": "Porto"`)
	assert.Contains(t, string(b), `"detailsLeft": "90 m²\nT2"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "existing permissions are kept")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestSaveFileErrors(t *testing.T) {
	e := loaded(t)

	err := e.SaveFile("")
	var se *SaveError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrNoPath)

	bad := filepath.Join(t.TempDir(), "no", "such", "dir", "out.json")
	err = e.SaveFile(bad)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, bad, se.Path)
	assert.Empty(t, e.Path(), "a failed save does not remember the path")

	good := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, e.SaveFile(good))
	assert.Equal(t, good, e.Path())
}

func TestFilter(t *testing.T) {
	e := loaded(t)
	assert.True(t, e.Filter().ShowWholeCard)

	e.SetFilter("lisboa", false, false)
	id := resolve(t, e, "sections[0].cards[0].id")
	city := resolve(t, e, "sections[0].cards[0].city")
	assert.False(t, e.IsRowVisible(id))
	assert.True(t, e.IsRowVisible(city))

	vis := e.Visible()
	assert.False(t, vis.Visible(id.ID()))
	assert.True(t, vis.Visible(city.ID()))
	assert.Equal(t, 2, vis.Matches(), "section name and card city")

	e.SetFilter("lisboa", false, true)
	assert.True(t, e.IsRowVisible(id))
}

func TestAddSectionAndCard(t *testing.T) {
	e := loaded(t)

	section, err := e.AddSection()
	require.NoError(t, err)
	assert.Equal(t, "sections[1]", section.Path())

	cards := resolve(t, e, "sections[1].cards")
	card, err := e.AddCard(cards)
	require.NoError(t, err)
	assert.Equal(t, "sections[1].cards[1]", card.Path())
	assert.True(t, e.Dirty())

	_, err = e.AddCard(resolve(t, e, "sections[0].name"))
	assert.ErrorIs(t, err, tree.ErrEditRejected)
	_, err = e.AddCard(nil)
	assert.ErrorIs(t, err, tree.ErrEditRejected)
}

func TestAddSectionRejected(t *testing.T) {
	e := New()
	require.NoError(t, e.Load(`{"other": []}`))
	_, err := e.AddSection()
	assert.ErrorIs(t, err, tree.ErrEditRejected)
	assert.False(t, e.Dirty())

	e = New(WithRoles(Roles{Sections: "other"}))
	require.NoError(t, e.Load(`{"other": []}`))
	_, err = e.AddSection()
	assert.ErrorIs(t, err, tree.ErrEditRejected, "empty container has nothing to clone")
}

func TestCustomRoles(t *testing.T) {
	e := New(WithRoles(Roles{Sections: "groups", Cards: "items"}))
	require.NoError(t, e.Load(`{"groups": [{"items": [{"n": 1}]}]}`))
	assert.Equal(t, Roles{Sections: "groups", Cards: "items"}, e.Roles())

	_, err := e.AddSection()
	require.NoError(t, err)
	_, err = e.AddCard(resolve(t, e, "groups[0].items"))
	require.NoError(t, err)

	out, err := e.Save()
	require.NoError(t, err)
	assert.JSONEq(t, `{"groups": [{"items": [{"n": 1}, {"n": 1}]}, {"items": [{"n": 1}]}]}`, string(out))
}

func TestRemoveAndInsert(t *testing.T) {
	e := loaded(t)
	card := resolve(t, e, "sections[0].cards[0]")
	cards := card.Parent()

	require.NoError(t, e.RemoveSubtree(card))
	assert.Equal(t, 0, cards.Len())
	assert.ErrorIs(t, e.RemoveSubtree(card), tree.ErrNotFound)
	assert.ErrorIs(t, e.RemoveSubtree(e.Tree().Root()), tree.ErrNotFound)

	require.NoError(t, e.Insert(cards, 0, card))
	out, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, catalog, string(out))
}

func TestEditLeafValueErrors(t *testing.T) {
	e := loaded(t)
	assert.ErrorIs(t, e.EditLeafValue(resolve(t, e, "sections"), "x"), tree.ErrNotEditable)
	assert.False(t, e.Dirty())
}

func TestCustomDetails(t *testing.T) {
	e := New(WithDetails(tree.DetailsBlock{Property: "specs", Labels: []string{"CPU:"}}))
	require.NoError(t, e.Load(`{"specs": "M2", "detailsLeft": "kept"}`))
	cpu := resolve(t, e, `["CPU:"]`)
	assert.Equal(t, "M2", cpu.Value())
	resolve(t, e, "detailsLeft")
}

func TestRejectedEditsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithLogger(logger.New(&buf, 0)))
	require.NoError(t, e.Load(catalog))

	_, err := e.CloneAndAppend(resolve(t, e, "empty"))
	assert.True(t, errors.Is(err, tree.ErrEditRejected))
	assert.Contains(t, buf.String(), "clone rejected")
	assert.Contains(t, buf.String(), `"path":"empty"`)
}
