// Package editor is the boundary between callers and a document tree. It
// loads and saves JSON, holds the current filter, and performs the
// structural edits the card layout needs (new sections, new cards, cloned
// rows), logging rejected edits instead of failing on them.
package editor

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cardtree/pkg/filter"
	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
	"github.com/oakwood-commons/cardtree/pkg/tree"
)

// Roles names the containers AddSection and AddCard operate on.
type Roles struct {
	// Sections is the root child AddSection appends to.
	Sections string `yaml:"sections" json:"sections"`
	// Cards is the key a node must have for AddCard to accept it.
	Cards string `yaml:"cards" json:"cards"`
}

// DefaultRoles returns the roles of the standard card layout.
func DefaultRoles() Roles {
	return Roles{Sections: "sections", Cards: "cards"}
}

// Editor owns one document tree at a time.
type Editor struct {
	tree    *tree.Tree
	details []tree.DetailsBlock
	roles   Roles
	filter  *filter.Filter
	path    string
	dirty   bool
	log     logr.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithDetails sets the details blocks used for every tree the editor builds.
func WithDetails(blocks ...tree.DetailsBlock) Option {
	return func(e *Editor) {
		e.details = append([]tree.DetailsBlock(nil), blocks...)
	}
}

// WithRoles overrides the section and card container names. Empty fields
// keep their defaults.
func WithRoles(r Roles) Option {
	return func(e *Editor) {
		if r.Sections != "" {
			e.roles.Sections = r.Sections
		}
		if r.Cards != "" {
			e.roles.Cards = r.Cards
		}
	}
}

// WithFilter sets the initial filter state.
func WithFilter(opts filter.Options) Option {
	return func(e *Editor) { e.filter = filter.New(opts) }
}

// WithLogger sets the logger for load, save and edit events.
func WithLogger(l logr.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// New returns an editor holding an empty object.
func New(opts ...Option) *Editor {
	e := &Editor{
		details: tree.DefaultDetails(),
		roles:   DefaultRoles(),
		filter:  filter.New(filter.DefaultOptions()),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tree = tree.New(e.treeOptions()...)
	return e
}

func (e *Editor) treeOptions() []tree.Option {
	return []tree.Option{tree.WithDetails(e.details...)}
}

// Tree returns the current tree.
func (e *Editor) Tree() *tree.Tree { return e.tree }

// Path returns the file the document was last loaded from or saved to.
func (e *Editor) Path() string { return e.path }

// Roles returns the configured container names.
func (e *Editor) Roles() Roles { return e.roles }

// Dirty reports whether the tree changed since the last load or save.
func (e *Editor) Dirty() bool { return e.dirty }

// Load replaces the tree with the document in raw. On error the previous
// tree is kept and a *LoadError is returned.
func (e *Editor) Load(raw string) error {
	if err := e.load([]byte(raw)); err != nil {
		return &LoadError{Err: err}
	}
	e.path = ""
	return nil
}

// LoadFile reads and loads the document at path and remembers path for
// SaveFile.
func (e *Editor) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if err := e.load(raw); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	e.path = path
	e.log.V(1).Info("loaded document", "path", path, "rows", e.tree.Len()-1)
	return nil
}

func (e *Editor) load(raw []byte) error {
	doc, err := jsondoc.Parse(raw)
	if err != nil {
		return err
	}
	e.tree = tree.Build(doc, e.treeOptions()...)
	e.dirty = false
	return nil
}

// Save renders the tree as indented JSON.
func (e *Editor) Save() ([]byte, error) {
	b, err := jsondoc.Marshal(e.tree.Serialize())
	if err != nil {
		return nil, &SaveError{Err: err}
	}
	return b, nil
}

// SaveFile writes the document to path atomically. An empty path reuses the
// remembered one; with neither, ErrNoPath is returned inside a *SaveError.
func (e *Editor) SaveFile(path string) error {
	if path == "" {
		path = e.path
	}
	if path == "" {
		return &SaveError{Err: ErrNoPath}
	}
	b, err := e.Save()
	if err != nil {
		var se *SaveError
		if errors.As(err, &se) {
			se.Path = path
		}
		return err
	}
	if err := atomicWriteFile(path, b); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	e.path = path
	e.dirty = false
	e.log.V(1).Info("saved document", "path", path, "bytes", len(b))
	return nil
}

// SetFilter replaces the filter state.
func (e *Editor) SetFilter(query string, searchInKeys, showWholeCard bool) {
	e.filter = filter.New(filter.Options{
		Query:         query,
		SearchInKeys:  searchInKeys,
		ShowWholeCard: showWholeCard,
	})
}

// Filter returns the filter state.
func (e *Editor) Filter() filter.Options { return e.filter.Options() }

// IsRowVisible reports whether n is shown under the current filter.
func (e *Editor) IsRowVisible(n *tree.Node) bool {
	return e.filter.IsRowVisible(n)
}

// Visible computes the visible rows of the whole tree under the current
// filter.
func (e *Editor) Visible() filter.Set {
	return filter.Visibility(e.tree, e.filter.Options())
}

// Resolve returns the node at path.
func (e *Editor) Resolve(path string) (*tree.Node, error) {
	return e.tree.Resolve(path)
}

// CloneAndAppend appends a copy of container's first child. A missing, leaf
// or empty container is logged and reported as tree.ErrEditRejected; the
// tree is not changed.
func (e *Editor) CloneAndAppend(container *tree.Node) (*tree.Node, error) {
	row, err := e.tree.AppendClonedRow(container)
	if err != nil {
		e.log.Info("clone rejected", "path", pathOf(container), "reason", err.Error())
		return nil, err
	}
	e.dirty = true
	e.log.V(1).Info("appended cloned row", "path", row.Path())
	return row, nil
}

// AddSection appends a new section, cloned from the first one, to the
// sections container at the root.
func (e *Editor) AddSection() (*tree.Node, error) {
	sections := e.tree.Root().ChildByKey(e.roles.Sections)
	if sections == nil {
		e.log.Info("add section rejected", "container", e.roles.Sections, "reason", "no such container")
		return nil, fmt.Errorf("%q: %w", e.roles.Sections, tree.ErrEditRejected)
	}
	return e.CloneAndAppend(sections)
}

// AddCard appends a new card to n, which must be a cards container.
func (e *Editor) AddCard(n *tree.Node) (*tree.Node, error) {
	if n == nil || n.Key() != e.roles.Cards {
		e.log.Info("add card rejected", "path", pathOf(n), "reason", "not a "+e.roles.Cards+" container")
		return nil, fmt.Errorf("%s: not a %q container: %w", pathOf(n), e.roles.Cards, tree.ErrEditRejected)
	}
	return e.CloneAndAppend(n)
}

// RemoveSubtree deletes n and everything below it.
func (e *Editor) RemoveSubtree(n *tree.Node) error {
	path := pathOf(n)
	if err := e.tree.Remove(n); err != nil {
		return err
	}
	e.dirty = true
	e.log.V(1).Info("removed subtree", "path", path)
	return nil
}

// EditLeafValue replaces the text of a leaf.
func (e *Editor) EditLeafValue(n *tree.Node, text string) error {
	if err := e.tree.SetValue(n, text); err != nil {
		return err
	}
	e.dirty = true
	e.log.V(1).Info("edited value", "path", n.Path())
	return nil
}

// Insert attaches the detached node child under parent at index.
func (e *Editor) Insert(parent *tree.Node, index int, child *tree.Node) error {
	if err := e.tree.Insert(parent, index, child); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

func pathOf(n *tree.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Path()
}
