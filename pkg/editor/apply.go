package editor

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/cardtree/pkg/tree"
)

// OpKind names a scripted edit.
type OpKind string

const (
	OpSet        OpKind = "set"
	OpDelete     OpKind = "delete"
	OpAddSection OpKind = "add-section"
	OpAddCard    OpKind = "add-card"
	OpClone      OpKind = "clone"
)

// ErrUnknownOp is returned for an op kind Apply does not know.
var ErrUnknownOp = errors.New("unknown op")

// Op is one step of an edit script.
type Op struct {
	Kind  OpKind `yaml:"op" json:"op"`
	Path  string `yaml:"path,omitempty" json:"path,omitempty"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Result counts what Apply did.
type Result struct {
	Applied  int
	Rejected int
}

// script is the document form accepted by ParseScript.
type script struct {
	Ops []Op `yaml:"ops"`
}

// ParseScript decodes a YAML edit script: either a sequence of ops or a
// mapping with an "ops" sequence.
//
//	ops:
//	  - {op: set, path: title, value: Lisboa}
//	  - {op: clone, path: sections[0].cards}
func ParseScript(data []byte) ([]Op, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse edit script: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	var ops []Op
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&ops); err != nil {
			return nil, fmt.Errorf("parse edit script: %w", err)
		}
	default:
		var s script
		if err := root.Decode(&s); err != nil {
			return nil, fmt.Errorf("parse edit script: %w", err)
		}
		ops = s.Ops
	}
	for i, op := range ops {
		if !op.Kind.valid() {
			return nil, fmt.Errorf("op %d: %q: %w", i, op.Kind, ErrUnknownOp)
		}
	}
	return ops, nil
}

func (k OpKind) valid() bool {
	switch k {
	case OpSet, OpDelete, OpAddSection, OpAddCard, OpClone:
		return true
	}
	return false
}

// Apply runs ops in order. Structural ops whose target cannot be cloned from
// count as rejected and do not stop the script. Any other failure stops it
// and restores the tree as it was before the first op.
func (e *Editor) Apply(ops []Op) (Result, error) {
	var res Result
	saved, wasDirty := e.tree.Copy(), e.dirty
	for i, op := range ops {
		err := e.apply(op)
		switch {
		case err == nil:
			res.Applied++
		case errors.Is(err, tree.ErrEditRejected):
			res.Rejected++
		default:
			e.tree, e.dirty = saved, wasDirty
			return Result{}, fmt.Errorf("op %d (%s %s): %w", i, op.Kind, op.Path, err)
		}
	}
	e.log.V(1).Info("applied edit script", "applied", res.Applied, "rejected", res.Rejected)
	return res, nil
}

func (e *Editor) apply(op Op) error {
	switch op.Kind {
	case OpAddSection:
		_, err := e.AddSection()
		return err
	case OpSet, OpDelete, OpAddCard, OpClone:
	default:
		return fmt.Errorf("%q: %w", op.Kind, ErrUnknownOp)
	}

	n, err := e.Resolve(op.Path)
	if err != nil {
		if op.Kind == OpClone || op.Kind == OpAddCard {
			e.log.Info(string(op.Kind)+" rejected", "path", op.Path, "reason", err.Error())
			return fmt.Errorf("%w: %w", tree.ErrEditRejected, err)
		}
		return err
	}
	switch op.Kind {
	case OpSet:
		return e.EditLeafValue(n, op.Value)
	case OpDelete:
		return e.RemoveSubtree(n)
	case OpAddCard:
		_, err = e.AddCard(n)
	case OpClone:
		_, err = e.CloneAndAppend(n)
	}
	return err
}
