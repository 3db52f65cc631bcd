package tree

import "errors"

// Lookup errors
var (
	// ErrNotFound indicates a node that is not attached to this tree, or the
	// root where a node with a parent is required. Callers should treat it as a
	// contract violation rather than a user-facing condition.
	ErrNotFound = errors.New("node not found in tree")

	// ErrPathNotFound indicates a path segment that matches no child.
	ErrPathNotFound = errors.New("path not found")
)

// Edit errors
var (
	// ErrEditRejected indicates a clone/append on a missing, leaf or empty
	// container. The tree is left unchanged; it is an expected no-op outcome.
	ErrEditRejected = errors.New("nothing to clone from")

	// ErrNotEditable indicates an attempt to edit a container or a read-only value.
	ErrNotEditable = errors.New("node value is not editable")

	// ErrNotContainer indicates an insert under a leaf.
	ErrNotContainer = errors.New("node is not a container")

	// ErrIndexOutOfRange indicates an insert position outside [0, len].
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrAttached indicates an insert of a node that already has a parent.
	ErrAttached = errors.New("node is already attached")

	// ErrDuplicateKey indicates an insert into a map that already has the key.
	ErrDuplicateKey = errors.New("duplicate key")
)
