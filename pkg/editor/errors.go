package editor

import (
	"errors"
	"fmt"
)

// ErrNoPath is returned by SaveFile when neither an explicit path nor a
// remembered one is available.
var ErrNoPath = errors.New("no file path to save to")

// LoadError reports a document that could not be read or parsed. The
// editor's previous tree is left in place.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load JSON: %v", e.Err)
	}
	return fmt.Sprintf("failed to load JSON from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failed render or write. The tree is unaffected and the
// caller may retry, possibly with another path.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to save JSON: %v", e.Err)
	}
	return fmt.Sprintf("failed to save JSON to %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
