package editor

import (
	"errors"
	"os"
	"path/filepath"
)

const defaultFileMode os.FileMode = 0o644

// atomicWriteFile writes b to a temp file next to path and renames it over
// path, so readers see either the old or the new document. An existing
// file's permissions are kept.
func atomicWriteFile(path string, b []byte) error {
	perm := defaultFileMode
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
