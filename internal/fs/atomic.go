package fs

import (
	"os"
	"path/filepath"
)

// tempPattern names in-flight writes; a crash can leave one behind but never a
// half-written target.
const tempPattern = ".starter-tmp-*"

// WriteFileAtomic writes data to path through a temp file in the same
// directory followed by a rename. On failure the previous file (if any) is
// left unchanged and the temp file is removed. The parent directory must exist.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) error {
	tmpPath, w, err := fsys.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			fsys.Remove(tmpPath)
		}
	}()

	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}

// WriteFileAtomicAll is WriteFileAtomic preceded by creating the parent
// directories (0755).
func WriteFileAtomicAll(fsys FS, path string, data []byte, perm os.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return WriteFileAtomic(fsys, path, data, perm)
}
