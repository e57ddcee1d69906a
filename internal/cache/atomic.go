// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path through a temporary file in the same
// directory followed by a rename, so readers observe either the old content
// or the complete new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return CommitFile(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// CommitFile streams content produced by write into a temporary sibling of
// path, syncs it, and renames it over path. On any failure the temporary file
// is removed and path is left untouched.
func CommitFile(path string, perm os.FileMode, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()        // Best-effort; the write already failed
			_ = os.Remove(tmpName) // Leftover temp files are ignored by readers
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}
