// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "file.txt")
	MustWriteFile(t, path, "content", 0o644)

	if got := MustReadFile(t, path); got != "content" {
		t.Errorf("MustReadFile() = %q, want %q", got, "content")
	}
}

func TestMustRemoveAll(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "tree")
	MustMkdirAll(t, filepath.Join(dir, "nested"), 0o755)
	MustRemoveAll(t, dir)

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("directory still exists after MustRemoveAll (err = %v)", err)
	}
	// Removing a missing path is not an error.
	MustRemoveAll(t, dir)
}
