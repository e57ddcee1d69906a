// SPDX-License-Identifier: MPL-2.0

package native

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// skippedDirName holds toolchain build products, which must not feed the key.
const skippedDirName = "target"

// Key computes the build key of d: a sha256 over the descriptor fields and
// the relative path and content hash of every regular file in the source
// directories. Hidden directories and target/ are skipped.
func Key(d Descriptor) (string, error) {
	h := sha256.New()
	fmt.Fprintf(h, "name:%s\ntarget:%s\nversion:%s\ncommand:%s\n", d.Name, d.Target, d.Version, d.BuildCommand)

	for i, dir := range d.SourceDirs {
		entries, err := hashDir(dir)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "source[%d]\n", i)
		for _, e := range entries {
			h.Write([]byte(e + "\n"))
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashDir returns sorted "relpath:sha256" entries for the files under dir.
func hashDir(dir string) ([]string, error) {
	var entries []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (d.Name() == skippedDirName || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		sum, err := fileHash(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel)+":"+sum)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hash source directory %s: %w", dir, err)
	}
	slices.Sort(entries)
	return entries, nil
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
