// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const (
	// KindVenv namespaces isolated interpreter environments.
	KindVenv Kind = "venvs"
	// KindNative namespaces native artifacts.
	KindNative Kind = "native"

	locksDirName = "locks"
	dirPerm      = 0o755
)

// ErrInvalidKey is returned for keys that would escape their namespace.
var ErrInvalidKey = errors.New("invalid cache key")

// keyPattern restricts keys to a single path element.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

type (
	// Kind is a top-level cache namespace.
	Kind string

	// Dir is a cache root on the local file system.
	Dir struct {
		root string
	}
)

// New returns a Dir rooted at root. The directory is created lazily.
func New(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the cache root path.
func (d *Dir) Root() string { return d.root }

// Path returns the directory for key within kind. Nested key elements are
// joined as subdirectories.
func (d *Dir) Path(kind Kind, key ...string) (string, error) {
	for _, k := range key {
		if !keyPattern.MatchString(k) {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, k)
		}
	}
	return filepath.Join(append([]string{d.root, string(kind)}, key...)...), nil
}

// Ensure creates the directory for key within kind and returns its path.
func (d *Dir) Ensure(kind Kind, key ...string) (string, error) {
	p, err := d.Path(kind, key...)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p, dirPerm); err != nil {
		return "", fmt.Errorf("create cache directory %s: %w", p, err)
	}
	return p, nil
}

// lockPath returns the lock file path for a key. Nested keys share one lock
// file named after all of their elements.
func (d *Dir) lockPath(kind Kind, key ...string) (string, error) {
	name := string(kind)
	for _, k := range key {
		if !keyPattern.MatchString(k) {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, k)
		}
		name += "-" + k
	}
	return filepath.Join(d.root, locksDirName, name+".lock"), nil
}

// Remove deletes everything stored under kind. It takes no locks; callers
// performing external cleanup are expected to run it while no launcher is
// active.
func (d *Dir) Remove(kind Kind) error {
	p := filepath.Join(d.root, string(kind))
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}
