// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/buildboot/buildboot/internal/cache"

	"github.com/pelletier/go-toml/v2"
)

// markerFileName records a completed environment inside its root.
const markerFileName = ".buildboot-env.toml"

type marker struct {
	VersionTag    string    `toml:"version_tag"`
	Interpreter   string    `toml:"interpreter"`
	PythonVersion string    `toml:"python_version"`
	Requirements  []string  `toml:"requirements"`
	CreatedAt     time.Time `toml:"created_at"`
}

// readMarker returns the marker in root, or nil if it is absent or
// unreadable. An unreadable marker is indistinguishable from an incomplete
// environment.
func readMarker(root string) *marker {
	data, err := os.ReadFile(filepath.Join(root, markerFileName))
	if err != nil {
		return nil
	}
	var m marker
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}

func writeMarker(root string, m marker) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode environment marker: %w", err)
	}
	return cache.WriteFileAtomic(filepath.Join(root, markerFileName), data, 0o644)
}

// complete reports whether root holds a finished environment for tag.
func complete(root, tag string) bool {
	m := readMarker(root)
	return m != nil && m.VersionTag == tag
}

// exists reports whether path exists, distinguishing real stat failures.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
