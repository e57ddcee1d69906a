// SPDX-License-Identifier: MPL-2.0

package native

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/buildboot/buildboot/internal/cache"

	"github.com/pelletier/go-toml/v2"
)

const (
	artifactFileName = "artifact"
	recordFileName   = "build.toml"
)

// record is the persisted description of the committed artifact.
type record struct {
	Key     string    `toml:"key"`
	Name    string    `toml:"name"`
	Target  string    `toml:"target"`
	Command string    `toml:"command"`
	Output  string    `toml:"output"`
	BuiltAt time.Time `toml:"built_at"`
}

// readRecord returns the record in dir, or nil when there is none. A record
// that cannot be decoded is treated as absent so the next build replaces it.
func readRecord(dir string) (*record, error) {
	data, err := os.ReadFile(filepath.Join(dir, recordFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r record
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, nil //nolint:nilerr // Corrupt record means stale
	}
	return &r, nil
}

func writeRecord(dir string, r record) error {
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode build record: %w", err)
	}
	return cache.WriteFileAtomic(filepath.Join(dir, recordFileName), data, 0o644)
}

// removeRecord invalidates dir before its artifact is replaced.
func removeRecord(dir string) error {
	err := os.Remove(filepath.Join(dir, recordFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
