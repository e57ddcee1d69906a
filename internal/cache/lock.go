// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Lock polling bounds while waiting on a contended lock.
const (
	lockPollMin = 10 * time.Millisecond
	lockPollMax = 250 * time.Millisecond
)

// Lock acquires an exclusive advisory lock scoped to key within kind. It
// blocks until the lock is free or ctx is done. The returned lock must be
// released on every exit path; Release is idempotent.
func (d *Dir) Lock(ctx context.Context, kind Kind, key ...string) (*KeyLock, error) {
	path, err := d.lockPath(kind, key...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	start := time.Now()
	l, err := acquireKeyLock(ctx, path)
	if err != nil {
		return nil, err
	}
	if waited := time.Since(start); waited > lockPollMin {
		slog.Debug("acquired contended cache lock", "path", path, "waited", waited)
	}
	return l, nil
}

// nextPoll doubles the poll interval up to lockPollMax.
func nextPoll(d time.Duration) time.Duration {
	d *= 2
	if d > lockPollMax {
		return lockPollMax
	}
	return d
}
