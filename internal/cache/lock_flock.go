// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// KeyLock holds an exclusive flock on a per-key lock file. The zero-byte lock
// file is harmless if orphaned: the kernel drops the flock when the fd is
// closed, including on process crash.
type KeyLock struct {
	file *os.File
	path string
}

func acquireKeyLock(ctx context.Context, path string) (*KeyLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	poll := lockPollMin
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &KeyLock{file: f, path: path}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = f.Close() // Lock was never taken
			return nil, fmt.Errorf("flock %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			_ = f.Close() // Lock was never taken
			return nil, fmt.Errorf("wait for lock %s: %w", path, ctx.Err())
		case <-time.After(poll):
		}
		poll = nextPoll(poll)
	}
}

// Path returns the lock file path.
func (l *KeyLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks the flock and closes the file descriptor. It is safe to call
// multiple times and on a nil receiver.
func (l *KeyLock) Release() {
	if l == nil || l.file == nil {
		return
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		slog.Debug("flock unlock failed", "path", l.path, "error", err)
	}
	if err := l.file.Close(); err != nil {
		slog.Debug("lock file close failed", "path", l.path, "error", err)
	}
	l.file = nil
}
