// SPDX-License-Identifier: MPL-2.0

//go:build !linux && !darwin

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Without flock only launches within one process can be serialized; the
// per-path mutex table is the best available protection on these platforms.
var (
	keyLocksMu sync.Mutex
	keyLocks   = map[string]*sync.Mutex{}
)

// KeyLock is the in-process fallback lock.
type KeyLock struct {
	mu   *sync.Mutex
	path string
}

func acquireKeyLock(ctx context.Context, path string) (*KeyLock, error) {
	keyLocksMu.Lock()
	mu, ok := keyLocks[path]
	if !ok {
		mu = &sync.Mutex{}
		keyLocks[path] = mu
	}
	keyLocksMu.Unlock()

	poll := lockPollMin
	for !mu.TryLock() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for lock %s: %w", path, ctx.Err())
		case <-time.After(poll):
		}
		poll = nextPoll(poll)
	}
	return &KeyLock{mu: mu, path: path}, nil
}

// Path returns the lock key path.
func (l *KeyLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks the mutex. It is safe to call multiple times.
func (l *KeyLock) Release() {
	if l == nil || l.mu == nil {
		return
	}
	l.mu.Unlock()
	l.mu = nil
}
