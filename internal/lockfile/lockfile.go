// Package lockfile guards against two vidsub submissions running at once
// from the same state directory.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another process holds the lock.
var ErrBusy = errors.New("another submission is already running")

const retryDelay = 250 * time.Millisecond

// Lock is an advisory file lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// New returns a lock backed by path. Nothing is touched until Acquire.
func New(path string) *Lock {
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock. Without wait it fails fast with ErrBusy; with
// wait it blocks until the lock frees or ctx ends.
func (l *Lock) Acquire(ctx context.Context, wait bool) error {
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure lock directory: %w", err)
		}
	}
	if wait {
		ok, err := l.lock.TryLockContext(ctx, retryDelay)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return ErrBusy
		}
		return nil
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrBusy
	}
	return nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	if !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
