package lock

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotAcquired is returned by WithLock when the lock could not be taken
// within the timeout.
var ErrNotAcquired = errors.New("lock not acquired within timeout")

// Locker is a named advisory lock with bounded acquisition. Unlock is
// idempotent: releasing a key that is not held is a no-op.
type Locker interface {
	// TryLock attempts to take the named lock, waiting at most timeout.
	TryLock(key string, timeout time.Duration) bool

	// Unlock releases the named lock.
	Unlock(key string)
}

// Key builds a composite lock key of the form entityType:dimension:value.
func Key(entityType, dimension, value string) string {
	return fmt.Sprintf("%s:%s:%s", entityType, dimension, value)
}

// WithLock runs fn under the named lock. The lock is released on the way out
// whether fn succeeds or fails, so it can never leak past the call. If the
// lock cannot be taken within the timeout, fn is never invoked and
// ErrNotAcquired is returned.
func WithLock(l Locker, key string, timeout time.Duration, fn func() error) error {
	if !l.TryLock(key, timeout) {
		return ErrNotAcquired
	}
	defer l.Unlock(key)
	return fn()
}
