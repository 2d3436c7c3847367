package lock

import (
	"sync"
	"time"
)

// Ensure MemoryLocker implements Locker
var _ Locker = (*MemoryLocker)(nil)

// MemoryLocker is a process-local Locker. It is sufficient for a single
// server instance and for tests; multi-instance deployments should use
// PostgresLocker so all instances contend on the same locks.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]chan struct{})}
}

func (m *MemoryLocker) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		m.slots[key] = s
	}
	return s
}

// TryLock takes the named lock, waiting at most timeout.
func (m *MemoryLocker) TryLock(key string, timeout time.Duration) bool {
	s := m.slot(key)
	select {
	case s <- struct{}{}:
		return true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

// Unlock releases the named lock. Unlocking a key that is not held is a no-op.
func (m *MemoryLocker) Unlock(key string) {
	s := m.slot(key)
	select {
	case <-s:
	default:
	}
}
