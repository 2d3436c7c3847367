package lock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "datasetClass:datasetId+name:1+car", Key("datasetClass", "datasetId+name", "1+car"))
}

func TestMemoryLockerHeldKeyTimesOut(t *testing.T) {
	l := NewMemoryLocker()

	require.True(t, l.TryLock("k", 10*time.Millisecond))
	assert.False(t, l.TryLock("k", 10*time.Millisecond))
}

func TestMemoryLockerIndependentKeys(t *testing.T) {
	l := NewMemoryLocker()

	require.True(t, l.TryLock("a", 10*time.Millisecond))
	assert.True(t, l.TryLock("b", 10*time.Millisecond))
}

func TestMemoryLockerUnlockMakesKeyAvailable(t *testing.T) {
	l := NewMemoryLocker()

	require.True(t, l.TryLock("k", 10*time.Millisecond))
	l.Unlock("k")
	assert.True(t, l.TryLock("k", 10*time.Millisecond))
}

func TestMemoryLockerUnlockIsIdempotent(t *testing.T) {
	l := NewMemoryLocker()

	l.Unlock("never-held")
	l.Unlock("never-held")
	assert.True(t, l.TryLock("never-held", 10*time.Millisecond))
}

func TestMemoryLockerWaitsForRelease(t *testing.T) {
	l := NewMemoryLocker()
	require.True(t, l.TryLock("k", 10*time.Millisecond))

	go func() {
		time.Sleep(20 * time.Millisecond)
		l.Unlock("k")
	}()

	assert.True(t, l.TryLock("k", time.Second))
}

func TestWithLockRunsFn(t *testing.T) {
	l := NewMemoryLocker()
	ran := false

	err := WithLock(l, "k", 10*time.Millisecond, func() error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, l.TryLock("k", 10*time.Millisecond), "lock released after fn")
}

func TestWithLockReleasesOnError(t *testing.T) {
	l := NewMemoryLocker()
	boom := errors.New("boom")

	err := WithLock(l, "k", 10*time.Millisecond, func() error { return boom })

	require.ErrorIs(t, err, boom)
	assert.True(t, l.TryLock("k", 10*time.Millisecond), "lock released after failing fn")
}

func TestWithLockBusyNeverInvokesFn(t *testing.T) {
	l := NewMemoryLocker()
	require.True(t, l.TryLock("k", 10*time.Millisecond))

	ran := false
	err := WithLock(l, "k", 10*time.Millisecond, func() error {
		ran = true
		return nil
	})

	require.ErrorIs(t, err, ErrNotAcquired)
	assert.False(t, ran)
}
