package annotation

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLockConflict(t *testing.T) {
	db, mock := newMockDB(t)
	locks := NewGormEditLocks(db, 5*time.Minute)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "data_edit_locks"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := locks.CheckLock([]int64{10}, Actor{ID: 7})

	require.ErrorIs(t, err, ErrDataLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckLockNoConflict(t *testing.T) {
	db, mock := newMockDB(t)
	locks := NewGormEditLocks(db, 5*time.Minute)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "data_edit_locks"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := locks.CheckLock([]int64{10, 20}, Actor{ID: 7})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckLockNoDataIDs(t *testing.T) {
	db, mock := newMockDB(t)
	locks := NewGormEditLocks(db, 5*time.Minute)

	// No query expected.
	err := locks.CheckLock(nil, Actor{ID: 7})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireTakesFreeLock(t *testing.T) {
	db, mock := newMockDB(t)
	locks := NewGormEditLocks(db, 5*time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "data_edit_locks" .* ON CONFLICT \("data_id"\) DO UPDATE SET .* WHERE data_edit_locks\.locked_by = excluded\.locked_by OR data_edit_locks\.expires_at <=`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := locks.Acquire(10, Actor{ID: 7})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireHeldByOtherUserConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	locks := NewGormEditLocks(db, 5*time.Minute)

	// The conditional update matches nothing: another user holds a live
	// lock, so the upsert returns no row.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "data_edit_locks" .* ON CONFLICT \("data_id"\) DO UPDATE SET .* WHERE data_edit_locks\.locked_by = excluded\.locked_by OR data_edit_locks\.expires_at <=`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := locks.Acquire(10, Actor{ID: 7})

	require.ErrorIs(t, err, ErrDataLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseDeletesOwnLockOnly(t *testing.T) {
	db, mock := newMockDB(t)
	locks := NewGormEditLocks(db, 5*time.Minute)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "data_edit_locks"`).
		WithArgs(int64(10), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := locks.Release(10, Actor{ID: 7})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
