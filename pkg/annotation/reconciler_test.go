package annotation

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store. Mutations are staged during a transaction
// and discarded when the callback errors, mirroring rollback.
type fakeStore struct {
	rows   map[int64]Object
	nextID int64

	upsertCalls [][]Object
	findErr     error
	upsertErr   error
	insertErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[int64]Object{}, nextID: 1}
}

func (s *fakeStore) seed(obj Object) Object {
	obj.ID = s.nextID
	s.nextID++
	s.rows[obj.ID] = obj
	return obj
}

func (s *fakeStore) Transaction(fn func(Store) error) error {
	snapshot := make(map[int64]Object, len(s.rows))
	for id, obj := range s.rows {
		snapshot[id] = obj
	}
	if err := fn(s); err != nil {
		s.rows = snapshot
		return err
	}
	return nil
}

func (s *fakeStore) FindByDataIDs(dataIDs []int64) ([]Object, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	ids := make(map[int64]struct{}, len(dataIDs))
	for _, id := range dataIDs {
		ids[id] = struct{}{}
	}
	var out []Object
	for _, obj := range s.rows {
		if _, ok := ids[obj.DataID]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (s *fakeStore) FindByDatasetID(datasetID int64) ([]Object, error) {
	var out []Object
	for _, obj := range s.rows {
		if obj.DatasetID == datasetID {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertBatch(objects []Object) ([]Object, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	inserted := make([]Object, len(objects))
	for i, obj := range objects {
		obj.ID = s.nextID
		s.nextID++
		s.rows[obj.ID] = obj
		inserted[i] = obj
	}
	return inserted, nil
}

func (s *fakeStore) UpsertBatch(objects []Object) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upsertCalls = append(s.upsertCalls, objects)
	for _, obj := range objects {
		s.rows[obj.ID] = obj
	}
	return nil
}

func (s *fakeStore) DeleteByIDs(ids []int64) error {
	for _, id := range ids {
		delete(s.rows, id)
	}
	return nil
}

func (s *fakeStore) DeleteByDataIDs(dataIDs []int64) error {
	ids := make(map[int64]struct{}, len(dataIDs))
	for _, id := range dataIDs {
		ids[id] = struct{}{}
	}
	for id, obj := range s.rows {
		if _, ok := ids[obj.DataID]; ok {
			delete(s.rows, id)
		}
	}
	return nil
}

type fakeLockChecker struct {
	err     error
	checked []int64
}

func (c *fakeLockChecker) CheckLock(dataIDs []int64, actor Actor) error {
	c.checked = append(c.checked, dataIDs...)
	return c.err
}

func newTestReconciler(store *fakeStore) *Reconciler {
	r := NewReconciler(store, nil)
	r.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func obj(datasetID, dataID int64) Object {
	return Object{
		DatasetID:       datasetID,
		DataID:          dataID,
		SourceType:      SourceTypeManual,
		ClassAttributes: json.RawMessage(`{"type":"BOUNDING_BOX"}`),
	}
}

func TestReconcileEmptyCallIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.seed(obj(1, 10))

	inserted, err := newTestReconciler(store).Reconcile(Actor{ID: 7}, nil, nil)

	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Len(t, store.rows, 1)
}

func TestReconcileInsertsNewObjects(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	actor := Actor{ID: 7}

	first := obj(1, 10)
	first.FrontID = 101
	second := obj(1, 10)
	second.FrontID = 102

	inserted, err := r.Reconcile(actor, []Object{first, second}, nil)

	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.Equal(t, int64(101), inserted[0].FrontID)
	assert.Equal(t, int64(102), inserted[1].FrontID)
	assert.NotZero(t, inserted[0].ID)
	assert.NotEqual(t, inserted[0].ID, inserted[1].ID)

	for _, got := range inserted {
		assert.Equal(t, actor.ID, got.CreatedBy)
		assert.Equal(t, actor.ID, got.UpdatedBy)
		assert.False(t, got.CreatedAt.IsZero())
	}
}

func TestReconcileResubmissionIsIdempotent(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	actor := Actor{ID: 7}

	inserted, err := r.Reconcile(actor, []Object{obj(1, 10)}, nil)
	require.NoError(t, err)
	require.Len(t, inserted, 1)

	// Resubmit the same object by its assigned ID.
	again, err := r.Reconcile(actor, []Object{inserted[0]}, nil)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, store.rows, 1)
}

func TestReconcileUpdatePreservesCreationMetadata(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	seeded := store.seed(Object{
		DatasetID: 1, DataID: 10,
		SourceType: SourceTypeManual,
		CreatedAt:  created, CreatedBy: 3,
	})

	r := newTestReconciler(store)
	update := seeded
	update.ClassAttributes = json.RawMessage(`{"moved":true}`)
	update.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) // client-supplied, must be ignored
	update.CreatedBy = 999

	_, err := r.Reconcile(Actor{ID: 7}, []Object{update}, nil)
	require.NoError(t, err)

	got := store.rows[seeded.ID]
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, int64(3), got.CreatedBy)
	assert.Equal(t, int64(7), got.UpdatedBy)
	assert.JSONEq(t, `{"moved":true}`, string(got.ClassAttributes))
}

func TestReconcileOmissionDeletes(t *testing.T) {
	store := newFakeStore()
	kept := store.seed(obj(1, 10))
	store.seed(obj(1, 10)) // not resubmitted

	r := newTestReconciler(store)
	_, err := r.Reconcile(Actor{ID: 7}, []Object{kept}, nil)

	require.NoError(t, err)
	assert.Len(t, store.rows, 1)
	_, ok := store.rows[kept.ID]
	assert.True(t, ok)
}

func TestReconcileDropsStaleIDs(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)

	stale := obj(1, 10)
	stale.ID = 9999 // refers to a row deleted by a concurrent save
	fresh := obj(1, 10)

	inserted, err := r.Reconcile(Actor{ID: 7}, []Object{stale, fresh}, nil)

	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Len(t, store.rows, 1)
	_, ok := store.rows[9999]
	assert.False(t, ok)
}

func TestReconcileWipeClearsUnmentionedDataItems(t *testing.T) {
	store := newFakeStore()
	store.seed(obj(1, 10))
	store.seed(obj(1, 10))
	survivor := store.seed(obj(1, 20))

	r := newTestReconciler(store)
	_, err := r.Reconcile(Actor{ID: 7}, nil, []int64{10})

	require.NoError(t, err)
	assert.Len(t, store.rows, 1)
	_, ok := store.rows[survivor.ID]
	assert.True(t, ok)
}

func TestReconcileWipeDominatesOverResubmission(t *testing.T) {
	store := newFakeStore()
	seeded := store.seed(obj(1, 10))

	r := newTestReconciler(store)

	// The data item is wiped and a resubmission of its old object arrives in
	// the same call: the old row is gone before the diff runs, so the
	// resubmitted ID is stale and dropped rather than resurrected.
	_, err := r.Reconcile(Actor{ID: 7}, []Object{seeded}, []int64{10})

	require.NoError(t, err)
	assert.Empty(t, store.rows)
}

func TestReconcileValidatesInput(t *testing.T) {
	tests := []struct {
		name  string
		given Object
		field string
	}{
		{"missing datasetId", Object{DataID: 10}, "datasetId"},
		{"missing dataId", Object{DatasetID: 1}, "dataId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			_, err := newTestReconciler(store).Reconcile(Actor{ID: 7}, []Object{tt.given}, nil)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Empty(t, store.rows)
		})
	}
}

func TestReconcileRejectedWhenDataItemLocked(t *testing.T) {
	store := newFakeStore()
	locks := &fakeLockChecker{err: ErrDataLocked}
	r := NewReconciler(store, locks)

	_, err := r.Reconcile(Actor{ID: 7}, []Object{obj(1, 10)}, []int64{20})

	require.ErrorIs(t, err, ErrDataLocked)
	assert.ElementsMatch(t, []int64{10, 20}, locks.checked)
	assert.Empty(t, store.rows, "no store mutation after a lock conflict")
}

func TestReconcileChunksUpdates(t *testing.T) {
	store := newFakeStore()
	var desired []Object
	for i := 0; i < 5; i++ {
		desired = append(desired, store.seed(obj(1, 10)))
	}

	r := newTestReconciler(store)
	r.chunkSize = 2

	_, err := r.Reconcile(Actor{ID: 7}, desired, nil)

	require.NoError(t, err)
	require.Len(t, store.upsertCalls, 3)
	assert.Len(t, store.upsertCalls[0], 2)
	assert.Len(t, store.upsertCalls[1], 2)
	assert.Len(t, store.upsertCalls[2], 1)
	assert.Len(t, store.rows, 5)
}

func TestInsertLeavesStoredObjectsAlone(t *testing.T) {
	store := newFakeStore()
	existing := store.seed(obj(1, 10))

	fresh := obj(1, 10)
	fresh.SourceType = SourceTypeModel
	inserted, err := newTestReconciler(store).Insert(Actor{ID: 3}, []Object{fresh})

	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, int64(3), inserted[0].CreatedBy)
	assert.Len(t, store.rows, 2, "insert adds, never diffs")
	assert.Equal(t, existing, store.rows[existing.ID], "stored object untouched by the insert")
}

func TestInsertValidatesInput(t *testing.T) {
	store := newFakeStore()

	var validationErr *ValidationError
	_, err := newTestReconciler(store).Insert(Actor{ID: 3}, []Object{{DatasetID: 1}})

	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, store.rows)
}

func TestReconcileRollsBackOnError(t *testing.T) {
	store := newFakeStore()
	seeded := store.seed(obj(1, 10))
	store.upsertErr = errors.New("connection reset")

	r := newTestReconciler(store)
	update := seeded
	update.ClassAttributes = json.RawMessage(`{"moved":true}`)
	fresh := obj(1, 10)

	_, err := r.Reconcile(Actor{ID: 7}, []Object{update, fresh}, nil)

	require.Error(t, err)
	assert.Len(t, store.rows, 1)
	got := store.rows[seeded.ID]
	assert.Equal(t, seeded.ClassAttributes, got.ClassAttributes, "insert rolled back with the failed update")
}
