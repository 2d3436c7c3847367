package class

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabel/openlabel/pkg/lock"
	"github.com/openlabel/openlabel/pkg/model"
)

// fakeClassStore is an in-memory Store for unit testing the service.
type fakeClassStore struct {
	rows   map[int64]model.DatasetClass
	nextID int64

	saveCalls int
	saveErr   error
}

func newFakeClassStore() *fakeClassStore {
	return &fakeClassStore{rows: map[int64]model.DatasetClass{}, nextID: 1}
}

func (s *fakeClassStore) seed(dc model.DatasetClass) model.DatasetClass {
	dc.ID = s.nextID
	s.nextID++
	s.rows[dc.ID] = dc
	return dc
}

func (s *fakeClassStore) FindByID(id int64) (*model.DatasetClass, error) {
	dc, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &dc, nil
}

func (s *fakeClassStore) FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClass], error) {
	var list []model.DatasetClass
	for _, dc := range s.rows {
		if dc.DatasetID == q.DatasetID {
			list = append(list, dc)
		}
	}
	return &Page[model.DatasetClass]{List: list, PageNo: pageNo, PageSize: pageSize, Total: int64(len(list))}, nil
}

func (s *fakeClassStore) FindAll(datasetID int64) ([]model.DatasetClass, error) {
	var list []model.DatasetClass
	for _, dc := range s.rows {
		if dc.DatasetID == datasetID {
			list = append(list, dc)
		}
	}
	return list, nil
}

func (s *fakeClassStore) NameExists(datasetID int64, name string, excludeID int64) (bool, error) {
	for _, dc := range s.rows {
		if dc.DatasetID == datasetID && dc.Name == name && dc.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeClassStore) Save(dc *model.DatasetClass) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	if dc.ID == 0 {
		dc.ID = s.nextID
		s.nextID++
	}
	s.rows[dc.ID] = *dc
	return nil
}

func (s *fakeClassStore) Delete(id int64) error {
	delete(s.rows, id)
	return nil
}

func newTestService(store *fakeClassStore) *Service {
	return NewService(store, lock.NewMemoryLocker(), 50*time.Millisecond)
}

func TestSaveCreatesClass(t *testing.T) {
	store := newFakeClassStore()
	svc := newTestService(store)

	dc := &model.DatasetClass{DatasetID: 1, Name: "car"}
	err := svc.Save(7, dc)

	require.NoError(t, err)
	assert.NotZero(t, dc.ID)
	assert.Equal(t, int64(7), dc.CreatedBy)
	assert.Equal(t, int64(7), dc.UpdatedBy)
}

func TestSaveValidatesRequiredFields(t *testing.T) {
	svc := newTestService(newFakeClassStore())

	assert.ErrorIs(t, svc.Save(7, &model.DatasetClass{Name: "car"}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Save(7, &model.DatasetClass{DatasetID: 1}), ErrInvalidInput)
}

func TestSaveRejectsDuplicateName(t *testing.T) {
	store := newFakeClassStore()
	store.seed(model.DatasetClass{DatasetID: 1, Name: "car"})
	svc := newTestService(store)

	err := svc.Save(7, &model.DatasetClass{DatasetID: 1, Name: "car"})

	require.ErrorIs(t, err, ErrNameDuplicated)
	assert.Zero(t, store.saveCalls)
}

func TestSaveAllowsSameNameInOtherDataset(t *testing.T) {
	store := newFakeClassStore()
	store.seed(model.DatasetClass{DatasetID: 1, Name: "car"})
	svc := newTestService(store)

	err := svc.Save(7, &model.DatasetClass{DatasetID: 2, Name: "car"})

	assert.NoError(t, err)
}

func TestSaveUpdateKeepsOwnName(t *testing.T) {
	store := newFakeClassStore()
	seeded := store.seed(model.DatasetClass{DatasetID: 1, Name: "car", CreatedBy: 3})
	svc := newTestService(store)

	update := seeded
	update.Color = "#ff0000"
	err := svc.Save(7, &update)

	require.NoError(t, err)
	assert.Equal(t, "#ff0000", store.rows[seeded.ID].Color)
	assert.Equal(t, int64(7), store.rows[seeded.ID].UpdatedBy)
}

func TestSaveUpdateOfMissingClassIsNotFound(t *testing.T) {
	svc := newTestService(newFakeClassStore())

	err := svc.Save(7, &model.DatasetClass{ID: 42, DatasetID: 1, Name: "car"})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveBusyLockReportsNameDuplicated(t *testing.T) {
	store := newFakeClassStore()
	locker := lock.NewMemoryLocker()
	svc := NewService(store, locker, 20*time.Millisecond)

	// Another request holds the lock for this dataset+name.
	key := lock.Key("datasetClass", "datasetId+name", "1+car")
	require.True(t, locker.TryLock(key, time.Millisecond))

	err := svc.Save(7, &model.DatasetClass{DatasetID: 1, Name: "car"})

	require.ErrorIs(t, err, ErrNameDuplicated)
	assert.Zero(t, store.saveCalls, "store untouched while the lock is busy")
}

func TestSaveReleasesLockAfterFailure(t *testing.T) {
	store := newFakeClassStore()
	store.saveErr = ErrInvalidInput
	svc := newTestService(store)

	require.Error(t, svc.Save(7, &model.DatasetClass{DatasetID: 1, Name: "car"}))

	// A later save of the same name must not hit a stuck lock.
	store.saveErr = nil
	assert.NoError(t, svc.Save(7, &model.DatasetClass{DatasetID: 1, Name: "car"}))
}

func TestFindByPageRequiresDatasetID(t *testing.T) {
	svc := newTestService(newFakeClassStore())

	_, err := svc.FindByPage(1, 10, Query{})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
