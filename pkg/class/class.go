package class

import (
	"errors"
	"fmt"
	"time"

	"github.com/openlabel/openlabel/pkg/lock"
	"github.com/openlabel/openlabel/pkg/model"
)

// ErrNotFound is returned when an update references a class or
// classification ID that does not exist.
var ErrNotFound = errors.New("not found")

// ErrNameDuplicated is returned when a name already exists within the
// dataset, or when the advisory lock guarding the uniqueness check could not
// be taken in time. The two cases are deliberately not distinguished: a busy
// lock means another request is concurrently saving the same name.
var ErrNameDuplicated = errors.New("name already exists in this dataset")

// ErrInvalidInput is returned when required identifying fields are missing.
var ErrInvalidInput = errors.New("invalid input")

// Sort fields accepted by FindByPage.
const (
	SortByName       = "NAME"
	SortByCreateTime = "CREATE_TIME"
)

// Query narrows FindByPage results.
type Query struct {
	DatasetID int64
	ToolType  string
	Name      string // substring match
	StartTime *time.Time
	EndTime   *time.Time
	SortBy    string // SortByName or SortByCreateTime, empty for insertion order
	Desc      bool
}

// Page is one page of results together with the total row count.
type Page[T any] struct {
	List     []T   `json:"list"`
	PageNo   int   `json:"pageNo"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// Store abstracts persistence for dataset classes.
type Store interface {
	// FindByID returns the class or ErrNotFound.
	FindByID(id int64) (*model.DatasetClass, error)

	// FindByPage returns one page of classes matching the query.
	FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClass], error)

	// FindAll returns every class of a dataset.
	FindAll(datasetID int64) ([]model.DatasetClass, error)

	// NameExists reports whether another class (excluding excludeID) with
	// this name exists in the dataset.
	NameExists(datasetID int64, name string, excludeID int64) (bool, error)

	// Save inserts the class when its ID is zero and updates it otherwise.
	// Returns ErrNameDuplicated when the unique index on (dataset_id, name)
	// rejects the write.
	Save(dc *model.DatasetClass) error

	// Delete removes a class by ID.
	Delete(id int64) error
}

// Service implements dataset-class operations. Saves run under a named
// advisory lock so two concurrent requests cannot both pass the name
// uniqueness check.
type Service struct {
	store       Store
	locker      lock.Locker
	lockTimeout time.Duration
}

// NewService creates a Service. lockTimeout bounds how long a save waits for
// the per-name advisory lock.
func NewService(store Store, locker lock.Locker, lockTimeout time.Duration) *Service {
	return &Service{store: store, locker: locker, lockTimeout: lockTimeout}
}

// Save creates or updates a dataset class. The name must be unique within
// the dataset; an update must reference an existing ID.
func (s *Service) Save(actor int64, dc *model.DatasetClass) error {
	if dc.DatasetID == 0 {
		return fmt.Errorf("%w: datasetId is required", ErrInvalidInput)
	}
	if dc.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	key := lock.Key("datasetClass", "datasetId+name", fmt.Sprintf("%d+%s", dc.DatasetID, dc.Name))
	err := lock.WithLock(s.locker, key, s.lockTimeout, func() error {
		if dc.ID != 0 {
			if _, err := s.store.FindByID(dc.ID); err != nil {
				return err
			}
		}
		exists, err := s.store.NameExists(dc.DatasetID, dc.Name, dc.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrNameDuplicated
		}

		if dc.ID == 0 {
			dc.CreatedBy = actor
		}
		dc.UpdatedBy = actor
		return s.store.Save(dc)
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return ErrNameDuplicated
	}
	return err
}

// FindByID returns a class or ErrNotFound.
func (s *Service) FindByID(id int64) (*model.DatasetClass, error) {
	return s.store.FindByID(id)
}

// FindByPage returns one page of classes matching the query.
func (s *Service) FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClass], error) {
	if q.DatasetID == 0 {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidInput)
	}
	return s.store.FindByPage(pageNo, pageSize, q)
}

// FindAll returns every class of a dataset.
func (s *Service) FindAll(datasetID int64) ([]model.DatasetClass, error) {
	return s.store.FindAll(datasetID)
}

// NameExists reports whether the name is already taken in the dataset,
// excluding the class with excludeID (zero to exclude nothing).
func (s *Service) NameExists(datasetID int64, name string, excludeID int64) (bool, error) {
	return s.store.NameExists(datasetID, name, excludeID)
}

// Delete removes a class by ID.
func (s *Service) Delete(id int64) error {
	return s.store.Delete(id)
}
