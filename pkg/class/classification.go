package class

import (
	"errors"
	"fmt"
	"time"

	"github.com/openlabel/openlabel/pkg/lock"
	"github.com/openlabel/openlabel/pkg/model"
)

// ClassificationStore abstracts persistence for dataset classifications.
// The surface mirrors Store; classifications are questions answered once per
// data item rather than label classes for shapes, but their lifecycle and
// uniqueness rules are the same.
type ClassificationStore interface {
	FindByID(id int64) (*model.DatasetClassification, error)
	FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClassification], error)
	FindAll(datasetID int64) ([]model.DatasetClassification, error)
	NameExists(datasetID int64, name string, excludeID int64) (bool, error)
	Save(dc *model.DatasetClassification) error
	Delete(id int64) error
}

// ClassificationService implements dataset-classification operations with
// the same name-uniqueness guard as Service.
type ClassificationService struct {
	store       ClassificationStore
	locker      lock.Locker
	lockTimeout time.Duration
}

// NewClassificationService creates a ClassificationService.
func NewClassificationService(store ClassificationStore, locker lock.Locker, lockTimeout time.Duration) *ClassificationService {
	return &ClassificationService{store: store, locker: locker, lockTimeout: lockTimeout}
}

// Save creates or updates a dataset classification under the per-name
// advisory lock.
func (s *ClassificationService) Save(actor int64, dc *model.DatasetClassification) error {
	if dc.DatasetID == 0 {
		return fmt.Errorf("%w: datasetId is required", ErrInvalidInput)
	}
	if dc.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	key := lock.Key("datasetClassification", "datasetId+name", fmt.Sprintf("%d+%s", dc.DatasetID, dc.Name))
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

// FindByID returns a classification or ErrNotFound.
func (s *ClassificationService) FindByID(id int64) (*model.DatasetClassification, error) {
	return s.store.FindByID(id)
}

// FindByPage returns one page of classifications matching the query.
func (s *ClassificationService) FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClassification], error) {
	if q.DatasetID == 0 {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidInput)
	}
	return s.store.FindByPage(pageNo, pageSize, q)
}

// FindAll returns every classification of a dataset.
func (s *ClassificationService) FindAll(datasetID int64) ([]model.DatasetClassification, error) {
	return s.store.FindAll(datasetID)
}

// NameExists reports whether the name is already taken in the dataset.
func (s *ClassificationService) NameExists(datasetID int64, name string, excludeID int64) (bool, error) {
	return s.store.NameExists(datasetID, name, excludeID)
}

// Delete removes a classification by ID.
func (s *ClassificationService) Delete(id int64) error {
	return s.store.Delete(id)
}
