package class

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/openlabel/openlabel/pkg/model"
)

// Ensure the GORM stores implement their interfaces
var (
	_ Store               = (*GormStore)(nil)
	_ ClassificationStore = (*GormClassificationStore)(nil)
)

// GormStore implements Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindByID returns the class or ErrNotFound.
func (s *GormStore) FindByID(id int64) (*model.DatasetClass, error) {
	var dc model.DatasetClass
	if err := s.db.Where("id = ?", id).First(&dc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find dataset class: %w", err)
	}
	return &dc, nil
}

// FindByPage returns one page of classes matching the query.
func (s *GormStore) FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClass], error) {
	tx := applyQuery(s.db.Model(&model.DatasetClass{}), q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count dataset classes: %w", err)
	}

	var list []model.DatasetClass
	err := applyOrder(tx, q).Offset((pageNo - 1) * pageSize).Limit(pageSize).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to page dataset classes: %w", err)
	}
	return &Page[model.DatasetClass]{List: list, PageNo: pageNo, PageSize: pageSize, Total: total}, nil
}

// FindAll returns every class of a dataset.
func (s *GormStore) FindAll(datasetID int64) ([]model.DatasetClass, error) {
	var list []model.DatasetClass
	if err := s.db.Where("dataset_id = ?", datasetID).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list dataset classes: %w", err)
	}
	return list, nil
}

// NameExists reports whether another class with this name exists in the dataset.
func (s *GormStore) NameExists(datasetID int64, name string, excludeID int64) (bool, error) {
	tx := s.db.Model(&model.DatasetClass{}).
		Where("dataset_id = ? AND name = ?", datasetID, name)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check dataset class name: %w", err)
	}
	return count > 0, nil
}

// Save inserts or updates the class. The unique index on (dataset_id, name)
// is the authoritative duplicate check; its violation surfaces as
// ErrNameDuplicated.
func (s *GormStore) Save(dc *model.DatasetClass) error {
	var err error
	if dc.ID == 0 {
		err = s.db.Create(dc).Error
	} else {
		err = s.db.Save(dc).Error
	}
	if isUniqueViolation(err) {
		return ErrNameDuplicated
	}
	if err != nil {
		return fmt.Errorf("failed to save dataset class: %w", err)
	}
	return nil
}

// Delete removes a class by ID.
func (s *GormStore) Delete(id int64) error {
	if err := s.db.Where("id = ?", id).Delete(&model.DatasetClass{}).Error; err != nil {
		return fmt.Errorf("failed to delete dataset class: %w", err)
	}
	return nil
}

// GormClassificationStore implements ClassificationStore using GORM.
type GormClassificationStore struct {
	db *gorm.DB
}

// NewGormClassificationStore creates a new GormClassificationStore.
func NewGormClassificationStore(db *gorm.DB) *GormClassificationStore {
	return &GormClassificationStore{db: db}
}

// FindByID returns the classification or ErrNotFound.
func (s *GormClassificationStore) FindByID(id int64) (*model.DatasetClassification, error) {
	var dc model.DatasetClassification
	if err := s.db.Where("id = ?", id).First(&dc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find dataset classification: %w", err)
	}
	return &dc, nil
}

// FindByPage returns one page of classifications matching the query.
func (s *GormClassificationStore) FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClassification], error) {
	tx := applyQuery(s.db.Model(&model.DatasetClassification{}), q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count dataset classifications: %w", err)
	}

	var list []model.DatasetClassification
	err := applyOrder(tx, q).Offset((pageNo - 1) * pageSize).Limit(pageSize).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to page dataset classifications: %w", err)
	}
	return &Page[model.DatasetClassification]{List: list, PageNo: pageNo, PageSize: pageSize, Total: total}, nil
}

// FindAll returns every classification of a dataset.
func (s *GormClassificationStore) FindAll(datasetID int64) ([]model.DatasetClassification, error) {
	var list []model.DatasetClassification
	if err := s.db.Where("dataset_id = ?", datasetID).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list dataset classifications: %w", err)
	}
	return list, nil
}

// NameExists reports whether another classification with this name exists in
// the dataset.
func (s *GormClassificationStore) NameExists(datasetID int64, name string, excludeID int64) (bool, error) {
	tx := s.db.Model(&model.DatasetClassification{}).
		Where("dataset_id = ? AND name = ?", datasetID, name)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check dataset classification name: %w", err)
	}
	return count > 0, nil
}

// Save inserts or updates the classification.
func (s *GormClassificationStore) Save(dc *model.DatasetClassification) error {
	var err error
	if dc.ID == 0 {
		err = s.db.Create(dc).Error
	} else {
		err = s.db.Save(dc).Error
	}
	if isUniqueViolation(err) {
		return ErrNameDuplicated
	}
	if err != nil {
		return fmt.Errorf("failed to save dataset classification: %w", err)
	}
	return nil
}

// Delete removes a classification by ID.
func (s *GormClassificationStore) Delete(id int64) error {
	if err := s.db.Where("id = ?", id).Delete(&model.DatasetClassification{}).Error; err != nil {
		return fmt.Errorf("failed to delete dataset classification: %w", err)
	}
	return nil
}

func applyQuery(tx *gorm.DB, q Query) *gorm.DB {
	tx = tx.Where("dataset_id = ?", q.DatasetID)
	if q.ToolType != "" {
		tx = tx.Where("tool_type = ?", q.ToolType)
	}
	if q.StartTime != nil {
		tx = tx.Where("created_at >= ?", *q.StartTime)
	}
	if q.EndTime != nil {
		tx = tx.Where("created_at <= ?", *q.EndTime)
	}
	if q.Name != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Name+"%")
	}
	return tx
}

func applyOrder(tx *gorm.DB, q Query) *gorm.DB {
	dir := "asc"
	if q.Desc {
		dir = "desc"
	}
	switch q.SortBy {
	case SortByName:
		return tx.Order("name " + dir)
	case SortByCreateTime:
		return tx.Order("created_at " + dir)
	default:
		return tx
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
