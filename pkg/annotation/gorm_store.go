package annotation

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openlabel/openlabel/pkg/model"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore implements Store using GORM for database operations.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// FindByDataIDs returns every stored object attached to the given data items.
func (s *GormStore) FindByDataIDs(dataIDs []int64) ([]Object, error) {
	var rows []model.AnnotationObject
	if err := s.db.Where("data_id IN ?", dataIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list annotation objects: %w", err)
	}
	objects := make([]Object, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, objectFromModel(row))
	}
	return objects, nil
}

// FindByDatasetID returns every stored object of a dataset.
func (s *GormStore) FindByDatasetID(datasetID int64) ([]Object, error) {
	var rows []model.AnnotationObject
	if err := s.db.Where("dataset_id = ?", datasetID).Order("data_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list annotation objects: %w", err)
	}
	objects := make([]Object, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, objectFromModel(row))
	}
	return objects, nil
}

// InsertBatch inserts the objects and returns them with their assigned IDs.
func (s *GormStore) InsertBatch(objects []Object) ([]Object, error) {
	rows := make([]model.AnnotationObject, len(objects))
	for i, obj := range objects {
		rows[i] = objectToModel(obj)
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to insert annotation objects: %w", err)
	}
	inserted := make([]Object, len(rows))
	for i, row := range rows {
		inserted[i] = objectFromModel(row)
		inserted[i].FrontID = objects[i].FrontID
	}
	return inserted, nil
}

// UpsertBatch writes the objects keyed by primary key, overwriting rows that
// already exist.
func (s *GormStore) UpsertBatch(objects []Object) error {
	if len(objects) == 0 {
		return nil
	}
	rows := make([]model.AnnotationObject, len(objects))
	for i, obj := range objects {
		rows[i] = objectToModel(obj)
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"dataset_id", "data_id", "class_id", "class_attributes",
			"source_type", "source_id",
			"created_at", "created_by", "updated_at", "updated_by",
		}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert annotation objects: %w", err)
	}
	return nil
}

// DeleteByIDs removes objects by primary key.
func (s *GormStore) DeleteByIDs(ids []int64) error {
	if err := s.db.Where("id IN ?", ids).Delete(&model.AnnotationObject{}).Error; err != nil {
		return fmt.Errorf("failed to delete annotation objects: %w", err)
	}
	return nil
}

// DeleteByDataIDs removes every object attached to the given data items.
func (s *GormStore) DeleteByDataIDs(dataIDs []int64) error {
	if err := s.db.Where("data_id IN ?", dataIDs).Delete(&model.AnnotationObject{}).Error; err != nil {
		return fmt.Errorf("failed to delete annotation objects by data id: %w", err)
	}
	return nil
}

func objectFromModel(row model.AnnotationObject) Object {
	// Rows are only ever written through objectToModel, so the source type
	// parses unless the column was tampered with; fall back to MANUAL then.
	sourceType, err := SourceTypeString(row.SourceType)
	if err != nil {
		sourceType = SourceTypeManual
	}
	return Object{
		ID:              row.ID,
		DatasetID:       row.DatasetID,
		DataID:          row.DataID,
		ClassID:         row.ClassID,
		ClassAttributes: json.RawMessage(row.ClassAttributes),
		SourceType:      sourceType,
		SourceID:        row.SourceID,
		CreatedAt:       row.CreatedAt,
		CreatedBy:       row.CreatedBy,
		UpdatedAt:       row.UpdatedAt,
		UpdatedBy:       row.UpdatedBy,
	}
}

func objectToModel(obj Object) model.AnnotationObject {
	return model.AnnotationObject{
		ID:              obj.ID,
		DatasetID:       obj.DatasetID,
		DataID:          obj.DataID,
		ClassID:         obj.ClassID,
		ClassAttributes: datatypes.JSON(obj.ClassAttributes),
		SourceType:      obj.SourceType.String(),
		SourceID:        obj.SourceID,
		CreatedAt:       obj.CreatedAt,
		CreatedBy:       obj.CreatedBy,
		UpdatedAt:       obj.UpdatedAt,
		UpdatedBy:       obj.UpdatedBy,
	}
}
