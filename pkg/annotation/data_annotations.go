package annotation

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlabel/openlabel/pkg/model"
)

// ClassificationValue is one classification answer recorded on a data item.
type ClassificationValue struct {
	ID               int64           `json:"id,omitempty"`
	DatasetID        int64           `json:"datasetId"`
	DataID           int64           `json:"dataId"`
	ClassificationID int64           `json:"classificationId"`
	Attributes       json.RawMessage `json:"classificationAttributes,omitempty"`
	CreatedAt        time.Time       `json:"createdAt,omitempty"`
	CreatedBy        int64           `json:"createdBy,omitempty"`
}

// GormDataAnnotations stores classification answers. Unlike annotation
// objects, answers are not diffed: a save replaces everything recorded on
// the data item.
type GormDataAnnotations struct {
	db        *gorm.DB
	editLocks EditLockChecker
	now       func() time.Time
}

// NewGormDataAnnotations creates a GormDataAnnotations.
func NewGormDataAnnotations(db *gorm.DB, editLocks EditLockChecker) *GormDataAnnotations {
	return &GormDataAnnotations{db: db, editLocks: editLocks, now: time.Now}
}

// Replace swaps the answers stored on a data item for the given set, in one
// transaction. The data item must not be open in another editor session.
func (s *GormDataAnnotations) Replace(actor Actor, dataID int64, values []ClassificationValue) error {
	if err := s.editLocks.CheckLock([]int64{dataID}, actor); err != nil {
		return err
	}

	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("data_id = ?", dataID).Delete(&model.DataAnnotation{}).Error; err != nil {
			return fmt.Errorf("failed to clear data annotations: %w", err)
		}
		if len(values) == 0 {
			return nil
		}

		rows := make([]model.DataAnnotation, len(values))
		for i, v := range values {
			rows[i] = model.DataAnnotation{
				DatasetID:                v.DatasetID,
				DataID:                   dataID,
				ClassificationID:         v.ClassificationID,
				ClassificationAttributes: datatypes.JSON(v.Attributes),
				CreatedAt:                now,
				CreatedBy:                actor.ID,
				UpdatedAt:                now,
				UpdatedBy:                actor.ID,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save data annotations: %w", err)
		}
		return nil
	})
}

// List returns the answers recorded on the given data items.
func (s *GormDataAnnotations) List(dataIDs []int64) ([]ClassificationValue, error) {
	var rows []model.DataAnnotation
	if err := s.db.Where("data_id IN ?", dataIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list data annotations: %w", err)
	}
	values := make([]ClassificationValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, ClassificationValue{
			ID:               row.ID,
			DatasetID:        row.DatasetID,
			DataID:           row.DataID,
			ClassificationID: row.ClassificationID,
			Attributes:       json.RawMessage(row.ClassificationAttributes),
			CreatedAt:        row.CreatedAt,
			CreatedBy:        row.CreatedBy,
		})
	}
	return values, nil
}
