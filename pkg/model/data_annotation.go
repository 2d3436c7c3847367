package model

import (
	"time"

	"gorm.io/datatypes"
)

// DataAnnotation holds the classification answers recorded on a data item.
type DataAnnotation struct {
	ID               int64          `gorm:"column:id;primaryKey;autoIncrement"`
	DatasetID        int64          `gorm:"column:dataset_id;not null"`
	DataID           int64          `gorm:"column:data_id;not null;index"`
	ClassificationID int64          `gorm:"column:classification_id;not null"`
	ClassificationAttributes datatypes.JSON `gorm:"column:classification_attributes;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at"`
	CreatedBy int64     `gorm:"column:created_by"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedBy int64     `gorm:"column:updated_by"`
}

func (DataAnnotation) TableName() string {
	return "data_annotations"
}
