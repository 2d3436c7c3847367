package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatasetClassification is a dataset-level classification definition
// (a question answered once per data item rather than per shape).
type DatasetClassification struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement"`
	DatasetID      int64          `gorm:"column:dataset_id;not null;index"`
	Name           string         `gorm:"column:name;not null"`
	InputType      string         `gorm:"column:input_type"`
	IsRequired     bool           `gorm:"column:is_required"`
	Attributes     datatypes.JSON `gorm:"column:attributes;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at"`
	CreatedBy int64     `gorm:"column:created_by"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedBy int64     `gorm:"column:updated_by"`
}

func (DatasetClassification) TableName() string {
	return "dataset_classifications"
}
