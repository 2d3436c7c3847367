package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatasetClass is a labeling class definition scoped to one dataset.
// The name is unique within the dataset.
type DatasetClass struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement"`
	DatasetID int64          `gorm:"column:dataset_id;not null;index"`
	Name      string         `gorm:"column:name;not null"`
	Color     string         `gorm:"column:color"`
	ToolType  string         `gorm:"column:tool_type"`
	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at"`
	CreatedBy int64     `gorm:"column:created_by"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedBy int64     `gorm:"column:updated_by"`
}

func (DatasetClass) TableName() string {
	return "dataset_classes"
}
