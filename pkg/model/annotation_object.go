package model

import (
	"time"

	"gorm.io/datatypes"
)

// AnnotationObject is one labeled shape attached to a data item.
type AnnotationObject struct {
	ID        int64 `gorm:"column:id;primaryKey;autoIncrement"`
	DatasetID int64 `gorm:"column:dataset_id;not null"`
	DataID    int64 `gorm:"column:data_id;not null;index"`

	// ClassAttributes is the annotation-tool payload (geometry plus class
	// metadata). The backend treats it as opaque.
	ClassAttributes datatypes.JSON `gorm:"column:class_attributes;type:jsonb"`

	ClassID *int64 `gorm:"column:class_id"`

	SourceType string `gorm:"column:source_type;not null"`
	SourceID   *int64 `gorm:"column:source_id"`

	CreatedAt time.Time `gorm:"column:created_at"`
	CreatedBy int64     `gorm:"column:created_by"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedBy int64     `gorm:"column:updated_by"`
}

func (AnnotationObject) TableName() string {
	return "annotation_objects"
}
