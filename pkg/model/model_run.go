package model

import "time"

// ModelRun records one invocation of an external detection model against a
// set of data items. Imported annotation objects carry its ID as source_id.
type ModelRun struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DatasetID int64     `gorm:"column:dataset_id;not null"`
	ModelName string    `gorm:"column:model_name;not null"`
	SerialNo  string    `gorm:"column:serial_no;not null;uniqueIndex"`
	Status    string    `gorm:"column:status;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	CreatedBy int64     `gorm:"column:created_by"`
}

func (ModelRun) TableName() string {
	return "model_runs"
}
