package model

import "time"

// DataEditLock marks a data item as currently open in an editor session.
// Saves from other users are rejected while a live record exists.
type DataEditLock struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DataID    int64     `gorm:"column:data_id;not null;uniqueIndex"`
	LockedBy  int64     `gorm:"column:locked_by;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (DataEditLock) TableName() string {
	return "data_edit_locks"
}
