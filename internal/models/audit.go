package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit operations.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Table     string         `gorm:"column:table_name;size:64;index;not null" json:"table_name"`
	Operation string         `gorm:"size:10;index;not null" json:"operation"`
	PK        string         `gorm:"column:pk;size:64;index" json:"pk"`
	UserID    *uint          `gorm:"index" json:"user_id,omitempty"`
	OldData   datatypes.JSON `json:"old_data,omitempty"`
	NewData   datatypes.JSON `json:"new_data,omitempty"`
	ChangedAt time.Time      `gorm:"index;not null" json:"changed_at"`
}
