package models

import "time"

// DeleteLog represents a record of deleted properties
type DeleteLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	Title      string    `gorm:"type:varchar(255)" json:"title"`
	ImageCount int       `gorm:"not null;default:0" json:"image_count"`
	Version    int64     `gorm:"not null;default:0" json:"version"`
	DeletedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"deleted_at"`
	Reason     string    `gorm:"type:varchar(50);not null" json:"reason"`
}

// TableName specifies the table name
func (DeleteLog) TableName() string {
	return "delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonManual = "manual_deletion"
)
