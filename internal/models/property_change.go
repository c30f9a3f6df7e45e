package models

import "time"

// PropertyChange records one detected field change of a property mutation
type PropertyChange struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	Version    int64     `gorm:"not null" json:"version"`
	ChangeType string    `gorm:"type:varchar(50);not null" json:"change_type"`
	OldValue   string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue   string    `gorm:"type:text" json:"new_value,omitempty"`
	// For price changes
	ChangeMagnitude *string   `gorm:"type:varchar(32)" json:"change_magnitude,omitempty"`
	DetectedAt      time.Time `gorm:"not null;autoCreateTime;index" json:"detected_at"`
}

// TableName specifies the table name
func (PropertyChange) TableName() string {
	return "property_changes"
}

// ChangeType constants
const (
	ChangeTypePrice    = "price_changed"
	ChangeTypeStatus   = "status_changed"
	ChangeTypeFeatured = "featured_changed"
	ChangeTypeTitle    = "title_changed"
	ChangeTypeType     = "property_type_changed"
	ChangeTypeImages   = "images_replaced"
	ChangeTypeNew      = "new_property"
)
