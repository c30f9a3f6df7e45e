package models

import "time"

// PropertyImage is one ordered image of a property. It only knows its owner's id.
type PropertyImage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index:idx_property_images_order,priority:1" json:"property_id"`
	Reference  string    `gorm:"column:image_ref;type:varchar(255);not null" json:"reference"`
	ImageOrder int       `gorm:"not null;default:0;index:idx_property_images_order,priority:2" json:"image_order"`
	Version    int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for PropertyImage
func (PropertyImage) TableName() string {
	return "property_images"
}
