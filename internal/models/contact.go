package models

import "time"

// Contact is an enquiry, optionally about a specific property
type Contact struct {
	ID         uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string        `gorm:"type:varchar(100);not null" json:"name"`
	Email      string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone      string        `gorm:"type:varchar(20);not null" json:"phone"`
	Message    string        `gorm:"type:text;not null" json:"message"`
	PropertyID *string       `gorm:"type:varchar(36);index" json:"property_id"`
	Status     ContactStatus `gorm:"type:varchar(20);not null;default:'New';index" json:"status"`
	CreatedAt  time.Time     `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

// ContactStatus tracks follow-up on an enquiry
type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "New"
	ContactStatusContacted ContactStatus = "Contacted"
	ContactStatusResolved  ContactStatus = "Resolved"
)

// GeneralEnquiryTitle labels contacts without a live property
const GeneralEnquiryTitle = "General Enquiry"

func (Contact) TableName() string {
	return "contacts"
}

// IsValidContactStatus reports whether s is a known contact status
func IsValidContactStatus(s ContactStatus) bool {
	switch s {
	case ContactStatusNew, ContactStatusContacted, ContactStatusResolved:
		return true
	}
	return false
}
