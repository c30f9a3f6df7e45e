package models

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

type Property struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;index" json:"price"`
	Description string          `gorm:"type:text" json:"description"`

	// Location
	Address string `gorm:"type:varchar(255);not null" json:"address"`
	City    string `gorm:"type:varchar(100);not null;index" json:"city"`
	State   string `gorm:"type:varchar(100);not null" json:"state"`
	Zip     string `gorm:"type:varchar(20);not null" json:"zip"`

	// Filter attributes
	Bedrooms      int             `gorm:"not null;default:0;index" json:"bedrooms"`
	Bathrooms     decimal.Decimal `gorm:"type:decimal(3,1);not null;default:0" json:"bathrooms"`
	SquareFootage int             `gorm:"not null;default:0" json:"square_footage"`
	PropertyType  string          `gorm:"type:varchar(50);not null;index" json:"property_type"`

	Status    PropertyStatus `gorm:"type:varchar(20);not null;default:'Available';index" json:"status"`
	VideoLink string         `gorm:"type:varchar(500)" json:"video_link,omitempty"`
	Featured  bool           `gorm:"not null;default:false;index" json:"featured"`

	// Blob reference of the image at order 0
	CoverImage string          `gorm:"type:varchar(255)" json:"cover_image,omitempty"`
	Images     []PropertyImage `gorm:"foreignKey:PropertyID" json:"images,omitempty"`

	Version   int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `gorm:"not null;index:idx_properties_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// PropertyStatus is the sale state of a listing
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "Available"
	PropertyStatusSold      PropertyStatus = "Sold"
)

// TableName pins the table name
func (Property) TableName() string {
	return "properties"
}

// IsAvailable reports whether the listing can still be sold
func (p *Property) IsAvailable() bool {
	return p.Status == PropertyStatusAvailable
}

// ImageRefs returns the blob references of the loaded images in order
func (p *Property) ImageRefs() []string {
	refs := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		refs = append(refs, img.Reference)
	}
	return refs
}

// PropertyTypes is the closed set of listing types
var PropertyTypes = []string{
	"House",
	"Farm house",
	"Flat",
	"Apartment",
	"Condo",
	"Townhouse",
	"Villa",
	"Studio Apartment",
	"Penthouse",
	"Loft",
	"Row House",
	"Bungalow",
	"Independent House",
}

// IsValidPropertyType reports membership in PropertyTypes
func IsValidPropertyType(t string) bool {
	for _, pt := range PropertyTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known listing status
func IsValidStatus(s PropertyStatus) bool {
	return s == PropertyStatusAvailable || s == PropertyStatusSold
}

var videoLinkPattern = regexp.MustCompile(`^(https?://)?(www\.)?(instagram\.com|instagr\.am)/(p|reel|tv)/[A-Za-z0-9_-]+/?.*$`)

// IsValidVideoLink accepts an empty link or an Instagram post, reel or tv URL
func IsValidVideoLink(link string) bool {
	return link == "" || videoLinkPattern.MatchString(link)
}
