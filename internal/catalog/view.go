package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"real-estate-catalog/internal/models"
)

// ImageView is an image as returned to clients
type ImageView struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Order     int    `json:"order"`
}

// PropertyView is a property as returned to clients
type PropertyView struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	Zip           string          `json:"zip"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     decimal.Decimal `json:"bathrooms"`
	SquareFootage int             `json:"squareFootage"`
	PropertyType  string          `json:"propertyType"`
	Status        string          `json:"status"`
	VideoLink     string          `json:"videoLink,omitempty"`
	Featured      bool            `json:"featured"`
	CoverImage    string          `json:"coverImage,omitempty"`
	Images        []ImageView     `json:"images"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (s *Service) toView(p *models.Property) PropertyView {
	images := make([]ImageView, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageView{
			ID:        img.ID,
			URL:       s.blobs.URL(img.Reference),
			Reference: img.Reference,
			Order:     img.ImageOrder,
		})
	}

	return PropertyView{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		Zip:           p.Zip,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		SquareFootage: p.SquareFootage,
		PropertyType:  p.PropertyType,
		Status:        string(p.Status),
		VideoLink:     p.VideoLink,
		Featured:      p.Featured,
		CoverImage:    s.blobs.URL(p.CoverImage),
		Images:        images,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (s *Service) toViews(properties []models.Property) []PropertyView {
	views := make([]PropertyView, 0, len(properties))
	for i := range properties {
		views = append(views, s.toView(&properties[i]))
	}
	return views
}
