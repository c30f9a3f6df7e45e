package search

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"real-estate-catalog/internal/models"
)

func TestNewDocument(t *testing.T) {
	created := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		price string
		cover string
		want  float64
	}{
		{name: "whole price", price: "2500000", cover: "1715329800000_a.png", want: 2500000},
		{name: "fractional price", price: "1234.56", want: 1234.56},
		{name: "max price", price: "999999999", want: 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Property{
				ID:           "p1",
				Title:        "Lake House",
				City:         "Udaipur",
				PropertyType: "House",
				Price:        decimal.RequireFromString(tt.price),
				Bedrooms:     3,
				Status:       models.PropertyStatusSold,
				Featured:     true,
				CoverImage:   tt.cover,
				CreatedAt:    created,
			}

			doc := NewDocument(p)
			assert.Equal(t, "p1", doc.ID)
			assert.Equal(t, "Lake House", doc.Title)
			assert.Equal(t, "House", doc.PropertyType)
			assert.InDelta(t, tt.want, doc.Price, 1e-9)
			assert.Equal(t, 3, doc.Bedrooms)
			assert.Equal(t, "Sold", doc.Status)
			assert.True(t, doc.Featured)
			assert.Equal(t, tt.cover, doc.CoverImage)
			assert.Equal(t, created.Unix(), doc.CreatedAt)
		})
	}
}

func TestSuggestionsFromHits(t *testing.T) {
	hits := []interface{}{
		map[string]interface{}{"id": "p1", "title": "Lake House", "city": "Udaipur", "price": 2500000.0, "cover_image": "c.png"},
		map[string]interface{}{"id": "p2", "title": "Hill Flat"},
		// a hit whose fields have the wrong types is skipped
		map[string]interface{}{"id": 42, "title": []string{"x"}},
	}

	got := suggestionsFromHits(hits)
	assert.Equal(t, []Suggestion{
		{ID: "p1", Title: "Lake House", City: "Udaipur", Price: 2500000, CoverImage: "c.png"},
		{ID: "p2", Title: "Hill Flat"},
	}, got)

	assert.Empty(t, suggestionsFromHits(nil))
	assert.NotNil(t, suggestionsFromHits(nil))
}
