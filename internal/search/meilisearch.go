package search

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meilisearch/meilisearch-go"

	"real-estate-catalog/internal/models"
)

// SearchClient mirrors listings into a Meilisearch index for typo-tolerant suggestions
type SearchClient struct {
	client *meilisearch.Client
	index  string
	logger *slog.Logger
}

func NewSearchClient(host, apiKey, index string, logger *slog.Logger) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	if index == "" {
		index = "properties"
	}

	return &SearchClient{
		client: client,
		index:  index,
		logger: logger,
	}
}

// Document is the indexed shape of a property
type Document struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Zip          string  `json:"zip"`
	PropertyType string  `json:"property_type"`
	Price        float64 `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Status       string  `json:"status"`
	Featured     bool    `json:"featured"`
	CoverImage   string  `json:"cover_image,omitempty"`
	CreatedAt    int64   `json:"created_at"`
}

// NewDocument converts a property into its index document
func NewDocument(p *models.Property) Document {
	return Document{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		Zip:          p.Zip,
		PropertyType: p.PropertyType,
		Price:        p.Price.InexactFloat64(),
		Bedrooms:     p.Bedrooms,
		Status:       string(p.Status),
		Featured:     p.Featured,
		CoverImage:   p.CoverImage,
		CreatedAt:    p.CreatedAt.Unix(),
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"city",
		"address",
		"zip",
		"description",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"price",
		"property_type",
		"bedrooms",
		"status",
		"featured",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"created_at",
	})
	return err
}

// IndexProperty indexes a single property
func (s *SearchClient) IndexProperty(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]Document{NewDocument(property)}, "id")
	return err
}

// RemoveProperty drops a property from the index
func (s *SearchClient) RemoveProperty(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// Reindex replaces the whole index content with the given properties
func (s *SearchClient) Reindex(properties []models.Property) (int, error) {
	if _, err := s.client.Index(s.index).DeleteAllDocuments(); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	if len(properties) == 0 {
		return 0, nil
	}

	docs := make([]Document, 0, len(properties))
	for i := range properties {
		docs = append(docs, NewDocument(&properties[i]))
	}

	// Batch to keep payloads small
	const batchSize = 500
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if _, err := s.client.Index(s.index).AddDocuments(docs[start:end], "id"); err != nil {
			return start, fmt.Errorf("index batch %d-%d: %w", start, end, err)
		}
		s.logger.Debug("reindex progress", "indexed", end, "total", len(docs))
	}

	return len(docs), nil
}

// Suggestion is a lightweight search hit
type Suggestion struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	City       string  `json:"city"`
	Price      float64 `json:"price"`
	CoverImage string  `json:"cover_image,omitempty"`
}

// Suggest returns typo-tolerant title matches for the query
func (s *SearchClient) Suggest(query string, limit int64) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 5
	}

	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id", "title", "city", "price", "cover_image"},
	})
	if err != nil {
		return nil, err
	}

	return suggestionsFromHits(searchRes.Hits), nil
}

// suggestionsFromHits decodes raw search hits, skipping any that do not fit
func suggestionsFromHits(hits []interface{}) []Suggestion {
	suggestions := make([]Suggestion, 0, len(hits))
	for _, hit := range hits {
		// Convert hit to JSON then to Suggestion
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var sug Suggestion
		if err := json.Unmarshal(hitJSON, &sug); err != nil {
			continue
		}
		suggestions = append(suggestions, sug)
	}
	return suggestions
}
