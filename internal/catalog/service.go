// Package catalog implements listing queries and mutations on top of the
// record store, the blob store and the read caches.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/blobstore"
	"real-estate-catalog/internal/cache"
	"real-estate-catalog/internal/config"
	"real-estate-catalog/internal/database"
	"real-estate-catalog/internal/models"
	"real-estate-catalog/internal/search"
)

// Store is the record store the catalog needs
type Store interface {
	QueryProperties(ctx context.Context, criteria search.Criteria, order search.Order, offset, limit int) ([]models.Property, int64, error)
	FeaturedProperties(ctx context.Context) ([]models.Property, error)
	AllProperties(ctx context.Context) ([]models.Property, error)
	GetPropertyByID(ctx context.Context, id string) (*models.Property, error)
	GetPropertyForUpdate(ctx context.Context, id string) (*models.Property, error)
	PropertyExists(ctx context.Context, id string) (bool, error)
	CreateProperty(ctx context.Context, p *models.Property) error
	SaveProperty(ctx context.Context, p *models.Property, expected int64) error
	DeletePropertyByID(ctx context.Context, id string) error
	DeleteImagesByPropertyID(ctx context.Context, propertyID string) (int64, error)
	CreateImages(ctx context.Context, images []models.PropertyImage) error
	RecordChanges(ctx context.Context, changes []models.PropertyChange) error
	RecordDeletion(ctx context.Context, entry *models.DeleteLog) error
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	*database.GormDB
}

// NewGormStore adapts a GORM database to Store
func NewGormStore(db *database.GormDB) Store {
	return gormStore{GormDB: db}
}

func (s gormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.GormDB.Transaction(ctx, func(tx *database.GormDB) error {
		return fn(gormStore{GormDB: tx})
	})
}

// Indexer mirrors listings into a search index. Failures never fail a mutation.
type Indexer interface {
	IndexProperty(p *models.Property) error
	RemoveProperty(id string) error
	Reindex(properties []models.Property) (int, error)
	Suggest(query string, limit int64) ([]search.Suggestion, error)
}

// Rules are the listing constraints enforced on writes
type Rules struct {
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	MaxImages   int
	MaxFileSize int64
}

// RulesFromConfig parses the catalog and storage limits
func RulesFromConfig(cat config.CatalogConfig, st config.StorageConfig) (Rules, error) {
	minPrice, err := decimal.NewFromString(cat.MinPrice)
	if err != nil {
		return Rules{}, fmt.Errorf("invalid catalog.min_price %q: %w", cat.MinPrice, err)
	}
	maxPrice, err := decimal.NewFromString(cat.MaxPrice)
	if err != nil {
		return Rules{}, fmt.Errorf("invalid catalog.max_price %q: %w", cat.MaxPrice, err)
	}
	if cat.MaxImagesPerProperty < 1 {
		return Rules{}, fmt.Errorf("catalog.max_images_per_property must be positive")
	}
	return Rules{
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		MaxImages:   cat.MaxImagesPerProperty,
		MaxFileSize: st.GetMaxFileSize(),
	}, nil
}

// DefaultRules matches the default configuration
func DefaultRules() Rules {
	return Rules{
		MinPrice:    decimal.NewFromInt(1000),
		MaxPrice:    decimal.NewFromInt(999999999),
		MaxImages:   5,
		MaxFileSize: 10 << 20,
	}
}

type Service struct {
	store   Store
	blobs   blobstore.Store
	cache   *cache.Layer
	indexer Indexer
	logger  *slog.Logger
	rules   Rules
	now     func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithIndexer keeps a search index in sync after mutations
func WithIndexer(ix Indexer) Option {
	return func(s *Service) { s.indexer = ix }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, blobs blobstore.Store, layer *cache.Layer, logger *slog.Logger, rules Rules, opts ...Option) *Service {
	s := &Service{
		store:  store,
		blobs:  blobs,
		cache:  layer,
		logger: logger,
		rules:  rules,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClearCaches evicts both read caches
func (s *Service) ClearCaches(ctx context.Context) {
	s.cache.EvictAll(ctx)
}

// Reindex rebuilds the search index from the record store
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.indexer == nil {
		return 0, apperr.BadRequest("search indexing is disabled")
	}
	properties, err := s.store.AllProperties(ctx)
	if err != nil {
		return 0, apperr.Unexpected("failed to load properties", err)
	}
	n, err := s.indexer.Reindex(properties)
	if err != nil {
		return n, apperr.Unexpected("failed to rebuild search index", err)
	}
	s.logger.Info("search index rebuilt", "indexed", n)
	return n, nil
}

// Suggest returns title suggestions from the search index, empty when indexing is disabled
func (s *Service) Suggest(query string, limit int64) ([]search.Suggestion, error) {
	if s.indexer == nil || query == "" {
		return []search.Suggestion{}, nil
	}
	suggestions, err := s.indexer.Suggest(query, limit)
	if err != nil {
		return nil, apperr.Unexpected("search suggestions unavailable", err)
	}
	return suggestions, nil
}

func (s *Service) syncIndex(p *models.Property) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexProperty(p); err != nil {
		s.logger.Warn("search index update failed", "property_id", p.ID, "error", err)
	}
}

func (s *Service) removeFromIndex(id string) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.RemoveProperty(id); err != nil {
		s.logger.Warn("search index removal failed", "property_id", id, "error", err)
	}
}

// storeError classifies record store errors for property id
func storeError(msg, id string, err error) error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, database.ErrNotFound):
		return apperr.NotFound("Property", id)
	case errors.Is(err, database.ErrVersionConflict):
		return apperr.Conflict("Property", id)
	default:
		return apperr.Unexpected(msg, err)
	}
}
