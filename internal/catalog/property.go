package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/cache"
	"real-estate-catalog/internal/history"
	"real-estate-catalog/internal/models"
	"real-estate-catalog/internal/search"
)

// PropertyInput is the writable part of a property.
// Version, when set on update, must equal the stored version.
type PropertyInput struct {
	Title         string                `json:"title"`
	Price         decimal.Decimal       `json:"price"`
	Description   string                `json:"description"`
	Address       string                `json:"address"`
	City          string                `json:"city"`
	State         string                `json:"state"`
	Zip           string                `json:"zip"`
	Bedrooms      int                   `json:"bedrooms"`
	Bathrooms     decimal.Decimal       `json:"bathrooms"`
	SquareFootage int                   `json:"squareFootage"`
	PropertyType  string                `json:"propertyType"`
	Status        models.PropertyStatus `json:"status"`
	VideoLink     string                `json:"videoLink"`
	Featured      bool                  `json:"featured"`
	Version       *int64                `json:"version,omitempty"`
}

func (s *Service) validate(in *PropertyInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.VideoLink = strings.TrimSpace(in.VideoLink)
	if in.Status == "" {
		in.Status = models.PropertyStatusAvailable
	}

	switch {
	case in.Title == "":
		return apperr.BadRequest("title is required")
	case len(in.Title) > 255:
		return apperr.BadRequest("title must be at most 255 characters")
	case in.Price.LessThan(s.rules.MinPrice):
		return apperr.BadRequest("price must be at least %s", s.rules.MinPrice)
	case in.Price.GreaterThan(s.rules.MaxPrice):
		return apperr.BadRequest("price must be at most %s", s.rules.MaxPrice)
	case strings.TrimSpace(in.Address) == "", strings.TrimSpace(in.City) == "",
		strings.TrimSpace(in.State) == "", strings.TrimSpace(in.Zip) == "":
		return apperr.BadRequest("address, city, state and zip are required")
	case in.Bedrooms < 0 || in.SquareFootage < 0 || in.Bathrooms.IsNegative():
		return apperr.BadRequest("bedrooms, bathrooms and square footage must not be negative")
	case !models.IsValidPropertyType(in.PropertyType):
		return apperr.BadRequest("invalid property type: %q", in.PropertyType)
	case !models.IsValidStatus(in.Status):
		return apperr.BadRequest("invalid status: %q", in.Status)
	case !models.IsValidVideoLink(in.VideoLink):
		return apperr.BadRequest("video link must be an Instagram post, reel or tv URL")
	}
	return nil
}

func apply(in PropertyInput, p *models.Property) {
	p.Title = in.Title
	p.Price = in.Price
	p.Description = in.Description
	p.Address = strings.TrimSpace(in.Address)
	p.City = strings.TrimSpace(in.City)
	p.State = strings.TrimSpace(in.State)
	p.Zip = strings.TrimSpace(in.Zip)
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.SquareFootage = in.SquareFootage
	p.PropertyType = in.PropertyType
	p.Status = in.Status
	p.VideoLink = in.VideoLink
	p.Featured = in.Featured
}

// Search returns one page of properties matching the request
func (s *Service) Search(ctx context.Context, req search.SearchRequest) (search.Page[PropertyView], error) {
	criteria, err := search.BuildCriteria(req)
	if err != nil {
		return search.Page[PropertyView]{}, err
	}
	page, err := search.NewPageRequest(req.Page, req.Limit)
	if err != nil {
		return search.Page[PropertyView]{}, err
	}

	rows, total, err := s.store.QueryProperties(ctx, criteria, search.SortFor(req.SortBy), page.Offset(), page.Limit)
	if err != nil {
		return search.Page[PropertyView]{}, apperr.Unexpected("failed to search properties", err)
	}

	return search.NewPage(s.toViews(rows), total, page), nil
}

// GetFeatured returns available featured properties. Empty results are not cached.
func (s *Service) GetFeatured(ctx context.Context) ([]PropertyView, error) {
	skipEmpty := func(v []PropertyView) bool { return len(v) == 0 }

	return cache.ReadThrough(ctx, s.cache, cache.Featured, cache.FeaturedKey, skipEmpty,
		func(ctx context.Context) ([]PropertyView, error) {
			rows, err := s.store.FeaturedProperties(ctx)
			if err != nil {
				return nil, apperr.Unexpected("failed to load featured properties", err)
			}
			return s.toViews(rows), nil
		})
}

// GetByID returns a property with its ordered images
func (s *Service) GetByID(ctx context.Context, id string) (PropertyView, error) {
	return cache.ReadThrough(ctx, s.cache, cache.PropertyDetail, id, nil,
		func(ctx context.Context) (PropertyView, error) {
			p, err := s.store.GetPropertyByID(ctx, id)
			if err != nil {
				return PropertyView{}, storeError("failed to load property", id, err)
			}
			return s.toView(p), nil
		})
}

// Create stores a new property with version 0 and no images
func (s *Service) Create(ctx context.Context, in PropertyInput) (PropertyView, error) {
	if err := s.validate(&in); err != nil {
		return PropertyView{}, err
	}

	now := s.now()
	p := &models.Property{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(in, p)

	err := s.store.WithinTransaction(ctx, func(tx Store) error {
		if err := tx.CreateProperty(ctx, p); err != nil {
			return err
		}
		return tx.RecordChanges(ctx, []models.PropertyChange{history.Created(p, now)})
	})
	if err != nil {
		return PropertyView{}, apperr.Unexpected("failed to create property", err)
	}

	s.cache.EvictAll(ctx)
	s.syncIndex(p)
	s.logger.Info("property created", "property_id", p.ID, "title", p.Title)

	return s.toView(p), nil
}

// Update replaces the writable fields of a property under the version guard
func (s *Service) Update(ctx context.Context, id string, in PropertyInput) (PropertyView, error) {
	if err := s.validate(&in); err != nil {
		return PropertyView{}, err
	}

	var updated models.Property
	err := s.store.WithinTransaction(ctx, func(tx Store) error {
		current, err := tx.GetPropertyForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Version != nil && *in.Version != current.Version {
			return apperr.Conflict("Property", id)
		}

		updated = *current
		apply(in, &updated)
		changes := history.DetectChanges(current, &updated, s.now())

		if err := tx.SaveProperty(ctx, &updated, current.Version); err != nil {
			return err
		}
		return tx.RecordChanges(ctx, changes)
	})
	if err != nil {
		return PropertyView{}, storeError("failed to update property", id, err)
	}

	s.cache.EvictAll(ctx)
	s.syncIndex(&updated)
	s.logger.Info("property updated", "property_id", id, "version", updated.Version)

	return s.toView(&updated), nil
}
