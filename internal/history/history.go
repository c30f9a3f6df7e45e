package history

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"real-estate-catalog/internal/models"
)

// DetectChanges compares the stored state of a property with its new state.
// The returned changes carry the version the mutation will produce.
func DetectChanges(old, updated *models.Property, now time.Time) []models.PropertyChange {
	changes := []models.PropertyChange{}
	version := old.Version + 1

	// Price change
	if !old.Price.Equal(updated.Price) {
		magnitude := updated.Price.Sub(old.Price).String()
		changes = append(changes, models.PropertyChange{
			PropertyID:      old.ID,
			Version:         version,
			ChangeType:      models.ChangeTypePrice,
			OldValue:        old.Price.String(),
			NewValue:        updated.Price.String(),
			ChangeMagnitude: &magnitude,
			DetectedAt:      now,
		})
	}

	// Status change
	if old.Status != updated.Status {
		changes = append(changes, models.PropertyChange{
			PropertyID: old.ID,
			Version:    version,
			ChangeType: models.ChangeTypeStatus,
			OldValue:   string(old.Status),
			NewValue:   string(updated.Status),
			DetectedAt: now,
		})
	}

	if old.Featured != updated.Featured {
		changes = append(changes, models.PropertyChange{
			PropertyID: old.ID,
			Version:    version,
			ChangeType: models.ChangeTypeFeatured,
			OldValue:   strconv.FormatBool(old.Featured),
			NewValue:   strconv.FormatBool(updated.Featured),
			DetectedAt: now,
		})
	}

	if old.Title != updated.Title {
		changes = append(changes, models.PropertyChange{
			PropertyID: old.ID,
			Version:    version,
			ChangeType: models.ChangeTypeTitle,
			OldValue:   old.Title,
			NewValue:   updated.Title,
			DetectedAt: now,
		})
	}

	if old.PropertyType != updated.PropertyType {
		changes = append(changes, models.PropertyChange{
			PropertyID: old.ID,
			Version:    version,
			ChangeType: models.ChangeTypeType,
			OldValue:   old.PropertyType,
			NewValue:   updated.PropertyType,
			DetectedAt: now,
		})
	}

	return changes
}

// ImagesReplaced records a replace-all of the image set
func ImagesReplaced(p *models.Property, oldRefs, newRefs []string, now time.Time) models.PropertyChange {
	return models.PropertyChange{
		PropertyID: p.ID,
		Version:    p.Version + 1,
		ChangeType: models.ChangeTypeImages,
		OldValue:   strings.Join(oldRefs, ","),
		NewValue:   strings.Join(newRefs, ","),
		DetectedAt: now,
	}
}

// Created records the creation of a property
func Created(p *models.Property, now time.Time) models.PropertyChange {
	return models.PropertyChange{
		PropertyID: p.ID,
		Version:    p.Version,
		ChangeType: models.ChangeTypeNew,
		NewValue:   p.Title,
		DetectedAt: now,
	}
}

// Service reads recorded property changes
type Service struct {
	db *gorm.DB
}

// NewService creates a new history service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetPropertyHistory retrieves the change history of a property, newest first
func (s *Service) GetPropertyHistory(ctx context.Context, propertyID string, limit int) ([]models.PropertyChange, error) {
	var changes []models.PropertyChange
	query := s.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("version DESC").Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&changes).Error; err != nil {
		return nil, err
	}

	return changes, nil
}

// GetRecentChanges retrieves recent property changes
func (s *Service) GetRecentChanges(ctx context.Context, limit int) ([]models.PropertyChange, error) {
	var changes []models.PropertyChange
	query := s.db.WithContext(ctx).Order("detected_at DESC").Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&changes).Error; err != nil {
		return nil, err
	}

	return changes, nil
}

// CountSince counts changes detected after since
func (s *Service) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PropertyChange{}).Where("detected_at >= ?", since).Count(&count).Error
	return count, err
}
