package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"real-estate-catalog/internal/models"
	"real-estate-catalog/internal/search"
)

var sortableColumns = map[string]bool{
	"price":      true,
	"created_at": true,
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("image_order ASC")
}

// applyCriteria adds one WHERE group per clause, OR-ing the clause's columns
func applyCriteria(db *gorm.DB, criteria search.Criteria) (*gorm.DB, error) {
	for _, c := range criteria.Clauses {
		parts := make([]string, 0, len(c.Columns))
		args := make([]interface{}, 0, len(c.Columns))

		for _, col := range c.Columns {
			if !search.FilterableColumns[col] {
				return nil, fmt.Errorf("column %q is not filterable", col)
			}
			switch c.Op {
			case search.OpContains:
				parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE ?", col))
				args = append(args, "%"+strings.ToLower(fmt.Sprint(c.Value))+"%")
			case search.OpEquals:
				parts = append(parts, col+" = ?")
				args = append(args, c.Value)
			case search.OpGTE:
				parts = append(parts, col+" >= ?")
				args = append(args, c.Value)
			case search.OpLTE:
				parts = append(parts, col+" <= ?")
				args = append(args, c.Value)
			default:
				return nil, fmt.Errorf("unknown operator %d", c.Op)
			}
		}

		db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return db, nil
}

// QueryProperties returns one page of matching properties and the total match count
func (gdb *GormDB) QueryProperties(ctx context.Context, criteria search.Criteria, order search.Order, offset, limit int) ([]models.Property, int64, error) {
	if !sortableColumns[order.Column] {
		return nil, 0, fmt.Errorf("column %q is not sortable", order.Column)
	}

	query, err := applyCriteria(gdb.db.WithContext(ctx).Model(&models.Property{}), criteria)
	if err != nil {
		return nil, 0, err
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	// a negative offset would silently become no OFFSET at all
	var properties []models.Property
	if offset >= 0 && total > int64(offset) {
		err = query.
			Preload("Images", orderedImages).
			Order(order.String()).
			Order("id ASC").
			Offset(offset).
			Limit(limit).
			Find(&properties).Error
		if err != nil {
			return nil, 0, fmt.Errorf("query properties: %w", err)
		}
	}

	return properties, total, nil
}

// FeaturedProperties returns available featured properties, newest first
func (gdb *GormDB) FeaturedProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := gdb.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Where("featured = ? AND status = ?", true, models.PropertyStatusAvailable).
		Order("created_at DESC").
		Order("id ASC").
		Find(&properties).Error
	return properties, err
}

// AllProperties retrieves every property, newest first
func (gdb *GormDB) AllProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := gdb.db.WithContext(ctx).Order("created_at DESC").Find(&properties).Error
	return properties, err
}

// GetPropertyByID retrieves a property with its images ordered
func (gdb *GormDB) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := gdb.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &property, nil
}

// GetPropertyForUpdate loads a property inside a transaction, taking a row lock where supported
func (gdb *GormDB) GetPropertyForUpdate(ctx context.Context, id string) (*models.Property, error) {
	query := gdb.db.WithContext(ctx)
	if gdb.supportsRowLocks() {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var property models.Property
	if err := query.Where("id = ?", id).First(&property).Error; err != nil {
		return nil, notFound(err)
	}

	if err := gdb.db.WithContext(ctx).
		Where("property_id = ?", id).
		Order("image_order ASC").
		Find(&property.Images).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// PropertyExists reports whether a property row exists
func (gdb *GormDB) PropertyExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := gdb.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// PropertyTitles maps the given ids to titles; unknown ids are absent
func (gdb *GormDB) PropertyTitles(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	var rows []struct {
		ID    string
		Title string
	}
	err := gdb.db.WithContext(ctx).
		Model(&models.Property{}).
		Select("id, title").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		titles[r.ID] = r.Title
	}
	return titles, nil
}

// CreateProperty inserts a new property row without images
func (gdb *GormDB) CreateProperty(ctx context.Context, p *models.Property) error {
	return gdb.db.WithContext(ctx).Omit("Images").Create(p).Error
}

// SaveProperty writes p only if the stored version still equals expected.
// On success p.Version is expected+1.
func (gdb *GormDB) SaveProperty(ctx context.Context, p *models.Property, expected int64) error {
	updatedAt := time.Now()
	if updatedAt.Before(p.UpdatedAt) {
		updatedAt = p.UpdatedAt
	}

	result := gdb.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ? AND version = ?", p.ID, expected).
		Updates(map[string]interface{}{
			"title":          p.Title,
			"price":          p.Price,
			"description":    p.Description,
			"address":        p.Address,
			"city":           p.City,
			"state":          p.State,
			"zip":            p.Zip,
			"bedrooms":       p.Bedrooms,
			"bathrooms":      p.Bathrooms,
			"square_footage": p.SquareFootage,
			"property_type":  p.PropertyType,
			"status":         p.Status,
			"video_link":     p.VideoLink,
			"featured":       p.Featured,
			"cover_image":    p.CoverImage,
			"version":        expected + 1,
			"updated_at":     updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		exists, err := gdb.PropertyExists(ctx, p.ID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	p.Version = expected + 1
	p.UpdatedAt = updatedAt
	return nil
}

// DeletePropertyByID removes the property row
func (gdb *GormDB) DeletePropertyByID(ctx context.Context, id string) error {
	result := gdb.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Property{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteImagesByPropertyID removes every image row of a property
func (gdb *GormDB) DeleteImagesByPropertyID(ctx context.Context, propertyID string) (int64, error) {
	result := gdb.db.WithContext(ctx).Where("property_id = ?", propertyID).Delete(&models.PropertyImage{})
	return result.RowsAffected, result.Error
}

// CreateImages inserts image rows
func (gdb *GormDB) CreateImages(ctx context.Context, images []models.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	return gdb.db.WithContext(ctx).Create(&images).Error
}

// RecordChanges appends change history rows
func (gdb *GormDB) RecordChanges(ctx context.Context, changes []models.PropertyChange) error {
	if len(changes) == 0 {
		return nil
	}
	return gdb.db.WithContext(ctx).Create(&changes).Error
}

// RecordDeletion writes a delete log entry
func (gdb *GormDB) RecordDeletion(ctx context.Context, entry *models.DeleteLog) error {
	return gdb.db.WithContext(ctx).Create(entry).Error
}
