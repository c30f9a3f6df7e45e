package database

import (
	"context"

	"real-estate-catalog/internal/models"
)

// CreateContact inserts an enquiry
func (gdb *GormDB) CreateContact(ctx context.Context, c *models.Contact) error {
	return gdb.db.WithContext(ctx).Create(c).Error
}

// ListContacts returns one page of contacts, newest first
func (gdb *GormDB) ListContacts(ctx context.Context, offset, limit int) ([]models.Contact, int64, error) {
	var total int64
	if err := gdb.db.WithContext(ctx).Model(&models.Contact{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []models.Contact
	err := gdb.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&contacts).Error
	return contacts, total, err
}

// GetContact retrieves a contact by id
func (gdb *GormDB) GetContact(ctx context.Context, id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := gdb.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &contact, nil
}

// UpdateContactStatus sets the follow-up status of a contact
func (gdb *GormDB) UpdateContactStatus(ctx context.Context, id uint, status models.ContactStatus) error {
	result := gdb.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact
func (gdb *GormDB) DeleteContact(ctx context.Context, id uint) error {
	result := gdb.db.WithContext(ctx).Delete(&models.Contact{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
