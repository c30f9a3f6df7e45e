// Package contact handles enquiries sent from the listing pages.
package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/database"
	"real-estate-catalog/internal/models"
	"real-estate-catalog/internal/search"
)

// Store is the record store the contact service needs
type Store interface {
	CreateContact(ctx context.Context, c *models.Contact) error
	ListContacts(ctx context.Context, offset, limit int) ([]models.Contact, int64, error)
	GetContact(ctx context.Context, id uint) (*models.Contact, error)
	UpdateContactStatus(ctx context.Context, id uint, status models.ContactStatus) error
	DeleteContact(ctx context.Context, id uint) error
	PropertyExists(ctx context.Context, id string) (bool, error)
	PropertyTitles(ctx context.Context, ids []string) (map[string]string, error)
}

// Input is a new enquiry
type Input struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Message    string  `json:"message"`
	PropertyID *string `json:"propertyId"`
}

// View is a contact with the title of the property it refers to
type View struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Message       string    `json:"message"`
	PropertyID    *string   `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)

	switch {
	case in.Name == "" || len(in.Name) > 100:
		return apperr.BadRequest("name is required and must be at most 100 characters")
	case in.Email == "":
		return apperr.BadRequest("email is required")
	case in.Phone == "" || len(in.Phone) > 20:
		return apperr.BadRequest("phone is required and must be at most 20 characters")
	case in.Message == "":
		return apperr.BadRequest("message is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperr.BadRequest("invalid email address: %s", in.Email)
	}
	return nil
}

// Create stores an enquiry. An unknown property id turns it into a general enquiry.
func (s *Service) Create(ctx context.Context, in Input) (View, error) {
	if err := validate(&in); err != nil {
		return View{}, err
	}

	c := &models.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
		Status:  models.ContactStatusNew,
	}

	if in.PropertyID != nil && strings.TrimSpace(*in.PropertyID) != "" {
		id := strings.TrimSpace(*in.PropertyID)
		exists, err := s.store.PropertyExists(ctx, id)
		if err != nil {
			return View{}, apperr.Unexpected("failed to look up property", err)
		}
		if exists {
			c.PropertyID = &id
		} else {
			s.logger.Warn("contact refers to unknown property, storing as general enquiry", "property_id", id)
		}
	}

	if err := s.store.CreateContact(ctx, c); err != nil {
		return View{}, apperr.Unexpected("failed to save contact", err)
	}
	s.logger.Info("contact created", "contact_id", c.ID, "general_enquiry", c.PropertyID == nil)

	titles, err := s.titles(ctx, []models.Contact{*c})
	if err != nil {
		return View{}, err
	}
	return toView(c, titles), nil
}

// List returns one page of contacts, newest first
func (s *Service) List(ctx context.Context, page, limit int) (search.Page[View], error) {
	req, err := search.NewPageRequest(page, limit)
	if err != nil {
		return search.Page[View]{}, err
	}

	contacts, total, err := s.store.ListContacts(ctx, req.Offset(), req.Limit)
	if err != nil {
		return search.Page[View]{}, apperr.Unexpected("failed to list contacts", err)
	}

	titles, err := s.titles(ctx, contacts)
	if err != nil {
		return search.Page[View]{}, err
	}

	views := make([]View, 0, len(contacts))
	for i := range contacts {
		views = append(views, toView(&contacts[i], titles))
	}
	return search.NewPage(views, total, req), nil
}

// Get returns a single contact
func (s *Service) Get(ctx context.Context, id uint) (View, error) {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return View{}, contactError(id, err)
	}
	titles, err := s.titles(ctx, []models.Contact{*c})
	if err != nil {
		return View{}, err
	}
	return toView(c, titles), nil
}

// UpdateStatus moves a contact to New, Contacted or Resolved
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (View, error) {
	st := models.ContactStatus(strings.TrimSpace(status))
	if !models.IsValidContactStatus(st) {
		return View{}, apperr.BadRequest("invalid status %q, must be New, Contacted or Resolved", status)
	}
	if err := s.store.UpdateContactStatus(ctx, id, st); err != nil {
		return View{}, contactError(id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes a contact
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.DeleteContact(ctx, id); err != nil {
		return contactError(id, err)
	}
	s.logger.Info("contact deleted", "contact_id", id)
	return nil
}

func (s *Service) titles(ctx context.Context, contacts []models.Contact) (map[string]string, error) {
	var ids []string
	for _, c := range contacts {
		if c.PropertyID != nil {
			ids = append(ids, *c.PropertyID)
		}
	}
	titles, err := s.store.PropertyTitles(ctx, ids)
	if err != nil {
		return nil, apperr.Unexpected("failed to load property titles", err)
	}
	return titles, nil
}

// toView labels contacts whose property is absent or gone as general enquiries
func toView(c *models.Contact, titles map[string]string) View {
	v := View{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Message:       c.Message,
		PropertyTitle: models.GeneralEnquiryTitle,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
	}
	if c.PropertyID != nil {
		if title, ok := titles[*c.PropertyID]; ok {
			id := *c.PropertyID
			v.PropertyID = &id
			v.PropertyTitle = title
		}
	}
	return v
}

func contactError(id uint, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("Contact", strconv.FormatUint(uint64(id), 10))
	}
	return apperr.Unexpected("contact operation failed", err)
}
