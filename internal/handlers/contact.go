package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/config"
	"real-estate-catalog/internal/contact"
)

// ContactHandler handles enquiry requests
type ContactHandler struct {
	contacts *contact.Service
	cfg      config.CatalogConfig
}

// NewContactHandler creates a new contact handler
func NewContactHandler(svc *contact.Service, cfg config.CatalogConfig) *ContactHandler {
	return &ContactHandler{contacts: svc, cfg: cfg}
}

// Create stores an enquiry
func (h *ContactHandler) Create(c *gin.Context) {
	var in contact.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.BadRequest("invalid request body: %v", err))
		return
	}
	view, err := h.contacts.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// List returns a page of enquiries, newest first
func (h *ContactHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := clampedLimit(c, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.contacts.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus moves an enquiry through its workflow
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid request body: %v", err))
		return
	}
	view, err := h.contacts.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete removes an enquiry
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
