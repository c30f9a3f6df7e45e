package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/blobstore"
	"real-estate-catalog/internal/catalog"
	"real-estate-catalog/internal/config"
	"real-estate-catalog/internal/search"
)

// PropertyHandler handles listing requests
type PropertyHandler struct {
	catalog     *catalog.Service
	cfg         config.CatalogConfig
	maxFileSize int64
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(svc *catalog.Service, cfg config.CatalogConfig, maxFileSize int64) *PropertyHandler {
	return &PropertyHandler{catalog: svc, cfg: cfg, maxFileSize: maxFileSize}
}

// Search returns one page of listings matching the query filters
func (h *PropertyHandler) Search(c *gin.Context) {
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

	result, err := h.catalog.Search(c.Request.Context(), search.SearchRequest{
		Search:       c.Query("search"),
		Location:     c.Query("location"),
		PriceRange:   c.Query("priceRange"),
		PropertyType: c.Query("propertyType"),
		Bedrooms:     c.Query("bedrooms"),
		SortBy:       c.Query("sortBy"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Featured returns the featured available listings
func (h *PropertyHandler) Featured(c *gin.Context) {
	properties, err := h.catalog.GetFeatured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// Suggest returns title suggestions for the "q" prefix
func (h *PropertyHandler) Suggest(c *gin.Context) {
	limit, err := clampedLimit(c, 5, 20)
	if err != nil {
		respondError(c, err)
		return
	}
	suggestions, err := h.catalog.Suggest(strings.TrimSpace(c.Query("q")), int64(limit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Get returns a single listing
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Create adds a listing
func (h *PropertyHandler) Create(c *gin.Context) {
	var in catalog.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.BadRequest("invalid request body: %v", err))
		return
	}
	property, err := h.catalog.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// Update replaces a listing's fields
func (h *PropertyHandler) Update(c *gin.Context) {
	var in catalog.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.BadRequest("invalid request body: %v", err))
		return
	}
	property, err := h.catalog.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Delete removes a listing and its images
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImages replaces a listing's images with the multipart "files" parts
func (h *PropertyHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, apperr.BadRequest("expected multipart form with files: %v", err))
		return
	}

	headers := form.File["files"]
	payloads, dropped, err := readPayloads(headers, h.cfg.MaxImagesPerProperty, h.maxFileSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if dropped > 0 {
		requestLogger(c).Warn("too many images, ignoring the rest",
			"property_id", c.Param("id"), "received", len(headers), "dropped", dropped)
	}

	urls, err := h.catalog.ReplaceImages(c.Request.Context(), c.Param("id"), payloads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": urls})
}

// readPayloads buffers at most limit uploads; later parts are never opened.
// It returns how many parts were skipped.
func readPayloads(headers []*multipart.FileHeader, limit int, maxFileSize int64) ([]blobstore.Payload, int, error) {
	dropped := 0
	if limit > 0 && len(headers) > limit {
		dropped = len(headers) - limit
		headers = headers[:limit]
	}

	payloads := make([]blobstore.Payload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, 0, apperr.BadRequest("cannot read file %s", fh.Filename)
		}
		p, err := blobstore.ReadPayload(fh.Filename, fh.Header.Get("Content-Type"), f, maxFileSize)
		f.Close()
		if err != nil {
			return nil, 0, apperr.BadRequest("cannot read file %s", fh.Filename)
		}
		payloads = append(payloads, p)
	}
	return payloads, dropped, nil
}
