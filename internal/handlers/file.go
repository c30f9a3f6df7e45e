package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"real-estate-catalog/internal/blobstore"
)

// FileHandler serves stored images
type FileHandler struct {
	blobs blobstore.Store
}

// NewFileHandler creates a new file handler
func NewFileHandler(blobs blobstore.Store) *FileHandler {
	return &FileHandler{blobs: blobs}
}

// Serve streams the blob named by the "name" path parameter
func (h *FileHandler) Serve(c *gin.Context) {
	obj, err := h.blobs.Resolve(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer obj.Reader.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Reader, nil)
}
