// Package blobstore stores property images and hands out opaque references.
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"real-estate-catalog/internal/apperr"
)

// Store is an image blob backend
type Store interface {
	// Store writes the payload and returns its reference
	Store(ctx context.Context, p Payload) (string, error)
	// Delete removes a blob; a missing blob is not an error
	Delete(ctx context.Context, ref string) error
	// Resolve opens a blob for reading, NotFound when absent
	Resolve(ctx context.Context, ref string) (*Object, error)
	// URL returns the public URL of a reference
	URL(ref string) string
}

// Payload is one uploaded file
type Payload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Object is an opened blob
type Object struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
}

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// ReadPayload buffers an upload, refusing anything larger than maxSize
func ReadPayload(filename, contentType string, r io.Reader, maxSize int64) (Payload, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return Payload{}, fmt.Errorf("read upload %s: %w", filename, err)
	}
	return Payload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// Validate checks name, extension, size and sniffed content type
func Validate(p Payload, maxSize int64) error {
	name := strings.TrimSpace(p.Filename)
	if name == "" {
		return apperr.BadRequest("file name is empty")
	}
	if strings.Contains(name, "..") {
		return apperr.BadRequest("file name contains invalid path sequence: %s", name)
	}
	if p.Size == 0 || len(p.Data) == 0 {
		return apperr.BadRequest("file %s is empty", name)
	}
	if maxSize > 0 && p.Size > maxSize {
		return apperr.BadRequest("file %s exceeds the maximum size of %d MB", name, maxSize>>20)
	}

	ext := Extension(name)
	if !allowedExtensions[ext] {
		return apperr.BadRequest("file type .%s is not allowed, use jpg, jpeg, png, gif or webp", ext)
	}

	detected := mimetype.Detect(p.Data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return apperr.BadRequest("file %s is not an image (detected %s)", name, detected.String())
	}
	return nil
}

// Extension returns the lower-cased extension without the dot
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// NewReference builds a unique blob name "<unix millis>_<uuid>.<ext>"
func NewReference(filename string, now time.Time) string {
	return fmt.Sprintf("%d_%s.%s", now.UnixMilli(), uuid.NewString(), Extension(filename))
}

// ContentTypeOf picks the payload's declared type or sniffs it
func ContentTypeOf(p Payload) string {
	if p.ContentType != "" && p.ContentType != "application/octet-stream" {
		return p.ContentType
	}
	return mimetype.Detect(p.Data).String()
}

// validReference rejects references that could escape the store's namespace
func validReference(ref string) bool {
	return ref != "" && !strings.Contains(ref, "..") && !strings.ContainsAny(ref, `/\`)
}

func reader(p Payload) io.Reader {
	return bytes.NewReader(p.Data)
}
