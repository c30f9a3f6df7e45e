package search

import (
	"math"

	"real-estate-catalog/internal/apperr"
)

// PageRequest is a validated 1-based page selection
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest validates page >= 1 and limit >= 1
func NewPageRequest(page, limit int) (PageRequest, error) {
	if page < 1 {
		return PageRequest{}, apperr.BadRequest("page must be at least 1, got %d", page)
	}
	if limit < 1 {
		return PageRequest{}, apperr.BadRequest("limit must be at least 1, got %d", limit)
	}
	return PageRequest{Page: page, Limit: limit}, nil
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// so a page far past the end stays past the end.
func (r PageRequest) Offset() int {
	if r.Page <= 1 || r.Limit <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Limit {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Limit
}

// Page is one page of results plus the totals of the whole result set
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a page; totalPages is ceil(total/limit)
func NewPage[T any](data []T, total int64, req PageRequest) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}
}

// MapPage converts the data of a page, keeping its totals
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Data))
	for _, item := range p.Data {
		out = append(out, fn(item))
	}
	return Page[U]{
		Data:       out,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
