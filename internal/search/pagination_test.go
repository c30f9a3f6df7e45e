package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real-estate-catalog/internal/apperr"
)

func TestNewPageRequest(t *testing.T) {
	req, err := NewPageRequest(3, 9)
	require.NoError(t, err)
	assert.Equal(t, 18, req.Offset())

	req, err = NewPageRequest(1, 9)
	require.NoError(t, err)
	assert.Equal(t, 0, req.Offset())
}

func TestOffsetSaturates(t *testing.T) {
	req, err := NewPageRequest(math.MaxInt/9+2, 9)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, req.Offset())

	req, err = NewPageRequest(math.MaxInt, 100)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, req.Offset())

	// largest page that still fits
	req, err = NewPageRequest(math.MaxInt/9+1, 9)
	require.NoError(t, err)
	assert.Equal(t, (math.MaxInt/9)*9, req.Offset())
	assert.Positive(t, req.Offset())

	assert.Equal(t, 0, PageRequest{}.Offset())
}

func TestNewPageRequestInvalid(t *testing.T) {
	_, err := NewPageRequest(0, 9)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = NewPageRequest(1, 0)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestNewPageTotals(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		pages int
	}{
		{total: 0, limit: 9, pages: 0},
		{total: 9, limit: 9, pages: 1},
		{total: 10, limit: 9, pages: 2},
		{total: 25, limit: 10, pages: 3},
	}
	for _, tt := range tests {
		page := NewPage[int](nil, tt.total, PageRequest{Page: 1, Limit: tt.limit})
		assert.Equal(t, tt.pages, page.TotalPages, "total=%d limit=%d", tt.total, tt.limit)
		assert.NotNil(t, page.Data)
	}
}

func TestMapPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 12, PageRequest{Page: 2, Limit: 2})
	mapped := MapPage(page, func(n int) string { return string(rune('a' + n)) })

	assert.Equal(t, []string{"b", "c"}, mapped.Data)
	assert.Equal(t, int64(12), mapped.Total)
	assert.Equal(t, 2, mapped.Page)
	assert.Equal(t, 6, mapped.TotalPages)
}
