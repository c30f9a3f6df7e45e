package search

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real-estate-catalog/internal/apperr"
)

func TestBuildCriteriaEmpty(t *testing.T) {
	criteria, err := BuildCriteria(SearchRequest{
		PropertyType: "All Types",
		Bedrooms:     "Any",
		PriceRange:   "  ",
	})
	require.NoError(t, err)
	assert.True(t, criteria.IsEmpty())
}

func TestBuildCriteriaFreeText(t *testing.T) {
	criteria, err := BuildCriteria(SearchRequest{Search: "  Villa "})
	require.NoError(t, err)
	require.Len(t, criteria.Clauses, 1)

	clause := criteria.Clauses[0]
	assert.Equal(t, OpContains, clause.Op)
	assert.Equal(t, "villa", clause.Value)
	assert.ElementsMatch(t, []string{"title", "description", "address", "city", "zip"}, clause.Columns)
}

func TestBuildCriteriaLocation(t *testing.T) {
	criteria, err := BuildCriteria(SearchRequest{Location: "Pune"})
	require.NoError(t, err)
	require.Len(t, criteria.Clauses, 1)
	assert.ElementsMatch(t, []string{"city", "address", "zip"}, criteria.Clauses[0].Columns)
	assert.Equal(t, "pune", criteria.Clauses[0].Value)
}

func TestBuildCriteriaPriceRange(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		clauses int
		min     string
		max     string
	}{
		{name: "min only", raw: "50000", clauses: 1, min: "50000"},
		{name: "min and max", raw: "1000-200000", clauses: 2, min: "1000", max: "200000"},
		{name: "decimals", raw: "1000.50 - 2000.75", clauses: 2, min: "1000.5", max: "2000.75"},
		{name: "open ended", raw: "5000000+", clauses: 1, min: "5000000"},
		{name: "open ended spaced", raw: " 250000 + ", clauses: 1, min: "250000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := BuildCriteria(SearchRequest{PriceRange: tt.raw})
			require.NoError(t, err)
			require.Len(t, criteria.Clauses, tt.clauses)

			assert.Equal(t, OpGTE, criteria.Clauses[0].Op)
			assert.True(t, decimal.RequireFromString(tt.min).Equal(criteria.Clauses[0].Value.(decimal.Decimal)))
			if tt.max != "" {
				assert.Equal(t, OpLTE, criteria.Clauses[1].Op)
				assert.True(t, decimal.RequireFromString(tt.max).Equal(criteria.Clauses[1].Value.(decimal.Decimal)))
			}
		})
	}
}

func TestBuildCriteriaMalformed(t *testing.T) {
	for _, req := range []SearchRequest{
		{PriceRange: "cheap"},
		{PriceRange: "1000-lots"},
		{PriceRange: "+"},
		{PriceRange: "1000-2000+"},
		{PriceRange: "-5000+"},
		{PriceRange: "-5000"},
		{Bedrooms: "three"},
		{Bedrooms: "-2"},
	} {
		_, err := BuildCriteria(req)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest), "%+v", req)
	}
}

func TestBuildCriteriaBedroomsPlus(t *testing.T) {
	criteria, err := BuildCriteria(SearchRequest{Bedrooms: "3+"})
	require.NoError(t, err)
	require.Len(t, criteria.Clauses, 1)
	assert.Equal(t, Clause{Columns: []string{"bedrooms"}, Op: OpGTE, Value: 3}, criteria.Clauses[0])
}

func TestBuildCriteriaCombined(t *testing.T) {
	criteria, err := BuildCriteria(SearchRequest{
		Search:       "garden",
		PropertyType: "Villa",
		Bedrooms:     "2",
		PriceRange:   "1000-5000",
	})
	require.NoError(t, err)
	assert.Len(t, criteria.Clauses, 5)

	for _, c := range criteria.Clauses {
		for _, col := range c.Columns {
			assert.True(t, FilterableColumns[col], col)
		}
	}
}

func TestSortFor(t *testing.T) {
	assert.Equal(t, Order{Column: "price"}, SortFor("priceLow"))
	assert.Equal(t, Order{Column: "price", Desc: true}, SortFor("priceHigh"))
	assert.Equal(t, Order{Column: "created_at", Desc: true}, SortFor("newest"))
	assert.Equal(t, Order{Column: "created_at", Desc: true}, SortFor(""))
	assert.Equal(t, Order{Column: "created_at", Desc: true}, SortFor("bogus"))
	assert.Equal(t, "price ASC", SortFor("priceLow").String())
}
