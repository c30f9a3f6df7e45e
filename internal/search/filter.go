package search

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"real-estate-catalog/internal/apperr"
)

// SearchRequest carries the raw listing filters as the client sent them
type SearchRequest struct {
	Search       string
	Location     string
	PriceRange   string
	PropertyType string
	Bedrooms     string
	SortBy       string
	Page         int
	Limit        int
}

// Op is the comparison a clause applies
type Op int

const (
	OpContains Op = iota
	OpEquals
	OpGTE
	OpLTE
)

// Clause matches when any of its columns satisfies Op against Value
type Clause struct {
	Columns []string
	Op      Op
	Value   any
}

// Criteria is a conjunction of clauses. An empty Criteria matches every row.
type Criteria struct {
	Clauses []Clause
}

// IsEmpty reports whether no filter was requested
func (c Criteria) IsEmpty() bool {
	return len(c.Clauses) == 0
}

var (
	textColumns     = []string{"title", "description", "address", "city", "zip"}
	locationColumns = []string{"city", "address", "zip"}
)

// Columns the record store is allowed to filter on
var FilterableColumns = map[string]bool{
	"title":         true,
	"description":   true,
	"address":       true,
	"city":          true,
	"zip":           true,
	"price":         true,
	"property_type": true,
	"bedrooms":      true,
}

// BuildCriteria turns a search request into a criteria object.
// Blank, "Any" and "All Types" values contribute nothing.
func BuildCriteria(req SearchRequest) (Criteria, error) {
	var criteria Criteria

	// Free text search across the descriptive columns
	if q := strings.TrimSpace(req.Search); q != "" {
		criteria.Clauses = append(criteria.Clauses, Clause{
			Columns: textColumns,
			Op:      OpContains,
			Value:   strings.ToLower(q),
		})
	}

	if loc := strings.TrimSpace(req.Location); loc != "" {
		criteria.Clauses = append(criteria.Clauses, Clause{
			Columns: locationColumns,
			Op:      OpContains,
			Value:   strings.ToLower(loc),
		})
	}

	priceClauses, err := parsePriceRange(req.PriceRange)
	if err != nil {
		return Criteria{}, err
	}
	criteria.Clauses = append(criteria.Clauses, priceClauses...)

	if pt := strings.TrimSpace(req.PropertyType); !isWildcard(pt) {
		criteria.Clauses = append(criteria.Clauses, Clause{
			Columns: []string{"property_type"},
			Op:      OpEquals,
			Value:   pt,
		})
	}

	if beds := strings.TrimSpace(req.Bedrooms); !isWildcard(beds) {
		n, err := strconv.Atoi(strings.TrimSuffix(beds, "+"))
		if err != nil || n < 0 {
			return Criteria{}, apperr.BadRequest("invalid bedrooms filter: %q", req.Bedrooms)
		}
		criteria.Clauses = append(criteria.Clauses, Clause{
			Columns: []string{"bedrooms"},
			Op:      OpGTE,
			Value:   n,
		})
	}

	return criteria, nil
}

// parsePriceRange accepts "min", "min+" or "min-max", bounds inclusive
func parsePriceRange(raw string) ([]Clause, error) {
	raw = strings.TrimSpace(raw)
	if isWildcard(raw) {
		return nil, nil
	}

	if open := strings.TrimSpace(strings.TrimSuffix(raw, "+")); open != raw {
		lo, err := decimal.NewFromString(open)
		if err != nil || strings.Contains(open, "-") {
			return nil, apperr.BadRequest("invalid price range: %q", raw)
		}
		return []Clause{{Columns: []string{"price"}, Op: OpGTE, Value: lo}}, nil
	}

	parts := strings.SplitN(raw, "-", 2)
	lo, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, apperr.BadRequest("invalid price range: %q", raw)
	}
	clauses := []Clause{{Columns: []string{"price"}, Op: OpGTE, Value: lo}}

	if len(parts) == 2 {
		hi, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, apperr.BadRequest("invalid price range: %q", raw)
		}
		clauses = append(clauses, Clause{Columns: []string{"price"}, Op: OpLTE, Value: hi})
	}

	return clauses, nil
}

func isWildcard(v string) bool {
	return v == "" || strings.EqualFold(v, "Any") || strings.EqualFold(v, "All Types")
}
