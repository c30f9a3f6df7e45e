package search

// Sort keys accepted from clients
const (
	SortPriceLow  = "priceLow"
	SortPriceHigh = "priceHigh"
	SortNewest    = "newest"
)

// Order is a single-column ordering. The record store appends id as a tiebreak.
type Order struct {
	Column string
	Desc   bool
}

// String renders the order as an SQL ORDER BY fragment
func (o Order) String() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// SortFor maps a sort key to an order; unknown keys mean newest first
func SortFor(key string) Order {
	switch key {
	case SortPriceLow:
		return Order{Column: "price"}
	case SortPriceHigh:
		return Order{Column: "price", Desc: true}
	default:
		return Order{Column: "created_at", Desc: true}
	}
}
