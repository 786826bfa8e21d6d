package enums

// ProductSort is the whitelist of catalog list orderings. Anything not
// in the list silently falls back to the default so callers cannot
// inject arbitrary ORDER BY clauses.
type ProductSort string

const (
	ProductSortPriceAsc    ProductSort = "price"
	ProductSortPriceDesc   ProductSort = "-price"
	ProductSortNameAsc     ProductSort = "name"
	ProductSortNameDesc    ProductSort = "-name"
	ProductSortCreatedAsc  ProductSort = "created_at"
	ProductSortCreatedDesc ProductSort = "-created_at"
)

const ProductSortDefault = ProductSortCreatedDesc

func (s ProductSort) Valid() bool {
	switch s {
	case ProductSortPriceAsc, ProductSortPriceDesc, ProductSortNameAsc,
		ProductSortNameDesc, ProductSortCreatedAsc, ProductSortCreatedDesc:
		return true
	}
	return false
}

// OrDefault returns s when valid, otherwise the default ordering.
func (s ProductSort) OrDefault() ProductSort {
	if s.Valid() {
		return s
	}
	return ProductSortDefault
}

// Column returns the database column and direction for the sort.
func (s ProductSort) Column() (column string, desc bool) {
	switch s.OrDefault() {
	case ProductSortPriceAsc:
		return "price", false
	case ProductSortPriceDesc:
		return "price", true
	case ProductSortNameAsc:
		return "name", false
	case ProductSortNameDesc:
		return "name", true
	case ProductSortCreatedAsc:
		return "created_at", false
	default:
		return "created_at", true
	}
}
