package catalog

import (
	"sort"

	"loftonrealty/server/internal/models"
)

// SortKey names one of the fixed listing orderings.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortSqftDesc  SortKey = "sqft-desc"
)

// ParseSortKey maps a raw sort parameter to a SortKey, falling back to
// SortNewest for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortSqftDesc:
		return SortKey(s)
	}
	return SortNewest
}

// SortListings returns a new slice ordered by the given key. The sort is
// stable, so listings with equal keys keep their relative input order and
// pagination stays deterministic. The store already returns collections
// newest-first, but SortNewest orders on the creation timestamp itself
// rather than trusting that contract.
func SortListings(listings []models.Listing, key SortKey) []models.Listing {
	sorted := make([]models.Listing, len(listings))
	copy(sorted, listings)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price < sorted[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price > sorted[j].Price
		})
	case SortSqftDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Sqft > sorted[j].Sqft
		})
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}

	return sorted
}
