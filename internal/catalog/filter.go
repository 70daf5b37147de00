package catalog

import (
	"loftonrealty/server/internal/models"
)

// StatusAll disables the status facet.
const StatusAll = "All"

// AnyFloor disables a bed or bath floor.
const AnyFloor = 0

// FilterState holds the active facet constraints. Zero values mean "no
// constraint" for every facet, so the zero FilterState matches everything.
type FilterState struct {
	Location string                `json:"location"`
	MinPrice *int                  `json:"min_price"`
	MaxPrice *int                  `json:"max_price"`
	Beds     int                   `json:"beds"`
	Baths    int                   `json:"baths"`
	Types    []models.PropertyType `json:"types"`
	Status   string                `json:"status"`
}

// DefaultFilters returns the unconstrained filter state.
func DefaultFilters() FilterState {
	return FilterState{Status: StatusAll}
}

// IsDefault reports whether no facet is active.
func (f FilterState) IsDefault() bool {
	return f.Location == "" &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.Beds == AnyFloor && f.Baths == AnyFloor &&
		len(f.Types) == 0 &&
		(f.Status == "" || f.Status == StatusAll)
}

// Matches reports whether the listing satisfies every active constraint.
// Facets compose conjunctively; within the type facet a listing matches if
// its type is any one of the selected types.
func (f FilterState) Matches(l models.Listing) bool {
	if f.Status != "" && f.Status != StatusAll && string(l.Status) != f.Status {
		return false
	}
	if f.Location != "" && l.City != f.Location {
		return false
	}
	if len(f.Types) > 0 && !containsType(f.Types, l.Type) {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	if f.Beds != AnyFloor && l.Beds < f.Beds {
		return false
	}
	if f.Baths != AnyFloor && l.Baths < f.Baths {
		return false
	}
	return true
}

// FilterListings returns the listings that satisfy every active constraint,
// in input order. The input slice is not mutated.
func FilterListings(listings []models.Listing, filters FilterState) []models.Listing {
	result := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if filters.Matches(l) {
			result = append(result, l)
		}
	}
	return result
}

func containsType(types []models.PropertyType, t models.PropertyType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
