package catalog

import "loftonrealty/server/internal/models"

// SearchState is the complete filter/sort/page state for one catalog view.
// Mutating the filters through SetFilters resets the page to 1 so a narrowed
// result set can never leave the view on an out-of-range page.
type SearchState struct {
	Filters  FilterState
	Sort     SortKey
	Page     int
	PageSize int
}

// NewSearchState returns a state with default filters, newest-first ordering
// and the first page of the standard grid size.
func NewSearchState() SearchState {
	return SearchState{
		Filters:  DefaultFilters(),
		Sort:     SortNewest,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// SetFilters replaces the filter state and resets the page to 1.
func (s *SearchState) SetFilters(filters FilterState) {
	s.Filters = filters
	s.Page = 1
}

// SetSort changes the ordering. Sorting never changes the result count, so
// the current page stays in range and is kept.
func (s *SearchState) SetSort(key SortKey) {
	s.Sort = key
}

// SetPage moves to the given page without touching the filters.
func (s *SearchState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// Run applies the filter, sort and paginate pipeline to a fetched collection.
// The pipeline is pure; the input slice is never mutated.
func (s SearchState) Run(listings []models.Listing) Page {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	filtered := FilterListings(listings, s.Filters)
	sorted := SortListings(filtered, s.Sort)
	return Paginate(sorted, s.Page, pageSize)
}
