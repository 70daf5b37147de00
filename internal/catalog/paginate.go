package catalog

import "loftonrealty/server/internal/models"

// DefaultPageSize is the number of listing cards per grid page.
const DefaultPageSize = 6

// Page is one slice of an ordered result set.
type Page struct {
	Items      []models.Listing `json:"items"`
	Number     int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	TotalItems int              `json:"total_items"`
}

// Paginate splits listings into fixed-size pages and returns the 1-based
// page requested. A page beyond the last yields an empty slice; callers own
// clamping the page number into range.
func Paginate(listings []models.Listing, page, pageSize int) Page {
	result := Page{
		Items:      []models.Listing{},
		Number:     page,
		TotalItems: len(listings),
	}
	if pageSize <= 0 {
		return result
	}

	result.TotalPages = (len(listings) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if page < 1 || start >= len(listings) {
		return result
	}
	end := start + pageSize
	if end > len(listings) {
		end = len(listings)
	}
	result.Items = listings[start:end]
	return result
}
