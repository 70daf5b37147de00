package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"loftonrealty/server/internal/models"
)

func makeListings(n int) []models.Listing {
	listings := make([]models.Listing, n)
	for i := range listings {
		listings[i] = models.Listing{ID: fmt.Sprintf("prop-%d", i)}
	}
	return listings
}

func TestPaginateBounds(t *testing.T) {
	listings := makeListings(14)

	page := Paginate(listings, 1, DefaultPageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 14, page.TotalItems)
	assert.Len(t, page.Items, 6)
	assert.Equal(t, "prop-0", page.Items[0].ID)

	page = Paginate(listings, 3, DefaultPageSize)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "prop-12", page.Items[0].ID)

	// Page size is never exceeded on any page.
	for p := 1; p <= page.TotalPages; p++ {
		assert.LessOrEqual(t, len(Paginate(listings, p, DefaultPageSize).Items), DefaultPageSize)
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate([]models.Listing{}, 1, DefaultPageSize)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Items)
}

func TestPaginateOutOfRange(t *testing.T) {
	listings := makeListings(6)

	// Beyond the last page: empty slice, no clamping.
	page := Paginate(listings, 2, DefaultPageSize)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 2, page.Number)

	page = Paginate(listings, 0, DefaultPageSize)
	assert.Empty(t, page.Items)

	page = Paginate(listings, -1, DefaultPageSize)
	assert.Empty(t, page.Items)
}

func TestPaginateExactMultiple(t *testing.T) {
	page := Paginate(makeListings(12), 2, DefaultPageSize)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 6)
	assert.Equal(t, "prop-11", page.Items[5].ID)
}
