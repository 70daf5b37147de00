package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loftonrealty/server/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func sampleListing() models.Listing {
	return models.Listing{
		ID:     "prop-1",
		City:   "Houston",
		Price:  450000,
		Beds:   3,
		Baths:  2,
		Sqft:   2100,
		Status: models.StatusForSale,
		Type:   models.TypeHouse,
	}
}

func TestFilterStateDefaults(t *testing.T) {
	assert.True(t, DefaultFilters().IsDefault())
	assert.True(t, FilterState{}.IsDefault())

	f := DefaultFilters()
	f.Location = "Houston"
	assert.False(t, f.IsDefault())
}

func TestMatchesEachFacet(t *testing.T) {
	listing := sampleListing()

	tests := []struct {
		name    string
		filters FilterState
		want    bool
	}{
		{"no constraints", DefaultFilters(), true},
		{"status match", FilterState{Status: "For Sale"}, true},
		{"status mismatch", FilterState{Status: "For Rent"}, false},
		{"status all", FilterState{Status: StatusAll}, true},
		{"city match", FilterState{Location: "Houston"}, true},
		{"city mismatch", FilterState{Location: "Austin"}, false},
		{"min price at boundary", FilterState{MinPrice: intPtr(450000)}, true},
		{"min price above", FilterState{MinPrice: intPtr(450001)}, false},
		{"max price at boundary", FilterState{MaxPrice: intPtr(450000)}, true},
		{"max price below", FilterState{MaxPrice: intPtr(449999)}, false},
		{"beds floor met", FilterState{Beds: 3}, true},
		{"beds floor unmet", FilterState{Beds: 4}, false},
		{"baths floor met", FilterState{Baths: 2}, true},
		{"baths floor unmet", FilterState{Baths: 3}, false},
		{"type match", FilterState{Types: []models.PropertyType{models.TypeHouse}}, true},
		{"type mismatch", FilterState{Types: []models.PropertyType{models.TypeCondo}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Matches(listing))
		})
	}
}

func TestTypeFacetIsDisjunctive(t *testing.T) {
	condo := sampleListing()
	condo.Type = models.TypeCondo

	kept := FilterState{Types: []models.PropertyType{models.TypeCondo, models.TypeHouse}}
	rejected := FilterState{Types: []models.PropertyType{models.TypeHouse}}

	assert.True(t, kept.Matches(condo))
	assert.False(t, rejected.Matches(condo))
}

func TestFacetsComposeConjunctively(t *testing.T) {
	listing := sampleListing()

	// Every facet active and satisfied.
	filters := FilterState{
		Location: "Houston",
		MinPrice: intPtr(400000),
		MaxPrice: intPtr(500000),
		Beds:     3,
		Baths:    2,
		Types:    []models.PropertyType{models.TypeHouse},
		Status:   "For Sale",
	}
	assert.True(t, filters.Matches(listing))

	// Breaking any single facet rejects the listing.
	broken := filters
	broken.MaxPrice = intPtr(400000)
	assert.False(t, broken.Matches(listing))
}

func TestFilterListings(t *testing.T) {
	listings := []models.Listing{
		{ID: "a", City: "Houston", Price: 300000, Status: models.StatusForSale, Type: models.TypeHouse},
		{ID: "b", City: "Austin", Price: 500000, Status: models.StatusForSale, Type: models.TypeCondo},
		{ID: "c", City: "Houston", Price: 700000, Status: models.StatusSold, Type: models.TypeHouse},
	}

	result := FilterListings(listings, FilterState{Location: "Houston"})
	assert.Len(t, result, 2)
	assert.Equal(t, "a", result[0].ID)
	assert.Equal(t, "c", result[1].ID)

	// The input slice is left alone.
	assert.Len(t, listings, 3)

	// No matches yields an empty, non-nil slice.
	result = FilterListings(listings, FilterState{Location: "Galveston"})
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
