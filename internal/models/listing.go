package models

import "time"

// ListingStatus is the marketing status of a listing.
type ListingStatus string

const (
	StatusForSale    ListingStatus = "For Sale"
	StatusForRent    ListingStatus = "For Rent"
	StatusSold       ListingStatus = "Sold"
	StatusRented     ListingStatus = "Rented"
	StatusNewListing ListingStatus = "New Listing"
	StatusPending    ListingStatus = "Pending"
	StatusPriceDrop  ListingStatus = "Price Drop"
)

// PropertyType is the structural category of a listing.
type PropertyType string

const (
	TypeHouse     PropertyType = "House"
	TypeCondo     PropertyType = "Condo"
	TypeApartment PropertyType = "Apartment"
	TypeTownhouse PropertyType = "Townhouse"
	TypeLand      PropertyType = "Land"
	TypeOther     PropertyType = "Other"
)

// PropertyTypes lists every recognized property type.
var PropertyTypes = []PropertyType{
	TypeHouse, TypeCondo, TypeApartment, TypeTownhouse, TypeLand, TypeOther,
}

// Listing is one property record in the catalog. The ID is unique within a
// fetched collection; price, beds, baths and sqft are non-negative.
type Listing struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Price       int           `json:"price"`
	Street      string        `json:"street"`
	City        string        `json:"city"`
	State       string        `json:"state"`
	Zip         string        `json:"zip"`
	Beds        int           `json:"beds"`
	Baths       int           `json:"baths"`
	Sqft        int           `json:"sqft"`
	Status      ListingStatus `json:"status"`
	Type        PropertyType  `json:"type"`
	Description string        `json:"description,omitempty"`
	Features    []string      `json:"features,omitempty"`
	Images      []string      `json:"images,omitempty"`
	MLSID       string        `json:"mls_id,omitempty"`
	YearBuilt   *int          `json:"year_built,omitempty"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ValidStatus reports whether s is one of the recognized listing statuses.
func ValidStatus(s string) bool {
	switch ListingStatus(s) {
	case StatusForSale, StatusForRent, StatusSold, StatusRented,
		StatusNewListing, StatusPending, StatusPriceDrop:
		return true
	}
	return false
}

// ValidPropertyType reports whether s is one of the recognized property types.
func ValidPropertyType(s string) bool {
	for _, t := range PropertyTypes {
		if PropertyType(s) == t {
			return true
		}
	}
	return false
}
