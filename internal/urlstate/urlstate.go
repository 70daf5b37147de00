// Package urlstate maps the active filter state to and from the query string
// so a filtered catalog view survives reload and sharing. Only the fixed
// recognized keys (location, status, min, max) round-trip; bed/bath floors
// and the type set are deliberately kept out of the URL.
package urlstate

import (
	"net/url"
	"strconv"

	"github.com/gorilla/schema"

	"loftonrealty/server/internal/catalog"
	"loftonrealty/server/internal/models"
)

// queryParams mirrors the recognized query keys. Numeric values are decoded
// as strings so a malformed number degrades to "absent" instead of failing
// the whole decode.
type queryParams struct {
	Location string `schema:"location"`
	Status   string `schema:"status"`
	Min      string `schema:"min"`
	Max      string `schema:"max"`
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ParseQuery seeds a FilterState from the query string. Unrecognized keys
// are ignored; malformed or negative numeric values are treated as absent so
// a bad link never over-filters the catalog.
func ParseQuery(values url.Values) catalog.FilterState {
	filters := catalog.DefaultFilters()

	var params queryParams
	if err := decoder.Decode(&params, values); err != nil {
		return filters
	}

	filters.Location = params.Location
	if models.ValidStatus(params.Status) {
		filters.Status = params.Status
	}
	filters.MinPrice = parsePrice(params.Min)
	filters.MaxPrice = parsePrice(params.Max)
	return filters
}

// EncodeQuery serializes a FilterState, writing only the parameters whose
// value differs from the unconstrained default. The default state encodes to
// an empty query string.
func EncodeQuery(filters catalog.FilterState) url.Values {
	values := url.Values{}
	if filters.Location != "" {
		values.Set("location", filters.Location)
	}
	if filters.Status != "" && filters.Status != catalog.StatusAll {
		values.Set("status", filters.Status)
	}
	if filters.MinPrice != nil {
		values.Set("min", strconv.Itoa(*filters.MinPrice))
	}
	if filters.MaxPrice != nil {
		values.Set("max", strconv.Itoa(*filters.MaxPrice))
	}
	return values
}

func parsePrice(raw string) *int {
	if raw == "" {
		return nil
	}
	price, err := strconv.Atoi(raw)
	if err != nil || price < 0 {
		return nil
	}
	return &price
}
