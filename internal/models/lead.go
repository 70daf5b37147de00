package models

import "time"

// Lead is a contact-form submission from a prospective buyer or seller.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	Interest  string    `json:"interest"`
	Message   string    `json:"message"`
	ListingID string    `json:"listing_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LeadRequest is the incoming contact-form payload.
type LeadRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Interest  string `json:"interest"`
	Message   string `json:"message"`
	ListingID string `json:"listing_id"`
}

// Account is the authenticated user context threaded through favorite
// operations. A nil *Account means no one is signed in.
type Account struct {
	UID   string `json:"uid"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// MarketArea groups cities into a named market for the locations page.
type MarketArea struct {
	ID     int64    `json:"id,omitempty"`
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

// MarketConfig is the on-disk market area configuration.
type MarketConfig struct {
	MarketAreas []struct {
		Name   string   `json:"name"`
		Cities []string `json:"cities"`
	} `json:"market_areas"`
}
