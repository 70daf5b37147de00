package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loftonrealty/server/internal/models"
)

// listingRow is the gorm mapping of the listings table used by the batch
// ingest path. The read path stays on database/sql.
type listingRow struct {
	ID                 string `gorm:"primaryKey"`
	Title              string
	Price              int
	Street             string
	City               string
	State              string
	Zip                string
	Beds               int
	Baths              int
	Sqft               int
	Status             string
	Type               string
	Description        string
	Features           string
	Images             string
	MlsID              string `gorm:"column:mls_id"`
	YearBuilt          *int
	Latitude           *float64
	Longitude          *float64
	GeocodingAttempted bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (listingRow) TableName() string {
	return "listings"
}

// UpsertListings writes a batch of listings inside the given transaction,
// replacing any previous revision of the same listing id. Coordinates and
// the geocoding marker are left untouched so a re-sync does not throw away
// geocoder work.
func UpsertListings(tx *gorm.DB, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	rows := make([]listingRow, 0, len(listings))
	for _, l := range listings {
		row, err := toRow(l)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "price", "street", "city", "state", "zip",
			"beds", "baths", "sqft", "status", "type", "description",
			"features", "images", "mls_id", "year_built", "updated_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert listings: %w", err)
	}
	return nil
}

func toRow(l *models.Listing) (listingRow, error) {
	features, err := json.Marshal(l.Features)
	if err != nil {
		return listingRow{}, fmt.Errorf("failed to marshal features: %w", err)
	}
	images, err := json.Marshal(l.Images)
	if err != nil {
		return listingRow{}, fmt.Errorf("failed to marshal images: %w", err)
	}

	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := l.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return listingRow{
		ID:          l.ID,
		Title:       l.Title,
		Price:       l.Price,
		Street:      l.Street,
		City:        l.City,
		State:       l.State,
		Zip:         l.Zip,
		Beds:        l.Beds,
		Baths:       l.Baths,
		Sqft:        l.Sqft,
		Status:      string(l.Status),
		Type:        string(l.Type),
		Description: l.Description,
		Features:    string(features),
		Images:      string(images),
		MlsID:       l.MLSID,
		YearBuilt:   l.YearBuilt,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
