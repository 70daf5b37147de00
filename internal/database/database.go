package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"loftonrealty/server/internal/geocoding"
	"loftonrealty/server/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GetAllListings returns the full catalog for a market, newest first. The
// ordering is part of the fetch contract consumed by the search pipeline.
func (d *Database) GetAllListings(city string) ([]models.Listing, error) {
	query := `
        SELECT
            id,
            title,
            price,
            street,
            city,
            state,
            zip,
            beds,
            baths,
            sqft,
            status,
            type,
            description,
            features,
            images,
            mls_id,
            year_built,
            latitude,
            longitude,
            COALESCE(created_at, CURRENT_TIMESTAMP) as created_at,
            COALESCE(updated_at, CURRENT_TIMESTAMP) as updated_at
        FROM listings
        WHERE (? = '' OR LOWER(city) = LOWER(?))
        ORDER BY created_at DESC
    `

	rows, err := d.db.Query(query, city, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// GetListingByID returns one listing, or nil when it does not exist.
func (d *Database) GetListingByID(id string) (*models.Listing, error) {
	query := `
        SELECT
            id, title, price, street, city, state, zip, beds, baths, sqft,
            status, type, description, features, images, mls_id, year_built,
            latitude, longitude,
            COALESCE(created_at, CURRENT_TIMESTAMP) as created_at,
            COALESCE(updated_at, CURRENT_TIMESTAMP) as updated_at
        FROM listings
        WHERE id = ?
    `

	rows, err := d.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	listing, err := scanListing(rows)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetCities returns the distinct cities present in the catalog, sorted.
func (d *Database) GetCities() ([]string, error) {
	rows, err := d.db.Query(`
        SELECT DISTINCT city FROM listings
        WHERE city IS NOT NULL AND city != ''
        ORDER BY city
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// InsertLead stores a contact-form submission.
func (d *Database) InsertLead(lead *models.Lead) error {
	_, err := d.db.Exec(`
        INSERT INTO leads (id, name, email, phone, location, interest, message, listing_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Location,
		lead.Interest,
		lead.Message,
		lead.ListingID,
		lead.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// UpdateMissingCoordinates geocodes listings without coordinates so the
// market-area hulls can include them.
func (d *Database) UpdateMissingCoordinates(ctx context.Context, geocoder *geocoding.Geocoder) error {
	rows, err := d.db.Query(`
        SELECT id, street, city, state, zip
        FROM listings
        WHERE (latitude IS NULL OR longitude IS NULL)
        AND geocoding_attempted = 0
        AND street != '' AND city != ''
    `)
	if err != nil {
		return fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	type pending struct {
		id, street, city, state, zip string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.street, &p.city, &p.state, &p.zip); err != nil {
			return fmt.Errorf("failed to scan listing: %w", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range todo {
		coords, err := geocoder.Geocode(ctx, geocoding.Address{
			Street: p.street,
			City:   p.city,
			State:  p.state,
			Zip:    p.zip,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Mark as attempted so the next run skips it.
			if _, markErr := d.db.Exec(
				"UPDATE listings SET geocoding_attempted = 1 WHERE id = ?", p.id,
			); markErr != nil {
				return fmt.Errorf("failed to mark geocoding attempt: %w", markErr)
			}
			continue
		}

		_, err = d.db.Exec(`
            UPDATE listings
            SET latitude = ?, longitude = ?, geocoding_attempted = 1
            WHERE id = ?
        `, coords.Lat, coords.Lon, p.id)
		if err != nil {
			return fmt.Errorf("failed to update coordinates: %w", err)
		}
	}

	return nil
}

type listingScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(rows listingScanner) (models.Listing, error) {
	var l models.Listing
	var title, street, city, state, zip sql.NullString
	var status, propertyType, description, featuresJSON, imagesJSON, mlsID sql.NullString
	var createdAt, updatedAt sql.NullString
	var price, beds, baths, sqft sql.NullInt64
	var yearBuilt sql.NullInt64
	var latitude, longitude sql.NullFloat64

	err := rows.Scan(
		&l.ID,
		&title,
		&price,
		&street,
		&city,
		&state,
		&zip,
		&beds,
		&baths,
		&sqft,
		&status,
		&propertyType,
		&description,
		&featuresJSON,
		&imagesJSON,
		&mlsID,
		&yearBuilt,
		&latitude,
		&longitude,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return l, err
	}

	if title.Valid {
		l.Title = title.String
	}
	if street.Valid {
		l.Street = street.String
	}
	if city.Valid {
		l.City = city.String
	}
	if state.Valid {
		l.State = state.String
	}
	if zip.Valid {
		l.Zip = zip.String
	}
	if status.Valid {
		l.Status = models.ListingStatus(status.String)
	}
	if propertyType.Valid {
		l.Type = models.PropertyType(propertyType.String)
	}
	if description.Valid {
		l.Description = description.String
	}
	if mlsID.Valid {
		l.MLSID = mlsID.String
	}

	if price.Valid {
		l.Price = int(price.Int64)
	}
	if beds.Valid {
		l.Beds = int(beds.Int64)
	}
	if baths.Valid {
		l.Baths = int(baths.Int64)
	}
	if sqft.Valid {
		l.Sqft = int(sqft.Int64)
	}
	if yearBuilt.Valid {
		yb := int(yearBuilt.Int64)
		l.YearBuilt = &yb
	}
	if latitude.Valid {
		lat := latitude.Float64
		l.Latitude = &lat
	}
	if longitude.Valid {
		lon := longitude.Float64
		l.Longitude = &lon
	}

	if featuresJSON.Valid && featuresJSON.String != "" {
		_ = json.Unmarshal([]byte(featuresJSON.String), &l.Features)
	}
	if imagesJSON.Valid && imagesJSON.String != "" {
		_ = json.Unmarshal([]byte(imagesJSON.String), &l.Images)
	}

	if createdAt.Valid && createdAt.String != "" {
		if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
			l.CreatedAt = t
		}
	}
	if updatedAt.Valid && updatedAt.String != "" {
		if t, err := time.Parse(time.RFC3339, updatedAt.String); err == nil {
			l.UpdatedAt = t
		}
	}

	return l, nil
}
