package database

import "fmt"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			title TEXT,
			price INTEGER DEFAULT 0,
			street TEXT,
			city TEXT,
			state TEXT,
			zip TEXT,
			beds INTEGER DEFAULT 0,
			baths INTEGER DEFAULT 0,
			sqft INTEGER DEFAULT 0,
			status TEXT,
			type TEXT,
			description TEXT,
			features TEXT,
			images TEXT,
			mls_id TEXT,
			year_built INTEGER,
			latitude REAL,
			longitude REAL,
			geocoding_attempted BOOLEAN DEFAULT 0,
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create listings table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			location TEXT,
			interest TEXT,
			message TEXT,
			listing_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create leads table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_city
		ON listings(city);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_created_at
		ON listings(created_at);
	`)
	if err != nil {
		return err
	}

	// Spatial index for the market-area hull queries
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_coordinates
		ON listings(latitude, longitude);
	`)
	if err != nil {
		return err
	}

	return nil
}
