package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP server
	Port string `env:"PORT" envDefault:"5250"`

	// SQLite read model
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/listings.db"`

	// Firebase project backing listings, accounts and saved sets
	Firebase struct {
		ProjectID       string `env:"FIREBASE_PROJECT_ID"`
		CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
		// Firestore collection holding the listing documents
		ListingsCollection string `env:"FIREBASE_LISTINGS_COLLECTION" envDefault:"properties"`
	}

	// Optional Redis snapshot cache in front of the read model
	Redis struct {
		Enabled bool   `env:"REDIS_ENABLED" envDefault:"false"`
		Addr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		// Snapshot TTL in seconds
		TTL int `env:"REDIS_SNAPSHOT_TTL" envDefault:"300"`
	}

	// Catalog sync scheduling
	Sync struct {
		// Minutes between catalog refreshes
		IntervalMinutes int `env:"SYNC_INTERVAL_MINUTES" envDefault:"60"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of listings to accumulate before processing
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Telegram lead alerts
	Telegram struct {
		Enabled  bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
