package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loftonrealty/server/config"
	"loftonrealty/server/internal/api"
	"loftonrealty/server/internal/auth"
	"loftonrealty/server/internal/database"
	"loftonrealty/server/internal/favorites"
	"loftonrealty/server/internal/fetcher"
	"loftonrealty/server/internal/ingest"
	"loftonrealty/server/internal/leads"
	"loftonrealty/server/internal/metrics"
	"loftonrealty/server/internal/scheduler"
	"loftonrealty/server/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := config.LoadMarketConfig(); err != nil {
		logger.WithError(err).Warn("Failed to load market areas, continuing without them")
	}

	logger.Infof("Using database at: %s", cfg.DatabasePath)

	// Initialize the read model
	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Second handle over the same file for the ingest upserts
	gormDB, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open ingest database handle")
	}

	ctx := context.Background()

	// Firebase backs the hosted catalog, accounts and saved sets
	app, err := auth.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize Firebase")
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Firestore client")
	}
	defer fsClient.Close()

	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Firebase auth client")
	}

	// Favorites
	coordinator := favorites.NewCoordinator(favorites.NewFirestoreStore(fsClient), logger)

	// Lead capture with agent alerts
	telegramService := telegram.NewService(logger)
	telegramService.UpdateConfig(&telegram.Config{
		IsEnabled: cfg.Telegram.Enabled,
		BotToken:  cfg.Telegram.BotToken,
		ChatID:    cfg.Telegram.ChatID,
	})
	leadService := leads.NewService(db, telegramService, logger)

	// Ingest pipeline: Firestore into the queue, batches into SQLite
	listingQueue := ingest.NewListingQueue(cfg.BatchProcessing.MaxBatchSize, logger)
	batchProcessor := ingest.NewBatchProcessor(gormDB, listingQueue, cfg, logger)
	batchProcessor.Start()
	listingQueue.Start()
	defer listingQueue.Close()

	source := ingest.NewFirestoreSource(fsClient, cfg.Firebase.ListingsCollection, listingQueue, cfg.BatchProcessing.MaxBatchSize, logger)

	// Catalog fetcher, optionally fronted by a Redis snapshot cache
	var provider fetcher.ListingProvider = fetcher.NewStoreProvider(db)
	var cached *fetcher.CachedProvider
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		cached = fetcher.NewCachedProvider(provider, redisClient, time.Duration(cfg.Redis.TTL)*time.Second, logger)
		provider = cached
	}
	catalogFetcher := fetcher.NewFetcher(provider, logger)

	// Periodic catalog refresh
	syncScheduler := scheduler.NewScheduler(source, time.Duration(cfg.Sync.IntervalMinutes)*time.Minute, logger)
	syncScheduler.SetAfterSync(func(ctx context.Context) {
		if cached != nil {
			cached.Invalidate(ctx, "")
		}
		listings := catalogFetcher.Refresh(ctx, "")
		metrics.CatalogListings.Set(float64(len(listings)))
	})
	syncScheduler.Start()
	defer syncScheduler.Stop()

	handler := api.NewHandler(db, catalogFetcher, coordinator, leadService, logger)
	handler.SetSyncer(source)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api.SetupRoutes(router, handler, authClient, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced server shutdown")
	}
	batchProcessor.Stop()
}
