package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"loftonrealty/server/config"
	"loftonrealty/server/internal/auth"
	"loftonrealty/server/internal/catalog"
	"loftonrealty/server/internal/database"
	"loftonrealty/server/internal/favorites"
	"loftonrealty/server/internal/fetcher"
	"loftonrealty/server/internal/geocoding"
	"loftonrealty/server/internal/geometry"
	"loftonrealty/server/internal/leads"
	"loftonrealty/server/internal/metrics"
	"loftonrealty/server/internal/models"
	"loftonrealty/server/internal/urlstate"
)

// CatalogSyncer triggers an on-demand pull from the system of record.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context) error
}

type Handler struct {
	db          *database.Database
	logger      *logrus.Logger
	fetcher     *fetcher.Fetcher
	coordinator *favorites.Coordinator
	leadService *leads.Service
	geocoder    *geocoding.Geocoder
	areaManager *geometry.AreaManager
	syncer      CatalogSyncer
}

func NewHandler(db *database.Database, f *fetcher.Fetcher, coordinator *favorites.Coordinator, leadService *leads.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	cacheDir := filepath.Join(os.TempDir(), "loftonrealty", "geocode_cache")

	return &Handler{
		db:          db,
		logger:      logger,
		fetcher:     f,
		coordinator: coordinator,
		leadService: leadService,
		geocoder:    geocoding.NewGeocoder(logger, cacheDir),
		areaManager: geometry.NewAreaManager(db.GetDB(), logger),
	}
}

// SetSyncer wires the on-demand catalog sync trigger.
func (h *Handler) SetSyncer(syncer CatalogSyncer) {
	h.syncer = syncer
}

// GetListings serves the filtered, sorted and paginated catalog view. The
// response carries the canonical query string for the applied filters so
// clients can keep their address bar in sync.
func (h *Handler) GetListings(c *gin.Context) {
	filters := urlstate.ParseQuery(c.Request.URL.Query())

	state := catalog.NewSearchState()
	state.SetFilters(filters)
	state.SetSort(catalog.ParseSortKey(c.Query("sort")))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		state.SetPage(page)
	}

	listings := h.fetcher.Refresh(c.Request.Context(), "")
	result := state.Run(listings)
	metrics.SearchesTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"listings":    result.Items,
		"page":        result.Number,
		"total_pages": result.TotalPages,
		"total_items": result.TotalItems,
		"sort":        string(state.Sort),
		"query":       urlstate.EncodeQuery(filters).Encode(),
	})
}

// GetListing serves a single listing by ID.
func (h *Handler) GetListing(c *gin.Context) {
	id := c.Param("id")
	listing, err := h.db.GetListingByID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	saved := h.coordinator.Resolve(c.Request.Context(), auth.AccountFrom(c), listing.ID)
	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
		"saved":   saved,
	})
}

// ToggleFavorite flips the saved state of a listing for the signed-in
// account. Anonymous requests get a 401 with a login redirect hint.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	id := c.Param("id")
	account := auth.AccountFrom(c)

	saved, err := h.coordinator.Toggle(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, favorites.ErrAuthRequired) {
			metrics.FavoriteTogglesTotal.WithLabelValues("unauthenticated").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Sign in to save listings",
				"redirect": "/login",
			})
			return
		}

		// The toggle was rolled back; tell the client the settled state
		metrics.FavoriteTogglesTotal.WithLabelValues("reverted").Inc()
		h.logger.WithError(err).Error("Failed to persist favorite toggle")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to save change",
			"saved": saved,
		})
		return
	}

	metrics.FavoriteTogglesTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"id":    id,
		"saved": saved,
	})
}

// GetFavorites lists the signed-in account's saved listing IDs.
func (h *Handler) GetFavorites(c *gin.Context) {
	account := auth.AccountFrom(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "Sign in to view saved listings",
			"redirect": "/login",
		})
		return
	}

	ids := h.coordinator.ListSaved(c.Request.Context(), account)
	c.JSON(http.StatusOK, gin.H{"listing_ids": ids})
}

// CreateLead stores a contact-form submission and alerts the agents.
func (h *Handler) CreateLead(c *gin.Context) {
	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse lead request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	lead, err := h.leadService.Submit(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to store lead")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store lead"})
		return
	}

	metrics.LeadsTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"id": lead.ID})
}

// GetCities lists the cities present in the catalog.
func (h *Handler) GetCities(c *gin.Context) {
	cities, err := h.db.GetCities()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get cities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cities"})
		return
	}

	c.JSON(http.StatusOK, cities)
}

// GetMarkets lists the supported markets with their map centers.
func (h *Handler) GetMarkets(c *gin.Context) {
	c.JSON(http.StatusOK, config.SupportedMarkets)
}

// GetMarket returns a single supported market by name.
func (h *Handler) GetMarket(c *gin.Context) {
	name := c.Param("name")
	market := config.GetMarketByName(name)
	if market == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Market not found"})
		return
	}
	c.JSON(http.StatusOK, market)
}

// GetMarketAreas lists the configured market areas and their cities. With
// ?name= it returns just that area.
func (h *Handler) GetMarketAreas(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		area := config.GetMarketAreaByName(name)
		if area == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Market area not found"})
			return
		}
		c.JSON(http.StatusOK, area)
		return
	}

	c.JSON(http.StatusOK, config.GetMarketAreas())
}

// GetAreaHulls serves per-city boundary polygons built from listing
// coordinates, as a GeoJSON feature collection.
func (h *Handler) GetAreaHulls(c *gin.Context) {
	fc, err := h.areaManager.BuildAreaHulls()
	if err != nil {
		h.logger.WithError(err).Error("Failed to build area hulls")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build area hulls"})
		return
	}

	c.JSON(http.StatusOK, fc)
}

// UpdateCoordinates geocodes listings that are missing coordinates.
func (h *Handler) UpdateCoordinates(c *gin.Context) {
	err := h.db.UpdateMissingCoordinates(c.Request.Context(), h.geocoder)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update coordinates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coordinates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Coordinates update process started",
	})
}

// TriggerSync starts an on-demand catalog pull from the system of record.
func (h *Handler) TriggerSync(c *gin.Context) {
	if h.syncer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog sync is not configured"})
		return
	}

	go func() {
		if err := h.syncer.SyncCatalog(context.Background()); err != nil {
			h.logger.WithError(err).Error("On-demand catalog sync failed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "Catalog sync started",
	})
}
