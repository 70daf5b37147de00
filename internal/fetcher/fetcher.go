// Package fetcher owns the wholesale listing fetch feeding the search
// pipeline. It degrades to an empty collection on any provider failure and
// carries a generation counter so a slow stale response can never overwrite
// the result of a later fetch.
package fetcher

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"loftonrealty/server/internal/models"
)

// ListingProvider produces the full catalog for a market, newest first.
type ListingProvider interface {
	FetchListings(ctx context.Context, city string) ([]models.Listing, error)
}

// ListingStore is the read-model subset the store-backed provider needs.
type ListingStore interface {
	GetAllListings(city string) ([]models.Listing, error)
}

// StoreProvider serves the catalog from the local read model.
type StoreProvider struct {
	store ListingStore
}

func NewStoreProvider(store ListingStore) *StoreProvider {
	return &StoreProvider{store: store}
}

func (p *StoreProvider) FetchListings(_ context.Context, city string) ([]models.Listing, error) {
	return p.store.GetAllListings(city)
}

// Fetcher holds the current collection for a view. Refresh replaces it; a
// refresh that was started earlier but finishes later is dropped.
type Fetcher struct {
	provider ListingProvider
	logger   *logrus.Logger

	mu      sync.Mutex
	gen     uint64
	current []models.Listing
}

func NewFetcher(provider ListingProvider, logger *logrus.Logger) *Fetcher {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Fetcher{
		provider: provider,
		logger:   logger,
		current:  []models.Listing{},
	}
}

// Refresh fetches the market's collection and installs it as current. On
// provider failure the result degrades to an empty collection; the page
// shows "no results" instead of an error. The returned slice is what got
// installed, which is the previous collection if this refresh went stale.
func (f *Fetcher) Refresh(ctx context.Context, city string) []models.Listing {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	listings, err := f.provider.FetchListings(ctx, city)
	if err != nil {
		f.logger.WithError(err).WithField("city", city).Error("Failed to fetch listings")
		listings = []models.Listing{}
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		// A newer refresh already completed or is in flight.
		f.logger.WithFields(logrus.Fields{
			"city":       city,
			"generation": gen,
			"current":    f.gen,
		}).Debug("Dropping stale listing fetch")
		return f.current
	}
	f.current = listings
	return f.current
}

// Current returns the most recently installed collection.
func (f *Fetcher) Current() []models.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}
