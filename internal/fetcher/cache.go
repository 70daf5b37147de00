package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"loftonrealty/server/internal/models"
)

// CachedProvider fronts a ListingProvider with a Redis snapshot per market.
// Cache failures are logged and fall through to the inner provider, never
// surfaced to the caller.
type CachedProvider struct {
	inner  ListingProvider
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedProvider(inner ListingProvider, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedProvider {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &CachedProvider{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(city string) string {
	return fmt.Sprintf("listings:%s", city)
}

func (p *CachedProvider) FetchListings(ctx context.Context, city string) ([]models.Listing, error) {
	key := cacheKey(city)

	payload, err := p.client.Get(ctx, key).Bytes()
	if err == nil {
		var listings []models.Listing
		if err := json.Unmarshal(payload, &listings); err == nil {
			return listings, nil
		}
		p.logger.WithField("key", key).Warn("Discarding corrupt listing snapshot")
	} else if err != redis.Nil {
		p.logger.WithError(err).WithField("key", key).Warn("Listing cache read failed")
	}

	listings, err := p.inner.FetchListings(ctx, city)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(listings); err == nil {
		if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
			p.logger.WithError(err).WithField("key", key).Warn("Listing cache write failed")
		}
	}

	return listings, nil
}

// Invalidate drops the snapshot for a market, used after a catalog sync.
func (p *CachedProvider) Invalidate(ctx context.Context, city string) {
	if err := p.client.Del(ctx, cacheKey(city)).Err(); err != nil {
		p.logger.WithError(err).WithField("city", city).Warn("Listing cache invalidation failed")
	}
}
