package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const nominatimURL = "https://nominatim.openstreetmap.org/search"

// Address is a US street address to resolve into coordinates.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s, USA", a.Street, a.City, a.State, a.Zip)
}

// key is the cache identity; it must be stable across runs.
func (a Address) key() string {
	return strings.Join([]string{a.Street, a.City, a.State, a.Zip}, "|")
}

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves addresses through Nominatim with an on-disk cache so
// repeated syncs do not re-query the same listings.
type Geocoder struct {
	logger    *logrus.Logger
	baseURL   string
	cacheDir  string
	cache     map[string]Coordinates
	cacheLock sync.RWMutex
	client    *http.Client
	// Minimum spacing between upstream requests per Nominatim's usage policy
	requestGap time.Duration
}

func NewGeocoder(logger *logrus.Logger, cacheDir string) *Geocoder {
	os.MkdirAll(cacheDir, 0755)

	g := &Geocoder{
		logger:     logger,
		baseURL:    nominatimURL,
		cacheDir:   cacheDir,
		cache:      make(map[string]Coordinates),
		client:     &http.Client{Timeout: 10 * time.Second},
		requestGap: time.Second,
	}
	g.loadCache()
	return g
}

func (g *Geocoder) cacheFile() string {
	return filepath.Join(g.cacheDir, "geocode_cache.json")
}

func (g *Geocoder) loadCache() {
	data, err := os.ReadFile(g.cacheFile())
	if err != nil {
		g.logger.Warnf("Could not load geocode cache: %v", err)
		return
	}

	if err := json.Unmarshal(data, &g.cache); err != nil {
		g.logger.Errorf("Failed to parse geocode cache: %v", err)
		return
	}

	g.logger.Infof("Loaded %d cached addresses", len(g.cache))
}

func (g *Geocoder) saveCache() {
	g.cacheLock.RLock()
	data, err := json.Marshal(g.cache)
	g.cacheLock.RUnlock()
	if err != nil {
		g.logger.Errorf("Failed to marshal geocode cache: %v", err)
		return
	}

	if err := os.WriteFile(g.cacheFile(), data, 0644); err != nil {
		g.logger.Errorf("Failed to save geocode cache: %v", err)
		return
	}

	g.logger.Info("Saved geocode cache to disk")
}

func (g *Geocoder) cached(addr Address) (Coordinates, bool) {
	g.cacheLock.RLock()
	defer g.cacheLock.RUnlock()
	coords, ok := g.cache[addr.key()]
	return coords, ok
}

func (g *Geocoder) remember(addr Address, coords Coordinates) {
	g.cacheLock.Lock()
	g.cache[addr.key()] = coords
	g.cacheLock.Unlock()

	go g.saveCache()
}

type nominatimResponse []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address, serving repeats from the cache. Upstream
// lookups are spaced out and honor ctx cancellation.
func (g *Geocoder) Geocode(ctx context.Context, addr Address) (Coordinates, error) {
	if coords, ok := g.cached(addr); ok {
		g.logger.WithFields(logrus.Fields{
			"address":   addr.String(),
			"latitude":  coords.Lat,
			"longitude": coords.Lon,
			"source":    "cache",
		}).Info("Found coordinates in cache")
		return coords, nil
	}

	g.logger.WithField("address", addr.String()).Info("Geocoding address with Nominatim")

	if g.requestGap > 0 {
		timer := time.NewTimer(g.requestGap)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Coordinates{}, ctx.Err()
		case <-timer.C:
		}
	}

	coords, err := g.lookup(ctx, addr)
	if err != nil {
		g.logger.WithError(err).WithField("address", addr.String()).Error("Geocoding failed")
		return Coordinates{}, err
	}

	g.logger.WithFields(logrus.Fields{
		"address":   addr.String(),
		"latitude":  coords.Lat,
		"longitude": coords.Lon,
		"source":    "nominatim",
	}).Info("Successfully geocoded address")

	g.remember(addr, coords)
	return coords, nil
}

func (g *Geocoder) lookup(ctx context.Context, addr Address) (Coordinates, error) {
	params := url.Values{
		"q":              []string{addr.String()},
		"format":         []string{"json"},
		"limit":          []string{"1"},
		"countrycodes":   []string{"us"},
		"addressdetails": []string{"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", "Lofton Realty Listings/1.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result) == 0 {
		return Coordinates{}, fmt.Errorf("no results found for address: %s", addr.String())
	}

	lat, err := strconv.ParseFloat(result[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude %q: %w", result[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(result[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude %q: %w", result[0].Lon, err)
	}

	return Coordinates{Lat: lat, Lon: lon}, nil
}
