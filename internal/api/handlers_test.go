package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loftonrealty/server/internal/database"
	"loftonrealty/server/internal/favorites"
	"loftonrealty/server/internal/fetcher"
	"loftonrealty/server/internal/leads"
	"loftonrealty/server/internal/models"
)

type stubProvider struct {
	listings []models.Listing
}

func (p *stubProvider) FetchListings(_ context.Context, _ string) ([]models.Listing, error) {
	return p.listings, nil
}

type memorySavedStore struct {
	saved map[string]map[string]bool
	fail  bool
}

func newMemorySavedStore() *memorySavedStore {
	return &memorySavedStore{saved: make(map[string]map[string]bool)}
}

func (m *memorySavedStore) IsSaved(_ context.Context, accountID, listingID string) (bool, error) {
	return m.saved[accountID][listingID], nil
}

func (m *memorySavedStore) SetSaved(_ context.Context, accountID, listingID string, saved bool) error {
	if m.fail {
		return errors.New("store unavailable")
	}
	if m.saved[accountID] == nil {
		m.saved[accountID] = make(map[string]bool)
	}
	m.saved[accountID][listingID] = saved
	return nil
}

func (m *memorySavedStore) ListSaved(_ context.Context, accountID string) ([]string, error) {
	var ids []string
	for id, on := range m.saved[accountID] {
		if on {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type stubVerifier struct {
	uid string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*firebaseauth.Token, error) {
	if idToken != "valid" {
		return nil, errors.New("invalid token")
	}
	return &firebaseauth.Token{UID: s.uid, Claims: map[string]interface{}{}}, nil
}

type apiFixture struct {
	router *gin.Engine
	db     *database.Database
	store  *memorySavedStore
}

func testListings(n int) []models.Listing {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	listings := make([]models.Listing, n)
	for i := 0; i < n; i++ {
		listings[i] = models.Listing{
			ID:        fmt.Sprintf("listing-%d", i),
			Title:     fmt.Sprintf("Listing %d", i),
			Price:     200000 + i*50000,
			City:      "Houston",
			State:     "TX",
			Beds:      3,
			Baths:     2,
			Sqft:      1500 + i*100,
			Status:    models.StatusForSale,
			Type:      models.TypeHouse,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return listings
}

func newAPIFixture(t *testing.T, listings []models.Listing) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	store := newMemorySavedStore()
	coordinator := favorites.NewCoordinator(store, logger)
	catalogFetcher := fetcher.NewFetcher(&stubProvider{listings: listings}, logger)
	catalogFetcher.Refresh(context.Background(), "")

	leadService := leads.NewService(db, nil, logger)

	handler := NewHandler(db, catalogFetcher, coordinator, leadService, logger)

	router := gin.New()
	SetupRoutes(router, handler, &stubVerifier{uid: "user-1"}, logger)

	return &apiFixture{router: router, db: db, store: store}
}

func (f *apiFixture) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func TestGetListingsDefaultPage(t *testing.T) {
	f := newAPIFixture(t, testListings(8))

	w, body := f.request(t, http.MethodGet, "/api/listings", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(2), body["total_pages"])
	assert.Equal(t, float64(8), body["total_items"])
	assert.Equal(t, "newest", body["sort"])
	assert.Equal(t, "", body["query"])
	assert.Len(t, body["listings"], 6)

	// Newest first
	listings := body["listings"].([]interface{})
	first := listings[0].(map[string]interface{})
	assert.Equal(t, "listing-7", first["id"])
}

func TestGetListingsFilteredAndSorted(t *testing.T) {
	f := newAPIFixture(t, testListings(8))

	w, body := f.request(t, http.MethodGet, "/api/listings?min=400000&sort=price-asc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Prices run 200k..550k in 50k steps; 400k and up leaves four
	assert.Equal(t, float64(4), body["total_items"])
	assert.Equal(t, "price-asc", body["sort"])
	assert.Equal(t, "min=400000", body["query"])

	listings := body["listings"].([]interface{})
	first := listings[0].(map[string]interface{})
	assert.Equal(t, float64(400000), first["price"])
}

func TestGetListingsOutOfRangePage(t *testing.T) {
	f := newAPIFixture(t, testListings(8))

	w, body := f.request(t, http.MethodGet, "/api/listings?page=9", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, float64(9), body["page"])
	assert.Empty(t, body["listings"])
}

func TestGetListingNotFound(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, _ := f.request(t, http.MethodGet, "/api/listings/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleFavoriteRequiresAuth(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, body := f.request(t, http.MethodPost, "/api/listings/abc/favorite", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", body["redirect"])
}

func TestToggleFavoriteSignedIn(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, body := f.request(t, http.MethodPost, "/api/listings/abc/favorite", nil, "valid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["saved"])

	w, body = f.request(t, http.MethodPost, "/api/listings/abc/favorite", nil, "valid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["saved"])
}

func TestToggleFavoriteStoreFailure(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.store.fail = true

	w, body := f.request(t, http.MethodPost, "/api/listings/abc/favorite", nil, "valid")
	require.Equal(t, http.StatusBadGateway, w.Code)

	// The optimistic flip was rolled back
	assert.Equal(t, false, body["saved"])
}

func TestGetFavorites(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, _ := f.request(t, http.MethodGet, "/api/favorites", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, _ = f.request(t, http.MethodPost, "/api/listings/abc/favorite", nil, "valid")

	w, body := f.request(t, http.MethodGet, "/api/favorites", nil, "valid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"abc"}, body["listing_ids"])
}

func TestCreateLead(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, body := f.request(t, http.MethodPost, "/api/leads", map[string]string{
		"name":  "Jordan Reyes",
		"email": "jordan@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, body["id"])
}

func TestCreateLeadInvalid(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, _ := f.request(t, http.MethodPost, "/api/leads", map[string]string{
		"name": "No Email",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMarkets(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, _ := f.request(t, http.MethodGet, "/api/markets", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Houston")

	w, _ = f.request(t, http.MethodGet, "/api/markets/Houston", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.request(t, http.MethodGet, "/api/markets/Chicago", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTriggerSyncUnconfigured(t *testing.T) {
	f := newAPIFixture(t, nil)

	w, _ := f.request(t, http.MethodPost, "/api/sync", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
