package leads

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loftonrealty/server/internal/models"
)

type fakeStore struct {
	inserted []*models.Lead
	listings map[string]*models.Listing
	failNext bool
}

func (f *fakeStore) InsertLead(lead *models.Lead) error {
	if f.failNext {
		f.failNext = false
		return errors.New("disk full")
	}
	f.inserted = append(f.inserted, lead)
	return nil
}

func (f *fakeStore) GetListingByID(id string) (*models.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return l, nil
}

type fakeNotifier struct {
	leads    []*models.Lead
	listings []*models.Listing
	err      error
}

func (f *fakeNotifier) NotifyNewLead(lead *models.Lead, listing *models.Listing) error {
	f.leads = append(f.leads, lead)
	f.listings = append(f.listings, listing)
	return f.err
}

func newTestService(store *fakeStore, notifier *fakeNotifier) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(store, notifier, logger)
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	lead, err := svc.Submit(&models.LeadRequest{
		Name:  "Jordan Reyes",
		Email: "jordan@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())
	require.Len(t, store.inserted, 1)
	require.Len(t, notifier.leads, 1)
	assert.Nil(t, notifier.listings[0])
}

func TestSubmitAttachesListingContext(t *testing.T) {
	listing := &models.Listing{ID: "abc", Title: "Craftsman Bungalow"}
	store := &fakeStore{listings: map[string]*models.Listing{"abc": listing}}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	_, err := svc.Submit(&models.LeadRequest{
		Name:      "Sam Okafor",
		Email:     "sam@example.com",
		ListingID: "abc",
	})
	require.NoError(t, err)
	require.Len(t, notifier.listings, 1)
	assert.Equal(t, listing, notifier.listings[0])
}

func TestSubmitStoreFailure(t *testing.T) {
	store := &fakeStore{failNext: true}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	_, err := svc.Submit(&models.LeadRequest{Name: "x", Email: "x@example.com"})
	require.Error(t, err)

	// No alert for a lead that was never stored
	assert.Empty(t, notifier.leads)
}

func TestSubmitNotifierFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("chat unreachable")}
	svc := newTestService(store, notifier)

	lead, err := svc.Submit(&models.LeadRequest{Name: "x", Email: "x@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, lead)
	require.Len(t, store.inserted, 1)
}
