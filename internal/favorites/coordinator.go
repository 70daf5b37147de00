package favorites

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"loftonrealty/server/internal/models"
)

// ErrAuthRequired is returned when a favorite operation is attempted without
// a signed-in account. Callers translate it into a login redirect; no state
// is changed and no persistence call is made.
var ErrAuthRequired = errors.New("authentication required")

// SavedSetStore is the account collaborator owning the durable saved set.
type SavedSetStore interface {
	IsSaved(ctx context.Context, accountID, listingID string) (bool, error)
	SetSaved(ctx context.Context, accountID, listingID string, saved bool) error
	ListSaved(ctx context.Context, accountID string) ([]string, error)
}

type stateKey struct {
	accountID string
	listingID string
}

// Coordinator manages per-listing saved state with an optimistic flip: the
// visible state changes before the durable write is issued and is rolled
// back if that write fails. Overlapping toggles operate on whatever the
// latest visible state is; there is exactly one client mutating its own
// saved set, so last-write-wins is acceptable.
type Coordinator struct {
	store  SavedSetStore
	logger *logrus.Logger

	mu      sync.Mutex
	visible map[stateKey]bool
}

// NewCoordinator creates a coordinator over the given saved-set store.
func NewCoordinator(store SavedSetStore, logger *logrus.Logger) *Coordinator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Coordinator{
		store:   store,
		logger:  logger,
		visible: make(map[stateKey]bool),
	}
}

// Resolve returns the saved state for a listing, seeding the visible state
// from the durable set on first sight. Without an account everything reads
// as not saved.
func (c *Coordinator) Resolve(ctx context.Context, account *models.Account, listingID string) bool {
	if account == nil {
		return false
	}

	key := stateKey{accountID: account.UID, listingID: listingID}
	c.mu.Lock()
	if saved, ok := c.visible[key]; ok {
		c.mu.Unlock()
		return saved
	}
	c.mu.Unlock()

	saved, err := c.store.IsSaved(ctx, account.UID, listingID)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"account_id": account.UID,
			"listing_id": listingID,
		}).Error("Failed to check saved state")
		return false
	}

	c.mu.Lock()
	// A toggle may have raced the membership check; keep its result.
	if current, ok := c.visible[key]; ok {
		saved = current
	} else {
		c.visible[key] = saved
	}
	c.mu.Unlock()
	return saved
}

// Toggle flips the saved state for a listing. The visible state is updated
// before the durable write is issued; if the write fails the visible state
// reverts to the pre-toggle value and the failure is logged. The returned
// bool is the final visible state.
func (c *Coordinator) Toggle(ctx context.Context, account *models.Account, listingID string) (bool, error) {
	if account == nil {
		return false, ErrAuthRequired
	}

	key := stateKey{accountID: account.UID, listingID: listingID}

	c.mu.Lock()
	previous, seeded := c.visible[key]
	c.mu.Unlock()
	if !seeded {
		previous = c.Resolve(ctx, account, listingID)
	}

	target := !previous
	c.mu.Lock()
	c.visible[key] = target
	c.mu.Unlock()

	if err := c.store.SetSaved(ctx, account.UID, listingID, target); err != nil {
		c.mu.Lock()
		// Only roll back if no later toggle has moved the state on.
		if c.visible[key] == target {
			c.visible[key] = previous
		}
		reverted := c.visible[key]
		c.mu.Unlock()

		c.logger.WithError(err).WithFields(logrus.Fields{
			"account_id": account.UID,
			"listing_id": listingID,
			"target":     target,
		}).Error("Failed to persist saved state, rolled back")
		return reverted, err
	}

	return target, nil
}

// ListSaved returns the account's saved listing identifiers, or an empty
// slice when the account is missing or the store call fails.
func (c *Coordinator) ListSaved(ctx context.Context, account *models.Account) []string {
	if account == nil {
		return []string{}
	}
	ids, err := c.store.ListSaved(ctx, account.UID)
	if err != nil {
		c.logger.WithError(err).WithField("account_id", account.UID).
			Error("Failed to list saved properties")
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}
