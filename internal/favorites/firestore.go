package favorites

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection     = "users"
	savedPropertiesPath = "savedProperties"
)

// FirestoreStore persists saved sets on the user documents of the account
// collection, the same documents the web client's dashboard reads.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) userDoc(accountID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(accountID)
}

// IsSaved reports membership of the listing in the account's saved set.
func (s *FirestoreStore) IsSaved(ctx context.Context, accountID, listingID string) (bool, error) {
	snap, err := s.userDoc(accountID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read user document: %w", err)
	}

	for _, id := range savedIDs(snap) {
		if id == listingID {
			return true, nil
		}
	}
	return false, nil
}

// savedSetOp picks the field transform for a toggle. ArrayUnion and
// ArrayRemove return distinct types, so the result is an interface{}
// destined for firestore.Update.Value.
func savedSetOp(listingID string, saved bool) interface{} {
	if saved {
		return firestore.ArrayUnion(listingID)
	}
	return firestore.ArrayRemove(listingID)
}

// SetSaved adds or removes the listing from the account's saved set.
func (s *FirestoreStore) SetSaved(ctx context.Context, accountID, listingID string, saved bool) error {
	_, err := s.userDoc(accountID).Update(ctx, []firestore.Update{
		{Path: savedPropertiesPath, Value: savedSetOp(listingID, saved)},
	})
	if saved && status.Code(err) == codes.NotFound {
		// First save for a user whose profile document does not exist yet.
		_, err = s.userDoc(accountID).Set(ctx, map[string]interface{}{
			savedPropertiesPath: []string{listingID},
		}, firestore.MergeAll)
	}
	if err != nil {
		return fmt.Errorf("failed to update saved set: %w", err)
	}
	return nil
}

// ListSaved returns the identifiers in the account's saved set.
func (s *FirestoreStore) ListSaved(ctx context.Context, accountID string) ([]string, error) {
	snap, err := s.userDoc(accountID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user document: %w", err)
	}
	return savedIDs(snap), nil
}

func savedIDs(snap *firestore.DocumentSnapshot) []string {
	raw, err := snap.DataAt(savedPropertiesPath)
	if err != nil {
		return []string{}
	}
	values, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
