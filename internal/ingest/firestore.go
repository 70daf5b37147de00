package ingest

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"loftonrealty/server/internal/models"
)

// FirestoreSource pulls the listing catalog out of the Firestore collection
// the admin back office writes to and feeds it into the batch queue.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
	queue      *ListingQueue
	batchSize  int
	logger     *logrus.Logger
}

// NewFirestoreSource creates a catalog source over the given collection.
func NewFirestoreSource(client *firestore.Client, collection string, queue *ListingQueue, batchSize int, logger *logrus.Logger) *FirestoreSource {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &FirestoreSource{
		client:     client,
		collection: collection,
		queue:      queue,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// SyncCatalog reads every listing document and pushes them to the queue in
// batches. Documents that fail to decode are skipped and counted, not fatal.
func (s *FirestoreSource) SyncCatalog(ctx context.Context) error {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	var batch []*models.Listing
	var total, skipped int

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate listings: %w", err)
		}

		listing, err := decodeListing(snap.Ref.ID, snap.Data())
		if err != nil {
			s.logger.WithError(err).WithField("doc_id", snap.Ref.ID).Warn("Skipping undecodable listing")
			skipped++
			continue
		}

		batch = append(batch, listing)
		total++
		if len(batch) >= s.batchSize {
			if err := s.queue.Push(batch); err != nil {
				return fmt.Errorf("failed to enqueue listing batch: %w", err)
			}
			batch = nil
		}
	}

	if len(batch) > 0 {
		if err := s.queue.Push(batch); err != nil {
			return fmt.Errorf("failed to enqueue listing batch: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"total":   total,
		"skipped": skipped,
	}).Info("Catalog sync enqueued")
	return nil
}

// decodeListing converts a Firestore document into a Listing. The admin UI
// writes numbers as either integers or doubles and timestamps as RFC 3339
// strings, so decoding is deliberately lenient.
func decodeListing(id string, data map[string]interface{}) (*models.Listing, error) {
	if id == "" {
		return nil, fmt.Errorf("empty document id")
	}

	listing := &models.Listing{
		ID:          id,
		Title:       asString(data["title"]),
		Price:       asInt(data["price"]),
		Street:      asString(data["street"]),
		City:        asString(data["city"]),
		State:       asString(data["state"]),
		Zip:         asString(data["zip"]),
		Beds:        asInt(data["beds"]),
		Baths:       asInt(data["baths"]),
		Sqft:        asInt(data["sqft"]),
		Status:      models.ListingStatus(asString(data["status"])),
		Type:        models.PropertyType(asString(data["type"])),
		Description: asString(data["description"]),
		Features:    asStrings(data["features"]),
		Images:      asStrings(data["images"]),
		MLSID:       asString(data["mlsId"]),
		CreatedAt:   asTime(data["createdAt"]),
		UpdatedAt:   asTime(data["updatedAt"]),
	}

	if listing.Price < 0 || listing.Beds < 0 || listing.Baths < 0 || listing.Sqft < 0 {
		return nil, fmt.Errorf("negative numeric field on listing %s", id)
	}
	if yb := asInt(data["yearBuilt"]); yb > 0 {
		listing.YearBuilt = &yb
	}
	return listing, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asStrings(v interface{}) []string {
	values, ok := v.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, item := range values {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
