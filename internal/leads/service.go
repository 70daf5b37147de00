package leads

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loftonrealty/server/internal/models"
)

// LeadStore persists contact-form submissions.
type LeadStore interface {
	InsertLead(lead *models.Lead) error
	GetListingByID(id string) (*models.Listing, error)
}

// Notifier pushes an alert about a fresh lead to the agent channel.
type Notifier interface {
	NotifyNewLead(lead *models.Lead, listing *models.Listing) error
}

// Service turns contact-form payloads into stored leads and alerts the
// agents. Notification failures never fail the submission.
type Service struct {
	store    LeadStore
	notifier Notifier
	logger   *logrus.Logger
}

func NewService(store LeadStore, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit validates and stores a lead, then alerts the agent channel.
func (s *Service) Submit(req *models.LeadRequest) (*models.Lead, error) {
	lead := &models.Lead{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Location:  req.Location,
		Interest:  req.Interest,
		Message:   req.Message,
		ListingID: req.ListingID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.InsertLead(lead); err != nil {
		return nil, fmt.Errorf("failed to store lead: %w", err)
	}

	var listing *models.Listing
	if lead.ListingID != "" {
		var err error
		listing, err = s.store.GetListingByID(lead.ListingID)
		if err != nil {
			s.logger.WithError(err).WithField("listing_id", lead.ListingID).
				Warn("Lead references unknown listing")
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewLead(lead, listing); err != nil {
			s.logger.WithError(err).Error("Failed to send lead notification")
		}
	}

	return lead, nil
}
