package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"loftonrealty/server/internal/metrics"
)

// CatalogSyncer pulls the hosted catalog into the local read model.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context) error
}

// Scheduler manages periodic catalog refreshes.
type Scheduler struct {
	syncer   CatalogSyncer
	logger   *logrus.Logger
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
	// Optional hook run after every successful sync (geocoding, cache drop)
	afterSync func(ctx context.Context)
}

// NewScheduler creates a new scheduler
func NewScheduler(syncer CatalogSyncer, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}
	if interval <= 0 {
		interval = time.Hour
	}

	return &Scheduler{
		syncer:   syncer,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// SetAfterSync registers a hook invoked after each successful sync.
func (s *Scheduler) SetAfterSync(hook func(ctx context.Context)) {
	s.afterSync = hook
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Startup sync in a separate goroutine so Start returns promptly
	go func() {
		s.logger.Info("Running startup catalog sync")
		s.runSync()
		s.logger.Info("Startup catalog sync completed")
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.logger.Info("Starting scheduled catalog sync")
			s.runSync()
			s.logger.Info("Completed scheduled catalog sync")
		}
	}
}

func (s *Scheduler) runSync() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	ctx := context.Background()
	if err := s.syncer.SyncCatalog(ctx); err != nil {
		s.logger.WithError(err).Error("Catalog sync failed")
		metrics.CatalogSyncsTotal.WithLabelValues("error").Inc()
		return
	}
	metrics.CatalogSyncsTotal.WithLabelValues("ok").Inc()
	if s.afterSync != nil {
		s.afterSync(ctx)
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
