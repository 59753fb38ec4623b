// Package scheduler provides automated dataset refresh scheduling and health
// monitoring for the epitopes API. It handles cron-based refreshes of the
// IEDB dataset and coordinates swaps with the data container using
// dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/epibase/epitopes-api/interfaces"
	"github.com/epibase/epitopes-api/logging"
	"github.com/epibase/epitopes-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles dataset refreshes and health monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.Parser
	validator interfaces.DataValidator
	scheduler *gocron.Scheduler
	stopCh    chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser,
	validator interfaces.DataValidator) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		validator: validator,
		scheduler: gocron.NewScheduler(time.Local),
		stopCh:    make(chan struct{}),
	}
}

// Start performs the initial dataset load and schedules daily refreshes
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	// IEDB publishes weekly; a daily pull at 06:00 keeps the dataset fresh
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to refresh dataset", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule dataset refresh", "error", err)
		return fmt.Errorf("failed to schedule dataset refresh: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop halts scheduled refreshes and health monitoring
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopCh)
}

// updateData rebuilds the dataset into temporaries and swaps it in atomically
func (s *Scheduler) updateData() error {
	// Prevent concurrent updates
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()
	logging.Info("Starting dataset refresh")

	newEpitopes, err := s.parser.ParseAllEpitopes()
	if err != nil {
		return fmt.Errorf("failed to parse epitopes: %w", err)
	}

	if err := s.validator.ValidateDataIntegrity(newEpitopes); err != nil {
		return fmt.Errorf("dataset failed integrity validation: %w", err)
	}

	report := s.validator.ReportDataQuality(newEpitopes)

	// Atomic swap (zero downtime replacement); the store derives its own
	// lookup indexes from the slice
	s.dataStore.UpdateData(newEpitopes)

	metrics.DatasetEpitopesTotal.Set(float64(len(newEpitopes)))
	metrics.DatasetLastUpdateTimestamp.Set(float64(time.Now().Unix()))

	logging.Info("Dataset refresh completed",
		"duration", time.Since(start).String(),
		"epitope_count", len(newEpitopes),
		"positive", report.PositiveCount,
		"negative", report.NegativeCount)

	return nil
}

// startHealthMonitoring warns when the dataset goes stale
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Dataset hasn't been refreshed in over 25 hours",
						"last_update", lastUpdate.Format(time.RFC3339))
				}
			}
		}
	}()
}
