// Package scheduler performs the initial catalog load and refreshes the
// catalog from its source on a fixed interval.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/antimalarial-dosage/interfaces"
	"github.com/giygas/antimalarial-dosage/logging"
	"github.com/giygas/antimalarial-dosage/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles catalog reloads using dependency injection
type Scheduler struct {
	store     interfaces.CatalogStore
	loader    interfaces.CatalogLoader
	validator interfaces.CatalogValidator
	interval  time.Duration
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler. An interval of zero loads the catalog
// once and never reloads it.
func NewScheduler(store interfaces.CatalogStore, loader interfaces.CatalogLoader,
	validator interfaces.CatalogValidator, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		loader:    loader,
		validator: validator,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial load and schedules the periodic reloads
func (s *Scheduler) Start() error {
	if err := s.Reload(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	if s.interval <= 0 {
		logging.Info("Catalog reloads disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		if err := s.Reload(); err != nil {
			logging.Error("Failed to reload catalog, keeping the current one", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog reloads", "error", err)
		return fmt.Errorf("failed to schedule catalog reloads: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Catalog reloads scheduled", "interval", s.interval.String())

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Reload loads, validates and swaps in a new catalog. The current catalog
// stays in place when any step fails.
func (s *Scheduler) Reload() error {
	if !s.store.BeginReload() {
		logging.Info("Catalog reload already in progress, skipping...")
		return nil
	}
	defer s.store.EndReload()

	start := time.Now()

	c, source, err := s.loader.LoadCatalog()
	if err != nil {
		metrics.RecordCatalogReload(metrics.OutcomeFailure)
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := s.validator.ValidateCatalog(c); err != nil {
		metrics.RecordCatalogReload(metrics.OutcomeFailure)
		return fmt.Errorf("catalog from %s rejected: %w", source, err)
	}

	report := s.validator.ReportCatalogQuality(c)
	for id, gaps := range report.UncoveredWeights {
		logging.Warn("Tablet bands leave weights uncovered",
			"product", string(id),
			"count", len(gaps),
			"first", gaps[0],
		)
	}

	s.store.UpdateCatalog(c, source, report)
	metrics.RecordCatalogReload(metrics.OutcomeSuccess)
	metrics.SetCatalogProducts(c.Len())

	logging.Info("Catalog loaded",
		"source", source,
		"products", c.Len(),
		"duration", time.Since(start).String(),
	)

	return nil
}
