package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/data"
	"github.com/giygas/antimalarial-dosage/logging"
	"github.com/giygas/antimalarial-dosage/validation"
)

// mockLoader returns a configurable catalog and counts calls
type mockLoader struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	source  string
	err     error
	calls   int
}

func (m *mockLoader) LoadCatalog() (*catalog.Catalog, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.source, m.err
	}
	return m.catalog, m.source, nil
}

func (m *mockLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func overlappingCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(&catalog.Product{
		ID: "bad",
		Scheme: &catalog.TabletScheme{
			MinWeight: 5,
			MaxWeight: 10,
			Types: []catalog.TabletType{{
				Name: catalog.LocalizedText{"en": "Regular"},
				Specifications: []catalog.Specification{{
					Dosage: "10mg",
					WeightRanges: []catalog.WeightRange{
						{Min: 5, Max: 8, Count: 1},
						{Min: 6, Max: 10, Count: 2},
					},
				}},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestScheduler_InitialLoad(t *testing.T) {
	logging.InitLogger("")

	store := data.NewCatalogContainer()
	loader := &mockLoader{catalog: catalog.Default(), source: catalog.SourceEmbedded}
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), 0)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if store.GetCatalog().Len() != 3 {
		t.Errorf("Expected 3 products after initial load, got %d", store.GetCatalog().Len())
	}
	if store.GetSource() != catalog.SourceEmbedded {
		t.Errorf("Expected embedded source, got %q", store.GetSource())
	}
	if store.GetQualityReport() == nil || store.GetQualityReport().ProductCount != 3 {
		t.Error("Expected quality report to be stored")
	}
	if store.IsReloading() {
		t.Error("Reload flag should be released")
	}
}

func TestScheduler_InitialLoadFailure(t *testing.T) {
	logging.InitLogger("")

	store := data.NewCatalogContainer()
	loader := &mockLoader{err: errors.New("disk on fire"), source: "/tmp/catalog.json"}
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), time.Minute)

	if err := s.Start(); err == nil {
		t.Fatal("Expected Start to fail when the initial load fails")
	}
	if store.GetCatalog().Len() != 0 {
		t.Error("Store should stay empty after a failed initial load")
	}
}

func TestScheduler_RejectedReloadKeepsCurrentCatalog(t *testing.T) {
	logging.InitLogger("")

	store := data.NewCatalogContainer()
	loader := &mockLoader{catalog: catalog.Default(), source: catalog.SourceEmbedded}
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), 0)

	if err := s.Reload(); err != nil {
		t.Fatalf("Initial reload failed: %v", err)
	}
	loadedAt := store.GetLastUpdated()

	loader.mu.Lock()
	loader.catalog = overlappingCatalog(t)
	loader.source = "/etc/dosage/catalog.json"
	loader.mu.Unlock()

	if err := s.Reload(); err == nil {
		t.Fatal("Expected the overlapping catalog to be rejected")
	}
	if store.GetCatalog().Len() != 3 || store.GetSource() != catalog.SourceEmbedded {
		t.Error("Rejected reload must keep the current catalog")
	}
	if !store.GetLastUpdated().Equal(loadedAt) {
		t.Error("Rejected reload must not touch lastUpdated")
	}

	loader.mu.Lock()
	loader.err = errors.New("file vanished")
	loader.mu.Unlock()

	if err := s.Reload(); err == nil {
		t.Fatal("Expected load failure to surface")
	}
	if store.GetCatalog().Len() != 3 {
		t.Error("Failed reload must keep the current catalog")
	}
}

func TestScheduler_ConcurrentReloadPrevention(t *testing.T) {
	logging.InitLogger("")

	store := data.NewCatalogContainer()
	loader := &mockLoader{catalog: catalog.Default(), source: catalog.SourceEmbedded}
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), 0)

	if !store.BeginReload() {
		t.Fatal("Failed to take reload flag")
	}

	if err := s.Reload(); err != nil {
		t.Errorf("Skipped reload should not error, got %v", err)
	}
	if loader.callCount() != 0 {
		t.Error("Loader should not be called while another reload runs")
	}

	store.EndReload()
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if loader.callCount() != 1 {
		t.Errorf("Expected one loader call, got %d", loader.callCount())
	}
}

func TestScheduler_PeriodicReloadIsScheduled(t *testing.T) {
	logging.InitLogger("")

	store := data.NewCatalogContainer()
	loader := &mockLoader{catalog: catalog.Default(), source: catalog.SourceEmbedded}
	s := NewScheduler(store, loader, validation.NewCatalogValidator(), time.Hour)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if !s.scheduler.IsRunning() {
		t.Error("Expected gocron scheduler to be running")
	}
	if len(s.scheduler.Jobs()) != 1 {
		t.Errorf("Expected one reload job, got %d", len(s.scheduler.Jobs()))
	}
	if loader.callCount() != 1 {
		t.Errorf("WaitForSchedule should defer the first run, got %d loads", loader.callCount())
	}
}
