package data

import (
	"sync"
	"testing"
	"time"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/interfaces"
	"github.com/giygas/antimalarial-dosage/logging"
)

func TestNewCatalogContainer(t *testing.T) {
	logging.InitLogger("")

	cc := NewCatalogContainer()

	if cc.IsReloading() {
		t.Error("NewCatalogContainer should not be reloading")
	}
	if !cc.GetLastUpdated().IsZero() {
		t.Error("NewCatalogContainer should have zero lastUpdated time")
	}
	if cc.GetCatalog() == nil || cc.GetCatalog().Len() != 0 {
		t.Error("NewCatalogContainer should serve an empty catalog")
	}
	if cc.GetSource() != "" || cc.GetQualityReport() != nil {
		t.Error("NewCatalogContainer should have no source or report")
	}
}

func TestUpdateCatalog(t *testing.T) {
	logging.InitLogger("")

	cc := NewCatalogContainer()
	report := &interfaces.CatalogQualityReport{ProductCount: 3}

	before := time.Now()
	cc.UpdateCatalog(catalog.Default(), catalog.SourceEmbedded, report)

	if cc.GetCatalog().Len() != 3 {
		t.Errorf("Expected 3 products, got %d", cc.GetCatalog().Len())
	}
	if _, err := cc.GetCatalog().Get(catalog.Artesun); err != nil {
		t.Errorf("Expected artesun in catalog: %v", err)
	}
	if cc.GetSource() != catalog.SourceEmbedded {
		t.Errorf("Expected source %q, got %q", catalog.SourceEmbedded, cc.GetSource())
	}
	if cc.GetQualityReport() != report {
		t.Error("Expected the report to be stored with the catalog")
	}
	if cc.GetLastUpdated().Before(before) {
		t.Error("Expected lastUpdated to be refreshed")
	}
}

func TestBeginEndReload(t *testing.T) {
	cc := NewCatalogContainer()

	if !cc.BeginReload() {
		t.Fatal("First BeginReload should succeed")
	}
	if !cc.IsReloading() {
		t.Error("Expected IsReloading during reload")
	}
	if cc.BeginReload() {
		t.Error("Concurrent BeginReload should fail")
	}

	cc.EndReload()
	if cc.IsReloading() {
		t.Error("Expected reload to be finished")
	}
	if !cc.BeginReload() {
		t.Error("BeginReload should succeed after EndReload")
	}
}

func TestServerStartTime(t *testing.T) {
	logging.InitLogger("")
	cc := NewCatalogContainer()

	if !cc.GetServerStartTime().IsZero() {
		t.Error("Expected zero start time")
	}

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cc.SetServerStartTime(start)
	if !cc.GetServerStartTime().Equal(start) {
		t.Errorf("Expected %v, got %v", start, cc.GetServerStartTime())
	}
}

func TestConcurrentReadsDuringSwap(t *testing.T) {
	logging.InitLogger("")
	cc := NewCatalogContainer()
	cc.UpdateCatalog(catalog.Default(), catalog.SourceEmbedded, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c := cc.GetCatalog()
				if c.Len() != 3 {
					t.Errorf("Observed a partial catalog with %d products", c.Len())
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		cc.UpdateCatalog(catalog.Default(), catalog.SourceEmbedded, nil)
	}
	wg.Wait()

	var reloads sync.WaitGroup
	var winners int32
	var mu sync.Mutex
	for i := 0; i < 10; i++ {
		reloads.Add(1)
		go func() {
			defer reloads.Done()
			if cc.BeginReload() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	reloads.Wait()

	if winners != 1 {
		t.Errorf("Expected exactly one reload to start, got %d", winners)
	}
}
