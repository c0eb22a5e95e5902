// Package data provides the thread-safe catalog store used by the HTTP
// handlers. A reload swaps the whole snapshot atomically, so requests never
// observe a partially updated catalog.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/interfaces"
	"github.com/giygas/antimalarial-dosage/logging"
)

// Compile-time check to ensure CatalogContainer implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogContainer)(nil)

// snapshot groups everything that changes together on a reload
type snapshot struct {
	catalog     *catalog.Catalog
	source      string
	report      *interfaces.CatalogQualityReport
	lastUpdated time.Time
}

// CatalogContainer holds the current catalog snapshot
type CatalogContainer struct {
	current         atomic.Pointer[snapshot]
	reloading       atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewCatalogContainer creates an empty container. GetCatalog returns an
// empty catalog until the first UpdateCatalog.
func NewCatalogContainer() *CatalogContainer {
	cc := &CatalogContainer{}
	cc.current.Store(&snapshot{})
	cc.serverStartTime.Store(time.Time{})
	return cc
}

// GetCatalog returns the current catalog snapshot
func (cc *CatalogContainer) GetCatalog() *catalog.Catalog {
	if s := cc.current.Load(); s != nil && s.catalog != nil {
		return s.catalog
	}

	logging.Warn("Catalog requested before the first load")
	empty, _ := catalog.New()
	return empty
}

// GetSource returns where the current catalog was loaded from
func (cc *CatalogContainer) GetSource() string {
	return cc.current.Load().source
}

// GetLastUpdated returns the time of the last successful swap
func (cc *CatalogContainer) GetLastUpdated() time.Time {
	return cc.current.Load().lastUpdated
}

// GetQualityReport returns the report computed for the current catalog
func (cc *CatalogContainer) GetQualityReport() *interfaces.CatalogQualityReport {
	return cc.current.Load().report
}

// IsReloading returns true if a reload is in progress
func (cc *CatalogContainer) IsReloading() bool {
	return cc.reloading.Load()
}

// SetServerStartTime sets the server start time
func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if v := cc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateCatalog atomically replaces the catalog, its source and its report
func (cc *CatalogContainer) UpdateCatalog(c *catalog.Catalog, source string, report *interfaces.CatalogQualityReport) {
	cc.current.Store(&snapshot{
		catalog:     c,
		source:      source,
		report:      report,
		lastUpdated: time.Now(),
	})
}

// BeginReload marks the start of a reload.
// Returns true if the reload can proceed, false if another one is running.
func (cc *CatalogContainer) BeginReload() bool {
	return cc.reloading.CompareAndSwap(false, true)
}

// EndReload marks the end of a reload
func (cc *CatalogContainer) EndReload() {
	cc.reloading.Store(false)
}
