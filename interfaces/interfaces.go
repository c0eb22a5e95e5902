// Package interfaces defines the core abstractions of the dosage service so
// that stores, loaders and schedulers can be swapped in tests.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/antimalarial-dosage/catalog"
)

// CatalogQualityReport summarizes integrity findings for a catalog snapshot
type CatalogQualityReport struct {
	ProductCount int
	// OverlappingBands lists bands that overlap inside one specification
	OverlappingBands []string
	// UncoveredWeights lists tablet products with weights (in tenths of a kg)
	// that no band covers
	UncoveredWeights map[catalog.ProductID][]float64
	// InvalidEntries lists non-positive counts, strengths, rates or volumes
	InvalidEntries []string
}

// HasErrors reports whether the catalog must be rejected
func (r *CatalogQualityReport) HasErrors() bool {
	return r != nil && (len(r.OverlappingBands) > 0 || len(r.InvalidEntries) > 0)
}

// CatalogStore defines the contract for holding the current catalog.
// Reads are lock-free and a reload replaces the snapshot atomically.
type CatalogStore interface {
	GetCatalog() *catalog.Catalog
	GetSource() string
	GetLastUpdated() time.Time
	GetQualityReport() *CatalogQualityReport
	IsReloading() bool
	GetServerStartTime() time.Time

	UpdateCatalog(c *catalog.Catalog, source string, report *CatalogQualityReport)
	BeginReload() bool
	EndReload()
}

// CatalogLoader builds a fresh catalog from its source
type CatalogLoader interface {
	LoadCatalog() (*catalog.Catalog, string, error)
}

// Scheduler manages the initial catalog load and periodic reloads
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the contract for the HTTP endpoints
type HTTPHandler interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)

	ListProducts(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	ComputeDosage(w http.ResponseWriter, r *http.Request)
	ViewDosage(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports service health for the /health endpoint
type HealthChecker interface {
	// HealthCheck returns the status, response details and HTTP status code
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextReload returns the next scheduled catalog reload, or the
	// zero time when reloads are disabled
	CalculateNextReload() time.Time
}

// CatalogValidator checks catalog integrity and user-supplied identifiers
type CatalogValidator interface {
	ValidateCatalog(c *catalog.Catalog) error
	ReportCatalogQuality(c *catalog.Catalog) *CatalogQualityReport

	ValidateProductID(input string) (catalog.ProductID, error)
	ValidateLanguage(input string) (string, error)
}
