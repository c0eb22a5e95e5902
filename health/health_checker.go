// Package health provides health checking functionality for the dosage service.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/antimalarial-dosage/interfaces"
)

// staleFactor is how many missed reload intervals make the catalog degraded
const staleFactor = 3

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store          interfaces.CatalogStore
	reloadInterval time.Duration
	now            func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies.
// A zero reloadInterval means the catalog is loaded once and never goes stale.
func NewHealthChecker(store interfaces.CatalogStore, reloadInterval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store:          store,
		reloadInterval: reloadInterval,
		now:            time.Now,
	}
}

// HealthCheck returns the status used by the /health HTTP endpoint
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	products := h.store.GetCatalog().Len()
	lastUpdate := h.store.GetLastUpdated()
	isReloading := h.store.IsReloading()
	report := h.store.GetQualityReport()

	now := h.now()
	catalogAge := now.Sub(lastUpdate)

	switch {
	case products == 0 || lastUpdate.IsZero():
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case h.reloadInterval > 0 && catalogAge > staleFactor*h.reloadInterval:
		status = "degraded"
		httpStatus = http.StatusOK

	case report != nil && len(report.UncoveredWeights) > 0:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"products":     products,
		"source":       h.store.GetSource(),
		"is_reloading": isReloading,
	}

	if !lastUpdate.IsZero() {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["catalog_age_minutes"] = math.Round(catalogAge.Minutes()*10) / 10
	}

	if start := h.store.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = math.Round(now.Sub(start).Seconds())
	}

	if next := h.CalculateNextReload(); !next.IsZero() {
		data["next_reload"] = next.Format(time.RFC3339)
	}

	if report != nil && len(report.UncoveredWeights) > 0 {
		uncovered := make(map[string]int, len(report.UncoveredWeights))
		for id, gaps := range report.UncoveredWeights {
			uncovered[string(id)] = len(gaps)
		}
		data["uncovered_weights"] = uncovered
	}

	return status, data, httpStatus
}

// CalculateNextReload returns the next scheduled catalog reload
func (h *HealthCheckerImpl) CalculateNextReload() time.Time {
	lastUpdate := h.store.GetLastUpdated()
	if h.reloadInterval <= 0 || lastUpdate.IsZero() {
		return time.Time{}
	}

	next := lastUpdate.Add(h.reloadInterval)
	if now := h.now(); next.Before(now) {
		// A reload is overdue; it can happen any moment
		return now
	}
	return next
}
