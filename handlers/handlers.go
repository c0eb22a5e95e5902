// Package handlers provides HTTP request handlers for the dosage service:
// product listing, JSON dosage plans, localized HTML views and health checks.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/interfaces"
	"github.com/giygas/antimalarial-dosage/logging"
)

// LanguageCookie stores the display language chosen through ?lang=
const LanguageCookie = "preferredLanguage"

// RegisterRoutes mounts every endpoint of h on r
func RegisterRoutes(r chi.Router, h interfaces.HTTPHandler) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/dosage/{id}", h.ComputeDosage)
	r.Get("/dosage/{id}/view", h.ViewDosage)
	r.Get("/health", h.HealthCheck)
}

// ProductSummary is the list form of a product
type ProductSummary struct {
	ID          catalog.ProductID     `json:"id"`
	Name        string                `json:"name"`
	Description catalog.LocalizedText `json:"description,omitempty"`
	Scheme      catalog.SchemeKind    `json:"scheme"`
	Solvent     catalog.SolventKind   `json:"solvent,omitempty"`
	MinWeight   float64               `json:"minWeight"`
	MaxWeight   float64               `json:"maxWeight"`
}

// Summarize builds the list form of p
func Summarize(p *catalog.Product) ProductSummary {
	min, max := p.Scheme.WeightDomain()
	s := ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Scheme:      p.Scheme.Kind(),
		MinWeight:   min,
		MaxWeight:   max,
	}
	if vs, ok := p.Scheme.(*catalog.VialScheme); ok {
		s.Solvent = vs.Solvent
	}
	return s
}

// ErrorResponse is the body of every JSON error
type ErrorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Code      int      `json:"code"`
	MinWeight *float64 `json:"min_weight,omitempty"`
	MaxWeight *float64 `json:"max_weight,omitempty"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime,omitempty"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
