package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giygas/antimalarial-dosage/config"
	"github.com/giygas/antimalarial-dosage/dosage"
	"github.com/giygas/antimalarial-dosage/logging"
)

func testConfig(catalogPath string) *config.Config {
	return &config.Config{
		Port:            "0",
		Address:         "127.0.0.1",
		Env:             config.EnvTest,
		LogLevel:        "error",
		MaxRequestBody:  1024,
		MaxHeaderSize:   4096,
		CatalogPath:     catalogPath,
		DefaultLanguage: "en",
		AllowedOrigins:  []string{"*"},
	}
}

func TestAppEndToEnd(t *testing.T) {
	logging.InitLogger("")

	a, err := newApp(testConfig(""))
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.shutdown(ctx)
	})

	ts := httptest.NewServer(a.server.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/dosage/argesun?weight=35")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var plan dosage.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("Failed to decode plan: %v", err)
	}
	if plan.Vial == nil || plan.Vial.TotalDoseMg != 84 || plan.Vial.TotalMgDelivered != 90 {
		t.Errorf("Unexpected plan %+v", plan.Vial)
	}

	view, err := http.Get(ts.URL + "/dosage/dartepp/view?weight=20&lang=fr")
	if err != nil {
		t.Fatalf("GET view failed: %v", err)
	}
	defer view.Body.Close()
	if view.StatusCode != http.StatusOK || view.Header.Get("Content-Language") != "fr" {
		t.Errorf("Expected French view, got %d %q", view.StatusCode, view.Header.Get("Content-Language"))
	}

	health, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET health failed: %v", err)
	}
	defer health.Body.Close()

	var body struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if err := json.NewDecoder(health.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode health: %v", err)
	}
	if body.Status != "healthy" || body.Data["source"] != "embedded" {
		t.Errorf("Unexpected health %+v", body)
	}
}

func TestAppFailsOnBadCatalog(t *testing.T) {
	logging.InitLogger("")

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`[{"id":"x"}]`), 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.json")},
		{"invalid catalog", path},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newApp(testConfig(tt.path))
			if err == nil || !strings.Contains(err.Error(), "initial catalog load failed") {
				t.Errorf("Expected initial load error, got %v", err)
			}
		})
	}
}

func TestCatalogSource(t *testing.T) {
	if got := catalogSource(""); got != "embedded" {
		t.Errorf("Expected embedded, got %q", got)
	}
	if got := catalogSource("/etc/catalog.json"); got != "/etc/catalog.json" {
		t.Errorf("Expected path, got %q", got)
	}
}
