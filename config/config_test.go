package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	_ = os.Setenv("CATALOG_PATH", "/etc/dosage/catalog.json")
	_ = os.Setenv("CATALOG_RELOAD_INTERVAL", "30m")
	_ = os.Setenv("DEFAULT_LANGUAGE", "fr")
	_ = os.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.CatalogPath != "/etc/dosage/catalog.json" {
		t.Errorf("Expected catalog path to be set, got %q", cfg.CatalogPath)
	}
	if cfg.CatalogReloadInterval != 30*time.Minute {
		t.Errorf("Expected reload interval 30m, got %s", cfg.CatalogReloadInterval)
	}
	if cfg.DefaultLanguage != "fr" {
		t.Errorf("Expected default language fr, got %s", cfg.DefaultLanguage)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Expected two trimmed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected default address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.CatalogPath != "" {
		t.Errorf("Expected embedded catalog by default, got %q", cfg.CatalogPath)
	}
	if cfg.CatalogReloadInterval != 15*time.Minute {
		t.Errorf("Expected default reload interval 15m, got %s", cfg.CatalogReloadInterval)
	}
	if cfg.DefaultLanguage != "en" {
		t.Errorf("Expected default language en, got %s", cfg.DefaultLanguage)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("Expected wildcard origin, got %v", cfg.AllowedOrigins)
	}
}

func TestInvalidValues(t *testing.T) {
	testCases := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{"non numeric port", "PORT", "abc", "PORT must be a valid number"},
		{"port zero", "PORT", "0", "PORT must be between 1 and 65535"},
		{"port too large", "PORT", "65536", "PORT must be between 1 and 65535"},
		{"privileged port", "PORT", "80", "PORT 80 is privileged"},
		{"invalid address", "ADDRESS", "invalid", "ADDRESS must be a valid IP address"},
		{"public address", "ADDRESS", "8.8.8.8", "is a public IP"},
		{"invalid env", "ENV", "invalid", "ENV must be one of"},
		{"invalid log level", "LOG_LEVEL", "invalid", "LOG_LEVEL must be one of"},
		{"unsupported language", "DEFAULT_LANGUAGE", "de", "language must be one of"},
		{"reload too short", "CATALOG_RELOAD_INTERVAL", "10s", "at least 1m"},
		{"reload unparsable", "CATALOG_RELOAD_INTERVAL", "often", "CATALOG_RELOAD_INTERVAL"},
		{"retention too long", "LOG_RETENTION_WEEKS", "60", "too large"},
		{"log file too small", "MAX_LOG_FILE_SIZE", "10", "too small"},
		{"empty origins", "CORS_ALLOWED_ORIGINS", " , ", "CORS_ALLOWED_ORIGINS"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanupEnv()
			defer cleanupEnv()
			_ = os.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s, got nil", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestReloadIntervalCanBeDisabled(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()
	_ = os.Setenv("CATALOG_RELOAD_INTERVAL", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.CatalogReloadInterval != 0 {
		t.Errorf("Expected disabled reload, got %s", cfg.CatalogReloadInterval)
	}
}

func cleanupEnv() {
	for _, key := range GetEnvVars() {
		_ = os.Unsetenv(key)
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"production", EnvProduction, false},
		{"PROD", EnvProduction, false},
		{"test", EnvTest, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %s, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	tests := []struct {
		env      Environment
		expected string
	}{
		{EnvDevelopment, "dev"},
		{EnvStaging, "staging"},
		{EnvProduction, "prod"},
		{EnvTest, "test"},
	}

	for _, tt := range tests {
		if got := tt.env.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}
