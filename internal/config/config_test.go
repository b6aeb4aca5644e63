package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.StoreBackend != "auto" {
		t.Fatalf("expected auto backend, got %s", cfg.StoreBackend)
	}
	if cfg.AlertWindowDays != 7 || cfg.FeedAlertDays != 7 {
		t.Fatalf("expected 7-day alert windows, got %d/%d", cfg.AlertWindowDays, cfg.FeedAlertDays)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("expected /api/v1, got %s", cfg.APIBasePath)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected read timeout %v", cfg.ReadTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("OTEL_ENABLED", "garbage") // neither truthy nor falsy: keeps the default

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.LogPretty {
		t.Fatalf("LOG_PRETTY=yes should enable pretty logging")
	}
	if cfg.OTEL.Enabled {
		t.Fatalf("unparseable OTEL_ENABLED should keep the default")
	}
	if cfg.Port != "9090" || cfg.StoreBackend != "memory" || cfg.GinMode != "test" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected warn, got %s", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("base path not normalized: %s", cfg.APIBasePath)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("CSV not parsed: %+v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"STORE_BACKEND":     "postgres",
		"LOG_LEVEL":         "verbose",
		"ALERT_WINDOW_DAYS": "0",
		"RATE_BURST":        "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
