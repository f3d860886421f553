package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte(`
server:
  port: 8080
feeds:
  transientURL: https://example.com/return_transient_data
  permanentURL: https://example.com/return_permanent_data
search:
  debounceMS: 250
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Search.DebounceMS != 250 {
		t.Errorf("expected debounce 250, got %d", cfg.Search.DebounceMS)
	}
	// Defaults fill unset values.
	if cfg.Search.LargeDebounceMS != 400 {
		t.Errorf("expected large debounce default 400, got %d", cfg.Search.LargeDebounceMS)
	}
	if cfg.Search.LargeResultThreshold != 5000 {
		t.Errorf("expected threshold default 5000, got %d", cfg.Search.LargeResultThreshold)
	}
}

func TestLoadAppConfigRejectsBadURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("feeds:\n  transientURL: not-a-url\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected validation error for malformed URL")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Geo.FallbackLat != 53.4494762 || cfg.Geo.FallbackLon != -7.5029786 {
		t.Errorf("unexpected fallback origin: %v, %v", cfg.Geo.FallbackLat, cfg.Geo.FallbackLon)
	}
	if cfg.Storage.TTLHours != 168 {
		t.Errorf("expected 168h TTL, got %d", cfg.Storage.TTLHours)
	}
}
