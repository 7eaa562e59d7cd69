package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	content := []byte(`
db_creds:
  host: "localhost"
  port: "5432"
  username: "u"
  password: "p"
  database: "mrag"
  load_table: "stage"

import:
  batch_size: 250

postal:
  base_url: "https://example.com/find"
  region: "Ontario"
  city: "Ottawa"
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.DBCreds.Host != "localhost" || cfg.DBCreds.Database != "mrag" {
		t.Errorf("db_creds not loaded: %+v", cfg.DBCreds)
	}
	if cfg.DBCreds.LoadTable != "stage" {
		t.Errorf("load_table = %q; want %q", cfg.DBCreds.LoadTable, "stage")
	}
	if cfg.Import.BatchSize != 250 {
		t.Errorf("import batch_size = %d; want 250", cfg.Import.BatchSize)
	}
	if cfg.Postal.BaseURL != "https://example.com/find" {
		t.Errorf("postal base_url = %q", cfg.Postal.BaseURL)
	}

	// Unset values fall back to defaults.
	if cfg.Postal.BatchSize != 10 {
		t.Errorf("postal batch_size default = %d; want 10", cfg.Postal.BatchSize)
	}
	if cfg.Postal.TimeoutSecs != 10 {
		t.Errorf("postal timeout_secs default = %d; want 10", cfg.Postal.TimeoutSecs)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("does-not-exist.yaml"); err == nil {
		t.Error("LoadConfig on a missing file should fail")
	}
}
