package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DLT_USER", "DLT_CATALOG_PREFIX", "DLT_SCHEMA", "DLT_VOLUME",
		"DLT_VOLUMES_ROOT", "DLT_RUNS_DB", "DLT_SPECS_DIR", "DLT_WORKERS",
		"DLT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.User != "" {
		t.Errorf("User default should be empty, got %q", cfg.User)
	}
	if cfg.CatalogPrefix != "dlt_workshop" {
		t.Errorf("CatalogPrefix = %q", cfg.CatalogPrefix)
	}
	if cfg.Schema != "finance" {
		t.Errorf("Schema = %q", cfg.Schema)
	}
	if cfg.Volume != "_files" {
		t.Errorf("Volume = %q", cfg.Volume)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DLT_USER", "jane.doe@example.com")
	t.Setenv("DLT_SCHEMA", "sales")
	t.Setenv("DLT_WORKERS", "8")

	cfg := Load()
	if cfg.User != "jane.doe@example.com" {
		t.Errorf("User = %q", cfg.User)
	}
	if cfg.Schema != "sales" {
		t.Errorf("Schema = %q", cfg.Schema)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
}

func TestLoadIgnoresBadWorkerCounts(t *testing.T) {
	for _, bad := range []string{"zero", "-2", "0"} {
		t.Setenv("DLT_WORKERS", bad)
		if cfg := Load(); cfg.Workers != 4 {
			t.Errorf("DLT_WORKERS=%q: Workers = %d, want default", bad, cfg.Workers)
		}
	}
}
