package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Storage.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Storage.Timeout)
	}
	if len(cfg.Catalog.Days) != 5 || cfg.Catalog.Days[0] != "Monday" {
		t.Errorf("unexpected catalog days: %v", cfg.Catalog.Days)
	}
	if len(cfg.Catalog.Times) != 4 || cfg.Catalog.Times[0] != "09:00" {
		t.Errorf("unexpected catalog times: %v", cfg.Catalog.Times)
	}
	if cfg.Defaults.LectureDurationMinutes != 120 {
		t.Errorf("LectureDurationMinutes = %d, want 120", cfg.Defaults.LectureDurationMinutes)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
storage:
  backend: sqlite
  sqlite:
    dsn: /tmp/test.db
catalog:
  days: [Monday, Wednesday]
  times: ["10:00"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLite.DSN != "/tmp/test.db" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if len(cfg.Catalog.Days) != 2 || len(cfg.Catalog.Times) != 1 {
		t.Errorf("unexpected catalog: %+v", cfg.Catalog)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown backend", "storage:\n  backend: mongodb\n"},
		{"bad catalog day", "catalog:\n  days: [Funday]\n"},
		{"bad catalog time", "catalog:\n  times: [\"25:00\"]\n"},
		{"empty days", "catalog:\n  days: []\n"},
		{"zero duration", "defaults:\n  lecture_duration_minutes: 0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}
