package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
db:
  host: localhost
  port: 5432
  user: app
  password: secret
  name: teamboard
redis:
  addr: localhost:6379
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want 24h", cfg.Session.TTL)
	}
	if cfg.Server.Port != ":8080" {
		t.Errorf("Server.Port = %q, want :8080", cfg.Server.Port)
	}
	if cfg.Store != "postgres" {
		t.Errorf("Store = %q, want postgres", cfg.Store)
	}
	if cfg.DB.Host != "localhost" || cfg.DB.Name != "teamboard" {
		t.Errorf("db section not decoded: %+v", cfg.DB)
	}
}

func TestLoadReadsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
session:
  ttl: 30m
server:
  port: ":9090"
  development: true
store: memory
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want 30m", cfg.Session.TTL)
	}
	if cfg.Server.Port != ":9090" || !cfg.Server.Development {
		t.Errorf("server section not decoded: %+v", cfg.Server)
	}
	if cfg.Store != "memory" {
		t.Errorf("Store = %q, want memory", cfg.Store)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
db:
  host: filehost
  port: 5432
server:
  port: ":8080"
`)
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("SERVER_PORT", ":3000")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("STORE", "memory")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Host != "envhost" || cfg.DB.Port != 6543 {
		t.Errorf("db overrides not applied: %+v", cfg.DB)
	}
	if cfg.Server.Port != ":3000" {
		t.Errorf("Server.Port = %q, want :3000", cfg.Server.Port)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Session.TTL = %v, want 2h", cfg.Session.TTL)
	}
	if cfg.Store != "memory" {
		t.Errorf("Store = %q, want memory", cfg.Store)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
