package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
  path: test.db
jwt:
  secret: local-secret
  expire_hours: 2
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Fatalf("JWT.ExpireTime = %v, want 2h", cfg.JWT.ExpireTime)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "test.db" {
		t.Fatalf("Database = %+v", cfg.Database)
	}
	if cfg.RateLimit.MaxRequests != 600 || cfg.Log.Level != "info" {
		t.Fatalf("defaults not applied: rate=%d level=%q", cfg.RateLimit.MaxRequests, cfg.Log.Level)
	}
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
database:
  driver: sqlite
jwt:
  secret: short
`)
	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected error for short secret in release mode")
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: oracle
jwt:
  secret: local-secret
`)
	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
