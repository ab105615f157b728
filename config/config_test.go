package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Session.Store != "memory" || cfg.Session.Lock != "local" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %s", cfg.Session.TTL)
	}
}

func TestLoadExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SALON_TEST_REDIS", "redis.internal:6380")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: "9090"
session:
  store: redis
  ttl: 2h
redis:
  address: ${SALON_TEST_REDIS}
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Redis.Address != "redis.internal:6380" {
		t.Fatalf("expected expanded redis address, got %q", cfg.Redis.Address)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %s", cfg.Session.TTL)
	}
	if cfg.Session.Lock != "local" {
		t.Fatalf("expected default lock, got %q", cfg.Session.Lock)
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Fatalf("expected default driver, got %q", cfg.Database.Driver)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestExampleConfigLoads(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "")

	cfg, err := Load(filepath.Join("..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Environment != "staging" || cfg.Redis.Address != "redis:6379" {
		t.Fatalf("env not expanded: %+v %+v", cfg.App, cfg.Redis)
	}
	if cfg.Session.Store != "redis" || cfg.Session.Lock != "redis" || cfg.Session.LockTTL != 10*time.Second {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
}
