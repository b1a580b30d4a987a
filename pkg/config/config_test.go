package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvStoreDriver, "")
	t.Setenv(EnvStoreDSN, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.Store.Driver)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Redis.Enabled() {
		t.Fatal("redis should be disabled without a url")
	}
	if cfg.Redis.LockTTL != 30*time.Second {
		t.Fatalf("unexpected lock ttl %s", cfg.Redis.LockTTL)
	}
}

func TestLoadSQLiteDefaultsToMemoryDSN(t *testing.T) {
	t.Setenv(EnvStoreDriver, "SQLite")
	t.Setenv(EnvStoreDSN, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Driver != StoreDriverSQLite || cfg.Store.DSN == "" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv(EnvStoreDriver, "postgres")
	t.Setenv(EnvStoreDSN, "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv(EnvStoreDriver, "mongo")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
