package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "givespot.sqlite3" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr ':8080', got %q", cfg.Addr)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GIVESPOT_DB", "/tmp/test.sqlite3")
	t.Setenv("GIVESPOT_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/test.sqlite3" {
		t.Errorf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("expected env addr, got %q", cfg.Addr)
	}
}
