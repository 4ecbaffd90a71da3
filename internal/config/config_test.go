package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, expected 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q, expected sqlite", cfg.Database.Driver)
	}
	if cfg.Session.DefaultPageSize != 5 {
		t.Errorf("DefaultPageSize = %d, expected 5", cfg.Session.DefaultPageSize)
	}
	if cfg.Session.CookieName == "" {
		t.Error("CookieName should have a default")
	}
}

func TestLoad_PartialFileFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: \"9999\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("Port = %q, expected 9999", cfg.Server.Port)
	}
	if cfg.JWT.ExpireHour != 24 {
		t.Errorf("ExpireHour = %d, expected default 24", cfg.JWT.ExpireHour)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DEFAULT_PAGE_SIZE", "9")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, expected env override 7070", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, expected env override postgres", cfg.Database.Driver)
	}
	if cfg.Session.DefaultPageSize != 9 {
		t.Errorf("DefaultPageSize = %d, expected env override 9", cfg.Session.DefaultPageSize)
	}
}

func TestLoad_BadPageSizeEnvIgnored(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "junk")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.DefaultPageSize != 5 {
		t.Errorf("DefaultPageSize = %d, expected default 5", cfg.Session.DefaultPageSize)
	}
}
