package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	scrollerrors "github.com/scrollock-dev/scrollock/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Address != DefaultAddress {
		t.Errorf("Address = %q, want %q", cfg.Address, DefaultAddress)
	}
	if cfg.Session.ResumeWindow != "5m" {
		t.Errorf("Session.ResumeWindow = %q, want 5m", cfg.Session.ResumeWindow)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
address: ":9090"
session:
  resumeWindow: 30s
  maxSessions: 100
metrics:
  enabled: true
  namespace: custom
log:
  level: debug
  format: json
devMode: true
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Address != ":9090" {
		t.Errorf("Address = %q, want :9090", cfg.Address)
	}
	if cfg.Session.ResumeWindow != "30s" {
		t.Errorf("Session.ResumeWindow = %q, want 30s", cfg.Session.ResumeWindow)
	}
	if got := cfg.ResumeWindow(); got != 30*time.Second {
		t.Errorf("ResumeWindow() = %v, want 30s", got)
	}
	if cfg.Session.MaxSessions != 100 {
		t.Errorf("Session.MaxSessions = %d, want 100", cfg.Session.MaxSessions)
	}
	if cfg.Metrics.Namespace != "custom" {
		t.Errorf("Metrics.Namespace = %q, want custom", cfg.Metrics.Namespace)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if !cfg.DevMode {
		t.Error("DevMode = false, want true")
	}
	// Unset fields get defaults filled in.
	if cfg.Session.IdleTimeout != "5m" {
		t.Errorf("Session.IdleTimeout = %q, want 5m default", cfg.Session.IdleTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	var serr *scrollerrors.Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if serr.Code != "E100" {
		t.Errorf("Code = %q, want E100", serr.Code)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "address: [\n")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected parse error")
	}
	var serr *scrollerrors.Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if serr.Code != "E101" {
		t.Errorf("Code = %q, want E101", serr.Code)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad resume window", func(c *Config) { c.Session.ResumeWindow = "forever" }},
		{"bad idle timeout", func(c *Config) { c.Session.IdleTimeout = "nope" }},
		{"negative max sessions", func(c *Config) { c.Session.MaxSessions = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var serr *scrollerrors.Error
			if !errors.As(err, &serr) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if serr.Code != "E102" {
				t.Errorf("Code = %q, want E102", serr.Code)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "address: \":8080\"\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	// t.TempDir may be behind a symlink; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(found)
	if gotResolved != wantResolved {
		t.Errorf("FindProjectRoot = %q, want %q", found, root)
	}
}

func TestFindProjectRootNotFound(t *testing.T) {
	_, err := FindProjectRoot(t.TempDir())
	if err == nil {
		t.Fatal("expected error when no config exists in any parent")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Address = ":7070"
	cfg.Session.MaxSessions = 42

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if loaded.Address != ":7070" {
		t.Errorf("Address = %q, want :7070", loaded.Address)
	}
	if loaded.Session.MaxSessions != 42 {
		t.Errorf("MaxSessions = %d, want 42", loaded.Session.MaxSessions)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Fatal("expected error saving config with no path")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Error("Exists = true for empty dir")
	}
	writeConfig(t, dir, "address: \":8080\"\n")
	if !Exists(dir) {
		t.Error("Exists = false after writing config")
	}
}
