package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		if err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if AppConfig.Store.Backend != "github" {
			t.Errorf("backend = %q, want github default", AppConfig.Store.Backend)
		}
		if AppConfig.Editor.AutosaveDelayMs != 1500 {
			t.Errorf("autosave delay = %d, want 1500", AppConfig.Editor.AutosaveDelayMs)
		}
		if AppConfig.Logging.Level != "info" {
			t.Errorf("log level = %q", AppConfig.Logging.Level)
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := []byte("store:\n  backend: sqlite\neditor:\n  autosave_delay_ms: 300\n")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}

		if err := LoadConfig(path); err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if AppConfig.Store.Backend != "sqlite" {
			t.Errorf("backend = %q", AppConfig.Store.Backend)
		}
		if AppConfig.Editor.AutosaveDelayMs != 300 {
			t.Errorf("autosave delay = %d", AppConfig.Editor.AutosaveDelayMs)
		}
		// Untouched sections keep their defaults.
		if AppConfig.Repo.Owner != "spiffler33" {
			t.Errorf("owner = %q", AppConfig.Repo.Owner)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("store:\n\tbackend: tabs"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := LoadConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
