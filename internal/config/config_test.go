package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ModelDir != "data" || cfg.HistoryDB != "attributor.db" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.Training.Seed != 27 || cfg.Training.PerLabel != 100 {
		t.Fatalf("unexpected training defaults: %+v", cfg.Training)
	}
	if cfg.Training.TestFraction != 0.2 || cfg.Training.Alpha != 1.0 || cfg.Training.Bump != "patch" {
		t.Fatalf("unexpected training defaults: %+v", cfg.Training)
	}
	if cfg.Log.Level != "info" || cfg.Log.JSON {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ATTRIBUTOR_MODEL_DIR", "/var/lib/attributor")
	t.Setenv("ATTRIBUTOR_SEED", "99")
	t.Setenv("ATTRIBUTOR_PER_LABEL", "50")
	t.Setenv("ATTRIBUTOR_TEST_FRACTION", "0.3")
	t.Setenv("ATTRIBUTOR_BUMP", "minor")
	t.Setenv("ATTRIBUTOR_LOG_JSON", "true")

	cfg := Load()
	if cfg.ModelDir != "/var/lib/attributor" {
		t.Fatalf("ModelDir = %q", cfg.ModelDir)
	}
	if cfg.Training.Seed != 99 || cfg.Training.PerLabel != 50 || cfg.Training.TestFraction != 0.3 {
		t.Fatalf("training overrides not applied: %+v", cfg.Training)
	}
	if cfg.Training.Bump != "minor" {
		t.Fatalf("Bump = %q", cfg.Training.Bump)
	}
	if !cfg.Log.JSON {
		t.Fatal("Log.JSON override not applied")
	}
}

func TestLoadEnvMalformedFallsBack(t *testing.T) {
	t.Setenv("ATTRIBUTOR_PER_LABEL", "not-a-number")
	t.Setenv("ATTRIBUTOR_LOG_JSON", "maybe")
	cfg := Load()
	if cfg.Training.PerLabel != 100 {
		t.Fatalf("PerLabel = %d, want default 100", cfg.Training.PerLabel)
	}
	if cfg.Log.JSON {
		t.Fatal("malformed bool should keep the default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributor.yaml")
	raw := []byte(`
model_dir: /srv/models
training:
  per_label: 25
  bump: major
log:
  level: debug
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.ModelDir != "/srv/models" || cfg.Training.PerLabel != 25 || cfg.Training.Bump != "major" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q", cfg.Log.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Training.Seed != 27 || cfg.HistoryDB != "attributor.db" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadFileEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributor.yaml")
	if err := os.WriteFile(path, []byte("model_dir: /srv/models\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ATTRIBUTOR_MODEL_DIR", "/env/models")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.ModelDir != "/env/models" {
		t.Fatalf("ModelDir = %q, want env override", cfg.ModelDir)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
