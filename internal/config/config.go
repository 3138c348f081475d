// Package config loads attributor configuration from the environment,
// optionally seeded from a YAML file (environment variables win).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all attributor configuration.
type Config struct {
	ModelDir  string         `yaml:"model_dir"`
	HistoryDB string         `yaml:"history_db"`
	Training  TrainingConfig `yaml:"training"`
	Log       LogConfig      `yaml:"log"`
}

// TrainingConfig holds trainer settings.
type TrainingConfig struct {
	Seed         int64   `yaml:"seed"`
	PerLabel     int     `yaml:"per_label"`
	TestFraction float64 `yaml:"test_fraction"`
	Alpha        float64 `yaml:"alpha"`
	Bump         string  `yaml:"bump"` // "patch", "minor" or "major"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func defaults() Config {
	return Config{
		ModelDir:  "data",
		HistoryDB: "attributor.db",
		Training: TrainingConfig{
			Seed:         27,
			PerLabel:     100,
			TestFraction: 0.2,
			Alpha:        1.0,
			Bump:         "patch",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from environment variables with sensible
// defaults.
func Load() Config {
	return applyEnv(defaults())
}

// LoadFile reads a YAML configuration file over the defaults, then
// applies environment overrides.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	cfg.ModelDir = getenv("ATTRIBUTOR_MODEL_DIR", cfg.ModelDir)
	cfg.HistoryDB = getenv("ATTRIBUTOR_HISTORY_DB", cfg.HistoryDB)
	cfg.Training.Seed = getenvInt64("ATTRIBUTOR_SEED", cfg.Training.Seed)
	cfg.Training.PerLabel = getenvInt("ATTRIBUTOR_PER_LABEL", cfg.Training.PerLabel)
	cfg.Training.TestFraction = getenvFloat("ATTRIBUTOR_TEST_FRACTION", cfg.Training.TestFraction)
	cfg.Training.Alpha = getenvFloat("ATTRIBUTOR_ALPHA", cfg.Training.Alpha)
	cfg.Training.Bump = getenv("ATTRIBUTOR_BUMP", cfg.Training.Bump)
	cfg.Log.Level = getenv("ATTRIBUTOR_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.JSON = getenvBool("ATTRIBUTOR_LOG_JSON", cfg.Log.JSON)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
