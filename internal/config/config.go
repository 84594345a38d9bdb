package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"imbexp/internal/errors"
)

// Config represents the complete driver configuration
type Config struct {
	Log        LogConfig
	Experiment ExperimentConfig
	Trainer    TrainerConfig
	Ledger     LedgerConfig
}

// LogConfig holds logging settings
type LogConfig struct {
	Level       string
	ProgressBar bool
}

// ExperimentConfig holds the repetition loop and split settings shared by all drivers
type ExperimentConfig struct {
	ResultsDir         string
	Repetitions        int
	BaselineRuns       int
	Seed               int64
	TestFraction       float64
	ValidationFraction float64
}

// TrainerConfig holds settings for the external DDQN trainer process
type TrainerConfig struct {
	Command []string
	WorkDir string
	Timeout time.Duration
}

// LedgerConfig holds the optional run ledger database settings
type LedgerConfig struct {
	Driver string
	DSN    string
}

// Enabled reports whether a ledger DSN was configured
func (c LedgerConfig) Enabled() bool {
	return c.DSN != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Log:        *loadLogConfig(),
		Experiment: *loadExperimentConfig(),
		Trainer:    *loadTrainerConfig(),
		Ledger:     *loadLedgerConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:       getEnvOrDefault("LOG_LEVEL", "INFO"),
		ProgressBar: getEnvBoolOrDefault("PROGRESS_BAR", true),
	}
}

func loadExperimentConfig() *ExperimentConfig {
	return &ExperimentConfig{
		ResultsDir:         getEnvOrDefault("RESULTS_DIR", "./results"),
		Repetitions:        getEnvIntOrDefault("EXPERIMENT_REPETITIONS", 10),
		BaselineRuns:       getEnvIntOrDefault("BASELINE_RUNS", 100),
		Seed:               getEnvInt64OrDefault("EXPERIMENT_SEED", 42),
		TestFraction:       getEnvFloatOrDefault("TEST_FRACTION", 0.2),
		ValidationFraction: getEnvFloatOrDefault("VALIDATION_FRACTION", 0.2),
	}
}

func loadTrainerConfig() *TrainerConfig {
	return &TrainerConfig{
		Command: strings.Fields(getEnvOrDefault("TRAINER_COMMAND", "python -m imbDRL.bridge")),
		WorkDir: getEnvOrDefault("TRAINER_WORKDIR", os.TempDir()),
		Timeout: getEnvDurationOrDefault("TRAINER_TIMEOUT", 0),
	}
}

func loadLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		Driver: getEnvOrDefault("LEDGER_DRIVER", "sqlite3"),
		DSN:    getEnvOrDefault("LEDGER_DSN", ""),
	}
}

func validateConfig(config *Config) error {
	exp := config.Experiment
	if exp.Repetitions < 1 {
		return errors.ConfigInvalid("EXPERIMENT_REPETITIONS must be at least 1")
	}
	if exp.BaselineRuns < 1 {
		return errors.ConfigInvalid("BASELINE_RUNS must be at least 1")
	}
	if exp.TestFraction <= 0 || exp.TestFraction >= 1 {
		return errors.ConfigInvalid("TEST_FRACTION must be in (0, 1)")
	}
	if exp.ValidationFraction <= 0 || exp.ValidationFraction >= 1 {
		return errors.ConfigInvalid("VALIDATION_FRACTION must be in (0, 1)")
	}
	if exp.ResultsDir == "" {
		return errors.ConfigInvalid("RESULTS_DIR is required")
	}
	if len(config.Trainer.Command) == 0 {
		return errors.ConfigInvalid("TRAINER_COMMAND is required")
	}
	switch config.Ledger.Driver {
	case "sqlite3", "postgres":
	default:
		return errors.ConfigInvalid("LEDGER_DRIVER must be sqlite3 or postgres")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
