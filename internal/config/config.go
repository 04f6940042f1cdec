package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"curvefit/internal/engine"
	"curvefit/internal/errors"
	"curvefit/internal/solvers"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Log      LogConfig
	Fit      FitConfig
}

// DatabaseConfig holds database connection settings. An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// FitConfig holds regression engine settings
type FitConfig struct {
	AlphaText        string // raw REGRESSION_ALPHA; invalid text falls back to 1.0 at fit time
	IncludeSolvers   bool
	GDIterations     int
	GDLearningRate   float64
	SGDMaxEpochs     int
	SGDLearningRate  float64
	SGDTolerance     float64
	SGDSeed          int64
	BatchConcurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: loadDatabaseConfig(),
		Server:   loadServerConfig(),
		Log:      LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Fit:      loadFitConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadFitConfig() FitConfig {
	d := solvers.DefaultOptions()
	return FitConfig{
		AlphaText:        os.Getenv("REGRESSION_ALPHA"),
		IncludeSolvers:   getEnvBoolOrDefault("INCLUDE_SOLVERS", true),
		GDIterations:     getEnvIntOrDefault("GD_ITERATIONS", d.GDIterations),
		GDLearningRate:   getEnvFloatOrDefault("GD_LEARNING_RATE", d.GDLearningRate),
		SGDMaxEpochs:     getEnvIntOrDefault("SGD_MAX_EPOCHS", d.SGDMaxEpochs),
		SGDLearningRate:  getEnvFloatOrDefault("SGD_LEARNING_RATE", d.SGDLearningRate),
		SGDTolerance:     getEnvFloatOrDefault("SGD_TOLERANCE", d.SGDTolerance),
		SGDSeed:          int64(getEnvIntOrDefault("SGD_SEED", int(d.Seed))),
		BatchConcurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
	}
}

func validateConfig(config *Config) error {
	f := config.Fit
	switch {
	case f.GDIterations <= 0:
		return errors.ConfigInvalid(fmt.Sprintf("GD_ITERATIONS must be positive, got %d", f.GDIterations))
	case f.GDLearningRate <= 0:
		return errors.ConfigInvalid(fmt.Sprintf("GD_LEARNING_RATE must be positive, got %g", f.GDLearningRate))
	case f.SGDMaxEpochs <= 0:
		return errors.ConfigInvalid(fmt.Sprintf("SGD_MAX_EPOCHS must be positive, got %d", f.SGDMaxEpochs))
	case f.SGDLearningRate <= 0:
		return errors.ConfigInvalid(fmt.Sprintf("SGD_LEARNING_RATE must be positive, got %g", f.SGDLearningRate))
	case f.SGDTolerance <= 0:
		return errors.ConfigInvalid(fmt.Sprintf("SGD_TOLERANCE must be positive, got %g", f.SGDTolerance))
	case f.BatchConcurrency <= 0:
		return errors.ConfigInvalid(fmt.Sprintf("BATCH_CONCURRENCY must be positive, got %d", f.BatchConcurrency))
	case config.Server.Port == "":
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// SolverOptions maps the fit settings onto solver options
func (c *Config) SolverOptions() solvers.Options {
	opts := solvers.DefaultOptions()
	opts.GDIterations = c.Fit.GDIterations
	opts.GDLearningRate = c.Fit.GDLearningRate
	opts.SGDMaxEpochs = c.Fit.SGDMaxEpochs
	opts.SGDLearningRate = c.Fit.SGDLearningRate
	opts.SGDTolerance = c.Fit.SGDTolerance
	opts.Seed = c.Fit.SGDSeed
	return opts
}

// EngineConfig builds the default FitAll configuration. An unset REGRESSION_ALPHA leaves
// Alpha nil so the default applies without being reported as a fallback.
func (c *Config) EngineConfig() engine.Config {
	cfg := engine.Config{
		IncludeSolvers: c.Fit.IncludeSolvers,
		Solver:         c.SolverOptions(),
	}
	if c.Fit.AlphaText != "" {
		cfg = cfg.WithAlphaText(c.Fit.AlphaText)
	}
	return cfg
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
