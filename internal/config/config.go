package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds process configuration for the server and the CLIs.
type Config struct {
	// Server
	Port            string        `json:"port"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// Storage
	DataDir           string `json:"data_dir"`
	ReferenceCacheDir string `json:"reference_cache_dir"`
	RunsDir           string `json:"runs_dir"`
	ClientsDir        string `json:"clients_dir"`

	// Reference build
	SAMBatchSize int `json:"sam_batch_size"`

	// Logging
	LogLevel string `json:"log_level"`

	// Rate limiting
	RateLimitPerSec float64 `json:"rate_limit_per_sec"`
	RateLimitBurst  int     `json:"rate_limit_burst"`
}

// LoadConfig reads the configuration from environment variables. Directory
// settings left unset are derived from EXCLUSION_DATA_DIR.
func LoadConfig() (*Config, error) {
	dataDir := getEnv("EXCLUSION_DATA_DIR", defaultDataDir())

	config := &Config{
		Port:            getEnv("SERVER_PORT", "9999"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DataDir:           dataDir,
		ReferenceCacheDir: getEnv("REFERENCE_CACHE_DIR", filepath.Join(dataDir, "reference_cache")),
		RunsDir:           getEnv("RUNS_DIR", filepath.Join(dataDir, "runs")),
		ClientsDir:        getEnv("CLIENTS_DIR", filepath.Join(dataDir, "clients")),

		SAMBatchSize: getEnvInt("SAM_BATCH_SIZE", 50000),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		RateLimitPerSec: getEnvFloat("RATE_LIMIT_PER_SEC", 20),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 40),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values fall back to INFO.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ExclusionAppData"
	}
	return filepath.Join(home, "ExclusionAppData")
}

// getEnv returns the environment variable or the default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as Duration or the default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
