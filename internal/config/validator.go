package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.ReferenceCacheDir == "" {
		errors = append(errors, "reference cache directory is required")
	}
	if c.RunsDir == "" {
		errors = append(errors, "runs directory is required")
	}

	if c.SAMBatchSize < 1 {
		errors = append(errors, "SAM batch size must be at least 1")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if c.RateLimitPerSec <= 0 {
		errors = append(errors, "rate limit must be positive")
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, "rate limit burst must be at least 1")
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, "shutdown timeout must be at least 1 second")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// GetDefaults returns a configuration with default values rooted at dataDir.
func GetDefaults(dataDir string) *Config {
	return &Config{
		Port:              "9999",
		ShutdownTimeout:   30 * time.Second,
		DataDir:           dataDir,
		ReferenceCacheDir: filepath.Join(dataDir, "reference_cache"),
		RunsDir:           filepath.Join(dataDir, "runs"),
		ClientsDir:        filepath.Join(dataDir, "clients"),
		SAMBatchSize:      50000,
		LogLevel:          "INFO",
		RateLimitPerSec:   20,
		RateLimitBurst:    40,
	}
}
