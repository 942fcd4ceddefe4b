package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds shared tool configuration, sourced from environment
// variables with flag overrides applied by each command.
type Config struct {
	// Metrics
	MetricsDir string

	// Regression detection
	RegressionThreshold float64

	// Prometheus (optional live candidate source)
	PrometheusURL string

	// Storage (optional run history)
	StorageEnabled bool
	DatabaseURL    string

	// Output
	NoColor bool
	Verbose bool
}

// NewConfig creates a configuration with defaults.
func NewConfig() *Config {
	return &Config{
		MetricsDir:          getEnv("METRICS_DIR", "~/kube-burner-configs"),
		RegressionThreshold: getEnvFloat("REGRESSION_THRESHOLD", 10.0),
		PrometheusURL:       getEnv("PROMETHEUS_URL", ""),
		StorageEnabled:      getEnvBool("STORAGE_ENABLED", false),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		NoColor:             getEnvBool("NO_COLOR", false),
		Verbose:             false,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid.
func (c *Config) Validate() error {
	if c.MetricsDir == "" {
		return fmt.Errorf("metrics directory must not be empty")
	}
	if c.RegressionThreshold <= 0 {
		return fmt.Errorf("regression threshold must be > 0, got %.1f", c.RegressionThreshold)
	}
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	return nil
}
