package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
)

func TestNewConfigDefaults(t *testing.T) {
	os.Unsetenv("METRICS_DIR")
	os.Unsetenv("REGRESSION_THRESHOLD")
	os.Unsetenv("STORAGE_ENABLED")

	cfg := NewConfig()

	if cfg.MetricsDir != "~/kube-burner-configs" {
		t.Errorf("Expected default metrics dir, got %s", cfg.MetricsDir)
	}
	if cfg.RegressionThreshold != 10.0 {
		t.Errorf("Expected default threshold 10.0, got %.1f", cfg.RegressionThreshold)
	}
	if cfg.StorageEnabled {
		t.Error("Expected storage disabled by default")
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	os.Setenv("METRICS_DIR", "/data/results")
	os.Setenv("REGRESSION_THRESHOLD", "15.5")
	os.Setenv("PROMETHEUS_URL", "http://prometheus:9090")
	defer os.Unsetenv("METRICS_DIR")
	defer os.Unsetenv("REGRESSION_THRESHOLD")
	defer os.Unsetenv("PROMETHEUS_URL")

	cfg := NewConfig()

	if cfg.MetricsDir != "/data/results" {
		t.Errorf("Expected metrics dir from env, got %s", cfg.MetricsDir)
	}
	if cfg.RegressionThreshold != 15.5 {
		t.Errorf("Expected threshold 15.5 from env, got %.1f", cfg.RegressionThreshold)
	}
	if cfg.PrometheusURL != "http://prometheus:9090" {
		t.Errorf("Expected custom Prometheus URL, got %s", cfg.PrometheusURL)
	}
}

func TestInvalidEnvValues(t *testing.T) {
	os.Setenv("REGRESSION_THRESHOLD", "invalid")
	defer os.Unsetenv("REGRESSION_THRESHOLD")

	cfg := NewConfig()

	// Should fall back to default
	if cfg.RegressionThreshold != 10.0 {
		t.Errorf("Expected fallback to default 10.0, got %.1f", cfg.RegressionThreshold)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name          string
		setupConfig   func(*Config)
		expectError   bool
		errorContains string
	}{
		{
			name:        "valid default config",
			setupConfig: func(c *Config) {},
			expectError: false,
		},
		{
			name: "empty metrics dir",
			setupConfig: func(c *Config) {
				c.MetricsDir = ""
			},
			expectError:   true,
			errorContains: "metrics directory",
		},
		{
			name: "zero threshold",
			setupConfig: func(c *Config) {
				c.RegressionThreshold = 0
			},
			expectError:   true,
			errorContains: "must be > 0",
		},
		{
			name: "negative threshold",
			setupConfig: func(c *Config) {
				c.RegressionThreshold = -5
			},
			expectError: true,
		},
		{
			name: "storage enabled without database URL",
			setupConfig: func(c *Config) {
				c.StorageEnabled = true
				c.DatabaseURL = ""
			},
			expectError:   true,
			errorContains: "DATABASE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.StorageEnabled = false
			tt.setupConfig(cfg)

			err := cfg.Validate()

			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
			if tt.expectError && err != nil && tt.errorContains != "" {
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error containing %q, got %q", tt.errorContains, err.Error())
				}
			}
		})
	}
}

func TestLoadPolicies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := `policies:
  - name: improvement
    cuts:
      - {above: 30, label: excellent}
      - {above: 10, label: better}
      - {above: -10, label: similar}
    fallback: worse
  - name: regression
    cuts:
      - {above: 5, label: improved}
      - {above: -20, label: ok}
    fallback: regression
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	policies, err := LoadPolicies(path)
	if err != nil {
		t.Fatalf("LoadPolicies failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("Expected 2 policies, got %d", len(policies))
	}

	improvement := policies["improvement"]
	if got := improvement.Classify(25); got != comparator.LabelBetter {
		t.Errorf("Custom cut points not applied: Classify(25) = %q", got)
	}
	if got := improvement.Classify(-50); got != comparator.LabelWorse {
		t.Errorf("Fallback not applied: Classify(-50) = %q", got)
	}
}

func TestLoadPoliciesRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "::::"},
		{"missing fallback", "policies:\n  - name: x\n    cuts: [{above: 5, label: ok}]\n"},
		{"non-descending cuts", "policies:\n  - name: x\n    cuts: [{above: 5, label: a}, {above: 10, label: b}]\n    fallback: c\n"},
		{"unnamed policy", "policies:\n  - cuts: [{above: 5, label: a}]\n    fallback: b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "thresholds.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if _, err := LoadPolicies(path); err == nil {
				t.Error("Expected error for invalid policy file")
			}
		})
	}
}
