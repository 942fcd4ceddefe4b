// Package baseline persists the reference latency metrics the regression
// detector compares against.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// FileName is the fixed baseline file name under the metrics directory.
const FileName = "performance-baseline.json"

// Baseline is the persisted reference point. Metrics maps a metric type
// (e.g. "pod_latency", "vmi_latency") to its percentile values in ms.
type Baseline struct {
	Timestamp time.Time                     `json:"timestamp"`
	Threshold float64                       `json:"threshold"`
	Metrics   map[string]map[string]float64 `json:"metrics"`
}

// Save writes the baseline under dir and returns the file path.
func Save(dir string, b *Baseline) (string, error) {
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode baseline: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write baseline: %w", err)
	}
	return path, nil
}

// Load reads a baseline file. A missing file is reported as an error so the
// caller can suggest --save-baseline; it is never fatal to the program.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline: %w", err)
	}
	return &b, nil
}

// ToMetricSet converts a percentile mapping into a MetricSet keyed by metric
// type, so the regression call site can reuse the shared comparator.
func ToMetricSet(metrics map[string]map[string]float64) models.MetricSet {
	set := models.MetricSet{}
	for metricType, percentiles := range metrics {
		set[metricType] = models.LatencyQuantile{
			QuantileName: metricType,
			P50:          percentiles["p50"],
			P95:          percentiles["p95"],
			P99:          percentiles["p99"],
		}
	}
	return set
}
