package baseline

import (
	"fmt"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/metrics"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// source maps a metric type to the results directory it is read from and
// the reference condition whose percentiles represent it.
type source struct {
	metricType string
	dir        string
	condition  string
	pick       func(*models.TestResult) models.MetricSet
}

var sources = []source{
	{"pod_latency", "collected-metrics", "Ready", func(r *models.TestResult) models.MetricSet { return r.PodLatency }},
	{"pod_latency_tuned", "collected-metrics-tuned", "Ready", func(r *models.TestResult) models.MetricSet { return r.PodLatency }},
	{"vmi_latency", "collected-metrics-vmi", "VMIRunning", func(r *models.TestResult) models.MetricSet { return r.VMILatency }},
	{"netpol_latency", "collected-metrics-netpol", "Ready", func(r *models.TestResult) models.MetricSet { return r.NetpolLatency }},
}

// CollectCurrent gathers the current percentile values for every metric
// type that has data on disk. Types without data are absent from the map,
// never an error.
func CollectCurrent(loader *metrics.Loader) map[string]map[string]float64 {
	current := map[string]map[string]float64{}

	for _, src := range sources {
		set := src.pick(loader.Load(src.dir))
		q, ok := set[src.condition]
		if !ok {
			continue
		}
		current[src.metricType] = map[string]float64{
			"p50": q.P50,
			"p95": q.P95,
			"p99": q.P99,
		}
		fmt.Printf("[INFO] %s: %s from %s\n", src.metricType, src.condition, src.dir)
	}

	return current
}
