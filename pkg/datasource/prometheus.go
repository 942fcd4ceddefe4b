// Package datasource provides an optional live candidate source: instead of
// reading kube-burner files from disk, the regression detector can pull the
// cluster's pod startup latency quantiles straight from Prometheus.
package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

type PrometheusSource struct {
	client v1.API
	url    string
}

func NewPrometheusSource(url string) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{
		Address: url,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &PrometheusSource{
		client: v1.NewAPI(client),
		url:    url,
	}, nil
}

// PodStartLatency computes P50/P95/P99 pod startup latency in milliseconds
// from the kubelet's pod start duration histogram, over the given window.
func (p *PrometheusSource) PodStartLatency(ctx context.Context, window time.Duration) (models.LatencyQuantile, error) {
	result := models.LatencyQuantile{QuantileName: "Ready"}

	rangeExpr := fmt.Sprintf("sum(rate(kubelet_pod_start_duration_seconds_bucket[%s])) by (le)", window)

	quantiles := []struct {
		q    float64
		dest *float64
	}{
		{0.50, &result.P50},
		{0.95, &result.P95},
		{0.99, &result.P99},
	}
	for _, item := range quantiles {
		query := fmt.Sprintf("histogram_quantile(%.2f, %s)", item.q, rangeExpr)
		seconds, err := p.querySingle(ctx, query)
		if err != nil {
			return result, fmt.Errorf("quantile %.2f query failed: %w", item.q, err)
		}
		*item.dest = seconds * 1000
	}

	avgQuery := fmt.Sprintf(
		"sum(rate(kubelet_pod_start_duration_seconds_sum[%s])) / sum(rate(kubelet_pod_start_duration_seconds_count[%s]))",
		window, window)
	if seconds, err := p.querySingle(ctx, avgQuery); err == nil {
		result.Avg = seconds * 1000
	}

	return result, nil
}

func (p *PrometheusSource) querySingle(ctx context.Context, query string) (float64, error) {
	result, warnings, err := p.client.Query(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}

	if len(warnings) > 0 {
		fmt.Printf("[WARN] Prometheus: %v\n", warnings)
	}

	vector, ok := result.(model.Vector)
	if !ok || len(vector) == 0 {
		return 0, fmt.Errorf("no data for query: %s", query)
	}

	return float64(vector[0].Value), nil
}

// IsAvailable probes the endpoint with a trivial query.
func (p *PrometheusSource) IsAvailable(ctx context.Context) bool {
	_, _, err := p.client.Query(ctx, "up", time.Now())
	return err == nil
}

func (p *PrometheusSource) Name() string {
	return "Prometheus"
}
