package metrics

import (
	"math"
	"sort"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// SummarizeSamples computes the standard quantile summary (P50/P95/P99,
// average, max) from raw latency samples for one condition.
func SummarizeSamples(condition string, values []float64) models.LatencyQuantile {
	if len(values) == 0 {
		return models.LatencyQuantile{QuantileName: condition}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return models.LatencyQuantile{
		QuantileName: condition,
		P50:          percentile(sorted, 50),
		P95:          percentile(sorted, 95),
		P99:          percentile(sorted, 99),
		Avg:          average(sorted),
		Max:          sorted[len(sorted)-1],
	}
}

// percentile computes the Nth percentile using linear interpolation between
// the two nearest ranks.
func percentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if len(sortedValues) == 1 {
		return sortedValues[0]
	}

	n := float64(len(sortedValues))
	rank := (p / 100.0) * (n - 1)

	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sortedValues[lower]
	}

	fraction := rank - float64(lower)
	return sortedValues[lower] + (sortedValues[upper]-sortedValues[lower])*fraction
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
