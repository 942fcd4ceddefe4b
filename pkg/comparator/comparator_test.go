package comparator

import (
	"math"
	"testing"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

func TestCompareChangePct(t *testing.T) {
	baseline := models.MetricSet{
		"Ready": {QuantileName: "Ready", P99: 10000, Avg: 5000},
	}
	candidate := models.MetricSet{
		"Ready": {QuantileName: "Ready", P99: 5000, Avg: 2500},
	}

	results := Compare(baseline, candidate, []Field{FieldP99})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Condition != "Ready" || r.Field != FieldP99 {
		t.Errorf("Unexpected result identity: %+v", r)
	}
	if math.Abs(r.ChangePct-50.0) > 1e-9 {
		t.Errorf("Expected change 50.0%%, got %.9f", r.ChangePct)
	}
	if ImprovementPolicy().Classify(r.ChangePct) != LabelExcellent {
		t.Errorf("Expected 'excellent' for 50%% improvement")
	}
}

func TestCompareExactFormula(t *testing.T) {
	baseline := models.MetricSet{
		"PodScheduled":    {P50: 120, P95: 480, P99: 950, Avg: 200, Max: 1800},
		"ContainersReady": {P50: 2000, P95: 4100, P99: 5500, Avg: 2600, Max: 9000},
	}
	candidate := models.MetricSet{
		"PodScheduled":    {P50: 20, P95: 90, P99: 140, Avg: 45, Max: 600},
		"ContainersReady": {P50: 2100, P95: 4000, P99: 5900, Avg: 2700, Max: 8100},
	}

	results := Compare(baseline, candidate, DefaultFields)
	if len(results) != len(DefaultFields)*2 {
		t.Fatalf("Expected %d results, got %d", len(DefaultFields)*2, len(results))
	}

	for _, r := range results {
		want := (r.Baseline - r.Candidate) / r.Baseline * 100
		if math.Abs(r.ChangePct-want) > 1e-9 {
			t.Errorf("%s/%s: ChangePct %.9f, want %.9f", r.Condition, r.Field, r.ChangePct, want)
		}
	}
}

func TestCompareZeroBaselineSkipped(t *testing.T) {
	baseline := models.MetricSet{
		"Ready": {QuantileName: "Ready", P99: 0},
	}
	candidate := models.MetricSet{
		"Ready": {QuantileName: "Ready", P99: 100},
	}

	results := Compare(baseline, candidate, []Field{FieldP99})
	if len(results) != 0 {
		t.Errorf("Expected empty result for zero baseline, got %d entries", len(results))
	}
}

func TestCompareIntersectionOnly(t *testing.T) {
	baseline := models.MetricSet{
		"Ready": {P99: 1000},
		"X":     {P99: 500},
	}
	candidate := models.MetricSet{
		"Ready": {P99: 900},
	}

	results := Compare(baseline, candidate, []Field{FieldP99})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Condition != "Ready" {
		t.Errorf("Condition 'X' should be silently skipped, got result for %q", results[0].Condition)
	}
}

func TestCompareDeterministicOrder(t *testing.T) {
	baseline := models.MetricSet{
		"Ready":           {P99: 1000, Avg: 500},
		"ContainersReady": {P99: 800, Avg: 400},
		"PodScheduled":    {P99: 100, Avg: 50},
	}
	candidate := models.MetricSet{
		"Ready":           {P99: 700, Avg: 350},
		"ContainersReady": {P99: 850, Avg: 420},
		"PodScheduled":    {P99: 20, Avg: 10},
	}

	first := Compare(baseline, candidate, []Field{FieldP99, FieldAvg})
	for i := 0; i < 10; i++ {
		again := Compare(baseline, candidate, []Field{FieldP99, FieldAvg})
		if len(again) != len(first) {
			t.Fatalf("Result length changed between runs: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("Result order changed between runs at index %d: %+v vs %+v", j, again[j], first[j])
			}
		}
	}

	// Map iteration order must not leak through: conditions sorted by name.
	if first[0].Condition != "ContainersReady" || first[2].Condition != "PodScheduled" || first[4].Condition != "Ready" {
		t.Errorf("Expected conditions in sorted order, got %q, %q, %q",
			first[0].Condition, first[2].Condition, first[4].Condition)
	}
}

func TestAggregate(t *testing.T) {
	results := []Result{
		{Field: FieldP99, ChangePct: 50},
		{Field: FieldP99, ChangePct: 30},
		{Field: FieldAvg, ChangePct: -100},
	}

	summary := Aggregate(FilterField(results, FieldP99))
	if summary.Count != 2 {
		t.Errorf("Expected count 2, got %d", summary.Count)
	}
	if math.Abs(summary.MeanChangePct-40) > 1e-9 {
		t.Errorf("Expected mean 40, got %.9f", summary.MeanChangePct)
	}

	empty := Aggregate(nil)
	if empty.Count != 0 || empty.MeanChangePct != 0 {
		t.Errorf("Expected zero summary for empty input, got %+v", empty)
	}
}
