package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

func sampleResults() (*models.TestResult, *models.TestResult) {
	baseline := &models.TestResult{
		Directory: "collected-metrics",
		PodLatency: models.MetricSet{
			"Ready":        {QuantileName: "Ready", P50: 3000, P95: 8000, P99: 10000, Avg: 4000, Max: 15000},
			"PodScheduled": {QuantileName: "PodScheduled", P50: 100, P95: 400, P99: 800, Avg: 150, Max: 1500},
		},
		Summary: &models.JobSummary{JobsTotal: 5, JobsSuccessful: 5, ElapsedTime: "4m"},
	}
	tuned := &models.TestResult{
		Directory: "collected-metrics-tuned",
		PodLatency: models.MetricSet{
			"Ready":        {QuantileName: "Ready", P50: 1500, P95: 4000, P99: 5000, Avg: 2000, Max: 8000},
			"PodScheduled": {QuantileName: "PodScheduled", P50: 10, P95: 40, P99: 80, Avg: 15, Max: 150},
		},
	}
	return baseline, tuned
}

func TestGenerateBuildsComparison(t *testing.T) {
	baseline, tuned := sampleResults()

	report := New(comparator.ImprovementPolicy()).Generate(baseline, tuned, nil)

	if len(report.Comparison) != 2*len(comparator.DefaultFields) {
		t.Fatalf("Expected %d comparison entries, got %d",
			2*len(comparator.DefaultFields), len(report.Comparison))
	}

	for _, c := range report.Comparison {
		// Every pair in the fixture improved by at least 50%.
		if c.Label != comparator.LabelExcellent {
			t.Errorf("%s/%s: expected excellent, got %q (change %.1f%%)",
				c.Condition, c.Field, c.Label, c.ChangePct)
		}
	}

	if report.Headline.Count != 2 {
		t.Errorf("Expected headline over 2 P99 pairs, got %d", report.Headline.Count)
	}
	if report.Headline.MeanChangePct < 50 {
		t.Errorf("Expected headline mean >= 50%%, got %.1f", report.Headline.MeanChangePct)
	}
}

func TestGenerateMarkdown(t *testing.T) {
	baseline, tuned := sampleResults()
	report := New(comparator.ImprovementPolicy()).Generate(baseline, tuned, nil)

	var buf bytes.Buffer
	if err := GenerateMarkdown(report, &buf); err != nil {
		t.Fatalf("GenerateMarkdown failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Performance Analysis Report",
		"## Baseline Test Results (collected-metrics)",
		"## Tuned Test Results (collected-metrics-tuned)",
		"## Performance Comparison",
		"| Ready | 3000.0 | 8000.0 | 10000.0 | 4000.0 | 15000.0 |",
		"| Ready P99 | 10000.0ms | 5000.0ms | +50.0% | excellent |",
		"## Job Summary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown report missing %q\n---\n%s", want, out)
		}
	}
}

func TestGenerateMarkdownWithoutComparison(t *testing.T) {
	baseline, _ := sampleResults()
	report := New(comparator.ImprovementPolicy()).Generate(baseline, nil, nil)

	var buf bytes.Buffer
	if err := GenerateMarkdown(report, &buf); err != nil {
		t.Fatalf("GenerateMarkdown failed: %v", err)
	}

	if strings.Contains(buf.String(), "## Performance Comparison") {
		t.Error("Comparison section should be absent without a tuned run")
	}
	if !strings.Contains(buf.String(), "## Baseline Test Results") {
		t.Error("Baseline section should still be present")
	}
}

func TestGenerateCSV(t *testing.T) {
	baseline, tuned := sampleResults()
	report := New(comparator.ImprovementPolicy()).Generate(baseline, tuned, nil)

	var buf bytes.Buffer
	if err := GenerateCSV(report, &buf); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Condition,Field,Baseline (ms),Tuned (ms),Change (%),Status") {
		t.Errorf("CSV header missing:\n%s", out)
	}
	if !strings.Contains(out, "Ready,P99,10000.0,5000.0,50.0,excellent") {
		t.Errorf("CSV row missing:\n%s", out)
	}
	if !strings.Contains(out, "SUMMARY") {
		t.Errorf("CSV summary missing:\n%s", out)
	}
}
