package advisor

import (
	"strings"
	"testing"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/cluster"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
)

func TestFromComparisonRegression(t *testing.T) {
	advisor := New(10.0)
	results := []comparator.Result{
		{Condition: "Ready", Field: "P99", Baseline: 100, Candidate: 125, ChangePct: -25},
		{Condition: "Ready", Field: "P50", Baseline: 50, Candidate: 52, ChangePct: -4},
	}

	advice := advisor.FromComparison(results)
	if len(advice) != 1 {
		t.Fatalf("expected 1 advice, got %d", len(advice))
	}
	if advice[0].Type != Investigate {
		t.Errorf("expected INVESTIGATE, got %s", advice[0].Type)
	}
	if advice[0].Severity != "HIGH" {
		t.Errorf("regression past twice the threshold should be HIGH, got %s", advice[0].Severity)
	}
	if len(advice[0].Actions) == 0 {
		t.Error("investigation advice should carry actions")
	}
}

func TestFromComparisonAllImproved(t *testing.T) {
	advisor := New(10.0)
	results := []comparator.Result{
		{Condition: "Ready", Field: "P99", Baseline: 100, Candidate: 40, ChangePct: 60},
		{Condition: "Ready", Field: "P50", Baseline: 50, Candidate: 30, ChangePct: 40},
	}

	advice := advisor.FromComparison(results)
	if len(advice) != 1 || advice[0].Type != UpdateBaseline {
		t.Fatalf("expected a single UPDATE_BASELINE advice, got %+v", advice)
	}
}

func TestFromComparisonWithinThreshold(t *testing.T) {
	advisor := New(10.0)
	results := []comparator.Result{
		{Condition: "Ready", Field: "P99", Baseline: 100, Candidate: 102, ChangePct: -2},
	}

	advice := advisor.FromComparison(results)
	if len(advice) != 1 || advice[0].Type != NoAction {
		t.Fatalf("expected a single NO_ACTION advice, got %+v", advice)
	}
}

func TestFromComparisonEmpty(t *testing.T) {
	if advice := New(10.0).FromComparison(nil); advice != nil {
		t.Errorf("expected nil advice for empty input, got %+v", advice)
	}
}

func TestFromChecks(t *testing.T) {
	advisor := New(10.0)
	results := []cluster.CheckResult{
		{Name: "Node readiness", Status: cluster.StatusPass},
		{Name: "RT kernel", Status: cluster.StatusFail, Critical: true, Detail: "profile requests RT kernel, active on 0/1 node(s)"},
		{Name: "Hugepages", Status: cluster.StatusWarn, Detail: "no hugepages allocated"},
		{Name: "Node utilization", Status: cluster.StatusUnknown, Detail: "metrics API not available"},
	}

	advice := advisor.FromChecks(results)
	if len(advice) != 3 {
		t.Fatalf("expected 3 advice entries, got %d", len(advice))
	}

	byTarget := map[string]Advice{}
	for _, a := range advice {
		byTarget[a.Target] = a
	}

	if a := byTarget["RT kernel"]; a.Type != TuneCluster || a.Severity != "HIGH" {
		t.Errorf("critical failure should be HIGH TUNE_CLUSTER, got %+v", a)
	}
	if a := byTarget["Hugepages"]; a.Severity != "LOW" {
		t.Errorf("warning should be LOW, got %+v", a)
	}
	if a := byTarget["Node utilization"]; a.Type != Investigate {
		t.Errorf("unknown status should map to INVESTIGATE, got %+v", a)
	}
}

func TestAdviceString(t *testing.T) {
	a := Advice{
		Type:     Investigate,
		Target:   "Ready P99",
		Reason:   "latency regressed 25.0%",
		Severity: "HIGH",
		Actions:  []string{"Re-run the benchmark"},
	}
	s := a.String()
	if !strings.Contains(s, "[HIGH]") || !strings.Contains(s, "Ready P99") {
		t.Errorf("unexpected format: %s", s)
	}
	if !strings.Contains(s, "- Re-run the benchmark") {
		t.Errorf("actions missing from output: %s", s)
	}
}
