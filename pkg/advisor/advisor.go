package advisor

import (
	"fmt"
	"strings"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/cluster"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
)

type AdviceType string

const (
	Investigate    AdviceType = "INVESTIGATE"
	UpdateBaseline AdviceType = "UPDATE_BASELINE"
	TuneCluster    AdviceType = "TUNE_CLUSTER"
	NoAction       AdviceType = "NO_ACTION"
)

// Advice is one recommended next step derived from a comparison or a
// cluster check.
type Advice struct {
	Type     AdviceType
	Target   string
	Reason   string
	Actions  []string
	Severity string
}

// Advisor turns comparison and validation outcomes into next steps.
type Advisor struct {
	regressionThreshold float64
	improvementFloor    float64
}

func New(regressionThreshold float64) *Advisor {
	return &Advisor{
		regressionThreshold: regressionThreshold,
		improvementFloor:    20.0,
	}
}

// FromComparison derives advice from classified latency comparisons.
// Regressions past the threshold get investigation steps; a run where every
// metric improved substantially suggests refreshing the baseline.
func (a *Advisor) FromComparison(results []comparator.Result) []Advice {
	if len(results) == 0 {
		return nil
	}

	var advice []Advice
	improvedAll := true
	for _, r := range results {
		if r.ChangePct < a.improvementFloor {
			improvedAll = false
		}
		if r.ChangePct >= -a.regressionThreshold {
			continue
		}

		severity := "MEDIUM"
		if r.ChangePct < -2*a.regressionThreshold {
			severity = "HIGH"
		}
		advice = append(advice, Advice{
			Type:     Investigate,
			Target:   fmt.Sprintf("%s %s", r.Condition, r.Field),
			Reason:   fmt.Sprintf("latency regressed %.1f%% (%.2fms -> %.2fms)", -r.ChangePct, r.Baseline, r.Candidate),
			Severity: severity,
			Actions: []string{
				"Review cluster changes since the baseline was recorded",
				"Run cluster validation to confirm tuning is still applied",
				"Re-run the benchmark to rule out a transient spike",
			},
		})
	}

	if len(advice) == 0 && improvedAll {
		advice = append(advice, Advice{
			Type:     UpdateBaseline,
			Target:   "baseline",
			Reason:   fmt.Sprintf("every metric improved by at least %.0f%%", a.improvementFloor),
			Severity: "LOW",
			Actions: []string{
				"Record a new baseline so future runs compare against the tuned state",
			},
		})
	}

	if len(advice) == 0 {
		advice = append(advice, Advice{
			Type:     NoAction,
			Target:   "baseline",
			Reason:   "performance is within the configured threshold",
			Severity: "NONE",
		})
	}

	return advice
}

// FromChecks derives advice from cluster validation results. Each failed or
// warned check maps to a concrete tuning step.
func (a *Advisor) FromChecks(results []cluster.CheckResult) []Advice {
	var advice []Advice
	for _, r := range results {
		if r.Status == cluster.StatusPass {
			continue
		}

		severity := "LOW"
		kind := TuneCluster
		if r.Status == cluster.StatusFail {
			severity = "MEDIUM"
			if r.Critical {
				severity = "HIGH"
			}
		}
		if r.Status == cluster.StatusUnknown {
			kind = Investigate
		}

		advice = append(advice, Advice{
			Type:     kind,
			Target:   r.Name,
			Reason:   r.Detail,
			Severity: severity,
			Actions:  checkActions(r.Name),
		})
	}
	return advice
}

func checkActions(checkName string) []string {
	switch checkName {
	case "Node readiness":
		return []string{
			"Inspect the node with kubectl describe node",
			"Check kubelet and container runtime logs on the node",
		}
	case "Performance profile":
		return []string{
			"Apply a PerformanceProfile with isolated/reserved CPU sets",
			"Wait for the Node Tuning Operator to reconcile before re-running",
		}
	case "RT kernel":
		return []string{
			"Set realTimeKernel.enabled in the PerformanceProfile",
			"Expect a node reboot while the RT kernel is installed",
		}
	case "CPU isolation":
		return []string{
			"Fix the isolated/reserved cpusets so they are disjoint and fit the node",
		}
	case "Hugepages":
		return []string{
			"Add hugepage pages to the PerformanceProfile",
			"Verify allocatable hugepages with kubectl describe node",
		}
	case "Node utilization":
		return []string{
			"Install metrics-server to enable utilization reporting",
		}
	default:
		return nil
	}
}

func (a Advice) String() string {
	head := fmt.Sprintf("[%s] %s: %s", a.Severity, a.Target, a.Reason)
	if len(a.Actions) == 0 {
		return head
	}
	var b strings.Builder
	b.WriteString(head)
	for _, action := range a.Actions {
		b.WriteString("\n  - ")
		b.WriteString(action)
	}
	return b.String()
}
