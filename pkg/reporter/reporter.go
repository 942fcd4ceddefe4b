package reporter

import (
	"sort"
	"time"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// ReportFormat represents the output format.
type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatCSV      ReportFormat = "csv"
)

// Report contains all data for generating a performance analysis report.
type Report struct {
	GeneratedAt time.Time

	BaselineDir string
	TunedDir    string
	VMIDir      string

	Baseline *models.TestResult
	Tuned    *models.TestResult
	VMI      *models.TestResult

	// Baseline-vs-tuned pod latency comparison, classified.
	Comparison []ClassifiedResult

	// Headline mean P99 change across compared conditions.
	Headline comparator.Summary
}

// ClassifiedResult pairs a comparison result with its label.
type ClassifiedResult struct {
	comparator.Result
	Label comparator.Label
}

// Reporter builds reports using a configurable classification policy.
type Reporter struct {
	policy comparator.ThresholdPolicy
	fields []comparator.Field
}

// New creates a reporter with the given policy. A zero policy falls back to
// the improvement policy.
func New(policy comparator.ThresholdPolicy) *Reporter {
	if len(policy.Cuts) == 0 && policy.Fallback == "" {
		policy = comparator.ImprovementPolicy()
	}
	return &Reporter{
		policy: policy,
		fields: comparator.DefaultFields,
	}
}

// Generate assembles a report from loaded test results. Nil results are
// allowed; the corresponding sections are simply absent.
func (r *Reporter) Generate(baseline, tuned, vmi *models.TestResult) *Report {
	report := &Report{
		GeneratedAt: time.Now(),
		Baseline:    baseline,
		Tuned:       tuned,
		VMI:         vmi,
	}
	if baseline != nil {
		report.BaselineDir = baseline.Directory
	}
	if tuned != nil {
		report.TunedDir = tuned.Directory
	}
	if vmi != nil {
		report.VMIDir = vmi.Directory
	}

	if baseline != nil && tuned != nil {
		results := comparator.Compare(baseline.PodLatency, tuned.PodLatency, r.fields)
		for _, res := range results {
			report.Comparison = append(report.Comparison, ClassifiedResult{
				Result: res,
				Label:  r.policy.Classify(res.ChangePct),
			})
		}
		report.Headline = comparator.Aggregate(comparator.FilterField(results, comparator.FieldP99))
	}

	return report
}

// sortedConditions returns the set's condition names in stable order.
func sortedConditions(set models.MetricSet) []string {
	names := set.Conditions()
	sort.Strings(names)
	return names
}
