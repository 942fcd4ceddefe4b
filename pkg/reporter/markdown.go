package reporter

import (
	"fmt"
	"io"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// GenerateMarkdown writes the full analysis report as markdown.
func GenerateMarkdown(report *Report, w io.Writer) error {
	write := func(format string, args ...interface{}) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	}

	if err := write("# Performance Analysis Report\n\n**Generated:** %s\n\n",
		report.GeneratedAt.Format("2006-01-02 15:04:05")); err != nil {
		return err
	}

	if report.Baseline != nil && len(report.Baseline.PodLatency) > 0 {
		write("## Baseline Test Results (%s)\n\n", report.BaselineDir)
		writeMetricsTable(w, report.Baseline.PodLatency, "Pod")
	}

	if report.Tuned != nil && len(report.Tuned.PodLatency) > 0 {
		write("## Tuned Test Results (%s)\n\n", report.TunedDir)
		writeMetricsTable(w, report.Tuned.PodLatency, "Pod")
	}

	if report.VMI != nil && len(report.VMI.VMILatency) > 0 {
		write("## VMI Test Results (%s)\n\n", report.VMIDir)
		writeMetricsTable(w, report.VMI.VMILatency, "VMI")
	}

	if len(report.Comparison) > 0 {
		write("## Performance Comparison\n\n")
		write("| Metric | Baseline | Tuned | Change | Status |\n")
		write("|---|---|---|---|---|\n")
		for _, c := range report.Comparison {
			write("| %s %s | %.1fms | %.1fms | %+.1f%% | %s |\n",
				c.Condition, c.Field, c.Baseline, c.Candidate, c.ChangePct, c.Label)
		}
		write("\n**Headline:** mean P99 change %+.1f%% across %d condition(s)\n\n",
			report.Headline.MeanChangePct, report.Headline.Count)
	}

	if report.Baseline != nil && report.Baseline.Summary != nil {
		s := report.Baseline.Summary
		write("## Job Summary\n\n")
		write("- Total jobs: %d\n- Successful: %d\n- Failed: %d\n- Duration: %s\n\n",
			s.JobsTotal, s.JobsSuccessful, s.JobsFailed, s.ElapsedTime)
	}

	return nil
}

func writeMetricsTable(w io.Writer, set models.MetricSet, kind string) {
	fmt.Fprintf(w, "| %s Condition | P50 (ms) | P95 (ms) | P99 (ms) | Avg (ms) | Max (ms) |\n", kind)
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, condition := range sortedConditions(set) {
		q := set[condition]
		fmt.Fprintf(w, "| %s | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			condition, q.P50, q.P95, q.P99, q.Avg, q.Max)
	}
	fmt.Fprintln(w)
}
