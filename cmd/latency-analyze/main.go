package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/advisor"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/config"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/metrics"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/reporter"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/termfmt"
	"github.com/spf13/cobra"
)

var (
	metricsDir   string
	baselineDir  string
	tunedDir     string
	vmiDir       string
	singleDir    string
	reportPath   string
	reportFormat string
	policyFile   string
	noColor      bool
)

// P99 targets from the workshop material, in milliseconds.
const (
	podP99Good       = 1000
	podP99Acceptable = 5000
	vmiP99Good       = 2000
	vmiP99Acceptable = 10000
)

func main() {
	cfg := config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "latency-analyze",
		Short: "Analyze kube-burner latency results and compare tuning runs",
		Run:   runAnalyze,
	}

	rootCmd.Flags().StringVar(&metricsDir, "metrics-dir", cfg.MetricsDir, "Base directory holding kube-burner result directories")
	rootCmd.Flags().StringVar(&baselineDir, "baseline", "collected-metrics", "Baseline results directory (relative to --metrics-dir)")
	rootCmd.Flags().StringVar(&tunedDir, "tuned", "collected-metrics-tuned", "Tuned results directory")
	rootCmd.Flags().StringVar(&vmiDir, "vmi", "collected-metrics-vmi", "VMI results directory")
	rootCmd.Flags().StringVar(&singleDir, "single", "", "Analyze a single results directory and exit")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write a report file to this path")
	rootCmd.Flags().StringVar(&reportFormat, "report-format", "markdown", "Report format: markdown or csv")
	rootCmd.Flags().StringVar(&policyFile, "policies", "", "Optional YAML threshold policy file")
	rootCmd.Flags().BoolVar(&noColor, "no-color", cfg.NoColor, "Disable colored output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) {
	pal := termfmt.New(noColor)
	loader := metrics.NewLoader(metricsDir)

	policy := comparator.ImprovementPolicy()
	if policyFile != "" {
		policies, err := config.LoadPolicies(policyFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if p, ok := policies["improvement"]; ok {
			policy = p
			fmt.Println("[INFO] Using improvement policy from", policyFile)
		}
	}

	if singleDir != "" {
		result := loader.Load(singleDir)
		if result.Empty() {
			fmt.Printf("[ERROR] No measurements found in %s\n", singleDir)
			os.Exit(1)
		}
		printSingleAnalysis(result, pal)
		return
	}

	fmt.Println(pal.Bold("=== Performance Analysis ==="))
	fmt.Println()

	baseline := loader.Load(baselineDir)
	tuned := loader.Load(tunedDir)
	vmi := loader.Load(vmiDir)

	if baseline.Empty() && tuned.Empty() && vmi.Empty() {
		fmt.Println("[ERROR] No measurements found in any results directory")
		fmt.Println("        Run the kube-burner workload first, or set --metrics-dir")
		os.Exit(1)
	}

	if !baseline.Empty() {
		fmt.Printf("[INFO] Baseline: %s\n", baselineDir)
		printSingleAnalysis(baseline, pal)
	}
	if !tuned.Empty() {
		fmt.Printf("[INFO] Tuned: %s\n", tunedDir)
		printSingleAnalysis(tuned, pal)
	}
	if !vmi.Empty() {
		fmt.Printf("[INFO] VMI: %s\n", vmiDir)
		printSingleAnalysis(vmi, pal)
	}

	rep := reporter.New(policy)
	report := rep.Generate(baseline, tuned, vmi)

	if len(report.Comparison) > 0 {
		printComparison(report, pal)

		adv := advisor.New(config.NewConfig().RegressionThreshold)
		var results []comparator.Result
		for _, c := range report.Comparison {
			results = append(results, c.Result)
		}
		if advice := adv.FromComparison(results); len(advice) > 0 {
			fmt.Println(pal.Bold("Recommended actions:"))
			for _, a := range advice {
				fmt.Println(a.String())
			}
			fmt.Println()
		}
	}

	if reportPath != "" {
		if err := writeReport(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[INFO] Report written to %s\n", reportPath)
	}
}

// printSingleAnalysis prints every measured set of one results directory
// with the workshop's P99 status banding.
func printSingleAnalysis(result *models.TestResult, pal termfmt.Palette) {
	if len(result.PodLatency) > 0 {
		printMetricsTable("Pod latency", result.PodLatency, pal, podP99Good, podP99Acceptable)
	}
	if len(result.VMILatency) > 0 {
		printMetricsTable("VMI latency", result.VMILatency, pal, vmiP99Good, vmiP99Acceptable)
	}
	if len(result.NetpolLatency) > 0 {
		printMetricsTable("NetworkPolicy latency", result.NetpolLatency, pal, podP99Good, podP99Acceptable)
	}
	if result.Summary != nil {
		printJobSummary(result.Summary, pal)
	}
}

func printMetricsTable(title string, set models.MetricSet, pal termfmt.Palette, good, acceptable float64) {
	fmt.Println(pal.Bold(title))
	fmt.Printf("  %-20s %10s %10s %10s %10s %10s  %s\n",
		"Condition", "P50 (ms)", "P95 (ms)", "P99 (ms)", "Avg (ms)", "Max (ms)", "Status")

	conditions := set.Conditions()
	sort.Strings(conditions)
	for _, condition := range conditions {
		q := set[condition]
		fmt.Printf("  %-20s %10.1f %10.1f %10.1f %10.1f %10.1f  %s\n",
			condition, q.P50, q.P95, q.P99, q.Avg, q.Max, p99Status(q.P99, good, acceptable, pal))
	}
	fmt.Println()
}

func p99Status(p99, good, acceptable float64, pal termfmt.Palette) string {
	switch {
	case p99 < good:
		return pal.Green("good")
	case p99 < acceptable:
		return pal.Yellow("acceptable")
	default:
		return pal.Red("needs tuning")
	}
}

func printJobSummary(s *models.JobSummary, pal termfmt.Palette) {
	rate := s.SuccessRate()
	colored := pal.Red(fmt.Sprintf("%.1f%%", rate))
	switch {
	case rate >= 95:
		colored = pal.Green(fmt.Sprintf("%.1f%%", rate))
	case rate >= 80:
		colored = pal.Yellow(fmt.Sprintf("%.1f%%", rate))
	}
	fmt.Printf("  Jobs: %d total, %d successful, %d failed (%s) in %s\n\n",
		s.JobsTotal, s.JobsSuccessful, s.JobsFailed, colored, s.ElapsedTime)
}

func printComparison(report *reporter.Report, pal termfmt.Palette) {
	fmt.Println(pal.Bold("=== Baseline vs Tuned ==="))
	fmt.Printf("  %-20s %-5s %12s %12s %10s  %s\n",
		"Condition", "Field", "Baseline", "Tuned", "Change", "Status")

	for _, c := range report.Comparison {
		fmt.Printf("  %-20s %-5s %10.1fms %10.1fms %+9.1f%%  %s\n",
			c.Condition, c.Field, c.Baseline, c.Candidate, c.ChangePct, labelColor(c.Label, pal))
	}
	fmt.Println()

	if report.Headline.Count > 0 {
		headline := fmt.Sprintf("Mean P99 change: %+.1f%% across %d condition(s)",
			report.Headline.MeanChangePct, report.Headline.Count)
		if report.Headline.MeanChangePct > 0 {
			fmt.Println(pal.Green(headline))
		} else {
			fmt.Println(pal.Red(headline))
		}
		fmt.Println()
	}
}

func labelColor(label comparator.Label, pal termfmt.Palette) string {
	switch label {
	case comparator.LabelExcellent, comparator.LabelBetter, comparator.LabelImproved:
		return pal.Green(string(label))
	case comparator.LabelSimilar, comparator.LabelOK, comparator.LabelWarning:
		return pal.Yellow(string(label))
	default:
		return pal.Red(string(label))
	}
}

func writeReport(report *reporter.Report) error {
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	switch reporter.ReportFormat(reportFormat) {
	case reporter.FormatMarkdown:
		return reporter.GenerateMarkdown(report, f)
	case reporter.FormatCSV:
		return reporter.GenerateCSV(report, f)
	default:
		return fmt.Errorf("unknown report format: %s", reportFormat)
	}
}
