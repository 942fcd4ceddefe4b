package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/baseline"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/config"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/datasource"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/metrics"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/storage"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/termfmt"
	"github.com/spf13/cobra"
)

var (
	metricsDir    string
	baselinePath  string
	threshold     float64
	saveBaseline  bool
	saveRun       bool
	prometheusURL string
	clusterID     string
	noColor       bool
	historyLimit  int
)

// regressionFields are the percentile columns the detector watches.
var regressionFields = []comparator.Field{comparator.FieldP50, comparator.FieldP95, comparator.FieldP99}

func main() {
	cfg := config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "regression-detect",
		Short: "Compare current latency metrics against a saved baseline",
		Run:   runDetect,
	}

	rootCmd.PersistentFlags().StringVar(&metricsDir, "metrics-dir", cfg.MetricsDir, "Base directory holding kube-burner result directories")
	rootCmd.PersistentFlags().StringVar(&clusterID, "cluster-id", "default", "Cluster identifier for run history")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", cfg.NoColor, "Disable colored output")

	rootCmd.Flags().StringVar(&baselinePath, "baseline", "", "Baseline file (default <metrics-dir>/"+baseline.FileName+")")
	rootCmd.Flags().Float64Var(&threshold, "threshold", cfg.RegressionThreshold, "Regression threshold in percent")
	rootCmd.Flags().BoolVar(&saveBaseline, "save-baseline", false, "Record the current metrics as the new baseline and exit")
	rootCmd.Flags().BoolVar(&saveRun, "save", cfg.StorageEnabled, "Persist this run to the history database")
	rootCmd.Flags().StringVar(&prometheusURL, "prometheus", cfg.PrometheusURL, "Pull current pod latency from this Prometheus endpoint instead of disk")

	var historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recent regression detection runs",
		Run:   runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")

	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDetect(cmd *cobra.Command, args []string) {
	pal := termfmt.New(noColor)
	loader := metrics.NewLoader(metricsDir)

	if baselinePath == "" {
		baselinePath = filepath.Join(loader.BaseDir, baseline.FileName)
	}

	fmt.Println(pal.Bold("=== Performance Regression Detection ==="))
	fmt.Printf("[INFO] Threshold: %.1f%%\n", threshold)

	current := collectCurrent(loader)
	if len(current) == 0 {
		fmt.Println("[ERROR] No current metrics found; run the benchmark first")
		os.Exit(1)
	}

	if saveBaseline {
		path, err := baseline.Save(loader.BaseDir, &baseline.Baseline{
			Threshold: threshold,
			Metrics:   current,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[INFO] Baseline saved: %s\n", path)
		return
	}

	base, err := baseline.Load(baselinePath)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		fmt.Println("        Record one first with --save-baseline")
		os.Exit(1)
	}
	fmt.Printf("[INFO] Baseline from %s (recorded %s)\n",
		baselinePath, base.Timestamp.Format("2006-01-02 15:04:05"))

	results := comparator.Compare(baseline.ToMetricSet(base.Metrics), baseline.ToMetricSet(current), regressionFields)
	if len(results) == 0 {
		fmt.Println("[ERROR] Baseline and current metrics have no metric types in common")
		os.Exit(1)
	}

	policy := comparator.RegressionPolicy(threshold)
	run := &models.RegressionRun{
		ClusterID:       clusterID,
		BaselineCreated: base.Timestamp,
		Threshold:       threshold,
	}

	fmt.Println()
	fmt.Printf("  %-20s %-5s %12s %12s %10s  %s\n",
		"Metric", "Pct", "Baseline", "Current", "Change", "Status")
	for _, r := range results {
		label := policy.Classify(r.ChangePct)
		fmt.Printf("  %-20s %-5s %10.1fms %10.1fms %+9.1f%%  %s\n",
			r.Condition, r.Field, r.Baseline, r.Candidate, r.ChangePct, regressionColor(label, pal))

		if label == comparator.LabelRegression || label == comparator.LabelWarning {
			run.Findings = append(run.Findings, models.RegressionFinding{
				MetricType: r.Condition,
				Percentile: string(r.Field),
				Baseline:   r.Baseline,
				Current:    r.Candidate,
				ChangePct:  r.ChangePct,
				Label:      string(label),
			})
		}
		if label == comparator.LabelRegression {
			run.RegressionCount++
		}
	}
	fmt.Println()

	if saveRun {
		if err := persistRun(run); err != nil {
			fmt.Printf("[WARN] Failed to save run history: %v\n", err)
		} else {
			fmt.Printf("[INFO] Run %s saved to history\n", run.ID)
		}
	}

	if run.RegressionCount > 0 {
		fmt.Println(pal.Red(fmt.Sprintf("REGRESSION DETECTED: %d metric(s) past the %.1f%% threshold", run.RegressionCount, threshold)))
		fmt.Println("  - Review cluster changes since the baseline was recorded")
		fmt.Println("  - Run cluster-validate to confirm tuning is still applied")
		fmt.Println("  - Re-run the benchmark to rule out a transient spike")
		os.Exit(1)
	}
	fmt.Println(pal.Green("No regression detected"))
}

// collectCurrent gathers metrics from disk, overriding the pod latency
// series from Prometheus when an endpoint is configured and reachable.
func collectCurrent(loader *metrics.Loader) map[string]map[string]float64 {
	current := baseline.CollectCurrent(loader)

	if prometheusURL == "" {
		return current
	}

	source, err := datasource.NewPrometheusSource(prometheusURL)
	if err != nil {
		fmt.Printf("[WARN] Prometheus unavailable, using disk metrics: %v\n", err)
		return current
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !source.IsAvailable(ctx) {
		fmt.Printf("[WARN] Prometheus endpoint %s not responding, using disk metrics\n", prometheusURL)
		return current
	}

	q, err := source.PodStartLatency(ctx, 10*time.Minute)
	if err != nil {
		fmt.Printf("[WARN] Prometheus query failed, using disk metrics: %v\n", err)
		return current
	}

	fmt.Printf("[INFO] pod_latency: live from %s\n", source.Name())
	current["pod_latency"] = map[string]float64{"p50": q.P50, "p95": q.P95, "p99": q.P99}
	return current
}

func persistRun(run *models.RegressionRun) error {
	cfg := config.NewConfig()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	store, err := storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return store.SaveRun(ctx, run)
}

func runHistory(cmd *cobra.Command, args []string) {
	pal := termfmt.New(noColor)
	cfg := config.NewConfig()
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: DATABASE_URL is not set")
		os.Exit(1)
	}

	store, err := storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runs, err := store.ListRuns(ctx, clusterID, historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Printf("[INFO] No runs recorded for cluster %s\n", clusterID)
		return
	}

	fmt.Println(pal.Bold(fmt.Sprintf("=== Regression history: %s ===", clusterID)))
	for _, run := range runs {
		status := pal.Green("clean")
		if run.RegressionCount > 0 {
			status = pal.Red(fmt.Sprintf("%d regression(s)", run.RegressionCount))
		}
		fmt.Printf("  %s  threshold %.1f%%  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), run.Threshold, status)

		findings, err := store.GetFindings(ctx, run.ID)
		if err != nil {
			fmt.Printf("    [WARN] failed to load findings: %v\n", err)
			continue
		}
		for _, f := range findings {
			fmt.Printf("    %s %s: %.1fms -> %.1fms (%+.1f%%, %s)\n",
				f.MetricType, f.Percentile, f.Baseline, f.Current, f.ChangePct, f.Label)
		}
	}
}

func regressionColor(label comparator.Label, pal termfmt.Palette) string {
	switch label {
	case comparator.LabelImproved:
		return pal.Green(string(label))
	case comparator.LabelOK:
		return pal.Green(string(label))
	case comparator.LabelWarning:
		return pal.Yellow(string(label))
	default:
		return pal.Red(string(label))
	}
}
