package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/advisor"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/cluster"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/config"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/termfmt"
	"github.com/spf13/cobra"
)

var (
	noColor bool
	verbose bool
)

func main() {
	cfg := config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "cluster-validate",
		Short: "Validate the low-latency tuning state of the cluster",
		Run:   runValidate,
	}

	rootCmd.Flags().BoolVar(&noColor, "no-color", cfg.NoColor, "Disable colored output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose check output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) {
	pal := termfmt.New(noColor)

	checker, err := cluster.New(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(pal.Bold("=== Cluster Validation ==="))
	fmt.Println()

	results := checker.RunAll(context.Background())
	for _, r := range results {
		fmt.Printf("  %s  %-22s %s\n", statusBadge(r.Status, pal), r.Name, r.Detail)
	}
	fmt.Println()

	adv := advisor.New(config.NewConfig().RegressionThreshold)
	if advice := adv.FromChecks(results); len(advice) > 0 {
		fmt.Println(pal.Bold("Recommended actions:"))
		for _, a := range advice {
			fmt.Println(a.String())
		}
		fmt.Println()
	}

	if failures := cluster.CriticalFailures(results); failures > 0 {
		fmt.Println(pal.Red(fmt.Sprintf("%d critical check(s) failed", failures)))
		os.Exit(1)
	}
	fmt.Println(pal.Green("All critical checks passed"))
}

func statusBadge(status cluster.Status, pal termfmt.Palette) string {
	padded := fmt.Sprintf("%-7s", status)
	switch status {
	case cluster.StatusPass:
		return pal.Green(padded)
	case cluster.StatusWarn:
		return pal.Yellow(padded)
	case cluster.StatusFail:
		return pal.Red(padded)
	default:
		return pal.Blue(padded)
	}
}
