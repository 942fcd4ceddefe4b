package main

import (
	"fmt"
	"os"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/config"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/explain"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/termfmt"
	"github.com/spf13/cobra"
)

var noColor bool

func main() {
	cfg := config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "workshop-explain",
		Short: "Print the workshop's educational material",
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", cfg.NoColor, "Disable colored output")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "percentiles",
			Short: "What P50/P95/P99 mean and why tail latency matters",
			Run: func(cmd *cobra.Command, args []string) {
				explain.Percentiles(os.Stdout, termfmt.New(noColor))
			},
		},
		&cobra.Command{
			Use:   "vm-vs-container",
			Short: "Why VM startup is measured separately from pod startup",
			Run: func(cmd *cobra.Command, args []string) {
				explain.VMVsContainer(os.Stdout, termfmt.New(noColor))
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "The full tuning loop the workshop walks through",
			Run: func(cmd *cobra.Command, args []string) {
				explain.Summary(os.Stdout, termfmt.New(noColor))
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
