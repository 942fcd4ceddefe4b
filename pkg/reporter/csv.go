package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// GenerateCSV creates a CSV report of the baseline-vs-tuned comparison.
func GenerateCSV(report *Report, writer io.Writer) error {
	w := csv.NewWriter(writer)
	defer w.Flush()

	header := []string{
		"Condition",
		"Field",
		"Baseline (ms)",
		"Tuned (ms)",
		"Change (%)",
		"Status",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range report.Comparison {
		row := []string{
			c.Condition,
			string(c.Field),
			fmt.Sprintf("%.1f", c.Baseline),
			fmt.Sprintf("%.1f", c.Candidate),
			fmt.Sprintf("%.1f", c.ChangePct),
			string(c.Label),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Summary rows
	w.Write([]string{})
	w.Write([]string{"SUMMARY"})
	w.Write([]string{"Compared pairs", fmt.Sprintf("%d", len(report.Comparison))})
	w.Write([]string{"Mean P99 change (%)", fmt.Sprintf("%.1f", report.Headline.MeanChangePct)})

	return nil
}
