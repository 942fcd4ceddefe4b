package comparator

import (
	"math"
	"testing"
)

func TestImprovementPolicy(t *testing.T) {
	policy := ImprovementPolicy()

	tests := []struct {
		changePct float64
		want      Label
	}{
		{50, LabelExcellent},
		{20.0001, LabelExcellent},
		{20, LabelBetter},
		{5.5, LabelBetter},
		{5, LabelSimilar},
		{0, LabelSimilar},
		{-4.9, LabelSimilar},
		{-5, LabelWorse},
		{-40, LabelWorse},
	}

	for _, tt := range tests {
		got := policy.Classify(tt.changePct)
		if got != tt.want {
			t.Errorf("Classify(%.4f) = %q, want %q", tt.changePct, got, tt.want)
		}
	}
}

func TestRegressionPolicy(t *testing.T) {
	// Threshold 10, repository sign convention: negative = slower.
	// A candidate 15% slower than baseline has changePct = -15.
	policy := RegressionPolicy(10.0)

	tests := []struct {
		changePct float64
		want      Label
	}{
		{-15, LabelRegression},
		{-10.001, LabelRegression},
		{-10, LabelWarning},
		{-7, LabelWarning},
		{-5, LabelOK},
		{-3, LabelOK},
		{0, LabelOK},
		{5, LabelOK},
		{5.1, LabelImproved},
		{40, LabelImproved},
	}

	for _, tt := range tests {
		got := policy.Classify(tt.changePct)
		if got != tt.want {
			t.Errorf("Classify(%.4f) = %q, want %q", tt.changePct, got, tt.want)
		}
	}
}

func TestClassifyIsTotalAndStable(t *testing.T) {
	policies := []ThresholdPolicy{ImprovementPolicy(), RegressionPolicy(10)}
	inputs := []float64{
		math.Inf(1), 1e9, 100, 20, 5, 0, -5, -10, -100, -1e9, math.Inf(-1),
	}

	for _, policy := range policies {
		for _, in := range inputs {
			first := policy.Classify(in)
			if first == "" {
				t.Errorf("%s policy returned empty label for %v", policy.Name, in)
			}
			for i := 0; i < 5; i++ {
				if got := policy.Classify(in); got != first {
					t.Errorf("%s policy unstable for %v: %q then %q", policy.Name, in, first, got)
				}
			}
		}
	}
}
