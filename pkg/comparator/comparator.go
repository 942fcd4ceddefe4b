package comparator

import (
	"sort"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// Field names a percentile column of a LatencyQuantile.
type Field string

const (
	FieldP50 Field = "P50"
	FieldP95 Field = "P95"
	FieldP99 Field = "P99"
	FieldAvg Field = "avg"
	FieldMax Field = "max"
)

// DefaultFields is the column set the comparison tables print.
var DefaultFields = []Field{FieldP50, FieldP95, FieldP99, FieldAvg}

// Result is one (condition, field) comparison between a baseline and a
// candidate set.
//
// Sign convention, used everywhere in this repository: ChangePct is positive
// when the candidate is FASTER than the baseline (latency went down),
// negative when it is slower. The regression policy is expressed in the same
// convention: a regression is a sufficiently negative ChangePct.
type Result struct {
	Condition string
	Field     Field
	Baseline  float64
	Candidate float64
	ChangePct float64
}

// Compare aligns the two sets by condition name and computes the relative
// change for every requested field.
//
// Conditions present in only one set are skipped, as are pairs whose
// baseline value is 0 (no relative change can be computed). Neither case is
// an error; the pair is simply absent from the result. Output is ordered by
// condition name, then by the order of fields, so identical inputs always
// produce identical output.
func Compare(baseline, candidate models.MetricSet, fields []Field) []Result {
	conditions := make([]string, 0, len(baseline))
	for name := range baseline {
		if _, ok := candidate[name]; ok {
			conditions = append(conditions, name)
		}
	}
	sort.Strings(conditions)

	var results []Result
	for _, cond := range conditions {
		b := baseline[cond]
		c := candidate[cond]
		for _, field := range fields {
			bv := b.Field(string(field))
			if bv == 0 {
				continue
			}
			cv := c.Field(string(field))
			results = append(results, Result{
				Condition: cond,
				Field:     field,
				Baseline:  bv,
				Candidate: cv,
				ChangePct: (bv - cv) / bv * 100,
			})
		}
	}
	return results
}

// Summary is the headline aggregate over a result list.
type Summary struct {
	MeanChangePct float64
	Count         int
}

// Aggregate computes the arithmetic mean of ChangePct across results.
// No variance, confidence intervals, or outlier handling: one number.
func Aggregate(results []Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	sum := 0.0
	for _, r := range results {
		sum += r.ChangePct
	}
	return Summary{
		MeanChangePct: sum / float64(len(results)),
		Count:         len(results),
	}
}

// FilterField keeps only results for the given field. Used to build the
// headline summary from a reference condition's P99 column.
func FilterField(results []Result, field Field) []Result {
	var out []Result
	for _, r := range results {
		if r.Field == field {
			out = append(out, r)
		}
	}
	return out
}
