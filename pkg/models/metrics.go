package models

// LatencyQuantile holds the percentile summary kube-burner emits for one
// lifecycle condition (e.g. PodScheduled, Ready, VMIRunning).
// All values are milliseconds; fields missing from the JSON decode to 0.
type LatencyQuantile struct {
	QuantileName string  `json:"quantileName"`
	P50          float64 `json:"P50"`
	P95          float64 `json:"P95"`
	P99          float64 `json:"P99"`
	Avg          float64 `json:"avg"`
	Max          float64 `json:"max"`
}

// Field returns the named percentile field. Unknown names return 0, which
// the comparator treats the same as a missing measurement.
func (q LatencyQuantile) Field(name string) float64 {
	switch name {
	case "P50":
		return q.P50
	case "P95":
		return q.P95
	case "P99":
		return q.P99
	case "avg":
		return q.Avg
	case "max":
		return q.Max
	}
	return 0
}

// MetricSet maps a condition name to its percentile summary. A set is built
// fresh from disk on every invocation and never mutated afterwards.
type MetricSet map[string]LatencyQuantile

// Conditions returns the condition names present in the set, unordered.
func (m MetricSet) Conditions() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// JobSummary is kube-burner's job-level summary. The file is sometimes a
// single object and sometimes an array with one element; the loader accepts
// both.
type JobSummary struct {
	JobsTotal      int    `json:"jobsTotal"`
	JobsSuccessful int    `json:"jobsSuccessful"`
	JobsFailed     int    `json:"jobsFailed"`
	ElapsedTime    string `json:"elapsedTime"`
}

// SuccessRate returns the job success percentage, 0 when no jobs ran.
func (s JobSummary) SuccessRate() float64 {
	if s.JobsTotal == 0 {
		return 0
	}
	return float64(s.JobsSuccessful) / float64(s.JobsTotal) * 100
}

// TestResult bundles everything loaded from one results directory.
type TestResult struct {
	Directory     string
	PodLatency    MetricSet
	VMILatency    MetricSet
	NetpolLatency MetricSet
	Summary       *JobSummary
}

// Empty reports whether the directory yielded no usable measurements.
func (r *TestResult) Empty() bool {
	return len(r.PodLatency) == 0 && len(r.VMILatency) == 0 && len(r.NetpolLatency) == 0
}
