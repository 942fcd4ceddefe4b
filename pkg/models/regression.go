package models

import "time"

// RegressionRun is one execution of the regression detector, persisted for
// trend tracking when storage is enabled.
type RegressionRun struct {
	ID              string
	ClusterID       string
	BaselineCreated time.Time
	Threshold       float64
	Findings        []RegressionFinding
	RegressionCount int
	CreatedAt       time.Time
}

// RegressionFinding records one (metric type, percentile) pair that crossed
// the regression threshold.
type RegressionFinding struct {
	ID         string
	RunID      string
	MetricType string
	Percentile string
	Baseline   float64
	Current    float64
	ChangePct  float64
	Label      string
}
