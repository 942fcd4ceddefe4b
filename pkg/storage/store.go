package storage

import (
	"context"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
)

// Store persists regression-detection runs for trend tracking.
type Store interface {
	SaveRun(ctx context.Context, run *models.RegressionRun) error
	ListRuns(ctx context.Context, clusterID string, limit int) ([]*models.RegressionRun, error)
	GetFindings(ctx context.Context, runID string) ([]models.RegressionFinding, error)
	Close() error
}
