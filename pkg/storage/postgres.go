package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kubeperf/k8s-latency-analyzer/pkg/models"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool sized for a short-lived CLI process
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveRun saves a regression run and its findings.
func (s *PostgresStore) SaveRun(ctx context.Context, run *models.RegressionRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO regression_runs (
			id, cluster_id, baseline_created, threshold, regression_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.ClusterID, run.BaselineCreated, run.Threshold, run.RegressionCount, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range run.Findings {
		f := &run.Findings[i]
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		f.RunID = run.ID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO regression_findings (
				id, run_id, metric_type, percentile, baseline_ms, current_ms, change_pct, label
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, f.ID, f.RunID, f.MetricType, f.Percentile, f.Baseline, f.Current, f.ChangePct, f.Label)
		if err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns recent runs for a cluster, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, clusterID string, limit int) ([]*models.RegressionRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cluster_id, baseline_created, threshold, regression_count, created_at
		FROM regression_runs
		WHERE cluster_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, clusterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RegressionRun
	for rows.Next() {
		var run models.RegressionRun
		var baselineCreated sql.NullTime
		if err := rows.Scan(&run.ID, &run.ClusterID, &baselineCreated,
			&run.Threshold, &run.RegressionCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if baselineCreated.Valid {
			run.BaselineCreated = baselineCreated.Time
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// GetFindings returns the findings recorded for one run.
func (s *PostgresStore) GetFindings(ctx context.Context, runID string) ([]models.RegressionFinding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, metric_type, percentile, baseline_ms, current_ms, change_pct, label
		FROM regression_findings
		WHERE run_id = $1
		ORDER BY metric_type, percentile
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get findings: %w", err)
	}
	defer rows.Close()

	var findings []models.RegressionFinding
	for rows.Next() {
		var f models.RegressionFinding
		if err := rows.Scan(&f.ID, &f.RunID, &f.MetricType, &f.Percentile,
			&f.Baseline, &f.Current, &f.ChangePct, &f.Label); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, f)
	}

	return findings, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
