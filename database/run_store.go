// backend/database/run_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/sitetrack/models"
)

// Timestamps are stored as unix milliseconds so the schema is portable
// between MySQL and SQLite.
const schema = `
CREATE TABLE IF NOT EXISTS ingestion_runs (
	id            VARCHAR(36) PRIMARY KEY,
	started_at    BIGINT NOT NULL,
	finished_at   BIGINT NULL,
	status        VARCHAR(16) NOT NULL,
	raw_rows      INT NOT NULL DEFAULT 0,
	valid_tasks   INT NOT NULL DEFAULT 0,
	unique_sites  INT NOT NULL DEFAULT 0,
	packages      TEXT,
	error_message TEXT
)`

// EnsureSchema creates the run log table if needed.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create ingestion_runs table: %w", err)
	}
	return nil
}

// RunStore is the ingestion run log. It satisfies services.RunRecorder.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// LogIngestionRun inserts one refresh attempt.
func (s *RunStore) LogIngestionRun(ctx context.Context, run models.IngestionRun) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	var finished sql.NullInt64
	if run.FinishedAt != nil {
		finished = sql.NullInt64{Int64: run.FinishedAt.UnixMilli(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (
			id, started_at, finished_at, status,
			raw_rows, valid_tasks, unique_sites, packages, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), finished, run.Status,
		run.RawRows, run.ValidTasks, run.UniqueSites, run.Packages, run.ErrorMessage,
	)
	if err != nil {
		log.Printf("ERROR Database: Failed to log ingestion run %s: %v\n", run.ID, err)
		return fmt.Errorf("failed to log ingestion run %s: %w", run.ID, err)
	}
	log.Printf("Database: Logged ingestion run %s (%s).\n", run.ID, run.Status)
	return nil
}

// GetRecentIngestionRuns returns up to limit runs, newest first.
func (s *RunStore) GetRecentIngestionRuns(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status,
		       raw_rows, valid_tasks, unique_sites, packages, error_message
		FROM ingestion_runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion_runs: %w", err)
	}
	defer rows.Close()

	runs := []models.IngestionRun{}
	for rows.Next() {
		var r models.IngestionRun
		var started int64
		var finished sql.NullInt64
		var packages, errMsg sql.NullString

		if err := rows.Scan(
			&r.ID, &started, &finished, &r.Status,
			&r.RawRows, &r.ValidTasks, &r.UniqueSites, &packages, &errMsg,
		); err != nil {
			log.Printf("ERROR Database: Failed to scan ingestion_runs row: %v\n", err)
			continue
		}
		r.StartedAt = time.UnixMilli(started).UTC()
		if finished.Valid {
			t := time.UnixMilli(finished.Int64).UTC()
			r.FinishedAt = &t
		}
		r.Packages = packages.String
		r.ErrorMessage = errMsg.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingestion_runs rows: %w", err)
	}
	return runs, nil
}
