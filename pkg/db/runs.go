package db

import (
	"context"
	"fmt"
	"time"
)

// Run is the persisted summary of one matching run.
type Run struct {
	RunID            string
	Fingerprint      string
	DocumentType     string
	Confidence       int
	StartedAt        time.Time
	Elapsed          time.Duration
	TotalClients     int
	ProcessedClients int
	FoundClients     int
	Anomalies        int
	Cancelled        bool
	MinimumScore     int
}

// RecordRun stores a run summary.
func (db *DB) RecordRun(ctx context.Context, r Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (run_id, fingerprint, document_type, confidence, started_at, elapsed_ms,
			total_clients, processed_clients, found_clients, anomalies, cancelled, minimum_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.Fingerprint, r.DocumentType, r.Confidence, r.StartedAt.UTC(), r.Elapsed.Milliseconds(),
		r.TotalClients, r.ProcessedClients, r.FoundClients, r.Anomalies, r.Cancelled, r.MinimumScore)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means 20.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, fingerprint, document_type, confidence, started_at, elapsed_ms,
			total_clients, processed_clients, found_clients, anomalies, cancelled, minimum_score
		FROM runs
		ORDER BY started_at DESC, run_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var elapsedMS int64
		if err := rows.Scan(&r.RunID, &r.Fingerprint, &r.DocumentType, &r.Confidence, &r.StartedAt, &elapsedMS,
			&r.TotalClients, &r.ProcessedClients, &r.FoundClients, &r.Anomalies, &r.Cancelled, &r.MinimumScore); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
