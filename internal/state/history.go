package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/verityci/warden/pkg/models"
)

// RunRecord is one persisted verification run.
type RunRecord struct {
	// ID is the pipeline run id.
	ID string
	// StartedAt is when the run began.
	StartedAt time.Time
	// Branch is the branch context, if any.
	Branch string
	// Commit is the commit context, if any.
	Commit string
	// Passed is the run verdict.
	Passed bool
	// FailureCount is the total failure count across stages.
	FailureCount int
	// DurationMs is the wall-clock run duration.
	DurationMs int64
	// ReportJSON is the full serialized report document.
	ReportJSON string
}

// SaveRun persists one pipeline result together with its serialized report.
func (db *DB) SaveRun(result *models.PipelineResult, reportJSON []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT INTO runs (id, started_at, branch, commit_sha, passed, failure_count, duration_ms, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.RunID,
		formatTime(result.StartedAt),
		result.Branch,
		result.Commit,
		boolToInt(result.Passed),
		result.FailureCount(),
		result.TotalDurationMs,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", result.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, started_at, branch, commit_sha, passed, failure_count, duration_ms, report_json
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun returns one run by id.
func (db *DB) GetRun(id string) (*RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRow(`
		SELECT id, started_at, branch, commit_sha, passed, failure_count, duration_ms, report_json
		FROM runs WHERE id = ?
	`, id)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		rec       RunRecord
		startedAt string
		passed    int
	)
	err := s.Scan(&rec.ID, &startedAt, &rec.Branch, &rec.Commit, &passed,
		&rec.FailureCount, &rec.DurationMs, &rec.ReportJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return rec, err
		}
		return rec, fmt.Errorf("scan run: %w", err)
	}

	rec.Passed = passed != 0
	if ts, perr := parseTime(startedAt); perr == nil {
		rec.StartedAt = ts
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
