package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const runColumns = `id, source, reference_date, status, started_at, finished_at,
       discovered, extracted, failed, added, superseded, expired, archived, digest_path, error`

// RunRepository handles database operations for run history
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun inserts a new run in the running state and returns it
func (r *RunRepository) CreateRun(source, referenceDate string) (*Run, error) {
	run := &Run{
		ID:            uuid.NewString(),
		Source:        source,
		ReferenceDate: referenceDate,
		Status:        RunStatusRunning,
		StartedAt:     time.Now().UTC(),
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (id, source, reference_date, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.ReferenceDate, run.Status, formatTime(run.StartedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// FinishRun persists the final status and counts of a run
func (r *RunRepository) FinishRun(run *Run) error {
	finishedAt := time.Now().UTC()
	run.FinishedAt = &finishedAt

	_, err := r.db.Exec(`
		UPDATE runs
		SET status = ?, finished_at = ?, discovered = ?, extracted = ?, failed = ?,
		    added = ?, superseded = ?, expired = ?, archived = ?, digest_path = ?, error = ?
		WHERE id = ?
	`, run.Status, formatTime(finishedAt), run.Discovered, run.Extracted, run.Failed,
		run.Added, run.Superseded, run.Expired, run.Archived, run.DigestPath, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	return nil
}

// RecordErrors stores the per-record failure report for a run
func (r *RunRepository) RecordErrors(runID string, runErrors []RunError) error {
	if len(runErrors) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range runErrors {
		_, err := tx.Exec(`
			INSERT INTO run_errors (run_id, url, stage, message)
			VALUES (?, ?, ?, ?)
		`, runID, e.URL, e.Stage, e.Message)
		if err != nil {
			return fmt.Errorf("failed to record run error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run errors: %w", err)
	}

	return nil
}

// GetRun retrieves a run by its ID
func (r *RunRepository) GetRun(id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(`
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// GetRecentRuns returns the most recent runs, newest first
func (r *RunRepository) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// GetRunErrors returns the failure report recorded for a run
func (r *RunRepository) GetRunErrors(runID string) ([]RunError, error) {
	rows, err := r.db.Query(`
		SELECT run_id, url, stage, message
		FROM run_errors
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run errors: %w", err)
	}
	defer rows.Close()

	var runErrors []RunError
	for rows.Next() {
		var e RunError
		if err := rows.Scan(&e.RunID, &e.URL, &e.Stage, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run error row: %w", err)
		}
		runErrors = append(runErrors, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run error rows: %w", err)
	}

	return runErrors, nil
}

// HasSuccessfulRun reports whether a run for the source already succeeded
// on the given reference date
func (r *RunRepository) HasSuccessfulRun(source, referenceDate string) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM runs
		WHERE source = ? AND reference_date = ? AND status = ?
	`, source, referenceDate, RunStatusSucceeded).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for successful run: %w", err)
	}

	return count > 0, nil
}

// GetLastRun returns the most recent run for a source on the given reference
// date, or nil when none has been attempted yet
func (r *RunRepository) GetLastRun(source, referenceDate string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(`
		SELECT `+runColumns+`
		FROM runs
		WHERE source = ? AND reference_date = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`, source, referenceDate))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	return run, nil
}

// GetLatestDigestPath returns the digest file of the newest successful run,
// or an empty string when no digest has been built yet
func (r *RunRepository) GetLatestDigestPath() (string, error) {
	var path string
	err := r.db.QueryRow(`
		SELECT digest_path
		FROM runs
		WHERE status = ? AND digest_path != ''
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`, RunStatusSucceeded).Scan(&path)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest digest path: %w", err)
	}

	return path, nil
}

// GetRunCount returns the total number of recorded runs
func (r *RunRepository) GetRunCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get run count: %w", err)
	}
	return count, nil
}

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString

	err := row.Scan(
		&run.ID, &run.Source, &run.ReferenceDate, &run.Status, &startedAt, &finishedAt,
		&run.Discovered, &run.Extracted, &run.Failed, &run.Added, &run.Superseded,
		&run.Expired, &run.Archived, &run.DigestPath, &run.Error,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		t := parseTime(finishedAt.String)
		run.FinishedAt = &t
	}

	return &run, nil
}

// Timestamps are stored as RFC 3339 text so that lexicographic and
// chronological order agree.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
