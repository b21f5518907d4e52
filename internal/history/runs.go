package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cuesplit/internal/plan"
)

// ErrRunNotFound is returned when a run identifier has no matching row.
var ErrRunNotFound = errors.New("run not found")

const runColumns = "id, cue_path, output_dir, status, error_message, job_count, started_at, finished_at"

// timestampLayout keeps a fixed fraction width so stored timestamps sort
// lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const jobColumns = "run_id, position, source_path, output_filename, start_seconds, duration_seconds, status, error_message, updated_at"

// BeginRun records a new running split together with its planned jobs, all
// pending. Job positions are 1-based in plan order.
func (s *Store) BeginRun(ctx context.Context, cuePath, outputDir string, jobs []plan.Job) (*Run, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	timestamp := now.Format(timestampLayout)
	run := &Run{
		ID:        uuid.NewString(),
		CuePath:   cuePath,
		OutputDir: outputDir,
		Status:    StatusRunning,
		JobCount:  len(jobs),
		StartedAt: now,
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, cue_path, output_dir, status, job_count, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, run.CuePath, run.OutputDir, run.Status, run.JobCount, timestamp,
		); err != nil {
			return err
		}
		for i, job := range jobs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i+1, job.SourcePath, job.OutputFilename, job.Start,
				nullableFloat(job.Duration), StatusPending, nil, timestamp,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordJob updates the status of the job at position within a run.
func (s *Store) RecordJob(ctx context.Context, runID string, position int, status Status, message string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE run_jobs SET status = ?, error_message = ?, updated_at = ? WHERE run_id = ? AND position = ?`,
		status, nullableString(message), time.Now().UTC().Format(timestampLayout), runID, position,
	)
	if err != nil {
		return fmt.Errorf("update job %d: %w", position, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %d of run %s: %w", position, runID, ErrRunNotFound)
	}
	return nil
}

// FinishRun stamps the final status of a run. Jobs still pending stay
// pending, which marks the ones never attempted after a failure.
func (s *Store) FinishRun(ctx context.Context, runID string, status Status, message string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		status, nullableString(message), time.Now().UTC().Format(timestampLayout), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// GetRun fetches a run by identifier.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunJobs returns the jobs of a run in plan order.
func (s *Store) RunJobs(ctx context.Context, runID string) ([]*JobRecord, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM run_jobs WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*JobRecord
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run jobs: %w", err)
	}
	return jobs, nil
}

// FailStaleRuns marks runs left in the running state by an interrupted
// process as failed and returns how many were updated.
func (s *Store) FailStaleRuns(ctx context.Context, reason string) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE status = ?`,
		StatusFailed, nullableString(reason), time.Now().UTC().Format(timestampLayout), StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("fail stale runs: %w", err)
	}
	return res.RowsAffected()
}
