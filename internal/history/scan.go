package history

import (
	"database/sql"
	"time"
)

type scanner interface{ Scan(dest ...any) error }

func scanRun(row scanner) (*Run, error) {
	var (
		run         Run
		statusStr   string
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := row.Scan(
		&run.ID,
		&run.CuePath,
		&run.OutputDir,
		&statusStr,
		&errorMsg,
		&run.JobCount,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = Status(statusStr)
	run.ErrorMessage = errorMsg.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return &run, nil
}

func scanJob(row scanner) (*JobRecord, error) {
	var (
		job        JobRecord
		statusStr  string
		duration   sql.NullFloat64
		errorMsg   sql.NullString
		updatedRaw string
	)
	if err := row.Scan(
		&job.RunID,
		&job.Position,
		&job.SourcePath,
		&job.OutputFilename,
		&job.StartSeconds,
		&duration,
		&statusStr,
		&errorMsg,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if duration.Valid {
		value := duration.Float64
		job.DurationSeconds = &value
	}
	job.Status = Status(statusStr)
	job.ErrorMessage = errorMsg.String
	job.UpdatedAt = parseTime(updatedRaw)
	return &job, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
