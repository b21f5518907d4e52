package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cuesplit/internal/logging"
	"cuesplit/internal/plan"
	"cuesplit/internal/services"
)

// ErrExecutionFailure marks a run halted by a failing job.
var ErrExecutionFailure = errors.New("extraction failed")

// ExecutionError reports the job that halted a run. It matches
// ErrExecutionFailure and the executor's own error.
type ExecutionError struct {
	// Position is the 1-based index of the failing job.
	Position int
	Job      plan.Job
	// Completed counts jobs that finished before the failure.
	Completed int
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("track %d (%s): %v", e.Position, e.Job.OutputFilename, e.Err)
}

func (e *ExecutionError) Unwrap() []error {
	return []error{ErrExecutionFailure, e.Err}
}

// Event describes the outcome of one job.
type Event struct {
	Position int
	Total    int
	Job      plan.Job
	Err      error
	Elapsed  time.Duration
}

// Observer is told about every attempted job once it finishes.
type Observer func(ctx context.Context, event Event)

// Options configures Run.
type Options struct {
	Logger   *slog.Logger
	Observer Observer
}

// Run executes jobs one at a time in order. It returns an *ExecutionError
// for the first failing job and never attempts later ones. Cancellation is
// checked between jobs.
func Run(ctx context.Context, executor Executor, jobs []plan.Job, opts Options) error {
	if executor == nil {
		return services.Wrap(services.ErrConfiguration, stageName, "run", "no executor", nil)
	}
	ctx = services.WithStage(ctx, stageName)
	logger := logging.NewComponentLogger(opts.Logger, "extract")

	for i, job := range jobs {
		position := i + 1
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("extraction stopped before track %d of %d: %w", position, len(jobs), err)
		}

		jobCtx := services.WithTrackPosition(ctx, position)
		jobLogger := logging.WithContext(jobCtx, logger)
		jobLogger.Info("extracting track",
			logging.String("output", job.OutputFilename),
			logging.Int("total", len(jobs)),
		)

		started := time.Now()
		err := executor.Execute(jobCtx, job)
		elapsed := time.Since(started)
		if opts.Observer != nil {
			opts.Observer(jobCtx, Event{Position: position, Total: len(jobs), Job: job, Err: err, Elapsed: elapsed})
		}
		if err != nil {
			jobLogger.Error("track extraction failed",
				logging.String("output", job.OutputFilename),
				logging.Error(err),
			)
			return &ExecutionError{Position: position, Job: job, Completed: i, Err: err}
		}
		jobLogger.Info("track extracted",
			logging.String("output", job.OutputFilename),
			logging.Duration("elapsed", elapsed),
		)
	}
	return nil
}
