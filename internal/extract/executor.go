package extract

import (
	"context"

	"cuesplit/internal/plan"
)

// Executor performs a single extraction job.
type Executor interface {
	Execute(ctx context.Context, job plan.Job) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, job plan.Job) error

// Execute calls f(ctx, job).
func (f ExecutorFunc) Execute(ctx context.Context, job plan.Job) error {
	return f(ctx, job)
}
