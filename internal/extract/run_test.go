package extract_test

import (
	"context"
	"errors"
	"testing"

	"cuesplit/internal/extract"
	"cuesplit/internal/plan"
	"cuesplit/internal/services"
)

func jobs(n int) []plan.Job {
	out := make([]plan.Job, n)
	for i := range out {
		out[i] = plan.Job{SourcePath: "disc.wav", Start: float64(i * 60), OutputFilename: string(rune('a'+i)) + ".flac"}
	}
	return out
}

func TestRunExecutesInOrder(t *testing.T) {
	var seen []string
	exec := extract.ExecutorFunc(func(_ context.Context, job plan.Job) error {
		seen = append(seen, job.OutputFilename)
		return nil
	})
	if err := extract.Run(context.Background(), exec, jobs(3), extract.Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 3 || seen[0] != "a.flac" || seen[2] != "c.flac" {
		t.Fatalf("unexpected execution order %v", seen)
	}
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	exec := extract.ExecutorFunc(func(_ context.Context, job plan.Job) error {
		calls++
		if job.OutputFilename == "b.flac" {
			return boom
		}
		return nil
	})

	var events []extract.Event
	err := extract.Run(context.Background(), exec, jobs(4), extract.Options{
		Observer: func(_ context.Context, event extract.Event) {
			events = append(events, event)
		},
	})
	if calls != 2 {
		t.Fatalf("expected execution to stop after 2 calls, got %d", calls)
	}
	if !errors.Is(err, extract.ErrExecutionFailure) {
		t.Fatalf("expected ErrExecutionFailure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying error to be preserved, got %v", err)
	}
	var execErr *extract.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecutionError, got %T", err)
	}
	if execErr.Position != 2 || execErr.Completed != 1 || execErr.Job.OutputFilename != "b.flac" {
		t.Fatalf("unexpected execution error %+v", execErr)
	}
	if len(events) != 2 || events[0].Err != nil || !errors.Is(events[1].Err, boom) {
		t.Fatalf("unexpected observer events %+v", events)
	}
	if events[1].Position != 2 || events[1].Total != 4 {
		t.Fatalf("unexpected event positions %+v", events[1])
	}
}

func TestRunKeepsToolErrorClassification(t *testing.T) {
	exec := extract.ExecutorFunc(func(context.Context, plan.Job) error {
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "failed", nil)
	})
	err := extract.Run(context.Background(), exec, jobs(1), extract.Options{})
	if services.ExitCode(err) != 3 {
		t.Fatalf("expected external tool exit code, got %d (%v)", services.ExitCode(err), err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	exec := extract.ExecutorFunc(func(context.Context, plan.Job) error {
		calls++
		cancel()
		return nil
	})
	err := extract.Run(ctx, exec, jobs(3), extract.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one job before cancellation, got %d", calls)
	}
}

func TestRunPassesPositionInContext(t *testing.T) {
	var positions []int
	exec := extract.ExecutorFunc(func(ctx context.Context, _ plan.Job) error {
		pos, ok := services.TrackPositionFromContext(ctx)
		if !ok {
			t.Fatal("missing track position in context")
		}
		positions = append(positions, pos)
		return nil
	})
	if err := extract.Run(context.Background(), exec, jobs(2), extract.Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(positions) != 2 || positions[0] != 1 || positions[1] != 2 {
		t.Fatalf("unexpected positions %v", positions)
	}
}

func TestRunEmptyAndNilExecutor(t *testing.T) {
	if err := extract.Run(context.Background(), extract.ExecutorFunc(func(context.Context, plan.Job) error {
		t.Fatal("executor must not be called")
		return nil
	}), nil, extract.Options{}); err != nil {
		t.Fatalf("Run with no jobs: %v", err)
	}
	if err := extract.Run(context.Background(), nil, jobs(1), extract.Options{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
