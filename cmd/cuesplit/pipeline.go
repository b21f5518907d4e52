package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuesplit/internal/config"
	"cuesplit/internal/cue"
	"cuesplit/internal/deps"
	"cuesplit/internal/extract"
	"cuesplit/internal/history"
	"cuesplit/internal/logging"
	"cuesplit/internal/plan"
	"cuesplit/internal/preflight"
	"cuesplit/internal/services"
)

// splitRequest describes one cue sheet to split.
type splitRequest struct {
	CuePath   string
	OutputDir string
	DryRun    bool
}

// splitResult summarizes a split for rendering.
type splitResult struct {
	RunID     string     `json:"run_id,omitempty"`
	CuePath   string     `json:"cue_path"`
	OutputDir string     `json:"output_dir"`
	DryRun    bool       `json:"dry_run"`
	Completed int        `json:"completed"`
	Jobs      []plan.Job `json:"jobs"`
}

// splitter runs the parse, plan, preflight, and extract pipeline. store may
// be nil when history is disabled.
type splitter struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *history.Store
	// newExecutor is swapped in tests; nil selects ffmpeg.
	newExecutor func(outputDir string) extract.Executor
}

func newSplitter(cfg *config.Config, logger *slog.Logger, store *history.Store) *splitter {
	return &splitter{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "split"),
		store:  store,
	}
}

// openHistory opens the history store when enabled in cfg.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// loadJobs parses the cue sheet at path and plans its jobs.
func loadJobs(cfg *config.Config, path string) ([]plan.Job, error) {
	doc, err := cue.Load(path, cfg.Cue.Charset)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "parse", "load cue sheet", path, err)
		}
		return nil, services.Wrap(services.ErrValidation, "parse", "load cue sheet", filepath.Base(path), err)
	}
	jobs, err := plan.Plan(doc)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "derive jobs", filepath.Base(path), err)
	}
	return jobs, nil
}

// resolveOutputDir applies the fallback order: explicit argument, configured
// output directory, then the cue sheet's own directory.
func resolveOutputDir(cfg *config.Config, cuePath, explicit string) (string, error) {
	dir := strings.TrimSpace(explicit)
	if dir == "" {
		dir = cfg.Paths.OutputDir
	}
	if dir == "" {
		dir = filepath.Dir(cuePath)
	}
	return config.ExpandPath(dir)
}

func (s *splitter) split(ctx context.Context, req splitRequest) (*splitResult, error) {
	cuePath, err := config.ExpandPath(req.CuePath)
	if err != nil {
		return nil, fmt.Errorf("resolve cue path: %w", err)
	}
	outputDir, err := resolveOutputDir(s.cfg, cuePath, req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	result := &splitResult{CuePath: cuePath, OutputDir: outputDir, DryRun: req.DryRun}
	logger := s.logger.With(logging.String("cue", cuePath))

	jobs, err := loadJobs(s.cfg, cuePath)
	if err != nil {
		if !req.DryRun {
			s.recordRejected(ctx, result, err)
		}
		return result, err
	}
	result.Jobs = jobs
	logger.Info("cue sheet planned", logging.Int("jobs", len(jobs)), logging.String("output_dir", outputDir))
	if req.DryRun {
		return result, nil
	}

	var run *history.Run
	if s.store != nil {
		run, err = s.store.BeginRun(ctx, cuePath, outputDir, jobs)
		if err != nil {
			logging.WarnWithHint(logger, "history unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.state_dir permissions or disable [history]"),
			)
		} else {
			result.RunID = run.ID
			ctx = services.WithRunID(ctx, run.ID)
		}
	}

	err = s.execute(ctx, outputDir, jobs, result)
	if run != nil {
		message := ""
		if err != nil {
			message = err.Error()
		}
		if finishErr := s.store.FinishRun(context.WithoutCancel(ctx), run.ID, services.FailureStatus(err), message); finishErr != nil {
			logging.WarnWithHint(logger, "failed to record run outcome",
				logging.Error(finishErr),
				logging.String(logging.FieldErrorHint, "run `cuesplit history repair` later"),
			)
		}
	}
	return result, err
}

func (s *splitter) execute(ctx context.Context, outputDir string, jobs []plan.Job, result *splitResult) error {
	logger := logging.WithContext(ctx, s.logger)

	executor := s.executor(outputDir)
	if executor == nil {
		ffmpeg := deps.ResolveFFmpeg(s.cfg.Extract.FFmpegBinary, s.cfg.Extract.FFprobeBinary)
		if !ffmpeg.Available {
			return services.Wrap(services.ErrConfiguration, "preflight", "resolve ffmpeg", ffmpeg.Detail, nil)
		}
		ff := extract.NewFFmpeg(s.cfg, outputDir, logger)
		ff.Binary = ffmpeg.Command
		executor = ff
	}

	if s.cfg.Extract.ProbeSources {
		if failed := preflight.Failed(preflight.CheckSources(ctx, s.cfg.Extract.FFprobeBinary, jobs)); len(failed) > 0 {
			details := make([]string, 0, len(failed))
			for _, f := range failed {
				details = append(details, f.Name+": "+f.Detail)
			}
			return services.Wrap(services.ErrValidation, "preflight", "probe sources", strings.Join(details, "; "), nil)
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "create output directory", outputDir, err)
	}
	if s.cfg.Extract.LockOutputDir {
		lock, err := extract.LockOutputDir(outputDir)
		if err != nil {
			return services.Wrap(services.ErrValidation, "preflight", "lock output directory", "", err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release output lock", logging.Error(err), logging.String("lock", lock.Path()))
			}
		}()
	}

	runID, _ := services.RunIDFromContext(ctx)
	err := extract.Run(ctx, executor, jobs, extract.Options{
		Logger: s.logger,
		Observer: func(jobCtx context.Context, event extract.Event) {
			if event.Err == nil {
				result.Completed++
			}
			if s.store == nil || runID == "" {
				return
			}
			status, message := history.StatusCompleted, ""
			if event.Err != nil {
				status, message = history.StatusFailed, event.Err.Error()
			}
			if recordErr := s.store.RecordJob(context.WithoutCancel(jobCtx), runID, event.Position, status, message); recordErr != nil {
				logger.Warn("failed to record job outcome", logging.Error(recordErr), logging.Int("position", event.Position))
			}
		},
	})
	if err != nil {
		return err
	}
	logger.Info("split complete", logging.Int("tracks", len(jobs)), logging.String("output_dir", outputDir))
	return nil
}

func (s *splitter) executor(outputDir string) extract.Executor {
	if s.newExecutor == nil {
		return nil
	}
	return s.newExecutor(outputDir)
}

// recordRejected stores a run that failed before any job was planned.
func (s *splitter) recordRejected(ctx context.Context, result *splitResult, cause error) {
	if s.store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	run, err := s.store.BeginRun(ctx, result.CuePath, result.OutputDir, nil)
	if err != nil {
		s.logger.Warn("failed to record rejected run", logging.Error(err))
		return
	}
	result.RunID = run.ID
	if err := s.store.FinishRun(ctx, run.ID, services.FailureStatus(cause), cause.Error()); err != nil {
		s.logger.Warn("failed to record rejected run", logging.Error(err))
	}
}
