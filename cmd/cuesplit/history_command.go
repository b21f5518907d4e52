package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cuesplit/internal/history"
	"cuesplit/internal/plan"
	"cuesplit/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent split runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, runViews(runs))
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderRunsTable(runs))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&jsonOut, "json", false, "Output runs as JSON")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryRepairCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the jobs of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					if errors.Is(err, history.ErrRunNotFound) {
						return services.Wrap(services.ErrNotFound, "history", "show", args[0], nil)
					}
					return err
				}
				jobs, err := store.RunJobs(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if jsonOut {
					view := newRunView(run)
					view.Jobs = jobViews(jobs)
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:        %s\n", run.ID)
				fmt.Fprintf(out, "Cue sheet:  %s\n", run.CuePath)
				fmt.Fprintf(out, "Output:     %s\n", run.OutputDir)
				fmt.Fprintf(out, "Status:     %s\n", run.Status)
				fmt.Fprintf(out, "Started:    %s\n", formatTimestamp(run.StartedAt))
				if !run.FinishedAt.IsZero() {
					fmt.Fprintf(out, "Elapsed:    %s\n", run.Elapsed().Round(time.Millisecond))
				}
				if run.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:      %s\n", run.ErrorMessage)
				}
				if len(jobs) > 0 {
					fmt.Fprintln(out)
					fmt.Fprint(out, renderRunJobsTable(jobs))
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run as JSON")
	return cmd
}

func newHistoryRepairCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Mark runs left running by an interrupted process as failed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				n, err := store.FailStaleRuns(cmd.Context(), "interrupted before completion")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d run(s) as failed\n", n)
				return nil
			})
		},
	}
}

// withHistory opens the history store for the duration of fn.
func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return services.Wrap(services.ErrConfiguration, "history", "open", "run history is disabled ([history] enabled = false)", nil)
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

type runView struct {
	ID         string    `json:"id"`
	CuePath    string    `json:"cue_path"`
	OutputDir  string    `json:"output_dir"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	JobCount   int       `json:"job_count"`
	StartedAt  string    `json:"started_at"`
	FinishedAt string    `json:"finished_at,omitempty"`
	Jobs       []jobView `json:"jobs,omitempty"`
}

type jobView struct {
	Position        int      `json:"position"`
	SourcePath      string   `json:"source_path"`
	OutputFilename  string   `json:"output_filename"`
	StartSeconds    float64  `json:"start_seconds"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	Status          string   `json:"status"`
	Error           string   `json:"error,omitempty"`
}

func newRunView(run *history.Run) runView {
	view := runView{
		ID:        run.ID,
		CuePath:   run.CuePath,
		OutputDir: run.OutputDir,
		Status:    string(run.Status),
		Error:     run.ErrorMessage,
		JobCount:  run.JobCount,
		StartedAt: run.StartedAt.Format(time.RFC3339),
	}
	if !run.FinishedAt.IsZero() {
		view.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return view
}

func runViews(runs []*history.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, newRunView(run))
	}
	return views
}

func jobViews(jobs []*history.JobRecord) []jobView {
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, jobView{
			Position:        job.Position,
			SourcePath:      job.SourcePath,
			OutputFilename:  job.OutputFilename,
			StartSeconds:    job.StartSeconds,
			DurationSeconds: job.DurationSeconds,
			Status:          string(job.Status),
			Error:           job.ErrorMessage,
		})
	}
	return views
}

func renderRunsTable(runs []*history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			formatTimestamp(run.StartedAt),
			string(run.Status),
			strconv.Itoa(run.JobCount),
			filepath.Base(run.CuePath),
		})
	}
	return renderTable(tableSpec{
		Headers: []string{"Run", "Started", "Status", "Tracks", "Cue sheet"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	})
}

func renderRunJobsTable(jobs []*history.JobRecord) string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		duration := "to end"
		if job.DurationSeconds != nil {
			duration = plan.FormatClock(*job.DurationSeconds)
		}
		status := string(job.Status)
		if job.ErrorMessage != "" {
			status += ": " + job.ErrorMessage
		}
		rows = append(rows, []string{
			strconv.Itoa(job.Position),
			plan.FormatClock(job.StartSeconds),
			duration,
			job.OutputFilename,
			status,
		})
	}
	return renderTable(tableSpec{
		Headers: []string{"#", "Start", "Duration", "Output", "Status"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
	})
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
