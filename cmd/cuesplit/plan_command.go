package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cuesplit/internal/config"
	"cuesplit/internal/plan"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "plan <cue_file>",
		Short: "Show the extraction jobs derived from a cue sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve cue path: %w", err)
			}
			jobs, err := loadJobs(cfg, path)
			if err != nil {
				return err
			}
			if jsonOut {
				if jobs == nil {
					jobs = []plan.Job{}
				}
				return writeJSON(cmd, jobs)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cue sheet declares no tracks")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderJobsTable(jobs))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output jobs as JSON")
	return cmd
}

func renderJobsTable(jobs []plan.Job) string {
	rows := make([][]string, 0, len(jobs))
	for i, job := range jobs {
		duration, ok := job.DurationClock()
		if !ok {
			duration = "to end"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			job.StartClock(),
			duration,
			job.OutputFilename,
			filepath.Base(job.SourcePath),
		})
	}
	return renderTable(tableSpec{
		Headers: []string{"#", "Start", "Duration", "Output", "Source"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
		Footer:  fmt.Sprintf("%d tracks", len(jobs)),
	})
}
