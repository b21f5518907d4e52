package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cuesplit/internal/history"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		reencode  bool
		overwrite bool
		probe     bool
		dryRun    bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "split <cue_file> [output_dir]",
		Short: "Split the audio image described by a cue sheet into tagged tracks",
		Long: "Split parses the cue sheet, derives one job per track, and runs ffmpeg for each\n" +
			"job in order. The output directory defaults to paths.output_dir, then to the\n" +
			"cue sheet's directory, and is created when missing. The first failing track\n" +
			"stops the run; tracks already written are kept.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			effective := *cfg
			if cmd.Flags().Changed("reencode") {
				effective.Extract.Reencode = reencode
			}
			if cmd.Flags().Changed("overwrite") {
				effective.Extract.Overwrite = overwrite
			}
			if cmd.Flags().Changed("probe") {
				effective.Extract.ProbeSources = probe
			}

			logger, err := ctx.logger(&effective)
			if err != nil {
				return err
			}
			var store *history.Store
			if !dryRun {
				if store, err = openHistory(&effective); err != nil {
					return err
				}
				if store != nil {
					defer store.Close()
				}
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			req := splitRequest{CuePath: args[0], DryRun: dryRun}
			if len(args) > 1 {
				req.OutputDir = args[1]
			}
			result, splitErr := newSplitter(&effective, logger, store).split(signalCtx, req)
			if jsonOut && result != nil {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
				return splitErr
			}
			if splitErr != nil {
				if result != nil && result.Completed > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d of %d tracks into %s before the failure\n", result.Completed, len(result.Jobs), result.OutputDir)
				}
				return splitErr
			}
			renderSplitResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reencode, "reencode", false, "Re-encode to FLAC instead of copying the audio stream")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing track files")
	cmd.Flags().BoolVar(&probe, "probe", false, "Inspect source files with ffprobe before extracting")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Plan the split without running ffmpeg")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the result as JSON")
	return cmd
}

func renderSplitResult(cmd *cobra.Command, result *splitResult) {
	out := cmd.OutOrStdout()
	if result.DryRun {
		fmt.Fprint(out, renderJobsTable(result.Jobs))
		fmt.Fprintf(out, "\n%d tracks would be written to %s\n", len(result.Jobs), result.OutputDir)
		return
	}
	fmt.Fprintf(out, "Extracted %d tracks into %s\n", result.Completed, result.OutputDir)
	if result.RunID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", result.RunID)
	}
}
