package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuesplit/internal/deps"
	"cuesplit/internal/preflight"
	"cuesplit/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check external binaries and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(stdout, line)
			}
			configDetail := ctx.configPath
			if configDetail == "" {
				configDetail = "defaults"
			}
			fmt.Fprintln(stdout, renderStatusLine("Config", statusInfo, configDetail, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Cue charset", statusInfo, cfg.Cue.Charset, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Re-encode", statusInfo, yesNo(cfg.Extract.Reencode), colorize))
			fmt.Fprintln(stdout, renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize))
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			statuses := preflight.CheckSystemDeps(cfg)
			for _, line := range dependencyLines(statuses, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(stdout, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, line := range preflightLines(results, colorize) {
				fmt.Fprintln(stdout, line)
			}

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "check", "dependencies", fmt.Sprintf("%d required binaries missing", len(missing)), nil)
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "check", "directories", fmt.Sprintf("%d directory checks failed", len(failed)), nil)
			}
			return nil
		},
	}
}
