package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"convertaudiobook/internal/deps"
	"convertaudiobook/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check ffmpeg, ffprobe and the tool's directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			printer := newStatusPrinter(cmd.OutOrStdout())

			ffmpegBin, ffprobeBin := ctx.resolveBinaries(cfg)
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Binaries{
				FFmpeg:  ffmpegBin,
				FFprobe: ffprobeBin,
			})

			printer.section("Environment")
			printer.line("Config", statusInfo, ctx.configPath)
			if ffmpegBin.Available {
				if version, err := deps.Version(cmd.Context(), ffmpegBin.Command); err == nil {
					printer.line("FFmpeg version", statusInfo, version)
				} else {
					printer.line("FFmpeg version", statusWarn, err.Error())
				}
			}
			if cfg.History.Enabled {
				printer.line("History", statusInfo, cfg.HistoryPath())
			} else {
				printer.line("History", statusWarn, "disabled")
			}

			fmt.Fprintln(cmd.OutOrStdout())
			printer.section("Checks")
			failures := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				printer.line(result.Name, kind, result.Detail)
			}
			if preflight.Failed(results) {
				return fmt.Errorf("doctor found %d problem(s)", failures)
			}
			return nil
		},
	}
}
