package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"convertaudiobook/internal/history"
	"convertaudiobook/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Show the log of a conversion",
		Long:  "Show the log of a conversion. Without a run id the most recent conversion is used; an id prefix is enough.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled; run logs cannot be located")
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			run, err := store.Find(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if run == nil {
				if ref == "" {
					return errors.New("no conversions recorded yet")
				}
				return fmt.Errorf("no conversion matches %q", ref)
			}
			if run.LogPath == "" {
				return fmt.Errorf("conversion %s has no log file", shortID(run.ID))
			}

			tail, err := logs.Tail(run.LogPath, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	return cmd
}
