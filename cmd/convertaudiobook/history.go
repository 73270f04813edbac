package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"convertaudiobook/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled in the configuration.")
				return nil
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet.")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(runs, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	return cmd
}

func renderHistoryTable(runs []history.Run, now time.Time) string {
	printer := message.NewPrinter(language.English)
	title := cases.Title(language.English)

	rows := make([][]string, 0, len(runs))
	totalFiles := 0
	for _, run := range runs {
		elapsed := "-"
		if d := run.Duration(); d > 0 {
			elapsed = d.Round(time.Second).String()
		}
		rows = append(rows, []string{
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			title.String(string(run.Status)),
			filepath.Base(run.SourcePath),
			run.OutputDir,
			printer.Sprintf("%d", len(run.Files)),
			elapsed,
			shortID(run.ID),
		})
		totalFiles += len(run.Files)
	}
	return renderTable(
		[]string{"Started", "Status", "Source", "Output", "Files", "Took", "Run"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		"", "", printer.Sprintf("%d runs", len(runs)), "", printer.Sprintf("%d", totalFiles),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
