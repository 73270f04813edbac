package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"convertaudiobook/internal/audiobook"
	"convertaudiobook/internal/media/ffprobe"
	"convertaudiobook/internal/media/tags"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var output string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the chapters and tags of an audiobook",
		Long:  "Show the chapters of an audiobook and the files a split conversion would produce.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve source: %w", err)
			}
			_, ffprobeBin := ctx.resolveBinaries(cfg)
			if !ffprobeBin.Available {
				return fmt.Errorf("can't find ffprobe at %s", ffprobeBin.Command)
			}

			result, err := ffprobe.Inspect(cmd.Context(), ffprobeBin.Command, source)
			if err != nil {
				return err
			}
			meta, err := ffprobe.ToMetadata(result)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				_, err := out.Write(append(result.RawJSON(), '\n'))
				return err
			}
			writeInspectSummary(out, source, result, meta)

			plan := audiobook.ResolveOutput(source, output, cfg.Output.Extension)
			jobs := audiobook.PlanChapters(meta, true, plan.FileName)
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderChapterTable(meta, jobs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory or file name used for the preview")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw ffprobe JSON")
	return cmd
}

func writeInspectSummary(out io.Writer, source string, result ffprobe.Result, meta audiobook.Metadata) {
	rows := [][]string{
		{"File", source},
		{"Format", result.Format.FormatName},
		{"Duration", formatOffset(meta.Duration)},
		{"Audio streams", strconv.Itoa(result.AudioStreamCount())},
		{"Chapters", strconv.Itoa(len(meta.Chapters))},
	}
	if size := result.SizeBytes(); size > 0 {
		rows = append(rows, []string{"Size", humanize.Bytes(uint64(size))})
	}
	if rate := result.BitRate(); rate > 0 {
		rows = append(rows, []string{"Bit rate", humanize.SI(float64(rate), "bit/s")})
	}
	// Embedded tags win; ffprobe's container tags fill whatever they lack.
	info, _ := tags.Read(source)
	rows = append(rows,
		[]string{"Title", firstNonEmpty(info.Title, result.Tag("title"))},
		[]string{"Artist", firstNonEmpty(info.Artist, result.Tag("artist"))},
		[]string{"Album", firstNonEmpty(info.Album, result.Tag("album"))},
	)
	if info.Year > 0 {
		rows = append(rows, []string{"Year", strconv.Itoa(info.Year)})
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
}

func renderChapterTable(meta audiobook.Metadata, jobs []audiobook.ChapterJob) string {
	rows := make([][]string, 0, len(jobs))
	for i, job := range jobs {
		title := ""
		if i < len(meta.Chapters) {
			title = meta.Chapters[i].Title
		}
		rows = append(rows, []string{
			strconv.Itoa(job.Track),
			formatOffset(job.Start),
			formatOffset(job.Start + job.Duration),
			formatOffset(job.Duration),
			title,
			job.FileName,
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Duration", "Title", "Output"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}

// formatOffset renders a duration as H:MM:SS.
func formatOffset(d time.Duration) string {
	d = d.Truncate(time.Second)
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
