package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"convertaudiobook/internal/audiobook"
	"convertaudiobook/internal/config"
	"convertaudiobook/internal/history"
	"convertaudiobook/internal/logging"
	"convertaudiobook/internal/media/ffmpeg"
	"convertaudiobook/internal/media/ffprobe"
	"convertaudiobook/internal/media/tags"
	"convertaudiobook/internal/preflight"
	"convertaudiobook/internal/runlock"
)

type convertOptions struct {
	source      string
	output      string
	chapters    bool
	chaptersSet bool
}

// runConvert reports the expected failure classes as console messages and
// returns nil for them; only configuration and setup problems and
// cancellation surface as errors.
func runConvert(cmd *cobra.Command, cmdCtx *commandContext, opts convertOptions) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ffmpegBin, ffprobeBin := cmdCtx.resolveBinaries(cfg)
	if !ffmpegBin.Available {
		fmt.Fprintf(out, "Can't find ffmpeg at %s.\n", ffmpegBin.Command)
		return nil
	}

	source, err := filepath.Abs(opts.source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	if check := preflight.CheckSourceReadable(source); !check.Passed {
		fmt.Fprintf(out, "Can't find source at %s.\n", source)
		return nil
	}
	if !ffprobeBin.Available {
		fmt.Fprintf(out, "Can't find ffprobe at %s.\n", ffprobeBin.Command)
		return nil
	}

	split := cfg.Output.SplitChapters
	if opts.chaptersSet {
		split = opts.chapters
	}

	started := time.Now()
	logger, logPath, err := logging.NewFromConfig(cfg, cmdCtx.verboseEnabled(), started)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger = logging.WithContext(ctx, logger)

	plan := audiobook.ResolveOutput(source, opts.output, cfg.Output.Extension)
	lock, err := runlock.Acquire(cfg.LockDir(), plan.Dir)
	if err != nil {
		fmt.Fprintf(out, "Error during conversion: %v.\n", err)
		return nil
	}
	logger.Debug("output directory locked", logging.String("lock", lock.Path()))
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Debug("run lock release failed", logging.Error(err))
		}
	}()

	recorder := openRecorder(ctx, cfg, logger, history.Run{
		ID:            runID,
		SourcePath:    source,
		OutputDir:     plan.Dir,
		SplitChapters: split,
		LogPath:       logPath,
		StartedAt:     started.UTC(),
	})
	defer recorder.close()

	transcoder, err := ffmpeg.New(ffmpegBin.Command, ffmpeg.Options{
		AudioCodec:   cfg.Transcoder.AudioCodec,
		AudioBitrate: cfg.Transcoder.AudioBitrate,
	}, ffmpeg.WithLogger(logger))
	if err != nil {
		return err
	}
	converter := audiobook.New(
		transcoder,
		ffprobe.NewReader(ffprobeBin.Command),
		tags.NewTagger(),
		audiobook.WithExtension(cfg.Output.Extension),
		audiobook.WithLogger(logger),
	)

	logger.Info("conversion started",
		logging.String(logging.FieldSource, source),
		logging.String("ffmpeg", ffmpegBin.Command),
		logging.String("ffmpeg_origin", string(ffmpegBin.Origin)),
		logging.String("ffprobe", ffprobeBin.Command),
		logging.String("config", cmdCtx.configPath),
	)
	fmt.Fprintf(out, "Converting audiobook %s.\n", source)

	sink := newProgressSink(cmd.ErrOrStderr())
	result, convErr := converter.Convert(ctx, audiobook.Request{
		Source:        source,
		Output:        opts.output,
		SplitChapters: split,
		Progress:      sink,
	})
	sink.Close()
	recorder.finish(ctx, result, convErr)

	if convErr != nil {
		if errors.Is(convErr, context.Canceled) {
			fmt.Fprintln(out, "Conversion cancelled.")
			return convErr
		}
		logging.ErrorWithContext(logger, "conversion failed", "conversion_failed",
			logging.Error(convErr),
			logging.String(logging.FieldErrorHint, "see the run log for transcoder output"),
		)
		fmt.Fprintf(out, "Error during conversion: %v.\n", convErr)
		return nil
	}

	fmt.Fprintln(out, "Finished conversion.")
	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result audiobook.Result) {
	failed := make(map[string]bool, len(result.TagErrors))
	for _, tagErr := range result.TagErrors {
		failed[tagErr.Path] = true
	}
	rows := make([][]string, 0, len(result.Files))
	for i, path := range result.Files {
		size := "-"
		if info, err := os.Stat(path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		track := strconv.Itoa(i + 1)
		if failed[path] {
			track += " (untagged)"
		}
		rows = append(rows, []string{track, path, size})
	}
	fmt.Fprintln(out, renderTable([]string{"Track", "File", "Size"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
	for _, tagErr := range result.TagErrors {
		fmt.Fprintf(out, "Warning: %v\n", tagErr)
	}
}

// runRecorder writes the run to the history store when it is enabled.
// Store failures are logged and never fail the conversion.
type runRecorder struct {
	store  *history.Store
	runID  string
	logger *slog.Logger
}

func openRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger, run history.Run) *runRecorder {
	recorder := &runRecorder{logger: logger}
	if !cfg.History.Enabled {
		return recorder
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this conversion will not appear in history"),
		)
		return recorder
	}
	begun, err := store.Begin(ctx, run)
	if err != nil {
		logging.WarnWithContext(logger, "history record not created", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this conversion will not appear in history"),
		)
		_ = store.Close()
		return recorder
	}
	recorder.store = store
	recorder.runID = begun.ID
	return recorder
}

func (r *runRecorder) finish(ctx context.Context, result audiobook.Result, convErr error) {
	if r == nil || r.store == nil {
		return
	}
	outcome := history.Outcome{
		ChapterCount: len(result.Files),
		Files:        result.Files,
		TagErrors:    len(result.TagErrors),
		Err:          convErr,
	}
	// Record the outcome even when the conversion context was cancelled.
	if err := r.store.Finish(context.WithoutCancel(ctx), r.runID, outcome); err != nil {
		logging.WarnWithContext(r.logger, "history record not finished", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history shows this conversion as running"),
		)
	}
}

func (r *runRecorder) close() {
	if r != nil && r.store != nil {
		_ = r.store.Close()
	}
}
