package audiobook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"convertaudiobook/internal/logging"
)

// Option configures the converter.
type Option func(*Converter)

// WithExtension sets the extension used for derived output names.
func WithExtension(extension string) Option {
	return func(c *Converter) {
		if ext := strings.TrimSpace(extension); ext != "" {
			c.extension = normalizeExtension(ext)
		}
	}
}

// WithLogger attaches a logger; a no-op logger is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Converter turns an audiobook container into one or more audio files.
// A Converter runs one conversion at a time.
type Converter struct {
	transcoder Transcoder
	metadata   MetadataReader
	tagger     TrackTagger
	extension  string
	logger     *slog.Logger
	running    atomic.Bool
}

// New constructs a converter around the given collaborators. A nil tagger
// leaves produced files untagged.
func New(transcoder Transcoder, metadata MetadataReader, tagger TrackTagger, opts ...Option) *Converter {
	c := &Converter{
		transcoder: transcoder,
		metadata:   metadata,
		tagger:     tagger,
		extension:  DefaultExtension,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "converter")
	return c
}

// Convert runs a conversion. Chapters are transcoded sequentially; on a
// transcoder failure the files produced so far are returned with the error.
func (c *Converter) Convert(ctx context.Context, req Request) (Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer c.running.Store(false)

	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithContext(ctx, c.logger)

	if c.transcoder == nil {
		return Result{}, wrap(ErrNotFound, "convert", "transcoder unavailable", nil)
	}
	if c.metadata == nil {
		return Result{}, wrap(ErrMetadata, "convert", "metadata reader unavailable", nil)
	}

	source := strings.TrimSpace(req.Source)
	if err := checkSource(source); err != nil {
		return Result{}, err
	}

	plan := ResolveOutput(source, req.Output, c.extension)
	if err := os.MkdirAll(plan.Dir, 0o755); err != nil {
		return Result{}, wrap(ErrIO, "create output directory", plan.Dir, err)
	}

	meta, err := c.metadata.ReadMetadata(ctx, source)
	if err != nil {
		return Result{}, wrap(ErrMetadata, "read chapters", source, err)
	}

	jobs := PlanChapters(meta, req.SplitChapters, plan.FileName)
	logger.Info("conversion plan",
		logging.String(logging.FieldSource, source),
		logging.String("output_dir", plan.Dir),
		logging.String("file_name", plan.FileName),
		logging.Bool("split_chapters", req.SplitChapters),
		logging.Int("source_chapters", len(meta.Chapters)),
		logging.Int(logging.FieldChapterCount, len(jobs)),
		logging.Duration("duration", meta.Duration),
	)

	sink := &loggingSink{next: req.Progress, logger: logger, sampler: logging.NewProgressSampler(10)}
	tracker := newProgressTracker(sink, float64(wholeSeconds(meta.Duration)))

	result := Result{Files: make([]string, 0, len(jobs))}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return result, wrap(ErrTranscode, "convert", "cancelled", err)
		}
		destination := filepath.Join(plan.Dir, job.FileName)
		chapterLogger := logger.With(
			logging.Int(logging.FieldChapterIndex, job.Track),
			logging.Int(logging.FieldChapterCount, len(jobs)),
		)
		chapterLogger.Debug("transcoding chapter",
			logging.String("destination", destination),
			logging.Duration("start", job.Start),
			logging.Duration("duration", job.Duration),
		)

		if job.Duration <= 0 {
			// Neighbouring markers within the same whole second.
			logging.WarnWithContext(chapterLogger, "chapter shorter than one second", "empty_chapter",
				logging.Duration("start", job.Start),
				logging.Duration("duration", job.Duration),
				logging.String(logging.FieldImpact, "the file for this chapter may be empty"),
			)
		}
		tracker.beginChapter(job.Duration)
		err := c.transcoder.Transcode(ctx, TranscodeJob{
			Source:      source,
			Destination: destination,
			Cut:         job.Cut,
		}, tracker.tick)
		if err != nil {
			logging.ErrorWithContext(chapterLogger, "chapter transcode failed", "transcode_failed",
				logging.String("destination", destination),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the transcoder output in the run log"),
			)
			return result, wrap(ErrTranscode, fmt.Sprintf("chapter %d", job.Track), destination, err)
		}

		if c.tagger != nil {
			if err := c.tagger.SetTrackNumber(destination, job.Track); err != nil {
				tagErr := TagError{Path: destination, Track: job.Track, Err: err}
				result.TagErrors = append(result.TagErrors, tagErr)
				logging.WarnWithContext(chapterLogger, "track number not written", "tag_write_failed",
					logging.String("destination", destination),
					logging.Error(err),
					logging.String(logging.FieldImpact, "file plays but may sort out of order"),
				)
			}
		}

		result.Files = append(result.Files, destination)
		tracker.completeChapter(job.Duration)
	}

	tracker.finish()
	logger.Info("conversion finished",
		logging.String(logging.FieldSource, source),
		logging.Int("files", len(result.Files)),
		logging.Int("tag_errors", len(result.TagErrors)),
	)
	return result, nil
}

func checkSource(source string) error {
	if source == "" {
		return wrap(ErrNotFound, "source", "path is empty", nil)
	}
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return wrap(ErrNotFound, "source", source, nil)
		}
		return wrap(ErrIO, "stat source", source, err)
	}
	if info.IsDir() {
		return wrap(ErrNotFound, "source", source+" is a directory", nil)
	}
	return nil
}

// loggingSink forwards fractions to the caller's sink and writes sampled
// progress lines at debug level.
type loggingSink struct {
	next    ProgressSink
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func (s *loggingSink) Report(fraction float64) {
	if percent, ok := s.sampler.Sample(fraction); ok {
		s.logger.Debug("conversion progress", logging.Int("percent", percent))
	}
	if s.next != nil {
		s.next.Report(fraction)
	}
}
