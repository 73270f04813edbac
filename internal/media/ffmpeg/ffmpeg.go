package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"convertaudiobook/internal/audiobook"
	"convertaudiobook/internal/logging"
)

const stderrTailLines = 8

// Options carries encoder settings passed to every invocation.
type Options struct {
	AudioCodec   string
	AudioBitrate string
}

// Option configures the transcoder.
type Option func(*Transcoder)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(t *Transcoder) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// WithLogger attaches a logger for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transcoder implements audiobook.Transcoder on top of the ffmpeg CLI.
type Transcoder struct {
	binary  string
	options Options
	exec    Executor
	logger  *slog.Logger
}

// New constructs an ffmpeg transcoder.
func New(binary string, options Options, opts ...Option) (*Transcoder, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	t := &Transcoder{
		binary: binary,
		options: Options{
			AudioCodec:   strings.TrimSpace(options.AudioCodec),
			AudioBitrate: strings.TrimSpace(options.AudioBitrate),
		},
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.NewComponentLogger(t.logger, "ffmpeg")
	return t, nil
}

// Transcode runs ffmpeg for a single job. A partially written destination
// is removed when ffmpeg fails.
func (t *Transcoder) Transcode(ctx context.Context, job audiobook.TranscodeJob, progress func(time.Duration)) error {
	if strings.TrimSpace(job.Source) == "" || strings.TrimSpace(job.Destination) == "" {
		return errors.New("ffmpeg: source and destination required")
	}
	args := t.Args(job)
	logging.WithContext(ctx, t.logger).Debug("running ffmpeg",
		logging.String("binary", t.binary),
		logging.String("args", strings.Join(args, " ")),
	)

	var (
		mu   sync.Mutex
		tail []string
		last time.Duration = -1
	)
	err := t.exec.Run(ctx, t.binary, args, func(line string) {
		if processed, ok := ParseProgressLine(line); ok {
			mu.Lock()
			changed := processed != last
			last = processed
			mu.Unlock()
			if changed && progress != nil {
				progress(processed)
			}
			return
		}
		if isProgressLine(line) || strings.TrimSpace(line) == "" {
			return
		}
		mu.Lock()
		tail = append(tail, strings.TrimSpace(line))
		if len(tail) > stderrTailLines {
			tail = tail[len(tail)-stderrTailLines:]
		}
		mu.Unlock()
	})
	if err == nil {
		return nil
	}

	if removeErr := os.Remove(job.Destination); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		t.logger.Debug("partial output not removed", logging.String("destination", job.Destination), logging.Error(removeErr))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("ffmpeg: %w", ctxErr)
	}
	mu.Lock()
	detail := strings.Join(tail, "; ")
	mu.Unlock()
	if detail != "" {
		return fmt.Errorf("ffmpeg: %w: %s", err, detail)
	}
	return fmt.Errorf("ffmpeg: %w", err)
}

// Args builds the ffmpeg command line for a job.
func (t *Transcoder) Args(job audiobook.TranscodeJob) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error", "-nostats",
		"-progress", "pipe:1",
	}
	if job.Cut != nil {
		args = append(args, "-ss", formatSeconds(job.Cut.Start))
	}
	args = append(args, "-i", job.Source)
	if job.Cut != nil {
		args = append(args, "-t", formatSeconds(job.Cut.Duration))
	}
	args = append(args, "-vn")
	if job.Cut != nil {
		args = append(args, "-map_chapters", "-1")
	}
	if t.options.AudioCodec != "" {
		args = append(args, "-c:a", t.options.AudioCodec)
	}
	if t.options.AudioBitrate != "" {
		args = append(args, "-b:a", t.options.AudioBitrate)
	}
	return append(args, job.Destination)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
