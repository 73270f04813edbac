package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"convertaudiobook/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths accepts file paths plus the names "stdout" and "stderr".
	// Empty means stderr.
	OutputPaths []string
}

// RunLogPrefix is the file name prefix of per-run log files.
const RunLogPrefix = "convert-"

// RunLogPath returns the log file used by a conversion started at the given time.
func RunLogPath(logDir string, started time.Time) string {
	return filepath.Join(logDir, RunLogPrefix+started.UTC().Format("20060102T150405Z")+".log")
}

// New builds a logger for the requested format. Caller locations are
// attached only when debug output is enabled.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	withSource := level <= slog.LevelDebug

	out, err := openOutputs(opts.OutputPaths)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newConsoleHandler(out, level, withSource)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       level,
			AddSource:   withSource,
			ReplaceAttr: compactJSONAttr,
		})), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates a logger writing to a per-run file under the
// configured log directory, pruning run logs older than the retention window.
// Verbose output additionally goes to stderr. The returned path is the run
// log file, or empty when no log directory is configured.
func NewFromConfig(cfg *config.Config, verbose bool, started time.Time) (*slog.Logger, string, error) {
	if cfg == nil {
		logger, err := New(Options{})
		return logger, "", err
	}

	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	logPath := ""
	if dir := cfg.Paths.LogDir; dir != "" {
		logPath = RunLogPath(dir, started)
		opts.OutputPaths = append(opts.OutputPaths, logPath)
	}
	if verbose {
		opts.OutputPaths = append(opts.OutputPaths, "stderr")
	}

	logger, err := New(opts)
	if err != nil {
		return nil, "", err
	}
	if logPath != "" {
		PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, time.Now(), logPath)
	}
	return logger, logPath, nil
}

func parseLevel(level string) slog.Level {
	var parsed slog.Level
	switch value := strings.ToLower(strings.TrimSpace(level)); value {
	case "warning":
		return slog.LevelWarn
	case "":
		return slog.LevelInfo
	default:
		if err := parsed.UnmarshalText([]byte(value)); err != nil {
			return slog.LevelInfo
		}
		return parsed
	}
}

// openOutputs opens every distinct destination once. Log files are created
// along with their parent directory and opened for appending.
func openOutputs(paths []string) (io.Writer, error) {
	var writers []io.Writer
	var opened []string
	for _, raw := range paths {
		name := strings.TrimSpace(raw)
		if name == "" || slices.Contains(opened, name) {
			continue
		}
		opened = append(opened, name)

		w, err := openOutput(name)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}

	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func openOutput(name string) (io.Writer, error) {
	switch name {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", name, err)
	}
	return file, nil
}

// compactJSONAttr shortens the built-in keys of JSON records.
func compactJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339))
	case slog.LevelKey:
		return slog.String(slog.LevelKey, strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, sourceLocation(src))
		}
	}
	return attr
}

func sourceLocation(src *slog.Source) string {
	return fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line)
}
