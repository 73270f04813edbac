package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"convertaudiobook/internal/config"
	"convertaudiobook/internal/logging"
)

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	started := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	logger, path, err := logging.NewFromConfig(&cfg, false, started)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	want := filepath.Join(cfg.Paths.LogDir, "convert-20260301T123000Z.log")
	if path != want {
		t.Fatalf("unexpected log path: got %q want %q", path, want)
	}
	logger.Info("conversion started", logging.String("source", "/books/book.m4b"))

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "conversion started") {
		t.Fatalf("expected message in run log, got %q", content)
	}
	if !strings.Contains(string(content), "source=/books/book.m4b") {
		t.Fatalf("expected source attribute in run log, got %q", content)
	}
}

func TestNewFromConfigPrunesExpiredRunLogs(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.RetentionDays = 7

	stale := filepath.Join(cfg.Paths.LogDir, "convert-20200101T000000Z.log")
	unrelated := filepath.Join(cfg.Paths.LogDir, "notes.txt")
	for _, path := range []string{stale, unrelated} {
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		old := time.Now().AddDate(0, 0, -30)
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	if _, _, err := logging.NewFromConfig(&cfg, false, time.Now()); err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale run log to be pruned, stat err=%v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("expected unrelated file to survive: %v", err)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(base, "converter").Info("chapter converted", logging.Int(logging.FieldChapterIndex, 2))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO converter: chapter converted") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not be repeated as attribute: %q", line)
	}
	if !strings.Contains(line, "chapter_index=2") {
		t.Fatalf("expected chapter index attribute, got %q", line)
	}
}

func TestJSONLoggerUsesCompactKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json message", logging.String("k", "v"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(content, &payload); err != nil {
		t.Fatalf("decode json line: %v (%q)", err, content)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload["k"] != "v" {
		t.Fatalf("expected attribute k=v, got %v", payload["k"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRunID(context.Background(), "run-123")
	if id, ok := logging.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id from context: %q %v", id, ok)
	}
	logging.WithContext(ctx, base).Info("hello")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "run_id=run-123") {
		t.Fatalf("expected run_id attribute, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "tag write failed", "tag_write_failed")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, want := range []string{"event_type=tag_write_failed", "error_hint=", "impact="} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
}

func TestPruneRunLogsKeepsCurrentAndRecent(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	files := map[string]time.Time{
		"convert-20260101T000000Z.log": now.AddDate(0, 0, -40),
		"convert-20260102T000000Z.log": now.AddDate(0, 0, -40),
		"convert-20260228T000000Z.log": now.AddDate(0, 0, -1),
		"convert-old.txt":              now.AddDate(0, 0, -40),
	}
	for name, mtime := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
	}
	current := filepath.Join(dir, "convert-20260102T000000Z.log")

	removed := logging.PruneRunLogs(logging.NewNop(), dir, 30, now, current)
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	for name, wantKept := range map[string]bool{
		"convert-20260101T000000Z.log": false,
		"convert-20260102T000000Z.log": true,
		"convert-20260228T000000Z.log": true,
		"convert-old.txt":              true,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		if kept := err == nil; kept != wantKept {
			t.Fatalf("%s: kept=%v want %v", name, kept, wantKept)
		}
	}

	if got := logging.PruneRunLogs(nil, dir, 0, now); got != 0 {
		t.Fatalf("zero retention should keep everything, removed %d", got)
	}
}
