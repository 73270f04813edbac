package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PruneRunLogs deletes run log files in dir last modified more than
// retentionDays before now. Files other than run logs and the paths in keep
// are never touched; retentionDays <= 0 keeps everything. It returns the
// number of files removed.
func PruneRunLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time, keep ...string) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	kept := make(map[string]bool, len(keep))
	for _, path := range keep {
		kept[filepath.Clean(path)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, RunLogPrefix) || filepath.Ext(name) != ".log" {
			continue
		}
		path := filepath.Join(dir, name)
		if kept[filepath.Clean(path)] {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old run log not removed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on the log directory"),
				String(FieldImpact, "old log file stays on disk"),
			)
			continue
		}
		removed++
		logger.Debug("run log pruned", String("path", path), String(FieldEventType, "log_pruned"))
	}
	return removed
}
