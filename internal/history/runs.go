package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const runColumns = "id, source_path, output_dir, split_chapters, chapter_count, files_json, tag_errors, status, error_message, log_path, started_at, finished_at"

// Begin records a new running conversion. An empty ID is replaced with a
// fresh UUID.
func (s *Store) Begin(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.SourcePath) == "" {
		return Run{}, errors.New("history: source path required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = StatusRunning

	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (
            id, source_path, output_dir, split_chapters, status, log_path, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.SourcePath,
		run.OutputDir,
		boolToInt(run.SplitChapters),
		run.Status,
		nullableString(run.LogPath),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish stores the outcome of a run.
func (s *Store) Finish(ctx context.Context, id string, outcome Outcome) error {
	status := outcome.Status
	if status == "" {
		status = StatusCompleted
		if outcome.Err != nil {
			status = StatusFailed
		}
	}
	filesJSON, err := json.Marshal(outcome.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs
         SET chapter_count = ?, files_json = ?, tag_errors = ?, status = ?,
             error_message = ?, finished_at = ?
         WHERE id = ?`,
		outcome.ChapterCount,
		string(filesJSON),
		outcome.TagErrors,
		status,
		nullableString(outcome.errorMessage()),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %q", id)
	}
	return nil
}

// Get fetches a run by identifier; it returns nil when the run is unknown.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ErrAmbiguousRun is returned when an id prefix matches several runs.
var ErrAmbiguousRun = errors.New("ambiguous run id")

// Find resolves a run by full id or unique id prefix. An empty ref selects
// the most recent run. It returns nil when nothing matches.
func (s *Store) Find(ctx context.Context, ref string) (*Run, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		runs, err := s.List(ctx, 1)
		if err != nil || len(runs) == 0 {
			return nil, err
		}
		return &runs[0], nil
	}
	if _, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, ref)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, ?) = ? ORDER BY started_at DESC LIMIT 2`,
		len(ref), ref)
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRun, ref)
	}
}

// List returns up to limit runs, newest first. A non-positive limit lists all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		split        int
		filesJSON    sql.NullString
		status       string
		errorMessage sql.NullString
		logPath      sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.SourcePath,
		&run.OutputDir,
		&split,
		&run.ChapterCount,
		&filesJSON,
		&run.TagErrors,
		&status,
		&errorMessage,
		&logPath,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.SplitChapters = split != 0
	run.Status = Status(status)
	run.ErrorMessage = errorMessage.String
	run.LogPath = logPath.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	if filesJSON.Valid && filesJSON.String != "" {
		if err := json.Unmarshal([]byte(filesJSON.String), &run.Files); err != nil {
			return nil, fmt.Errorf("decode files: %w", err)
		}
	}
	return &run, nil
}

func parseTime(raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
