package history

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is a single recorded conversion.
type Run struct {
	ID            string
	SourcePath    string
	OutputDir     string
	SplitChapters bool
	ChapterCount  int
	Files         []string
	TagErrors     int
	Status        Status
	ErrorMessage  string
	LogPath       string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration returns the wall-clock time of a finished run, or zero.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome is recorded when a run ends.
type Outcome struct {
	Status       Status
	ChapterCount int
	Files        []string
	TagErrors    int
	Err          error
}

func (o Outcome) errorMessage() string {
	if o.Err == nil {
		return ""
	}
	return strings.TrimSpace(o.Err.Error())
}
