package testsupport

import (
	"path/filepath"
	"testing"

	"convertaudiobook/internal/config"
)

// Workspace is a per-test directory tree with a matching configuration.
type Workspace struct {
	Dir    string
	Config *config.Config
	// Stub is zero unless WithStubTranscoder was applied.
	Stub StubTranscoder
}

// Option customizes a Workspace before it is returned.
type Option func(*Workspace)

// NewWorkspace returns the default configuration with its log and state
// directories moved under a fresh temp directory.
func NewWorkspace(t testing.TB, opts ...Option) *Workspace {
	t.Helper()

	cfg := config.Default()
	ws := &Workspace{Dir: t.TempDir(), Config: &cfg}
	cfg.Paths.LogDir = filepath.Join(ws.Dir, "logs")
	cfg.Paths.StateDir = filepath.Join(ws.Dir, "state")
	for _, opt := range opts {
		opt(ws)
	}
	if ws.Stub.Dir == "" {
		return ws
	}
	cfg.Transcoder.FFmpegPath = ws.Stub.FFmpeg
	cfg.Transcoder.FFprobePath = ws.Stub.FFprobe
	return ws
}

// WithSplitChapters sets the default split behaviour.
func WithSplitChapters(split bool) Option {
	return func(ws *Workspace) { ws.Config.Output.SplitChapters = split }
}

// WithHistory toggles the history database.
func WithHistory(enabled bool) Option {
	return func(ws *Workspace) { ws.Config.History.Enabled = enabled }
}

// WithStubTranscoder installs fake ffmpeg and ffprobe binaries under
// <dir>/bin and configures them explicitly.
func WithStubTranscoder(t testing.TB, probeJSON string) Option {
	return func(ws *Workspace) {
		ws.Stub = NewStubTranscoder(t, filepath.Join(ws.Dir, "bin"), probeJSON)
	}
}
