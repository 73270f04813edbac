package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"convertaudiobook/internal/audiobook"
)

type stubExecutor struct {
	binary string
	args   []string
	lines  []string
	err    error
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, onLine func(string)) error {
	s.binary = binary
	s.args = append([]string(nil), args...)
	for _, line := range s.lines {
		onLine(line)
	}
	return s.err
}

func TestArgsWholeFile(t *testing.T) {
	tr, err := New("ffmpeg", Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got := tr.Args(audiobook.TranscodeJob{Source: "/in/book.m4b", Destination: "/out/book.mp3"})
	want := []string{
		"-hide_banner", "-nostdin", "-y", "-loglevel", "error", "-nostats",
		"-progress", "pipe:1", "-i", "/in/book.m4b", "-vn", "/out/book.mp3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestArgsWithCutAndEncoderOptions(t *testing.T) {
	tr, err := New("ffmpeg", Options{AudioCodec: " libmp3lame ", AudioBitrate: "64k"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got := tr.Args(audiobook.TranscodeJob{
		Source:      "/in/book.m4b",
		Destination: "/out/book - 2.mp3",
		Cut:         &audiobook.Cut{Start: 615 * time.Second, Duration: 1200 * time.Second},
	})
	want := []string{
		"-hide_banner", "-nostdin", "-y", "-loglevel", "error", "-nostats",
		"-progress", "pipe:1",
		"-ss", "615", "-i", "/in/book.m4b", "-t", "1200", "-vn", "-map_chapters", "-1",
		"-c:a", "libmp3lame", "-b:a", "64k", "/out/book - 2.mp3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", Options{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		line string
		want time.Duration
		ok   bool
	}{
		{"out_time_us=1500000", 1500 * time.Millisecond, true},
		{"out_time_ms=2500000", 2500 * time.Millisecond, true},
		{"out_time=00:01:02.500000", time.Minute + 2500*time.Millisecond, true},
		{"out_time=01:00:00.000000", time.Hour, true},
		{"out_time_us=N/A", 0, false},
		{"out_time=-577014:32:22.77", 0, false},
		{"out_time_us=-9", 0, false},
		{"speed=1.5x", 0, false},
		{"progress=end", 0, false},
		{"garbage", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseProgressLine(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseProgressLine(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTranscodeReportsDistinctProgress(t *testing.T) {
	exec := &stubExecutor{lines: []string{
		"frame=0",
		"out_time_us=1000000",
		"out_time_ms=1000000",
		"out_time=00:00:01.000000",
		"speed=20x",
		"progress=continue",
		"out_time_us=3000000",
		"progress=end",
	}}
	tr, err := New("/opt/ffmpeg", Options{}, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var ticks []time.Duration
	err = tr.Transcode(context.Background(), audiobook.TranscodeJob{Source: "a.m4b", Destination: "a.mp3"}, func(d time.Duration) {
		ticks = append(ticks, d)
	})
	if err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}
	if exec.binary != "/opt/ffmpeg" {
		t.Fatalf("unexpected binary %q", exec.binary)
	}
	want := []time.Duration{time.Second, 3 * time.Second}
	if !reflect.DeepEqual(ticks, want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
}

func TestTranscodeFailureCarriesStderrTail(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "partial.mp3")
	if err := os.WriteFile(dest, []byte("half"), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	exitErr := errors.New("exit status 1")
	exec := &stubExecutor{
		lines: []string{"out_time_us=100", "a.m4b: Invalid data found when processing input"},
		err:   exitErr,
	}
	tr, err := New("ffmpeg", Options{}, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = tr.Transcode(context.Background(), audiobook.TranscodeJob{Source: "a.m4b", Destination: dest}, nil)
	if !errors.Is(err, exitErr) {
		t.Fatalf("expected wrapped exit error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected stderr tail in error, got %v", err)
	}
	if strings.Contains(err.Error(), "out_time_us") {
		t.Fatalf("progress lines should not appear in error: %v", err)
	}
	if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected partial output removed, stat err=%v", statErr)
	}
}

func TestTranscodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &stubExecutor{err: errors.New("signal: killed")}
	tr, err := New("ffmpeg", Options{}, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = tr.Transcode(ctx, audiobook.TranscodeJob{Source: "a.m4b", Destination: filepath.Join(t.TempDir(), "a.mp3")}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCommandExecutorRunsScript(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.mp3")
	script := filepath.Join(dir, "ffmpeg")
	body := "#!/bin/sh\n" +
		"for last; do :; done\n" +
		"echo out_time_us=500000\n" +
		"echo out_time_us=1000000\n" +
		"echo progress=end\n" +
		"printf 'FAKEAUDIODATA' > \"$last\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	tr, err := New(script, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var ticks []time.Duration
	err = tr.Transcode(context.Background(), audiobook.TranscodeJob{Source: "in.m4b", Destination: out}, func(d time.Duration) {
		ticks = append(ticks, d)
	})
	if err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "FAKEAUDIODATA" {
		t.Fatalf("unexpected output %q (%v)", data, err)
	}
	if len(ticks) != 2 || ticks[1] != time.Second {
		t.Fatalf("unexpected ticks %v", ticks)
	}
}

func TestCommandExecutorReportsExitStatus(t *testing.T) {
	script := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'Unknown encoder' >&2\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	tr, err := New(script, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = tr.Transcode(context.Background(), audiobook.TranscodeJob{Source: "in.m4b", Destination: filepath.Join(t.TempDir(), "x.mp3")}, nil)
	if err == nil || !strings.Contains(err.Error(), "Unknown encoder") || !strings.Contains(err.Error(), "exit status 3") {
		t.Fatalf("expected exit status and stderr in error, got %v", err)
	}
}
