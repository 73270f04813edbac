package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestInspectListsChapters(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "inspect", env.source)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Test Book")
	requireContains(t, out, "Test Author")
	requireContains(t, out, "0:03:20")
	requireContains(t, out, "Chapter 2")
	requireContains(t, out, "0:01:00")
	requireContains(t, out, "book - 3.mp3")
	if calls := env.stub.Calls(t); len(calls) != 0 {
		t.Fatalf("inspect should not run ffmpeg, got %v", calls)
	}
}

func TestInspectUsesOutputName(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "inspect", env.source, "-o", filepath.Join(env.outputDir, "dune.mp3"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "dune - 1.mp3")
}

func TestInspectRequiresFile(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "inspect"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestFormatOffset(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{59*time.Second + 900*time.Millisecond, "0:00:59"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{26 * time.Hour, "26:00:00"},
	}
	for _, tt := range tests {
		if got := formatOffset(tt.in); got != tt.want {
			t.Fatalf("formatOffset(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "inspect", "--json", env.source)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	requireContains(t, out, `"chapters"`)
	requireContains(t, out, `"start_time":"60.500000"`)
}
