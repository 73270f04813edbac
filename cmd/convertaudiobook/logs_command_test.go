package main

import (
	"testing"
)

func TestLogsShowsLatestRun(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Logging.Level = "debug"
	writeTestConfig(t, env.configPath, env.cfg)

	if _, _, err := runCLI(t, env, "-s", env.source, "-o", env.outputDir, "-c"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	out, _, err := runCLI(t, env, "logs", "--lines", "0")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "conversion started")
	requireContains(t, out, env.source)
}

func TestLogsUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "-s", env.source, "-o", env.outputDir); err != nil {
		t.Fatalf("convert: %v", err)
	}

	_, _, err := runCLI(t, env, "logs", "not-a-run")
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	requireContains(t, err.Error(), "no conversion matches")
}

func TestLogsWithoutRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "logs")
	if err == nil {
		t.Fatal("expected error without runs")
	}
	requireContains(t, err.Error(), "no conversions recorded yet")
}
