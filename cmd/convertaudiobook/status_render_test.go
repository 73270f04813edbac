package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatStatusLinePlain(t *testing.T) {
	got := formatStatusLine("FFmpeg", statusOK, "/usr/bin/ffmpeg (path)", false)
	want := "  FFmpeg:              [OK] /usr/bin/ffmpeg (path)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := formatStatusLine("History", statusWarn, "", false); !strings.HasSuffix(got, "[WARN]") {
		t.Fatalf("expected bare status, got %q", got)
	}
}

func TestFormatStatusLineColorizedKeepsText(t *testing.T) {
	got := formatStatusLine("Log directory", statusError, "missing", true)
	if !strings.Contains(got, "Log directory:") || !strings.Contains(got, "[ERROR] missing") {
		t.Fatalf("unexpected colored line %q", got)
	}
}

func TestStatusPrinterSkipsColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	printer := newStatusPrinter(&buf)
	printer.section("Checks")
	printer.line("Config", statusInfo, "/tmp/config.toml")

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected escape codes in %q", out)
	}
	requireContains(t, out, "== Checks ==\n------------\n")
	requireContains(t, out, "[INFO] /tmp/config.toml")
}
