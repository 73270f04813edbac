package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeAudio is the payload the stub ffmpeg writes into every output.
const FakeAudio = "FAKEAUDIODATA"

// StubTranscoder describes installed fake ffmpeg/ffprobe binaries.
type StubTranscoder struct {
	Dir     string
	FFmpeg  string
	FFprobe string
	// CallsLog receives one line of arguments per ffmpeg invocation.
	CallsLog string
}

// NewStubTranscoder writes shell scripts standing in for ffmpeg and ffprobe.
// The ffmpeg stub answers -version and -encoders, otherwise it prints
// -progress lines and writes FakeAudio to its last argument; it exits 1 when
// the last argument contains "FAIL". The ffprobe stub prints probeJSON.
func NewStubTranscoder(t testing.TB, dir, probeJSON string) StubTranscoder {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	stub := StubTranscoder{
		Dir:      dir,
		FFmpeg:   filepath.Join(dir, "ffmpeg"),
		FFprobe:  filepath.Join(dir, "ffprobe"),
		CallsLog: filepath.Join(dir, "ffmpeg.calls"),
	}
	probePath := filepath.Join(dir, "probe.json")
	if err := os.WriteFile(probePath, []byte(probeJSON), 0o644); err != nil {
		t.Fatalf("write probe payload: %v", err)
	}

	ffmpeg := strings.Join([]string{
		"#!/bin/sh",
		"case \"$*\" in",
		"  -version) echo 'ffmpeg version stub'; exit 0;;",
		"  '-hide_banner -encoders') echo ' A..... libmp3lame  MP3 (MPEG audio layer 3)'; exit 0;;",
		"esac",
		"for last; do :; done",
		"echo \"$*\" >> " + shellQuote(stub.CallsLog),
		"case \"$last\" in *FAIL*) echo 'stub: encoder exploded' >&2; exit 1;; esac",
		"echo out_time_us=500000",
		"echo progress=continue",
		"echo out_time_us=1000000",
		"echo progress=end",
		"printf '" + FakeAudio + "' > \"$last\"",
		"",
	}, "\n")
	ffprobe := "#!/bin/sh\ncat " + shellQuote(probePath) + "\n"

	WriteExecutable(t, stub.FFmpeg, ffmpeg)
	WriteExecutable(t, stub.FFprobe, ffprobe)
	return stub
}

// Calls returns the recorded ffmpeg argument lines.
func (s StubTranscoder) Calls(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(s.CallsLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read calls log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// WriteExecutable writes an executable script.
func WriteExecutable(t testing.TB, path, script string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
