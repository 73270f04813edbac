package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"convertaudiobook/internal/config"
	"convertaudiobook/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	executable string
	source     string
	outputDir  string
	stub       testsupport.StubTranscoder
}

// setupCLITestEnv writes a config pointing at stub ffmpeg/ffprobe binaries
// and a placeholder source audiobook. The probe reports three chapters.
func setupCLITestEnv(t *testing.T, opts ...testsupport.Option) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CONVERTAUDIOBOOK_FFMPEG", "")
	t.Setenv("CONVERTAUDIOBOOK_FFPROBE", "")

	probe := testsupport.ProbeJSON(t, 200.25, 0, 60.5, 125)
	ws := testsupport.NewWorkspace(t, append([]testsupport.Option{testsupport.WithStubTranscoder(t, probe)}, opts...)...)

	configPath := filepath.Join(homeDir, ".config", "convertaudiobook", "config.toml")
	writeTestConfig(t, configPath, ws.Config)

	source := filepath.Join(base, "books", "book.m4b")
	testsupport.WriteAudiobook(t, source, 4096)

	return &cliTestEnv{
		cfg:        ws.Config,
		configPath: configPath,
		baseDir:    base,
		executable: filepath.Join(base, "app", "convertaudiobook"),
		source:     source,
		outputDir:  filepath.Join(base, "out"),
		stub:       ws.Stub,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWithContext(func(ctx *commandContext) {
		ctx.executable = env.executable
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
