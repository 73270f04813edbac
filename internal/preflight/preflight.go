package preflight

import (
	"context"
	"strings"

	"convertaudiobook/internal/config"
	"convertaudiobook/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Binaries carries the resolved transcoder binaries.
type Binaries struct {
	FFmpeg  deps.Resolution
	FFprobe deps.Resolution
}

// RunAll executes the readiness checks for the given config and binaries.
// The encoder check only runs when an audio codec is configured and ffmpeg
// was found.
func RunAll(ctx context.Context, cfg *config.Config, bins Binaries) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckBinary("FFmpeg", bins.FFmpeg),
		CheckBinary("FFprobe", bins.FFprobe),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if codec := strings.TrimSpace(cfg.Transcoder.AudioCodec); codec != "" && bins.FFmpeg.Available {
		results = append(results, CheckEncoder(ctx, bins.FFmpeg.Command, codec))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}
