package main

import (
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"convertaudiobook/internal/config"
	"convertaudiobook/internal/deps"
)

type commandContext struct {
	configFlag  *string
	ffmpegFlag  *string
	ffprobeFlag *string
	verbose     *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	// executable overrides os.Executable for sidecar lookup in tests.
	executable string
}

func newCommandContext(configFlag, ffmpegFlag, ffprobeFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		ffmpegFlag:  ffmpegFlag,
		ffprobeFlag: ffprobeFlag,
		verbose:     verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) verboseEnabled() bool {
	return c.verbose != nil && *c.verbose
}

func (c *commandContext) executablePath() string {
	if c.executable != "" {
		return c.executable
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return exe
}

// resolveBinaries applies the lookup order: flag, then config, then a binary
// next to the executable, then PATH.
func (c *commandContext) resolveBinaries(cfg *config.Config) (deps.Resolution, deps.Resolution) {
	ffmpegExplicit := flagOr(c.ffmpegFlag, cfg.Transcoder.FFmpegPath)
	ffmpeg := deps.ResolveFFmpeg(ffmpegExplicit, c.executablePath())

	anchor := ffmpeg.Command
	if !ffmpeg.Available {
		anchor = c.executablePath()
	}
	ffprobe := deps.ResolveFFprobe(flagOr(c.ffprobeFlag, cfg.Transcoder.FFprobePath), anchor)
	return ffmpeg, ffprobe
}

func flagOr(flag *string, fallback string) string {
	if flag != nil {
		if value := strings.TrimSpace(*flag); value != "" {
			return value
		}
	}
	return strings.TrimSpace(fallback)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
