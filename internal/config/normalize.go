package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTranscoder(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = ExpandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscoder() error {
	var err error
	c.Transcoder.FFmpegPath = strings.TrimSpace(c.Transcoder.FFmpegPath)
	if c.Transcoder.FFmpegPath == "" {
		if value, ok := os.LookupEnv("CONVERTAUDIOBOOK_FFMPEG"); ok {
			c.Transcoder.FFmpegPath = strings.TrimSpace(value)
		}
	}
	if c.Transcoder.FFmpegPath, err = expandBinary(c.Transcoder.FFmpegPath); err != nil {
		return fmt.Errorf("transcoder.ffmpeg_path: %w", err)
	}
	c.Transcoder.FFprobePath = strings.TrimSpace(c.Transcoder.FFprobePath)
	if c.Transcoder.FFprobePath == "" {
		if value, ok := os.LookupEnv("CONVERTAUDIOBOOK_FFPROBE"); ok {
			c.Transcoder.FFprobePath = strings.TrimSpace(value)
		}
	}
	if c.Transcoder.FFprobePath, err = expandBinary(c.Transcoder.FFprobePath); err != nil {
		return fmt.Errorf("transcoder.ffprobe_path: %w", err)
	}
	c.Transcoder.AudioCodec = strings.TrimSpace(c.Transcoder.AudioCodec)
	c.Transcoder.AudioBitrate = strings.TrimSpace(c.Transcoder.AudioBitrate)
	return nil
}

// expandBinary expands values that look like paths and keeps bare command
// names for PATH lookup.
func expandBinary(value string) (string, error) {
	if value == "" || !strings.ContainsAny(value, `/\~`) {
		return value, nil
	}
	return ExpandPath(value)
}

func (c *Config) normalizeOutput() {
	c.Output.Extension = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Output.Extension), "."))
	if c.Output.Extension == "" {
		c.Output.Extension = defaultExtension
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
