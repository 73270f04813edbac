package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Result is the decoded output of one probe.
type Result struct {
	Streams  []Stream  `json:"streams"`
	Chapters []Chapter `json:"chapters"`
	Format   Format    `json:"format"`
	raw      []byte
}

// Stream is the subset of per-stream fields the converter looks at.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
}

// Chapter is a chapter marker. Offsets are decimal seconds as printed by ffprobe.
type Chapter struct {
	ID        int64             `json:"id"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Tags      map[string]string `json:"tags"`
}

// Format holds container-level values. ffprobe prints numbers as strings.
type Format struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

func probeArgs(path string) []string {
	return []string{
		"-v", "error", "-hide_banner",
		"-show_format", "-show_streams", "-show_chapters",
		"-of", "json",
		"--", path,
	}
}

// Inspect runs binary (ffprobe when empty) against path.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, probeArgs(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, detail)
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(stdout.Bytes())
}

// Parse decodes an ffprobe JSON payload and keeps a copy of it.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = bytes.Clone(payload)
	return result, nil
}

// RawJSON returns the payload the result was decoded from.
func (r Result) RawJSON() []byte {
	return bytes.Clone(r.raw)
}

// AudioStreamCount counts streams of codec type audio.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// Duration returns the container duration rounded to milliseconds.
func (r Result) Duration() (time.Duration, error) {
	return parseOffset(r.Format.Duration)
}

// SizeBytes is 0 when ffprobe did not report a usable size.
func (r Result) SizeBytes() int64 {
	return wholeNumber(r.Format.Size)
}

// BitRate is in bits per second, 0 when unknown.
func (r Result) BitRate() int64 {
	return wholeNumber(r.Format.BitRate)
}

// Tag returns a container tag, matching keys case-insensitively.
func (r Result) Tag(key string) string {
	return lookupTag(r.Format.Tags, key)
}

// Title returns the chapter title tag, if any.
func (c Chapter) Title() string {
	return lookupTag(c.Tags, "title")
}

// Bounds returns the chapter start and end rounded to milliseconds.
func (c Chapter) Bounds() (start, end time.Duration, err error) {
	if start, err = parseOffset(c.StartTime); err != nil {
		return 0, 0, fmt.Errorf("chapter %d start: %w", c.ID, err)
	}
	if end, err = parseOffset(c.EndTime); err != nil {
		return 0, 0, fmt.Errorf("chapter %d end: %w", c.ID, err)
	}
	return start, end, nil
}

func lookupTag(tags map[string]string, key string) string {
	for k, value := range tags {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// parseOffset treats an absent value as zero.
func parseOffset(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid offset %q", value)
	}
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond, nil
}

func wholeNumber(value string) int64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed < 0 || math.IsNaN(parsed) {
		return 0
	}
	return int64(parsed)
}
