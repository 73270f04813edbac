// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams, chapters and format metadata
//   - Chapter: chapter marker with decimal-second offsets and tags
//   - Reader: adapts Inspect to the audiobook metadata interface
//
// Offsets are converted to time.Duration at millisecond precision.
package ffprobe
