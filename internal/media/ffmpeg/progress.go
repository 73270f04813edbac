package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// ParseProgressLine extracts the processed media time from a `-progress`
// key=value line.
func ParseProgressLine(line string) (time.Duration, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us", "out_time_ms":
		// ffmpeg writes microseconds under both keys.
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		return time.Duration(us) * time.Microsecond, true
	case "out_time":
		return parseClock(value)
	default:
		return 0, false
	}
}

// isProgressLine reports whether line belongs to the -progress stream.
func isProgressLine(line string) bool {
	key, _, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return false
	}
	switch key {
	case "frame", "fps", "stream_0_0_q", "bitrate", "total_size", "out_time_us",
		"out_time_ms", "out_time", "dup_frames", "drop_frames", "speed", "progress":
		return true
	}
	return false
}

func parseClock(value string) (time.Duration, bool) {
	if strings.HasPrefix(value, "-") {
		return 0, false
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	total += time.Duration(seconds * float64(time.Second))
	return total, true
}
