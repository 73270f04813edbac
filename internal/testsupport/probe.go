package testsupport

import (
	"encoding/json"
	"strconv"
	"testing"
)

// ProbeJSON renders an ffprobe-style payload with chapters starting at the
// given offsets (seconds) and the given total duration.
func ProbeJSON(t testing.TB, total float64, starts ...float64) string {
	t.Helper()
	type chapter struct {
		ID        int               `json:"id"`
		StartTime string            `json:"start_time"`
		EndTime   string            `json:"end_time"`
		Tags      map[string]string `json:"tags"`
	}
	chapters := make([]chapter, 0, len(starts))
	for i, start := range starts {
		end := total
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		chapters = append(chapters, chapter{
			ID:        i,
			StartTime: formatSeconds(start),
			EndTime:   formatSeconds(end),
			Tags:      map[string]string{"title": "Chapter " + strconv.Itoa(i+1)},
		})
	}
	payload := map[string]any{
		"chapters": chapters,
		"streams":  []map[string]any{{"index": 0, "codec_name": "aac", "codec_type": "audio"}},
		"format": map[string]any{
			"filename":    "book.m4b",
			"duration":    formatSeconds(total),
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"tags":        map[string]string{"title": "Test Book", "artist": "Test Author"},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal probe payload: %v", err)
	}
	return string(data)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 6, 64)
}
