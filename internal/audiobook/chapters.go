package audiobook

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ChapterJob is one planned transcoder invocation.
type ChapterJob struct {
	// Index is 0-based; Track is Index+1.
	Index int
	Track int
	// Start and Duration are in whole seconds.
	Start    time.Duration
	Duration time.Duration
	// Cut is nil when the whole source is converted into a single file.
	Cut      *Cut
	FileName string
}

// PlanChapters turns source metadata into the ordered list of jobs.
//
// When splitting is disabled, or the source has no chapter markers, a single
// chapter spanning the whole file replaces the marker list. Chapter bounds
// are truncated to whole seconds and each chapter ends where the next one
// starts; the last one ends at the total duration.
func PlanChapters(meta Metadata, split bool, fileName string) []ChapterJob {
	chapters := meta.Chapters
	if !split || len(chapters) == 0 {
		chapters = []Chapter{{Start: 0, End: meta.Duration}}
	}

	totalSeconds := wholeSeconds(meta.Duration)
	count := len(chapters)
	width := PaddingWidth(count)

	jobs := make([]ChapterJob, 0, count)
	for i, chapter := range chapters {
		start := wholeSeconds(chapter.Start)
		end := totalSeconds
		if i+1 < count {
			end = wholeSeconds(chapters[i+1].Start)
		}
		duration := end - start

		job := ChapterJob{
			Index:    i,
			Track:    i + 1,
			Start:    time.Duration(start) * time.Second,
			Duration: time.Duration(duration) * time.Second,
			FileName: fileName,
		}
		if count > 1 {
			job.Cut = &Cut{Start: job.Start, Duration: job.Duration}
			job.FileName = ChapterFileName(fileName, i+1, width)
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// PaddingWidth is the number of decimal digits of the chapter count.
func PaddingWidth(count int) int {
	if count < 1 {
		return 1
	}
	return len(strconv.Itoa(count))
}

// ChapterFileName inserts " - NN" before the extension of fileName.
func ChapterFileName(fileName string, number, width int) string {
	ext := filepath.Ext(fileName)
	name := strings.TrimSuffix(fileName, ext)
	return fmt.Sprintf("%s - %0*d%s", name, width, number, ext)
}

func wholeSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
