package audiobook_test

import (
	"testing"
	"time"

	"convertaudiobook/internal/audiobook"
)

func chaptersAt(total time.Duration, starts ...time.Duration) audiobook.Metadata {
	meta := audiobook.Metadata{Duration: total}
	for i, start := range starts {
		end := total
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		meta.Chapters = append(meta.Chapters, audiobook.Chapter{Start: start, End: end})
	}
	return meta
}

func TestPlanChaptersSplitsAtWholeSeconds(t *testing.T) {
	meta := chaptersAt(100*time.Second+900*time.Millisecond,
		0,
		10500*time.Millisecond,
		45999*time.Millisecond,
	)
	jobs := audiobook.PlanChapters(meta, true, "Book.mp3")
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	want := []struct {
		start, duration time.Duration
		name            string
	}{
		{0, 10 * time.Second, "Book - 1.mp3"},
		{10 * time.Second, 35 * time.Second, "Book - 2.mp3"},
		{45 * time.Second, 55 * time.Second, "Book - 3.mp3"},
	}
	var sum time.Duration
	for i, job := range jobs {
		if job.Track != i+1 || job.Index != i {
			t.Fatalf("job %d: unexpected numbering %+v", i, job)
		}
		if job.Start != want[i].start || job.Duration != want[i].duration {
			t.Fatalf("job %d: got start=%s duration=%s, want %s/%s", i, job.Start, job.Duration, want[i].start, want[i].duration)
		}
		if job.FileName != want[i].name {
			t.Fatalf("job %d: file name %q, want %q", i, job.FileName, want[i].name)
		}
		if job.Cut == nil || job.Cut.Start != job.Start || job.Cut.Duration != job.Duration {
			t.Fatalf("job %d: unexpected cut %+v", i, job.Cut)
		}
		sum += job.Duration
	}
	if sum != 100*time.Second {
		t.Fatalf("durations sum to %s, want total whole seconds", sum)
	}
}

func TestPlanChaptersPaddingWidth(t *testing.T) {
	tests := []struct {
		count     int
		firstName string
		lastName  string
	}{
		{count: 9, firstName: "Book - 1.mp3", lastName: "Book - 9.mp3"},
		{count: 10, firstName: "Book - 01.mp3", lastName: "Book - 10.mp3"},
		{count: 120, firstName: "Book - 001.mp3", lastName: "Book - 120.mp3"},
	}
	for _, tt := range tests {
		starts := make([]time.Duration, tt.count)
		for i := range starts {
			starts[i] = time.Duration(i) * time.Minute
		}
		meta := chaptersAt(time.Duration(tt.count)*time.Minute, starts...)
		jobs := audiobook.PlanChapters(meta, true, "Book.mp3")
		if len(jobs) != tt.count {
			t.Fatalf("count %d: got %d jobs", tt.count, len(jobs))
		}
		if jobs[0].FileName != tt.firstName || jobs[len(jobs)-1].FileName != tt.lastName {
			t.Fatalf("count %d: got %q..%q", tt.count, jobs[0].FileName, jobs[len(jobs)-1].FileName)
		}
	}
}

func TestPlanChaptersWithoutSplitting(t *testing.T) {
	meta := chaptersAt(3*time.Hour+500*time.Millisecond, 0, time.Hour, 2*time.Hour)
	jobs := audiobook.PlanChapters(meta, false, "Book.mp3")
	if len(jobs) != 1 {
		t.Fatalf("expected a single job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Cut != nil {
		t.Fatalf("expected no cut for a single chapter, got %+v", job.Cut)
	}
	if job.FileName != "Book.mp3" || job.Track != 1 {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.Duration != 3*time.Hour {
		t.Fatalf("expected whole-second total duration, got %s", job.Duration)
	}
}

func TestPlanChaptersSingleOrMissingChapters(t *testing.T) {
	for _, meta := range []audiobook.Metadata{
		{Duration: time.Minute},
		chaptersAt(time.Minute, 0),
	} {
		jobs := audiobook.PlanChapters(meta, true, "Book.mp3")
		if len(jobs) != 1 {
			t.Fatalf("expected a single job, got %d", len(jobs))
		}
		if jobs[0].FileName != "Book.mp3" || jobs[0].Cut != nil || jobs[0].Track != 1 {
			t.Fatalf("unexpected job %+v", jobs[0])
		}
	}
}

func TestChapterFileNameKeepsOnlyLastExtension(t *testing.T) {
	if got := audiobook.ChapterFileName("Dune.Part.1.mp3", 7, 2); got != "Dune.Part.1 - 07.mp3" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := audiobook.PaddingWidth(0); got != 1 {
		t.Fatalf("PaddingWidth(0) = %d", got)
	}
}
