package audiobook

import (
	"sync"
	"time"
)

// progressTracker aggregates per-chapter transcoder ticks into an overall
// fraction. Ticks may arrive on the transcoder's goroutine.
type progressTracker struct {
	mu        sync.Mutex
	sink      ProgressSink
	total     float64
	completed float64
	current   float64
	last      float64
}

func newProgressTracker(sink ProgressSink, totalSeconds float64) *progressTracker {
	return &progressTracker{sink: sink, total: totalSeconds}
}

// beginChapter records the duration of the chapter about to be transcoded.
func (p *progressTracker) beginChapter(duration time.Duration) {
	p.mu.Lock()
	p.current = duration.Seconds()
	p.mu.Unlock()
}

// completeChapter advances the cumulative completed duration.
func (p *progressTracker) completeChapter(duration time.Duration) {
	p.mu.Lock()
	p.completed += duration.Seconds()
	p.current = 0
	p.mu.Unlock()
}

// tick reports processed time within the current chapter. Processed time is
// capped at the chapter duration; fractions are clamped to [0,1] and never
// fall below the last reported value.
func (p *progressTracker) tick(processed time.Duration) {
	p.mu.Lock()
	if p.sink == nil || p.total <= 0 {
		p.mu.Unlock()
		return
	}
	seconds := processed.Seconds()
	if p.current > 0 && seconds > p.current {
		seconds = p.current
	}
	fraction := (p.completed + seconds) / p.total
	fraction = min(max(fraction, p.last, 0), 1)
	p.last = fraction
	sink := p.sink
	p.mu.Unlock()
	sink.Report(fraction)
}

// finish emits the final 1.0 report and drops the sink.
func (p *progressTracker) finish() {
	p.mu.Lock()
	sink := p.sink
	p.sink = nil
	p.last = 1
	p.mu.Unlock()
	if sink != nil {
		sink.Report(1)
	}
}

func (p *progressTracker) completedSeconds() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}
