package logging

import (
	"math"
	"sync"
)

// ProgressSampler thins a stream of completion fractions down to one event
// per step of whole percent. It is safe for concurrent use.
type ProgressSampler struct {
	mu   sync.Mutex
	step int
	last int
}

// NewProgressSampler emits at most once every step percent; step <= 0
// selects 5.
func NewProgressSampler(step int) *ProgressSampler {
	if step <= 0 {
		step = 5
	}
	return &ProgressSampler{step: step, last: -1}
}

// Sample reports the percentage bucket reached by fraction and whether it is
// new. Fractions are clamped to [0,1]; 100 is always a bucket of its own.
func (s *ProgressSampler) Sample(fraction float64) (int, bool) {
	if math.IsNaN(fraction) {
		return 0, false
	}
	percent := int(math.Floor(min(max(fraction, 0), 1) * 100))
	if s == nil {
		return percent, true
	}
	bucket := percent - percent%s.step
	if percent == 100 {
		bucket = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bucket <= s.last {
		return bucket, false
	}
	s.last = bucket
	return bucket, true
}
