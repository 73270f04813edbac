package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"convertaudiobook/internal/logging"
)

const progressScale = 1000

type progressSink interface {
	Report(fraction float64)
	Close()
}

// lineProgressStep is the percentage between two progress lines.
const lineProgressStep = 5

// newProgressSink draws a bar on terminals and prints sampled percentage
// lines everywhere else.
func newProgressSink(w io.Writer) progressSink {
	if isTerminal(w) {
		return newBarSink(w)
	}
	return &lineSink{w: w, sampler: logging.NewProgressSampler(lineProgressStep)}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barSink struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newBarSink(w io.Writer) *barSink {
	bar := progressbar.NewOptions64(progressScale,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
	return &barSink{bar: bar}
}

func (s *barSink) Report(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		return
	}
	_ = s.bar.Set64(int64(fraction * progressScale))
}

func (s *barSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		return
	}
	if !s.bar.IsFinished() {
		_ = s.bar.Exit()
	}
	s.bar = nil
}

type lineSink struct {
	mu      sync.Mutex
	w       io.Writer
	sampler *logging.ProgressSampler
}

func (s *lineSink) Report(fraction float64) {
	percent, ok := s.sampler.Sample(fraction)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "Progress: %3d%%\n", percent)
}

func (s *lineSink) Close() {}
