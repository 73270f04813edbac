package audiobook

import (
	"context"
	"time"
)

// DefaultExtension is the audio extension used for derived output names.
const DefaultExtension = "mp3"

// Chapter is a chapter marker within the source file.
type Chapter struct {
	Start time.Duration
	End   time.Duration
	Title string
}

// Metadata carries what the converter needs from the source file.
type Metadata struct {
	Duration time.Duration
	Chapters []Chapter
}

// Cut instructs the transcoder to extract Duration starting at Start.
type Cut struct {
	Start    time.Duration
	Duration time.Duration
}

// TranscodeJob describes one transcoder invocation.
type TranscodeJob struct {
	Source      string
	Destination string
	Cut         *Cut
}

// Transcoder produces Destination from Source. The progress callback receives
// the amount of media processed so far within this job and may be invoked
// from another goroutine.
type Transcoder interface {
	Transcode(ctx context.Context, job TranscodeJob, progress func(processed time.Duration)) error
}

// MetadataReader exposes the duration and chapter markers of a media file.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, path string) (Metadata, error)
}

// TrackTagger sets and persists the track-number tag of a produced file.
type TrackTagger interface {
	SetTrackNumber(path string, track int) error
}

// ProgressSink receives the overall conversion fraction in [0,1].
type ProgressSink interface {
	Report(fraction float64)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(fraction float64)

// Report implements ProgressSink.
func (f ProgressFunc) Report(fraction float64) {
	if f != nil {
		f(fraction)
	}
}

// Request describes a single conversion.
type Request struct {
	// Source must reference an existing file.
	Source string
	// Output may be empty, a directory or a file path.
	Output string
	// SplitChapters produces one file per chapter when set.
	SplitChapters bool
	// Progress is optional.
	Progress ProgressSink
}

// TagError records a produced file whose track number could not be written.
type TagError struct {
	Path  string
	Track int
	Err   error
}

func (e TagError) Error() string {
	return wrap(ErrTagWrite, "set track number", e.Path, e.Err).Error()
}

func (e TagError) Unwrap() []error {
	return []error{ErrTagWrite, e.Err}
}

// Result lists the produced files in chapter order.
type Result struct {
	Files     []string
	TagErrors []TagError
}
