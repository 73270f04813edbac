package audiobook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing source file or an unavailable transcoder.
	ErrNotFound = errors.New("not found")
	// ErrIO marks filesystem failures such as an output directory that cannot be created.
	ErrIO = errors.New("io failure")
	// ErrMetadata marks failures while reading the source's duration or chapters.
	ErrMetadata = errors.New("metadata failure")
	// ErrTranscode marks a transcoder failure on a chapter.
	ErrTranscode = errors.New("transcode failure")
	// ErrTagWrite marks a failure to persist the track number of a produced file.
	ErrTagWrite = errors.New("tag write failure")
	// ErrBusy is returned when a converter is already running a conversion.
	ErrBusy = errors.New("conversion already in progress")
)

// wrap builds an error message that carries operation context while tagging
// it with one of the sentinel markers above for errors.Is classification.
func wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
