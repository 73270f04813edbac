package ffprobe

import (
	"context"

	"convertaudiobook/internal/audiobook"
)

// Reader exposes ffprobe results as audiobook metadata.
type Reader struct {
	Binary string
}

// NewReader returns a Reader bound to the given ffprobe binary.
func NewReader(binary string) *Reader {
	return &Reader{Binary: binary}
}

// ReadMetadata implements audiobook.MetadataReader.
func (r *Reader) ReadMetadata(ctx context.Context, path string) (audiobook.Metadata, error) {
	result, err := Inspect(ctx, r.Binary, path)
	if err != nil {
		return audiobook.Metadata{}, err
	}
	return ToMetadata(result)
}

// ToMetadata converts an inspection result into chapter metadata. Chapters
// keep ffprobe's order.
func ToMetadata(result Result) (audiobook.Metadata, error) {
	duration, err := result.Duration()
	if err != nil {
		return audiobook.Metadata{}, err
	}
	meta := audiobook.Metadata{
		Duration: duration,
		Chapters: make([]audiobook.Chapter, 0, len(result.Chapters)),
	}
	for _, chapter := range result.Chapters {
		start, end, err := chapter.Bounds()
		if err != nil {
			return audiobook.Metadata{}, err
		}
		meta.Chapters = append(meta.Chapters, audiobook.Chapter{
			Start: start,
			End:   end,
			Title: chapter.Title(),
		})
	}
	return meta, nil
}
