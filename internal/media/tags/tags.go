package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// ErrUnsupportedFormat is returned when a file type cannot carry the requested tag.
var ErrUnsupportedFormat = errors.New("unsupported tag format")

// Tagger writes track numbers into produced files.
type Tagger struct{}

// NewTagger returns a Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// SetTrackNumber sets the TRCK frame of an mp3 file and saves it in place.
// Existing frames are preserved.
func (Tagger) SetTrackNumber(path string, track int) error {
	if track < 1 {
		return fmt.Errorf("track number %d out of range", track)
	}
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	file, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tag: %w", err)
	}
	defer file.Close()

	file.SetVersion(4)
	file.AddTextFrame(file.CommonID("Track number/Position in set"), file.DefaultEncoding(), strconv.Itoa(track))
	if err := file.Save(); err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}

// Info is the subset of tag metadata shown to users.
type Info struct {
	Format      string
	FileType    string
	Title       string
	Album       string
	Artist      string
	AlbumArtist string
	Genre       string
	Year        int
	Track       int
	TrackTotal  int
}

// Read returns the tags of a media file.
func Read(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open media: %w", err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Info{}, fmt.Errorf("%w: no tags in %s", ErrUnsupportedFormat, filepath.Base(path))
		}
		return Info{}, fmt.Errorf("read tags: %w", err)
	}
	track, total := meta.Track()
	return Info{
		Format:      string(meta.Format()),
		FileType:    string(meta.FileType()),
		Title:       strings.TrimSpace(meta.Title()),
		Album:       strings.TrimSpace(meta.Album()),
		Artist:      strings.TrimSpace(meta.Artist()),
		AlbumArtist: strings.TrimSpace(meta.AlbumArtist()),
		Genre:       strings.TrimSpace(meta.Genre()),
		Year:        meta.Year(),
		Track:       track,
		TrackTotal:  total,
	}, nil
}
