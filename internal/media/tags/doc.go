// Package tags reads and writes audio file metadata.
//
// Track numbers are written as ID3v2.4 TRCK frames, which limits writing to
// mp3 outputs. Reading accepts every container github.com/dhowden/tag
// understands (ID3, MP4/M4B, FLAC, Ogg).
package tags
