// Package ffmpeg runs the ffmpeg CLI as the audiobook transcoder.
//
// Each Transcode call is one ffmpeg process. Progress is read from the
// machine-readable `-progress pipe:1` stream and reported as media time
// processed; failures carry the last lines ffmpeg wrote to stderr.
package ffmpeg
