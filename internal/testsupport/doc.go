// Package testsupport holds helpers shared by package tests: temp-dir
// configs, stub ffmpeg/ffprobe scripts and placeholder media files.
package testsupport
