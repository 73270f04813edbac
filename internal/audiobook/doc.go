// Package audiobook converts audiobook containers into audio files.
//
// The Converter reads the source's chapter markers, runs the transcoder once
// per chapter (or once for the whole book), tags every produced file with its
// track number and folds per-chapter transcoder progress into one overall
// fraction. Output naming is handled by ResolveOutput and PlanChapters, which
// are pure and usable on their own.
package audiobook
