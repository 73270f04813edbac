// Package preflight provides readiness checks for the transcoder binaries
// and filesystem paths the converter depends on.
//
// The doctor command renders RunAll as a table; the convert command uses
// CheckSourceReadable for a clearer message than a later open failure.
package preflight
