// Package logs reads the tail of per-run log files for the `logs` command.
//
// Files are scanned once with a fixed-size ring so memory stays bounded by
// the requested line count regardless of log size.
package logs
