// Package logging assembles the structured slog loggers used by the
// converter and its command-line front end.
//
// It owns the console and JSON handlers, per-run log file placement and
// retention, standardized field keys (run IDs, chapter indexes, event types)
// and a progress sampler that keeps transcoder progress from flooding the
// log. A no-op logger is provided for tests and for wiring code that cannot
// fail.
package logging
