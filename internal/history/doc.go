// Package history persists a record of every conversion in SQLite.
//
// A run is inserted when a conversion starts and finished with its outcome
// and produced files. The history command lists runs newest first. Schema
// changes bump schemaVersion; older databases must be deleted.
package history
