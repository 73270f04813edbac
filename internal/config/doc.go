// Package config loads, normalizes, and validates converter configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// ffmpeg and ffprobe locations. Always obtain settings through this package
// so downstream code receives expanded paths and clear validation errors.
package config
