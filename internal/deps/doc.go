// Package deps locates and checks the external binaries the converter runs.
package deps
