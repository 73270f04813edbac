// Command convertaudiobook converts m4b audiobooks into mp3 files, optionally
// one file per chapter.
//
// The root command performs the conversion. Subcommands inspect a source's
// chapters, list past conversions, check the environment and manage the
// configuration file.
package main
