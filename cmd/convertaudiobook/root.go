package main

import (
	"github.com/spf13/cobra"
)

const rootExample = `  convertaudiobook -s "/books/Dune.m4b"
  convertaudiobook -s "/books/Dune.m4b" -o "/audio/Dune/" -c
  convertaudiobook -s "/books/Dune.m4b" -o "/audio/Dune/dune.mp3" -f /opt/ffmpeg/bin/ffmpeg`

func newRootCommand() *cobra.Command {
	return newRootCommandWithContext(nil)
}

// newRootCommandWithContext builds the command tree; setup may adjust the
// command context before any command runs.
func newRootCommandWithContext(setup func(*commandContext)) *cobra.Command {
	var configFlag string
	var ffmpegFlag string
	var ffprobeFlag string
	var verbose bool
	var opts convertOptions

	ctx := newCommandContext(&configFlag, &ffmpegFlag, &ffprobeFlag, &verbose)
	if setup != nil {
		setup(ctx)
	}

	rootCmd := &cobra.Command{
		Use:           "convertaudiobook",
		Short:         "Convert m4b audiobooks to mp3",
		Long:          "Convert an m4b audiobook into an mp3 file, or one mp3 per chapter, using ffmpeg.",
		Example:       rootExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.source == "" {
				return cmd.Help()
			}
			opts.chaptersSet = cmd.Flags().Changed("chapters")
			return runConvert(cmd, ctx, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.source, "source", "s", "", "Audiobook to convert (m4b)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output directory or file name (default: source directory)")
	flags.BoolVarP(&opts.chapters, "chapters", "c", false, "Write one file per chapter")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&ffmpegFlag, "ffmpeg", "f", "", "Path to ffmpeg (default: next to this executable, then PATH)")
	persistent.StringVar(&ffprobeFlag, "ffprobe", "", "Path to ffprobe (default: next to ffmpeg, then PATH)")
	persistent.StringVar(&configFlag, "config", "", "Configuration file path")
	persistent.BoolVarP(&verbose, "verbose", "v", false, "Mirror log output to stderr")

	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
