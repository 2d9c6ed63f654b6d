package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string
	var opts downloadOptions

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:           "ytfetch [url]",
		Short:         "Download a YouTube video and optionally extract its audio",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, ctx, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output directory (default ~/Downloads)")
	flags.StringVarP(&opts.resolution, "resolution", "r", "", "Preferred resolution such as 720p (default best)")
	flags.BoolVarP(&opts.extractAudio, "extract-audio", "x", false, "Extract the audio track after downloading")
	flags.StringVarP(&opts.format, "format", "f", "", "Audio format: mp3 or flac")
	flags.BoolVar(&opts.clipboard, "clipboard", false, "Read the URL from the clipboard")
	flags.StringSliceVar(&opts.strategies, "strategies", nil, "Downloader order, e.g. kkdai,ytget,ytdlp")

	rootCmd.AddCommand(newSetupCommand())
	rootCmd.AddCommand(newResolutionsCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
