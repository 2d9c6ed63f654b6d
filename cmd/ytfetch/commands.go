package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

func newSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Install yt-dlp, ffmpeg and ffprobe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Installing yt-dlp, ffmpeg and ffprobe (cached builds are reused)...")
			tools, err := platform.InstallTools(cmd.Context())
			rows := make([][]string, 0, len(tools))
			for _, tool := range tools {
				rows = append(rows, []string{tool.Name, tool.Version, tool.Executable})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Tool", "Version", "Path"}, rows))
			}
			return err
		},
	}
}

func newResolutionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolutions",
		Short: "List the resolutions offered for --resolution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, model.ResolutionBest.String())
			for _, res := range model.Resolutions {
				fmt.Fprintln(out, res)
			}
			return nil
		},
	}
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", ctx.configPath)
			_, err = out.Write(data)
			return err
		},
	}
}
