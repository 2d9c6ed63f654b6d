package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/extract"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/strategy"
)

// errDownloadFailed makes the process exit 1 without printing anything more
var errDownloadFailed = errors.New("download failed")

type downloadOptions struct {
	output       string
	resolution   string
	extractAudio bool
	format       string
	clipboard    bool
	strategies   []string
}

// explicit records which options were given on the command line
type explicit struct {
	resolution bool
	extract    bool
	format     bool
}

func explicitFlags(cmd *cobra.Command) explicit {
	flags := cmd.Flags()
	return explicit{
		resolution: flags.Changed("resolution"),
		extract:    flags.Changed("extract-audio"),
		format:     flags.Changed("format"),
	}
}

// resolveRequest fills every value not given by flag from the prompter when
// interactive, otherwise from the configuration
func resolveRequest(opts downloadOptions, set explicit, url, outputDir string, cfg *config.Config, p *prompter) (model.Request, error) {
	var err error

	url = strings.TrimSpace(url)
	if url == "" && p != nil {
		if url, err = p.url(); err != nil {
			return model.Request{}, fmt.Errorf("read URL: %w", err)
		}
	}
	if url == "" {
		return model.Request{}, download.ErrEmptyURL
	}

	resolution := cfg.ResolutionValue()
	switch {
	case set.resolution:
		resolution = model.ParseResolution(opts.resolution)
	case p != nil:
		if resolution, err = p.resolution(); err != nil {
			return model.Request{}, fmt.Errorf("read resolution: %w", err)
		}
	}

	extractAudio := opts.extractAudio
	if !set.extract && set.format {
		extractAudio = true
	} else if !set.extract && p != nil {
		if extractAudio, err = p.extractAudio(); err != nil {
			return model.Request{}, fmt.Errorf("read extract choice: %w", err)
		}
	}

	format := cfg.AudioFormatValue()
	switch {
	case set.format:
		if format, err = model.ParseAudioFormat(opts.format); err != nil {
			return model.Request{}, err
		}
	case extractAudio && p != nil:
		if format, err = p.audioFormat(); err != nil {
			return model.Request{}, fmt.Errorf("read audio format: %w", err)
		}
	}

	return model.NewRequest(url, outputDir, resolution, extractAudio, format), nil
}

func runDownload(cmd *cobra.Command, ctx *commandContext, opts downloadOptions, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger()
	if err != nil {
		return err
	}

	var url string
	if len(args) > 0 {
		url = args[0]
	} else if opts.clipboard {
		if url, err = platform.ReadClipboardURL(); err != nil {
			return err
		}
	}

	outputDir := opts.output
	if outputDir == "" {
		if outputDir, err = cfg.OutputDir(); err != nil {
			return err
		}
	}
	if outputDir, err = platform.ResolveOutputDir(outputDir); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()
	var p *prompter
	if isTerminal(in) {
		p = newPrompter(in, out)
	} else if strings.TrimSpace(url) == "" {
		if url, err = readPipedURL(in); err != nil {
			return fmt.Errorf("read URL from stdin: %w", err)
		}
	}
	req, err := resolveRequest(opts, explicitFlags(cmd), url, outputDir, cfg, p)
	if err != nil {
		return err
	}

	names := opts.strategies
	if len(names) == 0 {
		names = cfg.Strategies
	}
	strategies, err := strategy.FromNames(names, cfg.StrategyOptions())
	if err != nil {
		return err
	}

	lock, err := platform.LockOutputDir(req.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release output directory lock", "dir", req.OutputDir, "error", err)
		}
	}()

	extractor := extract.NewFFmpegExtractor(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	if req.ExtractAudio {
		if err := extractor.Available(); err != nil {
			logger.Warn("Audio extraction will fail; run 'ytfetch setup'", "error", err)
		}
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator := download.NewOrchestrator(strategies, extractor, download.WithLogger(logger))
	service := download.NewService(orchestrator, logger)

	logger.Debug("Starting download", "request_id", req.ID, "url", req.URL, "dir", req.OutputDir, "strategies", orchestrator.Strategies())
	result, err := service.Run(runCtx, req, func(e model.Event) { printEvent(out, e) })
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderSummary(req, result))
	if !result.OK() {
		if runCtx.Err() != nil {
			return runCtx.Err()
		}
		return errDownloadFailed
	}
	return nil
}

func printEvent(out io.Writer, e model.Event) {
	if e.Message == "" {
		return
	}
	fmt.Fprintln(out, e.Message)
}
