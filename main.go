package main

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/extract"
	"github.com/ytget/ytfetch/internal/logging"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.ytfetch"
	AppName = "YT Fetch"
)

func main() {
	cfg, path, _, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v, using defaults\n", err)
		defaults := config.Default()
		cfg = &defaults
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logger = slog.Default()
	}
	slog.SetDefault(logger)
	logger.Info("Starting", "app", AppName, "version", version, "config", path)

	strategies, err := cfg.BuildStrategies()
	if err != nil {
		logger.Error("Invalid strategies, falling back to defaults", "error", err)
		defaults := config.Default()
		strategies, _ = defaults.BuildStrategies()
	}

	extractor := extract.NewFFmpegExtractor(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	if err := extractor.Available(); err != nil {
		logger.Warn("Audio extraction unavailable", "error", err)
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(myApp)
	settings.SetDefaults(cfg)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		logger.Warn("Failed to ensure downloads dir", "error", err)
	}

	orchestrator := download.NewOrchestrator(strategies, extractor, download.WithLogger(logger))
	service := download.NewService(orchestrator, logger)

	ui.NewRootUI(myWindow, myApp, service, settings, logger)

	myWindow.ShowAndRun()
}
