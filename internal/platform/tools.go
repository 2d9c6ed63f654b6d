package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Default executable names
const (
	FFmpegCommand  = "ffmpeg"
	FFprobeCommand = "ffprobe"
)

// LookupTool resolves configured (or fallback when empty) on PATH, then in the
// go-ytdlp cache directory that InstallTools installs into
func LookupTool(configured, fallback string) (string, error) {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = fallback
	}
	path, err := exec.LookPath(name)
	if err == nil {
		return path, nil
	}
	if cached, ok := cachedTool(name); ok {
		return cached, nil
	}
	return "", fmt.Errorf("binary %q not found: %w", name, err)
}

// cachedTool looks for a bare command name in the go-ytdlp cache directory
func cachedTool(name string) (string, bool) {
	if strings.ContainsAny(name, `/\`) {
		return "", false
	}
	dir, err := ytdlp.GetCacheDir()
	if err != nil {
		return "", false
	}

	candidates := []string{filepath.Join(dir, name)}
	if runtime.GOOS == OSWindows && filepath.Ext(name) == "" {
		candidates = append(candidates, filepath.Join(dir, name+".exe"))
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if runtime.GOOS == OSWindows || info.Mode()&0o111 != 0 {
			return candidate, true
		}
	}
	return "", false
}

// InstalledTool describes one binary made available by InstallTools
type InstalledTool struct {
	Name       string
	Executable string
	Version    string
}

// InstallTools downloads (or reuses cached) yt-dlp, ffmpeg and ffprobe builds
func InstallTools(ctx context.Context) ([]InstalledTool, error) {
	var tools []InstalledTool

	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return tools, fmt.Errorf("install yt-dlp: %w", err)
	}
	tools = append(tools, InstalledTool{Name: "yt-dlp", Executable: resolved.Executable, Version: resolved.Version})

	resolved, err = ytdlp.InstallFFmpeg(ctx, nil)
	if err != nil {
		return tools, fmt.Errorf("install ffmpeg: %w", err)
	}
	tools = append(tools, InstalledTool{Name: FFmpegCommand, Executable: resolved.Executable, Version: resolved.Version})

	resolved, err = ytdlp.InstallFFprobe(ctx, nil)
	if err != nil {
		return tools, fmt.Errorf("install ffprobe: %w", err)
	}
	tools = append(tools, InstalledTool{Name: FFprobeCommand, Executable: resolved.Executable, Version: resolved.Version})

	return tools, nil
}
