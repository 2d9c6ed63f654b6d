package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ytget/ytfetch/internal/logging"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/strategy"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Tools holds external binary locations
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	YtDlp   string `toml:"ytdlp"` // empty lets go-ytdlp resolve it
}

// Network holds HTTP settings shared by the strategies
type Network struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Retries        int    `toml:"retries"`
	UserAgent      string `toml:"user_agent"`
}

// Config is the TOML configuration file
type Config struct {
	DownloadDir string   `toml:"download_dir"` // empty means ~/Downloads
	Resolution  string   `toml:"resolution"`   // empty means best
	AudioFormat string   `toml:"audio_format"`
	Strategies  []string `toml:"strategies"`
	LogLevel    string   `toml:"log_level"`
	LogFormat   string   `toml:"log_format"`
	Tools       Tools    `toml:"tools"`
	Network     Network  `toml:"network"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		AudioFormat: string(model.DefaultAudioFormat),
		Strategies:  append([]string(nil), strategy.DefaultOrder...),
		LogLevel:    "info",
		LogFormat:   logging.FormatConsole,
		Tools: Tools{
			FFmpeg:  platform.FFmpegCommand,
			FFprobe: platform.FFprobeCommand,
		},
		Network: Network{
			TimeoutSeconds: int(strategy.DefaultTimeout / time.Second),
			Retries:        strategy.DefaultRetries,
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/ytfetch/config.toml
func DefaultConfigPath() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "ytfetch", "config.toml"), nil
	}
	return expandPath("~/.config/ytfetch/config.toml")
}

// Load reads path (or the default path when empty), normalizes and validates
// it. A missing file yields the defaults. It returns the resolved path and
// whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	data, err := os.ReadFile(resolvedPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// Marshal encodes the configuration as TOML
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfigPath()
	}
	return expandPath(path)
}

// Normalize expands paths and lowercases enumerations
func (c *Config) Normalize() error {
	var err error
	if c.DownloadDir, err = expandPath(strings.TrimSpace(c.DownloadDir)); err != nil {
		return fmt.Errorf("download_dir: %w", err)
	}
	c.Resolution = strings.ToLower(strings.TrimSpace(c.Resolution))
	if c.Resolution == "best" {
		c.Resolution = ""
	}
	c.AudioFormat = strings.ToLower(strings.TrimSpace(c.AudioFormat))
	if format, err := model.ParseAudioFormat(c.AudioFormat); err == nil {
		c.AudioFormat = string(format)
	}
	for i, name := range c.Strategies {
		c.Strategies[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if len(c.Strategies) == 0 {
		c.Strategies = append([]string(nil), strategy.DefaultOrder...)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = logging.FormatConsole
	}
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = platform.FFmpegCommand
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = platform.FFprobeCommand
	}
	c.Tools.YtDlp = strings.TrimSpace(c.Tools.YtDlp)
	if strings.HasPrefix(c.Tools.YtDlp, "~") {
		if c.Tools.YtDlp, err = expandPath(c.Tools.YtDlp); err != nil {
			return fmt.Errorf("tools.ytdlp: %w", err)
		}
	}
	return nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.Resolution != "" && model.ParseResolution(c.Resolution).IsBest() {
		return fmt.Errorf("%w: resolution %q must look like 720p", ErrInvalid, c.Resolution)
	}
	if _, err := model.ParseAudioFormat(c.AudioFormat); err != nil {
		return fmt.Errorf("%w: audio_format: %v", ErrInvalid, err)
	}
	for _, name := range c.Strategies {
		if _, err := strategy.Lookup(name, strategy.DefaultOptions()); err != nil {
			return fmt.Errorf("%w: strategies: %v", ErrInvalid, err)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.LogFormat != logging.FormatConsole && c.LogFormat != logging.FormatJSON {
		return fmt.Errorf("%w: log_format %q must be console or json", ErrInvalid, c.LogFormat)
	}
	if c.Network.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: network.timeout_seconds must not be negative", ErrInvalid)
	}
	if c.Network.Retries < 0 {
		return fmt.Errorf("%w: network.retries must not be negative", ErrInvalid)
	}
	return nil
}

// ResolutionValue returns the configured resolution selector
func (c *Config) ResolutionValue() model.Resolution {
	return model.ParseResolution(c.Resolution)
}

// AudioFormatValue returns the configured audio format
func (c *Config) AudioFormatValue() model.AudioFormat {
	format, err := model.ParseAudioFormat(c.AudioFormat)
	if err != nil {
		return model.DefaultAudioFormat
	}
	return format
}

// StrategyOptions converts the network and tool settings for the strategy package
func (c *Config) StrategyOptions() strategy.Options {
	return strategy.Options{
		Timeout:   time.Duration(c.Network.TimeoutSeconds) * time.Second,
		Retries:   c.Network.Retries,
		UserAgent: c.Network.UserAgent,
		YtDlpPath: c.Tools.YtDlp,
	}
}

// BuildStrategies builds the configured fallback chain
func (c *Config) BuildStrategies() ([]strategy.Strategy, error) {
	return strategy.FromNames(c.Strategies, c.StrategyOptions())
}

// OutputDir returns the download directory, defaulting to ~/Downloads
func (c *Config) OutputDir() (string, error) {
	if c.DownloadDir != "" {
		return c.DownloadDir, nil
	}
	return platform.GetHomeDownloadsDir()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
