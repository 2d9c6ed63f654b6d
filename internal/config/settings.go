package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir  = "download_directory"
	KeyResolution   = "resolution"
	KeyAudioFormat  = "audio_format"
	KeyExtractAudio = "extract_audio"
	KeyLanguage     = "app_language"
	KeyAutoReveal   = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultLanguage     = "system"
	DefaultExtractAudio = false
	DefaultAutoReveal   = false
)

// Settings manages GUI preferences. Values missing from the preferences
// store fall back to the TOML configuration.
type Settings struct {
	app      fyne.App
	defaults Config
}

// NewSettings creates a new settings manager seeded with the built-in defaults
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app, defaults: Default()}
}

// SetDefaults replaces the fallback values used for unset preferences
func (s *Settings) SetDefaults(cfg *Config) {
	if cfg != nil {
		s.defaults = *cfg
	}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir != "" {
		return dir
	}
	dir, err := s.defaults.OutputDir()
	if err != nil {
		// Use system default Downloads directory
		dir, err = platform.GetHomeDownloadsDir()
		if err != nil {
			dir = "/tmp/downloads"
		}
	}
	s.SetDownloadDirectory(dir)
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetResolution returns the preferred resolution. Best is stored as "best".
func (s *Settings) GetResolution() model.Resolution {
	value := s.app.Preferences().String(KeyResolution)
	if value == "" {
		return s.defaults.ResolutionValue()
	}
	return model.ParseResolution(value)
}

// SetResolution stores the preferred resolution
func (s *Settings) SetResolution(res model.Resolution) {
	s.app.Preferences().SetString(KeyResolution, res.String())
}

// GetAudioFormat returns the preferred audio format
func (s *Settings) GetAudioFormat() model.AudioFormat {
	value := s.app.Preferences().String(KeyAudioFormat)
	if value == "" {
		return s.defaults.AudioFormatValue()
	}
	format, err := model.ParseAudioFormat(value)
	if err != nil {
		return s.defaults.AudioFormatValue()
	}
	return format
}

// SetAudioFormat stores the preferred audio format
func (s *Settings) SetAudioFormat(format model.AudioFormat) {
	s.app.Preferences().SetString(KeyAudioFormat, string(format))
}

// GetExtractAudio returns whether audio extraction is ticked by default
func (s *Settings) GetExtractAudio() bool {
	return s.app.Preferences().BoolWithFallback(KeyExtractAudio, DefaultExtractAudio)
}

// SetExtractAudio stores the extract-audio toggle
func (s *Settings) SetExtractAudio(extract bool) {
	s.app.Preferences().SetBool(KeyExtractAudio, extract)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to reveal the file once the download completes
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoReveal, DefaultAutoReveal)
}

// SetAutoRevealOnComplete sets whether to reveal the file once the download completes
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoReveal, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
