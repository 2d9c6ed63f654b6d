package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Audio format radio labels
const (
	FormatLabelMP3  = "MP3"
	FormatLabelFLAC = "FLAC"
)

// RootUI is the download form and its controller
type RootUI struct {
	app          fyne.App
	window       fyne.Window
	service      *download.Service
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	urlEntry         *widget.Entry
	pasteBtn         *widget.Button
	dirEntry         *widget.Entry
	browseBtn        *widget.Button
	resolutionSelect *widget.Select
	extractCheck     *widget.Check
	formatRadio      *widget.RadioGroup
	downloadBtn      *widget.Button
	revealBtn        *widget.Button
	openBtn          *widget.Button
	progress         *widget.ProgressBarInfinite
	statusLabel      *widget.Label
	logLines         binding.StringList
	logList          *widget.List

	// labels refreshed on language change
	urlLabel        *widget.Label
	dirLabel        *widget.Label
	resolutionLabel *widget.Label
	formatLabel     *widget.Label
	logLabel        *widget.Label

	busy       bool
	lastResult model.Result
}

// NewRootUI creates the form, binds it to service and sets it as the window content
func NewRootUI(window fyne.Window, app fyne.App, service *download.Service, settings *config.Settings, logger *slog.Logger) *RootUI {
	if logger == nil {
		logger = slog.Default()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		app:          app,
		window:       window,
		service:      service,
		settings:     settings,
		localization: localization,
		logger:       logger,
		logLines:     binding.NewStringList(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	ui.loadPreferences()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}
	ui.pasteBtn = widget.NewButton(IconPaste+" "+ui.localization.GetText(KeyPaste), ui.onPaste)

	ui.dirEntry = widget.NewEntry()
	ui.dirEntry.Disable()
	ui.browseBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyBrowse), ui.onBrowse)

	ui.resolutionSelect = widget.NewSelect(ui.resolutionOptions(), nil)

	ui.formatRadio = widget.NewRadioGroup([]string{FormatLabelMP3, FormatLabelFLAC}, nil)
	ui.formatRadio.Horizontal = true
	ui.formatRadio.Required = true
	ui.extractCheck = widget.NewCheck(ui.localization.GetText(KeyExtractAudio), ui.onExtractToggled)

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	ui.revealBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyReveal), ui.onReveal)
	ui.revealBtn.Hide()
	ui.openBtn = widget.NewButton(ui.localization.GetText(KeyOpen), ui.onOpen)
	ui.openBtn.Hide()

	ui.progress = widget.NewProgressBarInfinite()
	ui.progress.Stop()
	ui.progress.Hide()

	ui.statusLabel = widget.NewLabel(ui.localization.GetText(KeyReady))
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	ui.logList = widget.NewListWithData(ui.logLines,
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		},
	)

	ui.urlLabel = widget.NewLabel(ui.localization.GetText(KeyVideoURL))
	ui.dirLabel = widget.NewLabel(ui.localization.GetText(KeyOutputDirectory))
	ui.resolutionLabel = widget.NewLabel(ui.localization.GetText(KeyResolution))
	ui.formatLabel = widget.NewLabel(ui.localization.GetText(KeyAudioFormat))
	ui.logLabel = widget.NewLabel(ui.localization.GetText(KeyLog))
	ui.logLabel.TextStyle = fyne.TextStyle{Bold: true}

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	form := container.New(layout.NewFormLayout(),
		ui.urlLabel, container.NewBorder(nil, nil, nil, ui.pasteBtn, ui.urlEntry),
		ui.dirLabel, container.NewBorder(nil, nil, nil, ui.browseBtn, ui.dirEntry),
		ui.resolutionLabel, ui.resolutionSelect,
		widget.NewLabel(""), ui.extractCheck,
		ui.formatLabel, ui.formatRadio,
	)

	actions := container.NewBorder(nil, nil, settingsBtn, container.NewHBox(ui.openBtn, ui.revealBtn, ui.downloadBtn), ui.statusLabel)
	top := container.NewVBox(form, actions, ui.progress, widget.NewSeparator(), ui.logLabel)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.logList))
}

// resolutionOptions returns the select entries, best first
func (ui *RootUI) resolutionOptions() []string {
	options := []string{ui.localization.GetText(KeyBestAvailable)}
	for _, res := range model.Resolutions {
		options = append(options, string(res))
	}
	return options
}

// loadPreferences fills the form from saved settings
func (ui *RootUI) loadPreferences() {
	ui.dirEntry.SetText(ui.settings.GetDownloadDirectory())
	ui.setResolution(ui.settings.GetResolution())

	if ui.settings.GetAudioFormat() == model.AudioFormatFLAC {
		ui.formatRadio.SetSelected(FormatLabelFLAC)
	} else {
		ui.formatRadio.SetSelected(FormatLabelMP3)
	}

	ui.extractCheck.SetChecked(ui.settings.GetExtractAudio())
	ui.onExtractToggled(ui.extractCheck.Checked)
}

func (ui *RootUI) setResolution(res model.Resolution) {
	if res.IsBest() {
		ui.resolutionSelect.SetSelectedIndex(0)
		return
	}
	ui.resolutionSelect.SetSelected(string(res))
	if ui.resolutionSelect.Selected == "" {
		ui.resolutionSelect.SetSelectedIndex(0)
	}
}

// selectedResolution maps the select back onto a Resolution
func (ui *RootUI) selectedResolution() model.Resolution {
	if ui.resolutionSelect.SelectedIndex() <= 0 {
		return model.ResolutionBest
	}
	return model.ParseResolution(ui.resolutionSelect.Selected)
}

func (ui *RootUI) selectedFormat() model.AudioFormat {
	if ui.formatRadio.Selected == FormatLabelFLAC {
		return model.AudioFormatFLAC
	}
	return model.AudioFormatMP3
}

// onExtractToggled enables the format choice only when extraction is on
func (ui *RootUI) onExtractToggled(checked bool) {
	if checked {
		ui.formatRadio.Enable()
	} else {
		ui.formatRadio.Disable()
	}
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.pasteBtn.SetText(IconPaste + " " + ui.localization.GetText(KeyPaste))
	ui.browseBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyBrowse))
	ui.extractCheck.Text = ui.localization.GetText(KeyExtractAudio)
	ui.extractCheck.Refresh()
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.revealBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyReveal))
	ui.openBtn.SetText(ui.localization.GetText(KeyOpen))

	ui.urlLabel.SetText(ui.localization.GetText(KeyVideoURL))
	ui.dirLabel.SetText(ui.localization.GetText(KeyOutputDirectory))
	ui.resolutionLabel.SetText(ui.localization.GetText(KeyResolution))
	ui.formatLabel.SetText(ui.localization.GetText(KeyAudioFormat))
	ui.logLabel.SetText(ui.localization.GetText(KeyLog))

	// The best entry is translated, so rebuild the options and keep the choice
	res := ui.selectedResolution()
	ui.resolutionSelect.Options = ui.resolutionOptions()
	ui.setResolution(res)
}

// validateURL validates the entered URL
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil // Empty is allowed
	}

	parsedURL, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL has no host")
	}

	return nil
}

// onPaste fills the URL entry from the clipboard
func (ui *RootUI) onPaste() {
	content := ui.app.Clipboard().Content()
	link := platform.ExtractURL(content)
	if link == "" {
		ui.setStatus(ui.localization.GetText(KeyClipboardNoURL))
		return
	}
	ui.urlEntry.SetText(link)
}

// onBrowse picks the output directory
func (ui *RootUI) onBrowse() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.dirEntry.SetText(uri.Path())
		ui.settings.SetDownloadDirectory(uri.Path())
	}, ui.window)
}

// onDownloadClick validates the form and hands the request to the service
func (ui *RootUI) onDownloadClick() {
	urlText := cleanURL(ui.urlEntry.Text)
	if urlText == "" {
		ui.setStatus(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}
	if err := ui.validateURL(urlText); err != nil {
		ui.setStatus(ui.localization.GetText(KeyInvalidURL) + ": " + err.Error())
		return
	}

	req := model.NewRequest(
		urlText,
		ui.dirEntry.Text,
		ui.selectedResolution(),
		ui.extractCheck.Checked,
		ui.selectedFormat(),
	)
	ui.savePreferences(req)

	events, err := ui.service.Start(context.Background(), req)
	if err != nil {
		if errors.Is(err, download.ErrBusy) {
			ui.setStatus(ui.localization.GetText(KeyAlreadyDownloading))
		} else {
			ui.setStatus(err.Error())
		}
		ui.logger.Warn("Download rejected", "url", urlText, "error", err)
		return
	}

	ui.logger.Info("Download started", "request_id", req.ID, "url", req.URL, "resolution", req.Resolution.String(), "extract_audio", req.ExtractAudio)
	_ = ui.logLines.Set(nil)
	ui.setBusy(true)
	ui.setStatus(ui.localization.GetText(KeyDownloadStarted))

	go ui.consume(events)
}

func (ui *RootUI) savePreferences(req model.Request) {
	ui.settings.SetResolution(req.Resolution)
	ui.settings.SetExtractAudio(req.ExtractAudio)
	ui.settings.SetAudioFormat(req.AudioFormat)
}

// consume forwards events to the UI thread until the service is idle again
func (ui *RootUI) consume(events <-chan model.Event) {
	for event := range events {
		e := event
		fyne.Do(func() {
			ui.handleEvent(e)
		})
	}
	fyne.Do(func() {
		ui.setBusy(false)
	})
}

// handleEvent renders one event; must run on the UI thread
func (ui *RootUI) handleEvent(e model.Event) {
	if e.Message != "" {
		ui.appendLog(e.Message)
	}
	if !e.IsFinal() {
		return
	}

	ui.lastResult = *e.Result
	if !ui.lastResult.OK() {
		ui.setStatus(ui.localization.GetText(KeyDownloadFailed))
		return
	}

	name := ui.lastResult.VideoName()
	if ui.lastResult.HasAudio() {
		name = ui.lastResult.AudioName()
	}
	ui.setStatus(ui.localization.GetText(KeyDownloadCompleted) + ": " + name)
	ui.revealBtn.Show()
	ui.openBtn.Show()

	ui.app.SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyDownloadCompleted),
		Content: name,
	})

	if ui.settings.GetAutoRevealOnComplete() {
		ui.onReveal()
	}
}

func (ui *RootUI) appendLog(line string) {
	_ = ui.logLines.Append(line)
	if n := ui.logLines.Length(); n > MaxLogLines {
		lines, err := ui.logLines.Get()
		if err == nil {
			_ = ui.logLines.Set(lines[n-MaxLogLines:])
		}
	}
	ui.logList.ScrollToBottom()
}

// setBusy toggles the controls that must not be used while downloading
func (ui *RootUI) setBusy(busy bool) {
	ui.busy = busy
	if busy {
		ui.downloadBtn.Disable()
		ui.revealBtn.Hide()
		ui.openBtn.Hide()
		ui.progress.Show()
		ui.progress.Start()
		return
	}
	ui.downloadBtn.Enable()
	ui.progress.Stop()
	ui.progress.Hide()
}

// Busy reports whether the form is waiting for a download to finish
func (ui *RootUI) Busy() bool {
	return ui.busy
}

func (ui *RootUI) setStatus(message string) {
	ui.statusLabel.SetText(message)
}

// revealPath prefers the audio file when one was extracted
func (ui *RootUI) revealPath() string {
	if ui.lastResult.HasAudio() {
		return ui.lastResult.AudioPath
	}
	return ui.lastResult.VideoPath
}

// onReveal shows the produced file in the system file manager
func (ui *RootUI) onReveal() {
	path := ui.revealPath()
	if path == "" {
		return
	}
	if err := platform.OpenFileInManager(path); err != nil {
		ui.logger.Warn("Failed to reveal file", "path", path, "error", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// onOpen opens the produced file with the default application
func (ui *RootUI) onOpen() {
	path := ui.revealPath()
	if path == "" {
		return
	}
	if err := platform.OpenFileWithDefaultApp(path); err != nil {
		ui.logger.Warn("Failed to open file", "path", path, "error", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
		ui.loadPreferences()
		ui.setStatus(ui.localization.GetText(KeySettingsSaved))
	}).Show()
}

// cleanURL strips characters that sneak in when pasting
func cleanURL(raw string) string {
	cleaned := strings.ReplaceAll(raw, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return strings.TrimSpace(cleaned)
}
