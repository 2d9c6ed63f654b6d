package ui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/model"
)

// SettingsDialog edits the defaults the download form starts with
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	downloadDirEntry *widget.Entry
	resolutionSelect *widget.Select
	formatSelect     *widget.Select
	extractCheck     *widget.Check
	autoRevealCheck  *widget.Check
	languageSelect   *widget.Select
	languageCodes    []string
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after a save.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	resolutionOptions := []string{text(KeyBestAvailable)}
	for _, res := range model.Resolutions {
		resolutionOptions = append(resolutionOptions, string(res))
	}
	sd.resolutionSelect = widget.NewSelect(resolutionOptions, nil)

	var formatOptions []string
	for _, format := range model.AudioFormats {
		formatOptions = append(formatOptions, string(format))
	}
	sd.formatSelect = widget.NewSelect(formatOptions, nil)

	sd.extractCheck = widget.NewCheck(text(KeyExtractAudio), nil)
	sd.autoRevealCheck = widget.NewCheck(text(KeyReveal), nil)

	languageLabels := sd.settings.GetLanguageOptions()
	for code := range languageLabels {
		sd.languageCodes = append(sd.languageCodes, code)
	}
	sort.Strings(sd.languageCodes)
	var languageOptions []string
	for _, code := range sd.languageCodes {
		languageOptions = append(languageOptions, languageLabels[code])
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(text(KeyOutputDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(text(KeyResolution)+":"),
		sd.resolutionSelect,

		widget.NewLabel(text(KeyAudioFormat)+":"),
		sd.formatSelect,
		sd.extractCheck,
		sd.autoRevealCheck,

		widget.NewSeparator(),

		widget.NewLabel(text(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(500, 420))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())

	res := sd.settings.GetResolution()
	if res.IsBest() {
		sd.resolutionSelect.SetSelectedIndex(0)
	} else {
		sd.resolutionSelect.SetSelected(string(res))
	}

	sd.formatSelect.SetSelected(string(sd.settings.GetAudioFormat()))
	sd.extractCheck.SetChecked(sd.settings.GetExtractAudio())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())

	current := sd.settings.GetLanguage()
	for i, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelectedIndex(i)
		}
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.save()
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

func (sd *SettingsDialog) save() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if sd.resolutionSelect.SelectedIndex() <= 0 {
		sd.settings.SetResolution(model.ResolutionBest)
	} else {
		sd.settings.SetResolution(model.ParseResolution(sd.resolutionSelect.Selected))
	}

	if format, err := model.ParseAudioFormat(sd.formatSelect.Selected); err == nil {
		sd.settings.SetAudioFormat(format)
	}
	sd.settings.SetExtractAudio(sd.extractCheck.Checked)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if i := sd.languageSelect.SelectedIndex(); i >= 0 && i < len(sd.languageCodes) {
		sd.settings.SetLanguage(sd.languageCodes[i])
	}
}
