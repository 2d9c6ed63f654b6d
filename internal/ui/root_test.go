package ui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/logging"
	"github.com/ytget/ytfetch/internal/model"
)

// scriptedRunner replays messages and returns result
type scriptedRunner struct {
	mu       sync.Mutex
	requests []model.Request
	messages []string
	result   model.Result
	gate     chan struct{}
}

func (r *scriptedRunner) Run(ctx context.Context, req model.Request, events chan<- model.Event) model.Result {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()

	for _, msg := range r.messages {
		events <- model.Event{RequestID: req.ID, Stage: model.StageTrying, Message: msg}
	}
	if r.gate != nil {
		<-r.gate
	}
	result := r.result
	stage := model.StageDone
	if !result.OK() {
		stage = model.StageFailed
	}
	events <- model.Event{RequestID: req.ID, Stage: stage, Message: "final", Result: &result}
	return result
}

func (r *scriptedRunner) calls() []model.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Request(nil), r.requests...)
}

func newTestUI(t *testing.T, runner download.Runner) (*RootUI, fyne.App) {
	t.Helper()
	app := test.NewApp()
	window := test.NewWindow(nil)
	t.Cleanup(window.Close)

	settings := config.NewSettings(app)
	settings.SetDownloadDirectory(t.TempDir())

	service := download.NewService(runner, logging.Discard())
	return NewRootUI(window, app, service, settings, logging.Discard()), app
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func logText(ui *RootUI) string {
	lines, _ := ui.logLines.Get()
	return strings.Join(lines, "\n")
}

func TestDownloadSuccess(t *testing.T) {
	runner := &scriptedRunner{
		messages: []string{"Attempting download with kkdai...", "Download completed with kkdai!"},
		result:   model.Result{VideoPath: "/tmp/My Video.mp4", AudioPath: "/tmp/My Video.flac", Strategy: "kkdai"},
	}
	ui, _ := newTestUI(t, runner)

	test.Type(ui.urlEntry, "https://www.youtube.com/watch?v=abc")
	ui.resolutionSelect.SetSelected("480p")
	test.Tap(ui.extractCheck)
	ui.formatRadio.SetSelected(FormatLabelFLAC)
	test.Tap(ui.downloadBtn)

	waitFor(t, func() bool { return len(runner.calls()) == 1 && !ui.Busy() })

	req := runner.calls()[0]
	if req.URL != "https://www.youtube.com/watch?v=abc" || req.Resolution != "480p" || !req.ExtractAudio || req.AudioFormat != model.AudioFormatFLAC {
		t.Errorf("Unexpected request %+v", req)
	}
	if req.OutputDir != ui.dirEntry.Text {
		t.Errorf("Expected output dir %s, got %s", ui.dirEntry.Text, req.OutputDir)
	}

	if !strings.Contains(logText(ui), "Download completed with kkdai!") {
		t.Errorf("Expected events in log, got %q", logText(ui))
	}
	if !ui.revealBtn.Visible() || !ui.openBtn.Visible() {
		t.Error("Expected reveal and open buttons once a file exists")
	}
	if ui.revealPath() != "/tmp/My Video.flac" {
		t.Errorf("Expected audio to be revealed, got %s", ui.revealPath())
	}
	if !strings.Contains(ui.statusLabel.Text, "My Video.flac") {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
	if ui.downloadBtn.Disabled() {
		t.Error("Expected download button to be enabled again")
	}
	if ui.settings.GetResolution() != "480p" || ui.settings.GetAudioFormat() != model.AudioFormatFLAC || !ui.settings.GetExtractAudio() {
		t.Error("Expected form choices to be saved as preferences")
	}
}

func TestDownloadFailure(t *testing.T) {
	runner := &scriptedRunner{messages: []string{"All download methods failed. Please check the URL or try again later."}}
	ui, _ := newTestUI(t, runner)

	test.Type(ui.urlEntry, "https://youtu.be/abc")
	test.Tap(ui.downloadBtn)
	waitFor(t, func() bool { return len(runner.calls()) == 1 && !ui.Busy() })

	if ui.revealBtn.Visible() || ui.openBtn.Visible() {
		t.Error("Expected reveal and open buttons to stay hidden")
	}
	if ui.statusLabel.Text != ui.localization.GetText(KeyDownloadFailed) {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
	if runner.calls()[0].Resolution != model.ResolutionBest {
		t.Errorf("Expected best resolution by default, got %s", runner.calls()[0].Resolution)
	}
}

func TestEmptyURL(t *testing.T) {
	runner := &scriptedRunner{}
	ui, _ := newTestUI(t, runner)

	test.Tap(ui.downloadBtn)

	if ui.statusLabel.Text != ui.localization.GetText(KeyPleaseEnterURL) {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
	if len(runner.calls()) != 0 || ui.Busy() {
		t.Error("Expected nothing to start")
	}
}

func TestInvalidURL(t *testing.T) {
	runner := &scriptedRunner{}
	ui, _ := newTestUI(t, runner)

	test.Type(ui.urlEntry, "ftp://example.com/video")
	test.Tap(ui.downloadBtn)

	if !strings.HasPrefix(ui.statusLabel.Text, ui.localization.GetText(KeyInvalidURL)) {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
	if len(runner.calls()) != 0 {
		t.Error("Expected nothing to start")
	}
}

func TestBusyRejectsSecondDownload(t *testing.T) {
	runner := &scriptedRunner{gate: make(chan struct{}), result: model.Result{VideoPath: "/tmp/a.mp4"}}
	ui, _ := newTestUI(t, runner)

	test.Type(ui.urlEntry, "https://youtu.be/abc")
	test.Tap(ui.downloadBtn)

	if !ui.downloadBtn.Disabled() {
		t.Error("Expected download button to be disabled while busy")
	}
	if !ui.progress.Visible() {
		t.Error("Expected progress bar while busy")
	}

	ui.onDownloadClick()
	if ui.statusLabel.Text != ui.localization.GetText(KeyAlreadyDownloading) {
		t.Errorf("Expected busy status, got %q", ui.statusLabel.Text)
	}

	close(runner.gate)
	waitFor(t, func() bool { return !ui.Busy() })

	if len(runner.calls()) != 1 {
		t.Errorf("Expected exactly one run, got %d", len(runner.calls()))
	}
	if ui.downloadBtn.Disabled() || ui.progress.Visible() {
		t.Error("Expected controls to be restored")
	}
}

func TestFormatFollowsExtractCheck(t *testing.T) {
	ui, _ := newTestUI(t, &scriptedRunner{})

	if !ui.formatRadio.Disabled() {
		t.Error("Expected format choice to be disabled without extraction")
	}
	test.Tap(ui.extractCheck)
	if ui.formatRadio.Disabled() {
		t.Error("Expected format choice to be enabled with extraction")
	}
	if ui.selectedFormat() != model.AudioFormatMP3 {
		t.Errorf("Expected mp3 default, got %s", ui.selectedFormat())
	}
}

func TestPaste(t *testing.T) {
	ui, app := newTestUI(t, &scriptedRunner{})

	app.Clipboard().SetContent("  https://youtu.be/abc \n")
	test.Tap(ui.pasteBtn)
	if ui.urlEntry.Text != "https://youtu.be/abc" {
		t.Errorf("Expected pasted URL, got %q", ui.urlEntry.Text)
	}

	app.Clipboard().SetContent("not a link")
	test.Tap(ui.pasteBtn)
	if ui.statusLabel.Text != ui.localization.GetText(KeyClipboardNoURL) {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
	if ui.urlEntry.Text != "https://youtu.be/abc" {
		t.Error("Expected URL entry to be left alone")
	}
}

func TestLanguageChangeKeepsResolution(t *testing.T) {
	ui, _ := newTestUI(t, &scriptedRunner{})

	ui.resolutionSelect.SetSelected("720p")
	ui.onLanguageChange("ru")

	if ui.downloadBtn.Text != "Скачать" {
		t.Errorf("Expected translated button, got %q", ui.downloadBtn.Text)
	}
	if ui.resolutionSelect.Options[0] != "Лучшее доступное" {
		t.Errorf("Expected translated best option, got %q", ui.resolutionSelect.Options[0])
	}
	if ui.selectedResolution() != "720p" {
		t.Errorf("Expected 720p to survive, got %s", ui.selectedResolution())
	}
	if ui.settings.GetLanguage() != "ru" {
		t.Error("Expected language to be saved")
	}
}

func TestPreferencesLoaded(t *testing.T) {
	app := test.NewApp()
	window := test.NewWindow(nil)
	defer window.Close()

	settings := config.NewSettings(app)
	settings.SetDownloadDirectory("/srv/videos")
	settings.SetResolution("1080p")
	settings.SetExtractAudio(true)
	settings.SetAudioFormat(model.AudioFormatFLAC)

	ui := NewRootUI(window, app, download.NewService(&scriptedRunner{}, nil), settings, nil)

	if ui.dirEntry.Text != "/srv/videos" || !ui.dirEntry.Disabled() {
		t.Errorf("Expected read-only directory /srv/videos, got %q", ui.dirEntry.Text)
	}
	if ui.selectedResolution() != "1080p" || !ui.extractCheck.Checked || ui.selectedFormat() != model.AudioFormatFLAC {
		t.Error("Expected saved choices to be restored")
	}
}

func TestHandleEventCapsLog(t *testing.T) {
	ui, _ := newTestUI(t, &scriptedRunner{})
	for i := 0; i < MaxLogLines+10; i++ {
		ui.handleEvent(model.Event{Message: "line"})
	}
	if n := ui.logLines.Length(); n != MaxLogLines {
		t.Errorf("Expected %d lines, got %d", MaxLogLines, n)
	}
}

func TestCleanURL(t *testing.T) {
	if got := cleanURL(" https://youtu.be/a\r\nbc\t"); got != "https://youtu.be/abc" {
		t.Errorf("Unexpected cleaned URL %q", got)
	}
}

func TestOpenMissingFileShowsError(t *testing.T) {
	ui, _ := newTestUI(t, &scriptedRunner{})
	ui.lastResult = model.Result{VideoPath: filepath.Join(t.TempDir(), "gone.mp4")}
	ui.openBtn.Show()

	test.Tap(ui.openBtn)

	if ui.window.Canvas().Overlays().Top() == nil {
		t.Error("Expected an error dialog for a missing file")
	}
}
