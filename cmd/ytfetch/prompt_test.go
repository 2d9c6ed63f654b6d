package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/model"
)

func defaultConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func TestResolveRequestPromptsEverything(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("https://youtu.be/abc\n480p\ny\n3\n2\n"), &out)

	req, err := resolveRequest(downloadOptions{}, explicit{}, "", "/tmp/out", defaultConfig(), p)
	if err != nil {
		t.Fatalf("resolveRequest: %v", err)
	}
	if req.URL != "https://youtu.be/abc" || req.Resolution != "480p" || !req.ExtractAudio || req.AudioFormat != model.AudioFormatFLAC {
		t.Errorf("Unexpected request %+v", req)
	}
	if req.OutputDir != "/tmp/out" {
		t.Errorf("Expected output dir to be kept, got %s", req.OutputDir)
	}

	prompts := out.String()
	for _, want := range []string{promptURL, promptResolution, promptExtract, promptAudioFormat, "Please enter 1 or 2."} {
		if !strings.Contains(prompts, want) {
			t.Errorf("Expected prompt %q in %q", want, prompts)
		}
	}
}

func TestResolveRequestEmptyAnswersMeanDefaults(t *testing.T) {
	p := newPrompter(strings.NewReader("https://youtu.be/abc\n\n\n"), &bytes.Buffer{})

	req, err := resolveRequest(downloadOptions{}, explicit{}, "", "", defaultConfig(), p)
	if err != nil {
		t.Fatalf("resolveRequest: %v", err)
	}
	if !req.Resolution.IsBest() {
		t.Errorf("Expected best, got %s", req.Resolution)
	}
	if req.ExtractAudio {
		t.Error("Expected no extraction by default")
	}
}

func TestResolveRequestFlagsSkipPrompts(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader(""), &out)
	opts := downloadOptions{resolution: "720p", extractAudio: true, format: "mp3"}

	req, err := resolveRequest(opts, explicit{resolution: true, extract: true, format: true}, "https://youtu.be/abc", "", defaultConfig(), p)
	if err != nil {
		t.Fatalf("resolveRequest: %v", err)
	}
	if req.Resolution != "720p" || !req.ExtractAudio || req.AudioFormat != model.AudioFormatMP3 {
		t.Errorf("Unexpected request %+v", req)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no prompts, got %q", out.String())
	}
}

func TestResolveRequestFormatImpliesExtract(t *testing.T) {
	req, err := resolveRequest(downloadOptions{format: "flac"}, explicit{format: true}, "https://youtu.be/abc", "", defaultConfig(), nil)
	if err != nil {
		t.Fatalf("resolveRequest: %v", err)
	}
	if !req.ExtractAudio || req.AudioFormat != model.AudioFormatFLAC {
		t.Errorf("Expected flac extraction, got %+v", req)
	}
}

func TestResolveRequestNonInteractiveUsesConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Resolution = "1080p"
	cfg.AudioFormat = "flac"

	req, err := resolveRequest(downloadOptions{extractAudio: true}, explicit{extract: true}, "https://youtu.be/abc", "", cfg, nil)
	if err != nil {
		t.Fatalf("resolveRequest: %v", err)
	}
	if req.Resolution != "1080p" || req.AudioFormat != model.AudioFormatFLAC {
		t.Errorf("Expected config defaults, got %+v", req)
	}
}

func TestResolveRequestRequiresURL(t *testing.T) {
	_, err := resolveRequest(downloadOptions{}, explicit{}, "  ", "", defaultConfig(), nil)
	if !errors.Is(err, download.ErrEmptyURL) {
		t.Errorf("Expected ErrEmptyURL, got %v", err)
	}
}

func TestResolveRequestBadFormatFlag(t *testing.T) {
	_, err := resolveRequest(downloadOptions{format: "wav"}, explicit{format: true}, "https://youtu.be/abc", "", defaultConfig(), nil)
	if err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestPrompterLastLineWithoutNewline(t *testing.T) {
	p := newPrompter(strings.NewReader("https://youtu.be/abc"), &bytes.Buffer{})
	url, err := p.url()
	if err != nil || url != "https://youtu.be/abc" {
		t.Errorf("Expected URL without trailing newline, got %q, %v", url, err)
	}
	if _, err := p.url(); err == nil {
		t.Error("Expected EOF on exhausted input")
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if isTerminal(strings.NewReader("")) {
		t.Error("Expected non-file reader to be non-interactive")
	}
}

func TestReadPipedURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://youtu.be/abc\n", "https://youtu.be/abc"},
		{"\n\n  https://youtu.be/abc \nignored\n", "https://youtu.be/abc"},
		{"https://youtu.be/abc", "https://youtu.be/abc"},
		{"", ""},
		{"\n  \n", ""},
	}

	for _, test := range tests {
		got, err := readPipedURL(strings.NewReader(test.input))
		if err != nil {
			t.Errorf("readPipedURL(%q) error: %v", test.input, err)
		}
		if got != test.expected {
			t.Errorf("readPipedURL(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}
