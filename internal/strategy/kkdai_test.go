package strategy

import (
	"testing"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/ytfetch/internal/model"
)

func sampleFormats() youtube.FormatList {
	return youtube.FormatList{
		{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, QualityLabel: "1080p", Height: 1080, Bitrate: 4000000},
		{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, QualityLabel: "720p", Height: 720, AudioChannels: 2, Bitrate: 1500000},
		{ItagNo: 43, MimeType: `video/webm; codecs="vp8.0, vorbis"`, QualityLabel: "360p", Height: 360, AudioChannels: 2, Bitrate: 600000},
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, QualityLabel: "360p", Height: 360, AudioChannels: 2, Bitrate: 500000},
		{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 128000},
	}
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		name        string
		res         model.Resolution
		expectedTag int
		matched     bool
	}{
		{"best picks highest progressive", model.ResolutionBest, 22, false},
		{"exact match", "720p", 22, true},
		{"prefers mp4 at same height", "360p", 18, true},
		{"video-only stream is skipped", "1080p", 22, false},
		{"unsupported falls back to highest", "999p", 22, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			format, matched := SelectFormat(sampleFormats(), test.res)
			if format == nil {
				t.Fatal("Expected a format")
			}
			if format.ItagNo != test.expectedTag {
				t.Errorf("Expected itag %d, got %d", test.expectedTag, format.ItagNo)
			}
			if matched != test.matched {
				t.Errorf("Expected matched=%v, got %v", test.matched, matched)
			}
		})
	}
}

func TestSelectFormat_HighFrameRateLabel(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 300, MimeType: "video/mp4", QualityLabel: "720p60", Height: 720, AudioChannels: 2},
		{ItagNo: 18, MimeType: "video/mp4", QualityLabel: "360p", Height: 360, AudioChannels: 2},
	}
	format, matched := SelectFormat(formats, "720p")
	if format == nil || format.ItagNo != 300 || !matched {
		t.Errorf("Expected 720p60 to match 720p, got %+v matched=%v", format, matched)
	}
}

func TestSelectFormat_NoProgressive(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 137, MimeType: "video/mp4", QualityLabel: "1080p", Height: 1080},
		{ItagNo: 140, MimeType: "audio/mp4", AudioChannels: 2},
	}
	if format, _ := SelectFormat(formats, model.ResolutionBest); format != nil {
		t.Errorf("Expected nil format, got itag %d", format.ItagNo)
	}
}

func TestExtensionForMime(t *testing.T) {
	tests := []struct {
		mime     string
		expected string
	}{
		{`video/mp4; codecs="avc1.64001F, mp4a.40.2"`, ".mp4"},
		{`video/webm; codecs="vp8.0, vorbis"`, ".webm"},
		{"video/3gpp", ".3gp"},
		{"audio/mp4", ".m4a"},
		{"application/octet-stream", ".mp4"},
	}

	for _, test := range tests {
		if result := ExtensionForMime(test.mime); result != test.expected {
			t.Errorf("ExtensionForMime(%q) = %s, expected %s", test.mime, result, test.expected)
		}
	}
}
