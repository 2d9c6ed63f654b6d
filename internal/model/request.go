package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resolution is a stream height selector such as "720p". The zero value means
// best available.
type Resolution string

// ResolutionBest is the unconstrained selector
const ResolutionBest Resolution = ""

// Resolutions lists the selectors offered by both front ends
var Resolutions = []Resolution{"144p", "240p", "360p", "480p", "720p", "1080p", "1440p", "2160p"}

var resolutionPattern = regexp.MustCompile(`^(\d+)p$`)

// ParseResolution normalizes a user supplied selector. Anything that does not
// look like "<digits>p" is treated as no constraint. Well-formed values outside
// Resolutions are kept so each strategy can fall back on its own.
func ParseResolution(s string) Resolution {
	s = strings.ToLower(strings.TrimSpace(s))
	if !resolutionPattern.MatchString(s) {
		return ResolutionBest
	}
	if h, err := strconv.Atoi(strings.TrimSuffix(s, "p")); err != nil || h <= 0 {
		return ResolutionBest
	}
	return Resolution(s)
}

// IsBest reports whether the selector places no constraint on the stream
func (r Resolution) IsBest() bool {
	return r.Height() == 0
}

// Height returns the numeric height, or 0 when unconstrained or malformed
func (r Resolution) Height() int {
	m := resolutionPattern.FindStringSubmatch(string(r))
	if m == nil {
		return 0
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return h
}

// IsKnown reports whether the selector is one of Resolutions
func (r Resolution) IsKnown() bool {
	for _, known := range Resolutions {
		if r == known {
			return true
		}
	}
	return false
}

// String returns the selector, or "best" when unconstrained
func (r Resolution) String() string {
	if r.IsBest() {
		return "best"
	}
	return string(r)
}

// AudioFormat selects the container/codec used for audio extraction
type AudioFormat string

const (
	AudioFormatMP3  AudioFormat = "mp3"
	AudioFormatFLAC AudioFormat = "flac"
)

// DefaultAudioFormat is used when no format was chosen
const DefaultAudioFormat = AudioFormatMP3

// AudioFormats lists supported audio formats
var AudioFormats = []AudioFormat{AudioFormatMP3, AudioFormatFLAC}

// ParseAudioFormat accepts "mp3"/"flac" (any case) as well as the prompt
// shortcuts "1"/"2".
func ParseAudioFormat(s string) (AudioFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "mp3":
		return AudioFormatMP3, nil
	case "2", "flac":
		return AudioFormatFLAC, nil
	default:
		return "", fmt.Errorf("unsupported audio format: %q", s)
	}
}

// Extension returns the file extension including the leading dot
func (f AudioFormat) Extension() string {
	return "." + string(f)
}

// String returns the string representation of AudioFormat
func (f AudioFormat) String() string {
	return string(f)
}

// Request describes one download. It is not modified after it is issued.
type Request struct {
	ID           string
	URL          string
	OutputDir    string // empty means the working directory
	Resolution   Resolution
	ExtractAudio bool
	AudioFormat  AudioFormat
	CreatedAt    time.Time
}

// NewRequest builds a request with a fresh ID
func NewRequest(url, outputDir string, resolution Resolution, extractAudio bool, format AudioFormat) Request {
	if format == "" {
		format = DefaultAudioFormat
	}
	return Request{
		ID:           generateRequestID(),
		URL:          strings.TrimSpace(url),
		OutputDir:    outputDir,
		Resolution:   resolution,
		ExtractAudio: extractAudio,
		AudioFormat:  format,
		CreatedAt:    time.Now(),
	}
}

// generateRequestID uses UUID v7 so IDs sort by creation time
func generateRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return id.String()
}
