package model

import (
	"path/filepath"
	"time"
)

// Result is produced once per request. An empty VideoPath means every
// strategy failed.
type Result struct {
	VideoPath string
	AudioPath string
	Strategy  string // name of the strategy that produced VideoPath
}

// OK reports whether a video file was produced
func (r Result) OK() bool {
	return r.VideoPath != ""
}

// HasAudio reports whether an audio file was extracted
func (r Result) HasAudio() bool {
	return r.AudioPath != ""
}

// VideoName returns the base name of the video file, or "" when absent
func (r Result) VideoName() string {
	if r.VideoPath == "" {
		return ""
	}
	return filepath.Base(r.VideoPath)
}

// AudioName returns the base name of the audio file, or "" when absent
func (r Result) AudioName() string {
	if r.AudioPath == "" {
		return ""
	}
	return filepath.Base(r.AudioPath)
}

// Event is a single human-readable progress message
type Event struct {
	RequestID string
	Stage     Stage
	Strategy  string // set while Stage is StageTrying
	Message   string
	Time      time.Time

	// Result is only set on the final event of a request
	Result *Result
}

// IsFinal reports whether this is the last event of a request
func (e Event) IsFinal() bool {
	return e.Result != nil
}
