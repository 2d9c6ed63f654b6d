package model

// Stage represents where a download request currently is in the pipeline
type Stage string

const (
	// StageNotStarted means the request was accepted but nothing ran yet
	StageNotStarted Stage = "NotStarted"

	// StageTrying means a download strategy is being attempted
	StageTrying Stage = "Trying"

	// StageExtracting means the video is downloaded and audio is being extracted
	StageExtracting Stage = "ExtractingAudio"

	// StageDone means a video file was produced
	StageDone Stage = "Done"

	// StageFailed means every strategy failed or the pipeline hit an unexpected error
	StageFailed Stage = "Failed"
)

// String returns the string representation of Stage
func (s Stage) String() string {
	return string(s)
}

// IsActive returns true if the pipeline is doing work in this stage
func (s Stage) IsActive() bool {
	return s == StageTrying || s == StageExtracting
}

// IsFinished returns true if the stage is terminal (done or failed)
func (s Stage) IsFinished() bool {
	return s == StageDone || s == StageFailed
}
