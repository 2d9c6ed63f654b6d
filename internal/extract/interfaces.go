package extract

import (
	"context"

	"github.com/ytget/ytfetch/internal/model"
)

// Extractor converts a video file into an audio file next to it.
type Extractor interface {
	Available() error
	Extract(ctx context.Context, videoPath string, format model.AudioFormat, emit func(string)) (string, error)
}
