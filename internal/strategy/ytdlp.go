package strategy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// yt-dlp settings
const (
	YtdlpOutputTemplate   = "%(title)s.%(ext)s"
	YtdlpFormatBest       = "best"
	YtdlpProgressInterval = 500 * time.Millisecond
)

// ErrNoOutputFile is returned when yt-dlp finished but no output file can be found
var ErrNoOutputFile = errors.New("yt-dlp output file not found")

// Ytdlp drives the yt-dlp binary through github.com/lrstanley/go-ytdlp
type Ytdlp struct {
	executable string
}

// NewYtdlp creates the yt-dlp strategy
func NewYtdlp(opts Options) *Ytdlp {
	return &Ytdlp{executable: opts.YtDlpPath}
}

// Name implements Strategy
func (y *Ytdlp) Name() string { return NameYtdlp }

// Attempt implements Strategy
func (y *Ytdlp) Attempt(ctx context.Context, req model.Request, emit Emitter) (string, error) {
	dir, err := outputDir(req)
	if err != nil {
		return "", err
	}

	// --print-json alone would only simulate
	dl := ytdlp.New().
		Format(FormatSelector(req.Resolution)).
		Output(filepath.Join(dir, YtdlpOutputTemplate)).
		RestrictFilenames().
		NoPlaylist().
		PrintJSON().
		NoSimulate()
	if y.executable != "" {
		dl.SetExecutable(y.executable)
	}

	reporter := newPercentReporter(emit, "Progress: %.1f%%")
	dl.ProgressFunc(YtdlpProgressInterval, func(update ytdlp.ProgressUpdate) {
		if update.TotalBytes > 0 {
			reporter.Report(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100)
		}
	})

	started := time.Now()
	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	path, err := resolveOutput(reportedFilename(result), dir, started)
	if err != nil {
		return "", err
	}
	if err := verifyOutput(path); err != nil {
		return "", err
	}

	emit("Download completed with yt-dlp!")
	return path, nil
}

// reportedFilename returns the file named in yt-dlp's JSON info, or ""
func reportedFilename(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	infos, err := result.GetExtractedInfo()
	if err != nil {
		return ""
	}
	for _, info := range infos {
		if info == nil {
			continue
		}
		if info.Filename != nil && *info.Filename != "" {
			return *info.Filename
		}
		if info.AltFilename != nil && *info.AltFilename != "" {
			return *info.AltFilename
		}
	}
	return ""
}

// resolveOutput finds the file yt-dlp wrote. The reported name may carry the
// pre-merge extension; without one the newest media file in dir is used.
func resolveOutput(reported, dir string, started time.Time) (string, error) {
	if reported != "" {
		if path, err := platform.FindDownloadedFile(reported); err == nil {
			return path, nil
		}
	}
	path, err := platform.FindNewestMedia(dir, started)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoOutputFile, err)
	}
	return path, nil
}

// FormatSelector builds the yt-dlp -f expression for a resolution
func FormatSelector(res model.Resolution) string {
	if res.IsBest() {
		return YtdlpFormatBest
	}
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best", res.Height())
}
