package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kkdai/youtube/v2"
	"github.com/ytget/ytdlp/client"
	"github.com/ytget/ytdlp/errs"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Format arguments understood by github.com/ytget/ytdlp/v2
const (
	YtgetQualityBest  = "best"
	YtgetPreferredExt = "mp4"
)

// Ytget downloads progressive MP4 streams with github.com/ytget/ytdlp/v2
type Ytget struct {
	httpClient *http.Client
}

// NewYtget creates the ytget strategy. The library's tuned transport is kept;
// its client-wide timeout is not, so long streams are not cut off.
func NewYtget(opts Options) *Ytget {
	opts = opts.normalized()
	return &Ytget{httpClient: opts.httpClientWith(client.New().HTTPClient.Transport)}
}

// Name implements Strategy
func (y *Ytget) Name() string { return NameYtget }

// Attempt implements Strategy
func (y *Ytget) Attempt(ctx context.Context, req model.Request, emit Emitter) (string, error) {
	dir, err := outputDir(req)
	if err != nil {
		return "", err
	}

	videoID, err := youtube.ExtractVideoID(req.URL)
	if err != nil {
		return "", fmt.Errorf("extract video id: %w", err)
	}

	// The title is only known after the download, so write under the id first
	tmpPath := filepath.Join(dir, videoID+"."+YtgetPreferredExt)

	quality := YtgetQuality(req.Resolution)
	emit(fmt.Sprintf("Downloading: %s", req.Resolution))
	title, err := y.download(ctx, req.URL, quality, tmpPath, emit)
	if err != nil && quality != YtgetQualityBest {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if unplayable(err) {
			_ = os.Remove(tmpPath)
			return "", err
		}
		emit(fmt.Sprintf("Resolution %s not available. Getting highest resolution...", req.Resolution))
		title, err = y.download(ctx, req.URL, YtgetQualityBest, tmpPath, emit)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	if title != "" {
		emit(fmt.Sprintf("Title: %s", title))
	}

	if err := verifyOutput(tmpPath); err != nil {
		return "", err
	}

	finalPath := filepath.Join(dir, platform.FilenameForTitle(title, videoID)+"."+YtgetPreferredExt)
	if finalPath != tmpPath {
		if err := os.Rename(tmpPath, finalPath); err != nil {
			return "", fmt.Errorf("rename %s: %w", tmpPath, err)
		}
	}

	emit("Download completed with ytget!")
	return finalPath, nil
}

// download returns the video title reported by the library
func (y *Ytget) download(ctx context.Context, url, quality, out string, emit Emitter) (string, error) {
	reporter := newPercentReporter(emit, "Progress: %.0f%%")
	dl := ytdlp.New().
		WithHTTPClient(y.httpClient).
		WithFormat(quality, YtgetPreferredExt).
		WithOutputPath(out).
		WithProgress(func(p ytdlp.Progress) {
			reporter.Report(p.Percent)
		})
	info, err := dl.Download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", quality, err)
	}
	if info == nil {
		return "", nil
	}
	return info.Title, nil
}

// YtgetQuality converts a resolution into the library's quality selector
func YtgetQuality(res model.Resolution) string {
	if res.IsBest() {
		return YtgetQualityBest
	}
	return fmt.Sprintf("height<=%d", res.Height())
}

// unplayable reports errors no other quality selector can get around
func unplayable(err error) bool {
	for _, target := range []error{errs.ErrVideoUnavailable, errs.ErrPrivate, errs.ErrAgeRestricted, errs.ErrGeoBlocked} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
