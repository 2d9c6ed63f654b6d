package strategy

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Kkdai downloads progressive streams with github.com/kkdai/youtube/v2
type Kkdai struct {
	client *youtube.Client
}

// NewKkdai creates the kkdai strategy
func NewKkdai(opts Options) *Kkdai {
	return &Kkdai{client: &youtube.Client{HTTPClient: opts.normalized().httpClient()}}
}

// Name implements Strategy
func (k *Kkdai) Name() string { return NameKkdai }

// Attempt implements Strategy
func (k *Kkdai) Attempt(ctx context.Context, req model.Request, emit Emitter) (string, error) {
	dir, err := outputDir(req)
	if err != nil {
		return "", err
	}

	video, err := k.client.GetVideoContext(ctx, req.URL)
	if err != nil {
		return "", fmt.Errorf("fetch video metadata: %w", err)
	}
	emit(fmt.Sprintf("Title: %s", video.Title))
	emit(fmt.Sprintf("Length: %d seconds", int(video.Duration.Seconds())))

	format, matched := SelectFormat(video.Formats, req.Resolution)
	if format == nil {
		return "", ErrNoStream
	}
	if !req.Resolution.IsBest() && !matched {
		emit(fmt.Sprintf("Resolution %s not available. Getting highest resolution...", req.Resolution))
	}
	emit(fmt.Sprintf("Downloading: %s", format.QualityLabel))

	stream, size, err := k.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	path := filepath.Join(dir, platform.FilenameForTitle(video.Title, video.ID)+ExtensionForMime(format.MimeType))
	if err := writeStream(ctx, path, stream, size, emit); err != nil {
		return "", err
	}
	if err := verifyOutput(path); err != nil {
		return "", err
	}

	emit("Download completed with kkdai!")
	return path, nil
}

// SelectFormat picks a progressive (audio+video) format. When res names a
// height that exists, the best such format is returned with matched=true;
// otherwise the highest resolution progressive format is returned.
func SelectFormat(formats youtube.FormatList, res model.Resolution) (*youtube.Format, bool) {
	var progressive []youtube.Format
	for _, f := range formats {
		if f.AudioChannels > 0 && f.Height > 0 {
			progressive = append(progressive, f)
		}
	}
	if len(progressive) == 0 {
		return nil, false
	}

	sort.SliceStable(progressive, func(i, j int) bool {
		a, b := progressive[i], progressive[j]
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		if isMP4(a.MimeType) != isMP4(b.MimeType) {
			return isMP4(a.MimeType)
		}
		return a.Bitrate > b.Bitrate
	})

	if !res.IsBest() {
		for i := range progressive {
			if matchesResolution(progressive[i], res) {
				return &progressive[i], true
			}
		}
	}
	return &progressive[0], false
}

func matchesResolution(f youtube.Format, res model.Resolution) bool {
	if f.QualityLabel != "" {
		return strings.HasPrefix(f.QualityLabel, string(res))
	}
	return f.Height == res.Height()
}

func isMP4(mime string) bool {
	return strings.HasPrefix(mime, "video/mp4")
}

// ExtensionForMime maps a stream mime type to a file extension
func ExtensionForMime(mime string) string {
	base := mime
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	switch strings.TrimSpace(base) {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/3gpp":
		return ".3gp"
	case "audio/mp4":
		return ".m4a"
	case "audio/webm":
		return ".webm"
	default:
		return ".mp4"
	}
}
