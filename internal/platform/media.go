package platform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// headerSize is enough for every matcher registered in filetype
const headerSize = 261

// ErrNotMediaFile is returned when a file is neither video nor audio
var ErrNotMediaFile = errors.New("not a media file")

// MediaKind describes what a file header looks like
type MediaKind string

const (
	MediaKindVideo   MediaKind = "video"
	MediaKindAudio   MediaKind = "audio"
	MediaKindUnknown MediaKind = "unknown"
)

// DetectMediaKind sniffs the header of path
func DetectMediaKind(path string) (MediaKind, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return MediaKindUnknown, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return MediaKindUnknown, "", fmt.Errorf("read header of %s: %w", path, err)
	}
	head = head[:n]

	kind, _ := filetype.Match(head)
	switch {
	case filetype.IsVideo(head):
		return MediaKindVideo, kind.Extension, nil
	case filetype.IsAudio(head):
		return MediaKindAudio, kind.Extension, nil
	default:
		return MediaKindUnknown, kind.Extension, nil
	}
}

// VerifyMediaFile returns ErrNotMediaFile unless path holds video or audio
func VerifyMediaFile(path string) error {
	kind, ext, err := DetectMediaKind(path)
	if err != nil {
		return err
	}
	if kind == MediaKindUnknown {
		return fmt.Errorf("%w: %s (detected %q)", ErrNotMediaFile, path, ext)
	}
	return nil
}
