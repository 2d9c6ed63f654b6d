package extract

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// FFmpeg constants for audio extraction
const (
	// Codec forced for FLAC; MP3 is implied by the container
	FLACCodec = "flac"

	FFprobeLogLevel      = "error"
	FFprobeDuration      = "format=duration"
	FFprobeCodecType     = "stream=codec_type"
	FFprobeAudioSelector = "a"
	FFprobeOutputFormat  = "csv=p=0"
	ProgressPipeTarget   = "pipe:2"
	ProgressTimePrefix   = "out_time_us="
	ProgressStep         = 10

	// stderr lines kept for error messages
	stderrTailLines = 5
)

var (
	// ErrNoAudioStream is returned when the input has nothing to extract
	ErrNoAudioStream = errors.New("no audio stream in input")

	// ErrUnsupportedFormat is returned for formats other than mp3 and flac
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// FFmpegExtractor runs ffmpeg and ffprobe as subprocesses
type FFmpegExtractor struct {
	ffmpeg  string
	ffprobe string
}

// NewFFmpegExtractor creates an extractor. Empty paths fall back to the
// binaries on PATH.
func NewFFmpegExtractor(ffmpegPath, ffprobePath string) *FFmpegExtractor {
	return &FFmpegExtractor{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Available reports whether both binaries resolve
func (e *FFmpegExtractor) Available() error {
	if _, err := platform.LookupTool(e.ffmpeg, platform.FFmpegCommand); err != nil {
		return err
	}
	if _, err := platform.LookupTool(e.ffprobe, platform.FFprobeCommand); err != nil {
		return err
	}
	return nil
}

// Extract writes the audio of videoPath next to it and returns the new path.
// Success and failure are both reported through emit.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoPath string, format model.AudioFormat, emit func(string)) (string, error) {
	if emit == nil {
		emit = func(string) {}
	}
	path, err := e.extract(ctx, videoPath, format, emit)
	if err != nil {
		emit(fmt.Sprintf("Audio extraction failed: %v", err))
		return "", err
	}
	emit(fmt.Sprintf("Audio extracted to %s", path))
	return path, nil
}

func (e *FFmpegExtractor) extract(ctx context.Context, videoPath string, format model.AudioFormat, emit func(string)) (string, error) {
	if format == "" {
		format = model.DefaultAudioFormat
	}
	if format != model.AudioFormatMP3 && format != model.AudioFormatFLAC {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if _, err := os.Stat(videoPath); err != nil {
		return "", fmt.Errorf("input file: %w", err)
	}

	outputPath := OutputPath(videoPath, format)
	if outputPath == videoPath {
		return "", fmt.Errorf("input is already %s: %s", format, videoPath)
	}

	ffmpeg, err := platform.LookupTool(e.ffmpeg, platform.FFmpegCommand)
	if err != nil {
		return "", err
	}
	ffprobe, err := platform.LookupTool(e.ffprobe, platform.FFprobeCommand)
	if err != nil {
		return "", err
	}

	hasAudio, err := probeAudio(ctx, ffprobe, videoPath)
	if err != nil {
		return "", err
	}
	if !hasAudio {
		return "", ErrNoAudioStream
	}
	// Duration only drives progress, so a failed probe is not fatal
	duration, _ := probeDuration(ctx, ffprobe, videoPath)

	if err := runFFmpeg(ctx, ffmpeg, BuildFFmpegArgs(videoPath, outputPath, format), duration, emit); err != nil {
		_ = os.Remove(outputPath)
		return "", err
	}
	return outputPath, nil
}

// OutputPath swaps the extension of path for the format's extension
func OutputPath(path string, format model.AudioFormat) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + format.Extension()
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string, format model.AudioFormat) []string {
	args := []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn", // Drop video
	}
	if format == model.AudioFormatFLAC {
		args = append(args, "-c:a", FLACCodec)
	}
	return append(args,
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		outputPath,
	)
}

func runFFmpeg(ctx context.Context, ffmpeg string, args []string, duration float64, emit func(string)) error {
	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// All reads must finish before Wait closes the pipe
	tail := monitorProgress(stderr, duration, emit)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(tail) > 0 {
			return fmt.Errorf("ffmpeg: %w: %s", err, strings.Join(tail, "; "))
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// monitorProgress consumes ffmpeg stderr until EOF and returns the last
// non-progress lines
func monitorProgress(stderr io.Reader, totalDuration float64, emit func(string)) []string {
	scanner := bufio.NewScanner(stderr)
	var tail []string
	last := -ProgressStep

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if pct, ok := ProgressPercent(line, totalDuration); ok {
			if pct >= last+ProgressStep || (pct == 100 && last < 100) {
				last = pct
				emit(fmt.Sprintf("Extracting audio: %d%%", pct))
			}
			continue
		}
		if line == "" || strings.Contains(line, "=") {
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}
	// Keep ffmpeg from blocking on a full pipe if the scanner gave up
	_, _ = io.Copy(io.Discard, stderr)
	return tail
}

// ProgressPercent parses an out_time_us line against the total duration in seconds
func ProgressPercent(line string, totalDuration float64) (int, bool) {
	if totalDuration <= 0 || !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}
	micros, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || micros < 0 {
		return 0, false
	}
	progress := float64(micros) / 1000000.0 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	return int(progress * 100), true
}

// probeAudio reports whether the file carries at least one audio stream
func probeAudio(ctx context.Context, ffprobe, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", FFprobeLogLevel, "-select_streams", FFprobeAudioSelector,
		"-show_entries", FFprobeCodecType, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return strings.Contains(string(output), "audio"), nil
}

// probeDuration gets the duration of a media file in seconds
func probeDuration(ctx context.Context, ffprobe, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeDuration, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}
