package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ytget/ytfetch/internal/extract"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/strategy"
)

// Messages shown to the user
const (
	MsgAttempting      = "Attempting download with %s..."
	MsgAllFailed       = "All download methods failed. Please check the URL or try again later."
	MsgCompleted       = "Process completed successfully!"
	MsgCompletedAudio  = "Download completed successfully!"
	MsgUnexpectedError = "An error occurred: %v"
	MsgNoExtractor     = "Audio extraction failed: no audio extractor configured"
)

// ErrAllStrategiesFailed is logged when no strategy produced a file
var ErrAllStrategiesFailed = errors.New("all download strategies failed")

// Orchestrator tries each strategy in order and extracts audio from the first
// video produced
type Orchestrator struct {
	strategies []strategy.Strategy
	extractor  extract.Extractor
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger used for strategy outcomes
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the event timestamp source
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewOrchestrator creates an orchestrator. extractor may be nil when audio
// extraction is never requested.
func NewOrchestrator(strategies []strategy.Strategy, extractor extract.Extractor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		strategies: append([]strategy.Strategy(nil), strategies...),
		extractor:  extractor,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Strategies returns the configured strategy names in order
func (o *Orchestrator) Strategies() []string {
	names := make([]string, 0, len(o.strategies))
	for _, s := range o.strategies {
		names = append(names, s.Name())
	}
	return names
}

// run carries the per-request state
type run struct {
	o      *Orchestrator
	req    model.Request
	events chan<- model.Event
	logger *slog.Logger
	stage  model.Stage
}

func (r *run) send(stage model.Stage, name, msg string, result *model.Result) {
	r.stage = stage
	if r.events == nil {
		return
	}
	r.events <- model.Event{
		RequestID: r.req.ID,
		Stage:     stage,
		Strategy:  name,
		Message:   msg,
		Time:      r.o.now(),
		Result:    result,
	}
}

func (r *run) emitter(stage model.Stage, name string) func(string) {
	return func(msg string) { r.send(stage, name, msg, nil) }
}

func (r *run) finish(stage model.Stage, msg string, result model.Result) model.Result {
	r.send(stage, result.Strategy, msg, &result)
	attrs := []any{"stage", stage, "strategy", result.Strategy}
	if !r.req.CreatedAt.IsZero() {
		attrs = append(attrs, "elapsed", r.o.now().Sub(r.req.CreatedAt).Round(time.Millisecond))
	}
	r.logger.Info("Request finished", attrs...)
	return result
}

// Run processes req and returns its result. No error or panic escapes: an
// empty VideoPath means failure. The last event sent carries the result.
// Sends on events block, so the caller must drain it. events may be nil.
func (o *Orchestrator) Run(ctx context.Context, req model.Request, events chan<- model.Event) (result model.Result) {
	r := &run{
		o:      o,
		req:    req,
		events: events,
		logger: o.logger.With("request_id", req.ID, "url", req.URL),
		stage:  model.StageNotStarted,
	}

	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("Download pipeline panicked", "panic", v, "stage", r.stage)
			result = r.finish(model.StageFailed, fmt.Sprintf(MsgUnexpectedError, v), model.Result{})
		}
	}()

	if !req.Resolution.IsBest() && !req.Resolution.IsKnown() {
		r.logger.Warn("Unlisted resolution, strategies fall back to the highest available", "resolution", req.Resolution.String())
	}

	if err := prepareOutputDir(req.OutputDir); err != nil {
		r.logger.Error("Failed to prepare output directory", "dir", req.OutputDir, "error", err, "stage", r.stage)
		return r.finish(model.StageFailed, fmt.Sprintf(MsgUnexpectedError, err), model.Result{})
	}

	videoPath, name := r.download(ctx)
	if videoPath == "" {
		if err := ctx.Err(); err != nil {
			r.logger.Info("Request cancelled", "stage", r.stage, "error", err)
			return r.finish(model.StageFailed, fmt.Sprintf(MsgUnexpectedError, err), model.Result{})
		}
		r.logger.Warn("Download failed", "error", ErrAllStrategiesFailed, "strategies", o.Strategies())
		return r.finish(model.StageFailed, MsgAllFailed, model.Result{})
	}

	result = model.Result{VideoPath: videoPath, Strategy: name}
	if !req.ExtractAudio {
		return r.finish(model.StageDone, MsgCompleted, result)
	}

	result.AudioPath = r.extractAudio(ctx, videoPath)
	return r.finish(model.StageDone, MsgCompletedAudio, result)
}

// download tries each strategy until one yields a file
func (r *run) download(ctx context.Context) (string, string) {
	for _, s := range r.o.strategies {
		if ctx.Err() != nil {
			return "", ""
		}
		name := s.Name()
		r.send(model.StageTrying, name, fmt.Sprintf(MsgAttempting, name), nil)

		start := r.o.now()
		path, err := strategy.Run(ctx, s, r.req, r.emitter(model.StageTrying, name))
		if err != nil {
			r.logger.Debug("Strategy failed", "strategy", name, "error", err)
			continue
		}
		r.logger.Info("Strategy succeeded", "strategy", name, "path", path, "elapsed", r.o.now().Sub(start))
		return path, name
	}
	return "", ""
}

// extractAudio returns the audio path, or "" when extraction failed
func (r *run) extractAudio(ctx context.Context, videoPath string) string {
	emit := r.emitter(model.StageExtracting, "")
	if r.o.extractor == nil {
		emit(MsgNoExtractor)
		return ""
	}
	format := r.req.AudioFormat
	if format == "" {
		format = model.DefaultAudioFormat
	}
	audioPath, err := r.o.extractor.Extract(ctx, videoPath, format, emit)
	if err != nil {
		r.logger.Warn("Audio extraction failed", "video", videoPath, "format", format, "error", err)
		return ""
	}
	r.logger.Info("Audio extracted", "path", audioPath)
	return audioPath
}

// prepareOutputDir creates dir when set; an empty dir means the working directory
func prepareOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	resolved, err := platform.ResolveOutputDir(dir)
	if err != nil {
		return err
	}
	return platform.CreateDirectoryIfNotExists(resolved)
}
