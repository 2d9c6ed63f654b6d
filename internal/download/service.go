package download

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/ytget/ytfetch/internal/model"
)

// EventBuffer is the capacity of the channel returned by Start
const EventBuffer = 64

var (
	// ErrBusy is returned by Start while a request is in flight
	ErrBusy = errors.New("a download is already in progress")

	// ErrEmptyURL is returned by Start for a blank URL
	ErrEmptyURL = errors.New("please enter a YouTube URL")
)

// Service runs at most one request at a time
type Service struct {
	runner Runner
	logger *slog.Logger

	mu   sync.Mutex
	busy bool
}

// NewService creates a service around runner
func NewService(runner Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{runner: runner, logger: logger}
}

// Busy reports whether a request is in flight
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Start runs req in the background. The returned channel yields the request's
// events and is closed once the service is idle again. A second Start before
// that fails with ErrBusy.
func (s *Service) Start(ctx context.Context, req model.Request) (<-chan model.Event, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrEmptyURL
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		s.logger.Debug("Rejected request while busy", "request_id", req.ID)
		return nil, ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	events := make(chan model.Event, EventBuffer)
	go func() {
		defer close(events)
		defer s.setIdle()
		s.runner.Run(ctx, req, events)
	}()
	return events, nil
}

// Run is the synchronous form of Start: it forwards events to onEvent and
// returns the final result
func (s *Service) Run(ctx context.Context, req model.Request, onEvent func(model.Event)) (model.Result, error) {
	events, err := s.Start(ctx, req)
	if err != nil {
		return model.Result{}, err
	}
	var result model.Result
	for event := range events {
		if onEvent != nil {
			onEvent(event)
		}
		if event.IsFinal() {
			result = *event.Result
		}
	}
	return result, nil
}

func (s *Service) setIdle() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
