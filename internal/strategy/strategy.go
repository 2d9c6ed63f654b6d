package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Strategy names used in configuration
const (
	NameKkdai = "kkdai"
	NameYtget = "ytget"
	NameYtdlp = "ytdlp"
)

// DefaultOrder is the fallback chain used when nothing is configured
var DefaultOrder = []string{NameKkdai, NameYtget, NameYtdlp}

// Default network settings
const (
	DefaultTimeout = 60 * time.Second
	DefaultRetries = 3
)

var (
	// ErrUnknownStrategy is returned for names missing from the registry
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrNoStream is returned when a video exposes no usable stream
	ErrNoStream = errors.New("no downloadable stream")
)

// Emitter receives human-readable progress messages
type Emitter func(string)

// Strategy downloads a single video and returns the path of the written file
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, req model.Request, emit Emitter) (string, error)
}

// Options configures the network side of every strategy
type Options struct {
	Timeout   time.Duration // response header timeout, not whole transfer
	Retries   int    // extra attempts after a network error or 5xx
	UserAgent string // empty keeps each library's own
	YtDlpPath string // empty lets go-ytdlp resolve the binary
}

// DefaultOptions returns Options with the package defaults
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout, Retries: DefaultRetries}
}

func (o Options) normalized() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	return o
}

// httpClient has no overall timeout so long streams are not cut off
func (o Options) httpClient() *http.Client {
	return o.httpClientWith(&http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: o.Timeout,
	})
}

// httpClientWith applies the header timeout to base and wraps it with the
// User-Agent and retry policy
func (o Options) httpClientWith(base http.RoundTripper) *http.Client {
	if tr, ok := base.(*http.Transport); ok {
		tr = tr.Clone()
		tr.ResponseHeaderTimeout = o.Timeout
		base = tr
	}
	return &http.Client{Transport: newRetryTransport(base, o)}
}

// Factory builds a strategy from options
type Factory func(Options) Strategy

var registry = map[string]Factory{
	NameKkdai: func(o Options) Strategy { return NewKkdai(o) },
	NameYtget: func(o Options) Strategy { return NewYtget(o) },
	NameYtdlp: func(o Options) Strategy { return NewYtdlp(o) },
}

// Names returns the registered strategy names in default order
func Names() []string {
	return append([]string(nil), DefaultOrder...)
}

// Lookup builds the strategy registered under name
func Lookup(name string, opts Options) (Strategy, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return factory(opts.normalized()), nil
}

// FromNames builds strategies in the given order. An empty list means DefaultOrder.
func FromNames(names []string, opts Options) ([]Strategy, error) {
	if len(names) == 0 {
		names = DefaultOrder
	}
	seen := make(map[string]bool, len(names))
	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, err := Lookup(name, opts)
		if err != nil {
			return nil, err
		}
		if seen[s.Name()] {
			continue
		}
		seen[s.Name()] = true
		strategies = append(strategies, s)
	}
	return strategies, nil
}

// Run attempts s and never fails outward: errors and panics are reported
// through emit and an empty path is returned together with the cause.
func Run(ctx context.Context, s Strategy, req model.Request, emit Emitter) (path string, err error) {
	if emit == nil {
		emit = func(string) {}
	}
	defer func() {
		if r := recover(); r != nil {
			path = ""
			err = fmt.Errorf("panic: %v", r)
			emit(fmt.Sprintf("%s download failed: %v", s.Name(), err))
		}
	}()

	path, err = s.Attempt(ctx, req, emit)
	if err == nil && path == "" {
		err = fmt.Errorf("%s returned no file", s.Name())
	}
	if err != nil {
		emit(fmt.Sprintf("%s download failed: %v", s.Name(), err))
		return "", err
	}
	return path, nil
}

// outputDir returns the request directory, or the working directory when unset
func outputDir(req model.Request) (string, error) {
	if strings.TrimSpace(req.OutputDir) == "" {
		return os.Getwd()
	}
	dir, err := platform.ResolveOutputDir(req.OutputDir)
	if err != nil {
		return "", err
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return dir, nil
}

// verifyOutput removes path and fails when it is not a media file
func verifyOutput(path string) error {
	if err := platform.VerifyMediaFile(path); err != nil {
		if errors.Is(err, platform.ErrNotMediaFile) {
			_ = os.Remove(path)
		}
		return err
	}
	return nil
}
