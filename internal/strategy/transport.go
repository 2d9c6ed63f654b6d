package strategy

import (
	"net/http"
	"time"
)

// Retry backoff bounds
const (
	retryInitialBackoff = 250 * time.Millisecond
	retryMaxBackoff     = 4 * time.Second
)

// retryTransport sets the configured User-Agent and retries network errors
// and 5xx responses. retries counts attempts after the first one.
type retryTransport struct {
	base      http.RoundTripper
	retries   int
	userAgent string
	backoff   time.Duration
}

func newRetryTransport(base http.RoundTripper, opts Options) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:      base,
		retries:   opts.Retries,
		userAgent: opts.UserAgent,
		backoff:   retryInitialBackoff,
	}
}

// RoundTrip implements http.RoundTripper
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	backoff := t.backoff
	for attempt := 0; ; attempt++ {
		try, err := t.prepare(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := t.base.RoundTrip(try)
		if !retryable(resp, err) || attempt >= t.retries || !rewindable(req) {
			return resp, err
		}
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > retryMaxBackoff {
			backoff = retryMaxBackoff
		}
	}
}

// prepare clones req for one attempt; a RoundTripper must not modify its input
func (t *retryTransport) prepare(req *http.Request, attempt int) (*http.Request, error) {
	try := req.Clone(req.Context())
	if attempt > 0 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		try.Body = body
	}
	if t.userAgent != "" {
		try.Header.Set("User-Agent", t.userAgent)
	}
	return try, nil
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

func rewindable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}
