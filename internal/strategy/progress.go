package strategy

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ProgressStep is the minimum percentage change between two progress messages
const ProgressStep = 10.0

// percentReporter turns a stream of percentages into sparse messages
type percentReporter struct {
	emit   Emitter
	format string
	step   float64
	last   float64
}

func newPercentReporter(emit Emitter, format string) *percentReporter {
	return &percentReporter{emit: emit, format: format, step: ProgressStep, last: -1}
}

// Report emits when pct moved at least one step or reached 100
func (p *percentReporter) Report(pct float64) {
	if pct < 0 {
		return
	}
	if pct > 100 {
		pct = 100
	}
	if p.last >= 0 && pct < p.last+p.step && !(pct >= 100 && p.last < 100) {
		return
	}
	p.last = pct
	p.emit(fmt.Sprintf(p.format, pct))
}

// countingWriter reports bytes written against an expected total
type countingWriter struct {
	total    int64
	written  int64
	reporter *percentReporter
}

func (w *countingWriter) Write(b []byte) (int, error) {
	w.written += int64(len(b))
	if w.total > 0 {
		w.reporter.Report(float64(w.written) / float64(w.total) * 100)
	}
	return len(b), nil
}

// ctxReader stops a copy once ctx is cancelled
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r ctxReader) Read(b []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(b)
}

// writeStream copies r into path, reporting progress. The partial file is
// removed on any failure.
func writeStream(ctx context.Context, path string, r io.Reader, size int64, emit Emitter) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	counter := &countingWriter{total: size, reporter: newPercentReporter(emit, "Progress: %.0f%%")}
	if _, err = io.Copy(io.MultiWriter(f, counter), ctxReader{ctx: ctx, r: r}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
