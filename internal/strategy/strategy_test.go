package strategy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/ytfetch/internal/model"
)

type fakeStrategy struct {
	name  string
	path  string
	err   error
	panic any
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(ctx context.Context, req model.Request, emit Emitter) (string, error) {
	if f.panic != nil {
		panic(f.panic)
	}
	return f.path, f.err
}

func collect() (*[]string, Emitter) {
	var messages []string
	return &messages, func(msg string) { messages = append(messages, msg) }
}

func TestRun_Success(t *testing.T) {
	messages, emit := collect()
	path, err := Run(context.Background(), &fakeStrategy{name: "a", path: "/tmp/video.mp4"}, model.Request{}, emit)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if path != "/tmp/video.mp4" {
		t.Errorf("Expected /tmp/video.mp4, got %s", path)
	}
	if len(*messages) != 0 {
		t.Errorf("Expected no failure messages, got %v", *messages)
	}
}

func TestRun_ErrorIsReported(t *testing.T) {
	messages, emit := collect()
	path, err := Run(context.Background(), &fakeStrategy{name: "a", err: errors.New("boom")}, model.Request{}, emit)
	if err == nil {
		t.Fatal("Expected error")
	}
	if path != "" {
		t.Errorf("Expected empty path, got %s", path)
	}
	if len(*messages) != 1 || (*messages)[0] != "a download failed: boom" {
		t.Errorf("Unexpected messages: %v", *messages)
	}
}

func TestRun_PanicIsRecovered(t *testing.T) {
	messages, emit := collect()
	path, err := Run(context.Background(), &fakeStrategy{name: "a", panic: "library bug"}, model.Request{}, emit)
	if err == nil || !strings.Contains(err.Error(), "library bug") {
		t.Fatalf("Expected recovered panic error, got %v", err)
	}
	if path != "" {
		t.Errorf("Expected empty path, got %s", path)
	}
	if len(*messages) != 1 || !strings.HasPrefix((*messages)[0], "a download failed:") {
		t.Errorf("Unexpected messages: %v", *messages)
	}
}

func TestRun_EmptyPathIsFailure(t *testing.T) {
	_, err := Run(context.Background(), &fakeStrategy{name: "a"}, model.Request{}, nil)
	if err == nil {
		t.Fatal("Expected error for empty path without error")
	}
}

func TestFromNames_Order(t *testing.T) {
	strategies, err := FromNames([]string{"ytdlp", "KKDAI", "ytdlp"}, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(strategies) != 2 {
		t.Fatalf("Expected 2 strategies after dedupe, got %d", len(strategies))
	}
	if strategies[0].Name() != NameYtdlp || strategies[1].Name() != NameKkdai {
		t.Errorf("Unexpected order: %s, %s", strategies[0].Name(), strategies[1].Name())
	}
}

func TestFromNames_Default(t *testing.T) {
	strategies, err := FromNames(nil, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var names []string
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	if strings.Join(names, ",") != "kkdai,ytget,ytdlp" {
		t.Errorf("Unexpected default order: %v", names)
	}
}

func TestFromNames_Unknown(t *testing.T) {
	_, err := FromNames([]string{"kkdai", "pytube"}, DefaultOptions())
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy, got %v", err)
	}
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{Timeout: -1, Retries: -5}.normalized()
	if o.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout, got %v", o.Timeout)
	}
	if o.Retries != 0 {
		t.Errorf("Expected retries clamped to 0, got %d", o.Retries)
	}
}

func TestOutputDir(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	dir, err := outputDir(model.Request{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dir != wd {
		t.Errorf("Expected working directory %s, got %s", wd, dir)
	}

	target := filepath.Join(t.TempDir(), "new", "dir")
	dir, err = outputDir(model.Request{OutputDir: target})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dir != target {
		t.Errorf("Expected %s, got %s", target, dir)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("Expected directory to be created: %v", err)
	}
}

func TestYtget_InvalidURLFailsWithoutNetwork(t *testing.T) {
	messages, emit := collect()
	req := model.NewRequest("not a youtube url", t.TempDir(), model.ResolutionBest, false, "")
	path, err := Run(context.Background(), NewYtget(DefaultOptions()), req, emit)
	if err == nil {
		t.Fatal("Expected error for invalid URL")
	}
	if path != "" {
		t.Errorf("Expected empty path, got %s", path)
	}
	if len(*messages) == 0 || !strings.HasPrefix((*messages)[len(*messages)-1], "ytget download failed:") {
		t.Errorf("Expected failure message, got %v", *messages)
	}
}
