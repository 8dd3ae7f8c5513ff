package watcher_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"docshelf/internal/config"
	"docshelf/internal/logging"
	"docshelf/internal/watcher"
)

type recordingProcessor struct {
	mu     sync.Mutex
	paths  []string
	errFor map[string]error
	notify chan string
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{
		errFor: make(map[string]error),
		notify: make(chan string, 16),
	}
}

func (p *recordingProcessor) Process(_ context.Context, path string) (string, error) {
	p.mu.Lock()
	p.paths = append(p.paths, path)
	p.mu.Unlock()
	p.notify <- path
	if err := p.errFor[filepath.Base(path)]; err != nil {
		return "", err
	}
	return path, nil
}

func (p *recordingProcessor) processed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

func (p *recordingProcessor) waitFor(t *testing.T, base string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case path := <-p.notify:
			if filepath.Base(path) == base {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s to be processed (got %v)", base, p.processed())
		}
	}
}

func newTestWatcher(t *testing.T) (*watcher.Watcher, *recordingProcessor, string) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "in")
	cfg.Paths.OrganizedDir = filepath.Join(base, "out")
	cfg.Watch.SettleDelayMS = 10
	cfg.Watch.StabilityPolls = 0

	processor := newRecordingProcessor()
	w, err := watcher.New(&cfg, processor, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, processor, cfg.Paths.WatchDir
}

func dropFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestWatcherProcessesCreatedFile(t *testing.T) {
	w, processor, watchDir := newTestWatcher(t)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	dropFile(t, watchDir, "report.txt")
	processor.waitFor(t, "report.txt")
}

func TestWatcherIgnoresUnsupportedExtensions(t *testing.T) {
	w, processor, watchDir := newTestWatcher(t)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	dropFile(t, watchDir, "photo.png")
	dropFile(t, watchDir, "notes.txt")
	processor.waitFor(t, "notes.txt")

	for _, path := range processor.processed() {
		if filepath.Base(path) == "photo.png" {
			t.Fatal("unsupported file reached the processor")
		}
	}
}

func TestWatcherSurvivesProcessorFailure(t *testing.T) {
	w, processor, watchDir := newTestWatcher(t)
	processor.errFor["bad.pdf"] = errors.New("organize blew up")
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	dropFile(t, watchDir, "bad.pdf")
	processor.waitFor(t, "bad.pdf")

	dropFile(t, watchDir, "good.txt")
	processor.waitFor(t, "good.txt")
}

func TestWatcherCreatesWatchDirectory(t *testing.T) {
	w, _, watchDir := newTestWatcher(t)
	if _, err := os.Stat(watchDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("watch dir should not pre-exist: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()
	if info, err := os.Stat(watchDir); err != nil || !info.IsDir() {
		t.Fatalf("watch dir missing after start: %v", err)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !w.Running() {
		t.Fatal("expected running after start")
	}
	w.Stop()
	if w.Running() {
		t.Fatal("expected stopped after stop")
	}
	w.Stop()
}

func TestWatcherWaitsForStableSize(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "in")
	cfg.Paths.OrganizedDir = filepath.Join(base, "out")
	cfg.Watch.SettleDelayMS = 10
	cfg.Watch.StabilityPolls = 1

	processor := newRecordingProcessor()
	w, err := watcher.New(&cfg, processor, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	dropFile(t, cfg.Paths.WatchDir, "slow.txt")
	processor.waitFor(t, "slow.txt")
}
