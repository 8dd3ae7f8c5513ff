package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"docshelf/internal/config"
	"docshelf/internal/logging"
)

// FileProcessor handles one detected file end to end.
type FileProcessor interface {
	Process(ctx context.Context, path string) (string, error)
}

// Watcher monitors the watch directory for newly created files and hands
// supported ones to the processor, one at a time. Create events are queued
// and drained by a single worker, so bursts serialize behind slow naming
// calls or retry delays. The running flag transitions once from running to
// stopped; a Watcher is not restartable.
type Watcher struct {
	cfg       *config.Config
	processor FileProcessor
	logger    *slog.Logger

	fsw        *fsnotify.Watcher
	queue      chan string
	stopCh     chan struct{}
	eventsDone chan struct{}
	workerDone chan struct{}

	mu      sync.Mutex
	running bool

	settleDelay    time.Duration
	stabilityPolls int
}

// queueCapacity bounds how many pending create events can back up before new
// ones are dropped with a warning.
const queueCapacity = 1024

// stabilityPollInterval is the spacing between file-size samples taken after
// the settle delay.
const stabilityPollInterval = 200 * time.Millisecond

// New constructs a watcher for the configured watch directory.
func New(cfg *config.Config, processor FileProcessor, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		cfg:            cfg,
		processor:      processor,
		logger:         logging.NewComponentLogger(logger, "watcher"),
		fsw:            fsw,
		queue:          make(chan string, queueCapacity),
		stopCh:         make(chan struct{}),
		eventsDone:     make(chan struct{}),
		workerDone:     make(chan struct{}),
		settleDelay:    time.Duration(cfg.Watch.SettleDelayMS) * time.Millisecond,
		stabilityPolls: cfg.Watch.StabilityPolls,
	}, nil
}

// Start creates the watch directory if needed and begins watching. It is
// non-blocking; the event loop and worker run in goroutines until Stop or
// context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.cfg.Paths.WatchDir, 0o755); err != nil {
		return err
	}
	if err := w.fsw.Add(w.cfg.Paths.WatchDir); err != nil {
		return err
	}
	w.logger.Info("watching for new files",
		logging.String("watch_dir", w.cfg.Paths.WatchDir),
		logging.String("extensions", strings.Join(w.cfg.Watch.Extensions, ",")),
	)

	go w.eventLoop(ctx)
	go w.worker(ctx)
	return nil
}

// Stop halts the watcher and waits (bounded) for in-flight work to settle.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.awaitDone(w.eventsDone, 5*time.Second)
	w.awaitDone(w.workerDone, 5*time.Second)

	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("error closing filesystem watcher", logging.Error(err))
	}
	w.logger.Info("watcher stopped")
}

// Running reports whether the watcher has been started and not yet stopped.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) awaitDone(done <-chan struct{}, timeout time.Duration) {
	select {
	case <-done:
	case <-time.After(timeout):
		w.logger.Warn("timed out waiting for watcher goroutine to stop")
	}
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.eventsDone)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("filesystem watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == 0 {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if !w.cfg.SupportedExtension(ext) {
		w.logger.Debug("ignoring unsupported file type",
			logging.String("file", filepath.Base(event.Name)),
			logging.String("extension", ext),
		)
		return
	}
	w.logger.Info("file detected", logging.String("file", filepath.Base(event.Name)))
	select {
	case w.queue <- event.Name:
	default:
		w.logger.Warn("detection queue full, dropping event",
			logging.String("file", filepath.Base(event.Name)),
		)
	}
}

func (w *Watcher) worker(ctx context.Context) {
	defer close(w.workerDone)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case path := <-w.queue:
			w.handle(ctx, path)
		}
	}
}

// handle waits for the file to settle, then runs the pipeline. Per-file
// failures are logged and swallowed so the watch loop never terminates
// because one file failed.
func (w *Watcher) handle(ctx context.Context, path string) {
	if !w.sleep(ctx, w.settleDelay) {
		return
	}
	if !w.waitStable(ctx, path) {
		return
	}
	if _, err := w.processor.Process(ctx, path); err != nil {
		w.logger.Error("processing failed, continuing to watch",
			logging.String("file", filepath.Base(path)),
			logging.Error(err),
		)
	}
}

// waitStable polls the file size until the configured number of consecutive
// samples match. The settle delay alone cannot prove a writer has finished;
// this check covers slowly written files. Returns false when the file
// disappeared or the context ended.
func (w *Watcher) waitStable(ctx context.Context, path string) bool {
	if w.stabilityPolls <= 0 {
		return true
	}
	// Bound the total wait so a file that never stops growing cannot wedge
	// the worker.
	maxSamples := w.stabilityPolls * 10
	var lastSize int64 = -1
	matches := 0
	for sample := 0; sample < maxSamples; sample++ {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.logger.Debug("file vanished before processing",
					logging.String("file", filepath.Base(path)),
				)
				return false
			}
			return true
		}
		if info.Size() == lastSize {
			matches++
			if matches >= w.stabilityPolls {
				return true
			}
		} else {
			matches = 0
			lastSize = info.Size()
		}
		if !w.sleep(ctx, stabilityPollInterval) {
			return false
		}
	}
	w.logger.Warn("file size never stabilized, processing anyway",
		logging.String("file", filepath.Base(path)),
	)
	return true
}

func (w *Watcher) sleep(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return true
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	case <-timer.C:
		return true
	}
}
