package audio

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"sync"
	"time"
)

// Watcher polls sound files and reports the ones that changed on disk.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	// Watched paths with their last seen modification times
	paths        map[string]time.Time
	pollInterval time.Duration
	onChange     func(path string)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewWatcher creates a watcher that calls onChange for each modified file.
func NewWatcher(onChange func(path string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger:       logger,
		paths:        make(map[string]time.Time),
		pollInterval: 2 * time.Second,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// SetPollInterval sets the polling interval. Call before Start.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// Watch adds path to the watch list. A file that does not exist yet is
// reported once it appears.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}

	var modTime time.Time
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths[path] = modTime
}

// Reset empties the watch list.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.paths)
}

// Start begins polling.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	interval := w.pollInterval
	w.mu.Unlock()

	go w.watchLoop(ctx, interval)

	w.logger.Debug("sound watcher started", "interval", interval)
	return nil
}

// Stop stops polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("sound watcher stopped")
}

func (w *Watcher) watchLoop(ctx context.Context, interval time.Duration) {
	defer close(w.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

func (w *Watcher) checkForChanges() {
	w.mu.RLock()
	paths := maps.Clone(w.paths)
	w.mu.RUnlock()

	for path, last := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		modTime := info.ModTime()
		if !modTime.After(last) {
			continue
		}

		w.mu.Lock()
		if _, ok := w.paths[path]; ok {
			w.paths[path] = modTime
		}
		w.mu.Unlock()

		w.logger.Debug("sound file changed", "path", path)
		if w.onChange != nil {
			w.onChange(path)
		}
	}
}

// IsRunning returns whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
