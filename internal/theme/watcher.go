package theme

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Watcher polls a user palette file and reports edits.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	palette      *Palette
	pollInterval time.Duration

	onChangeCallback func(*Palette)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewWatcher creates a watcher for p. p may be nil or bundled, in which
// case polling is a no-op until UpdatePalette supplies a user palette.
func NewWatcher(p *Palette, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger:       logger,
		palette:      p,
		pollInterval: 1 * time.Second,
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

// SetChangeCallback sets the callback invoked with the reloaded palette.
func (w *Watcher) SetChangeCallback(callback func(*Palette)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
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

	w.logger.Debug("palette watcher started", "interval", interval)
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
	w.logger.Debug("palette watcher stopped")
}

// UpdatePalette switches to watching a different palette.
func (w *Watcher) UpdatePalette(p *Palette) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.palette = p
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
	p := w.palette
	callback := w.onChangeCallback
	w.mu.RUnlock()

	if p == nil || p.IsBundled() {
		return
	}

	if _, err := os.Stat(p.Path); err != nil {
		if os.IsNotExist(err) {
			w.logger.Debug("palette file no longer exists", "path", p.Path)
		}
		return
	}

	fresh, changed, err := p.Reload()
	if err != nil {
		w.logger.Warn("failed to reload palette", "path", p.Path, "error", err)
		return
	}

	w.mu.Lock()
	if w.palette == p {
		w.palette = fresh
	}
	w.mu.Unlock()

	if changed {
		w.logger.Info("palette file changed, reloading", "path", p.Path)
		if callback != nil {
			callback(fresh)
		}
	}
}

// IsRunning returns whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
