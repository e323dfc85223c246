package session

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/localdrop/localdrop/internal/config"
)

// filePoller reports forward moves of a file's modification time.
type filePoller struct {
	mu       sync.Mutex
	logger   *slog.Logger
	name     string
	path     string
	interval time.Duration
	modTime  time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

func newFilePoller(name, path string, interval time.Duration, logger *slog.Logger) filePoller {
	if logger == nil {
		logger = slog.Default()
	}
	return filePoller{logger: logger, name: name, path: path, interval: interval}
}

func (p *filePoller) setInterval(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = interval
}

// start records the current mtime and calls onChange from a goroutine
// whenever it advances. A second start is a no-op.
func (p *filePoller) start(ctx context.Context, onChange func()) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	if info, err := os.Stat(p.path); err == nil {
		p.modTime = info.ModTime()
	}
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	interval := p.interval
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go func() {
		defer close(doneCh)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				if p.changed() {
					onChange()
				}
			}
		}
	}()

	p.logger.Debug(p.name+" watcher started", "path", p.path, "interval", interval)
}

func (p *filePoller) stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	doneCh := p.doneCh
	p.mu.Unlock()

	<-doneCh
	p.logger.Debug(p.name + " watcher stopped")
}

// changed stats the file and advances the recorded mtime. A missing file
// is not a change.
func (p *filePoller) changed() bool {
	info, err := os.Stat(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Debug("failed to stat "+p.name+" file", "path", p.path, "error", err)
		}
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !info.ModTime().After(p.modTime) {
		return false
	}
	p.modTime = info.ModTime()
	p.logger.Debug(p.name+" file changed", "path", p.path, "modTime", p.modTime)
	return true
}

// HistoryWatcher watches the transfer history file so a running TUI picks
// up records written or cleared by another process.
type HistoryWatcher struct {
	poller filePoller

	mu       sync.RWMutex
	onChange func()
}

// NewHistoryWatcher creates a HistoryWatcher for historyPath.
func NewHistoryWatcher(historyPath string, logger *slog.Logger) *HistoryWatcher {
	return &HistoryWatcher{
		poller: newFilePoller("history", historyPath, 500*time.Millisecond, logger),
	}
}

// SetPollInterval sets how often the file is checked. It applies from the
// next Start.
func (w *HistoryWatcher) SetPollInterval(interval time.Duration) {
	w.poller.setInterval(interval)
}

// SetChangeCallback sets the function called after the file changes.
func (w *HistoryWatcher) SetChangeCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins polling.
func (w *HistoryWatcher) Start(ctx context.Context) error {
	w.poller.start(ctx, func() {
		w.mu.RLock()
		callback := w.onChange
		w.mu.RUnlock()
		if callback != nil {
			callback()
		}
	})
	return nil
}

// Stop stops polling and waits for the poll goroutine to exit.
func (w *HistoryWatcher) Stop() {
	w.poller.stop()
}

// ConfigWatcher reloads the config file when it changes. A file that fails
// to load keeps the previous config in force and is reported through the
// error callback.
type ConfigWatcher struct {
	poller filePoller

	mu       sync.RWMutex
	current  *config.Config
	onReload func(newConfig *config.Config)
	onError  func(err error)
}

// NewConfigWatcher creates a ConfigWatcher. An empty path watches the
// default config location.
func NewConfigWatcher(configPath string, logger *slog.Logger) *ConfigWatcher {
	if configPath == "" {
		configPath = config.ConfigPath()
	}
	return &ConfigWatcher{
		poller: newFilePoller("config", configPath, time.Second, logger),
	}
}

// SetPollInterval sets how often the file is checked. It applies from the
// next Start.
func (w *ConfigWatcher) SetPollInterval(interval time.Duration) {
	w.poller.setInterval(interval)
}

// SetReloadCallback sets the function called with each successfully loaded config.
func (w *ConfigWatcher) SetReloadCallback(callback func(newConfig *config.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the function called when a changed file fails to load.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Start begins polling with initialConfig as the config in force.
func (w *ConfigWatcher) Start(ctx context.Context, initialConfig *config.Config) error {
	w.mu.Lock()
	if w.current == nil {
		w.current = initialConfig
	}
	w.mu.Unlock()

	w.poller.start(ctx, w.reload)
	return nil
}

// Stop stops polling and waits for the poll goroutine to exit.
func (w *ConfigWatcher) Stop() {
	w.poller.stop()
}

// CurrentConfig returns the last config that loaded successfully.
func (w *ConfigWatcher) CurrentConfig() *config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *ConfigWatcher) reload() {
	newConfig, err := config.LoadConfig(w.poller.path)

	w.mu.Lock()
	onReload, onError := w.onReload, w.onError
	if err == nil {
		w.current = newConfig
	}
	w.mu.Unlock()

	if err != nil {
		w.poller.logger.Warn("config file changed but failed to load", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.poller.logger.Info("config reloaded")
	if onReload != nil {
		onReload(newConfig)
	}
}
