package prefs

import (
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a FileStore when its file is changed by another process
// and notifies a callback with the fresh values.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *FileStore
	logger   *slog.Logger
	onChange func(values map[string]string)
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher for store's backing file.
func NewWatcher(store *FileStore, logger *slog.Logger, onChange func(values map[string]string)) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		store:    store,
		logger:   logger,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The directory is watched rather than the file
// because atomic writes replace the file.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.watch()
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	filename := filepath.Base(w.store.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				before := w.store.All()
				if err := w.store.Reload(); err != nil {
					w.logger.Warn("failed to reload preferences", "error", err)
					continue
				}
				after := w.store.All()
				if maps.Equal(before, after) {
					continue
				}
				w.logger.Debug("preferences changed on disk", "path", w.store.Path())
				if w.onChange != nil {
					w.onChange(after)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("preferences watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.done)
	return w.watcher.Close()
}
