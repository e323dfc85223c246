package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/localdrop/localdrop/internal/config"
)

// PalettesDir returns the directory for user palette overrides.
func PalettesDir() string {
	dir := config.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "palettes")
}

// Loader resolves palettes by name with hot-reload support.
// Resolution order:
//  1. User palettes directory (~/.config/localdrop/palettes/<name>.toml)
//  2. Bundled palettes
//  3. DefaultPaletteName
type Loader struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	dir      string
	palette  *Palette
	watcher  *Watcher
	onChange func(*Palette)
}

// NewLoader creates a loader reading user palettes from dir.
// An empty dir disables user overrides.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger,
		dir:    dir,
	}
}

// SetChangeCallback sets the function called when the loaded palette is
// replaced or its file is edited.
func (l *Loader) SetChangeCallback(fn func(*Palette)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Load loads the palette for name and makes it current.
func (l *Loader) Load(name string) *Palette {
	if name == "" {
		name = DefaultPaletteName
	}

	p := l.resolve(name)

	l.mu.Lock()
	l.palette = p
	watcher := l.watcher
	callback := l.onChange
	l.mu.Unlock()

	if watcher != nil {
		watcher.UpdatePalette(p)
	}
	if callback != nil {
		callback(p)
	}
	return p
}

func (l *Loader) resolve(name string) *Palette {
	if l.dir != "" {
		path := filepath.Join(l.dir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			p, err := LoadPaletteFile(path)
			if err != nil {
				l.logger.Warn("failed to load user palette, trying bundled", "palette", name, "error", err)
			} else {
				p.Name = name
				l.logger.Debug("loaded user palette", "name", name, "path", path)
				return p
			}
		}
	}

	p := PaletteFor(name)
	if p.Name != name {
		l.logger.Warn("palette not found, using default", "palette", name)
	}
	return p
}

// Current returns the loaded palette, loading the default if none is.
func (l *Loader) Current() *Palette {
	l.mu.RLock()
	p := l.palette
	l.mu.RUnlock()

	if p == nil {
		return l.Load(DefaultPaletteName)
	}
	return p
}

// List returns bundled and user palette names without duplicates.
func (l *Loader) List() []string {
	names := ListEmbeddedPalettes()

	if l.dir != "" {
		entries, err := os.ReadDir(l.dir)
		if err != nil {
			if !os.IsNotExist(err) {
				l.logger.Debug("failed to read palettes directory", "error", err)
			}
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".toml")
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	slices.Sort(names)
	return names
}

// StartHotReload polls the current user palette and reapplies it on edits.
// Bundled palettes are never watched, but the watcher follows later Loads.
func (l *Loader) StartHotReload(ctx context.Context) error {
	l.mu.Lock()
	if l.watcher != nil {
		l.mu.Unlock()
		return nil
	}
	p := l.palette
	w := NewWatcher(p, l.logger)
	w.SetChangeCallback(func(p *Palette) {
		l.mu.Lock()
		l.palette = p
		callback := l.onChange
		l.mu.Unlock()
		l.logger.Info("hot-reloaded palette", "name", p.Name)
		if callback != nil {
			callback(p)
		}
	})
	l.watcher = w
	l.mu.Unlock()

	return w.Start(ctx)
}

// StopHotReload stops the palette watcher.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
