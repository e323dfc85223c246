package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/localdrop/localdrop/internal/prefs"
)

// Applier reads the theme preferences and writes the resolved name to a Target.
type Applier struct {
	mu         sync.Mutex
	store      prefs.Store
	appearance Appearance
	target     Target
	logger     *slog.Logger
	current    string
}

// NewApplier creates an Applier. A nil appearance is treated as "prefers dark".
func NewApplier(store prefs.Store, appearance Appearance, target Target, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	if appearance == nil {
		appearance = StaticAppearance(true)
	}

	return &Applier{
		store:      store,
		appearance: appearance,
		target:     target,
		logger:     logger,
	}
}

// Apply resolves the stored preferences and sets AttributeName on the target.
// The appearance is only consulted in system mode; if it fails the dark
// variant is used. It returns the applied value.
func (a *Applier) Apply(ctx context.Context) string {
	mode := Mode(prefs.GetOr(a.store, prefs.KeyTheme, string(DefaultMode)))
	scheme := ColorScheme(prefs.GetOr(a.store, prefs.KeyColorScheme, string(DefaultScheme)))

	prefersDark := true
	if ParseMode(string(mode)) == ModeSystem {
		dark, err := a.appearance.PrefersDark(ctx)
		if err != nil {
			a.logger.Debug("appearance probe failed, using dark", "error", err)
		} else {
			prefersDark = dark
		}
	}

	name := Resolve(mode, scheme, prefersDark)

	a.mu.Lock()
	a.current = name
	a.mu.Unlock()

	a.target.SetAttribute(AttributeName, name)
	a.logger.Debug("applied theme", "mode", mode, "scheme", scheme, "resolved", name)
	return name
}

// Current returns the most recently applied value, or "" before the first Apply.
func (a *Applier) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
