package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/localdrop/localdrop/internal/adapter/input"
	"github.com/localdrop/localdrop/internal/prefs"
	"github.com/localdrop/localdrop/internal/session"
	"github.com/localdrop/localdrop/internal/theme"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Options

	// Source feeds backend events into the session (nil = none).
	Source input.EventSource

	// PrefsFile is watched so edits from other processes re-apply the theme.
	PrefsFile *prefs.FileStore

	// HistoryPath is watched for appended transfers (empty = no watching).
	HistoryPath string

	Logger *slog.Logger
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(opts.Options)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))

	sess := opts.Session
	if err := sess.Start(ctx); err != nil {
		logger.Warn("failed to start device pruning", "error", err)
	}
	defer sess.Stop()

	if opts.Source != nil {
		go func() {
			err := sess.Run(ctx, opts.Source)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("event source stopped", "source", opts.Source.Name(), "error", err)
			}
		}()
	}

	if opts.PrefsFile != nil {
		w, err := prefs.NewWatcher(opts.PrefsFile, logger, func(map[string]string) {
			p.Send(prefsChangedMsg{})
		})
		if err != nil {
			logger.Warn("failed to create preference watcher", "error", err)
		} else if err := w.Start(); err != nil {
			logger.Warn("failed to start preference watcher", "error", err)
		} else {
			defer func() { _ = w.Stop() }()
		}
	}

	if opts.Loader != nil {
		// Load runs inside Update, so the callback must not block on Send.
		opts.Loader.SetChangeCallback(func(pal *theme.Palette) {
			go p.Send(paletteMsg{palette: pal})
		})
		if err := opts.Loader.StartHotReload(ctx); err != nil {
			logger.Warn("failed to start palette hot-reload", "error", err)
		}
		defer opts.Loader.StopHotReload()
	}

	if opts.HistoryPath != "" {
		hw := session.NewHistoryWatcher(opts.HistoryPath, logger)
		hw.SetChangeCallback(func() {
			p.Send(historyChangedMsg{})
		})
		if err := hw.Start(ctx); err != nil {
			logger.Warn("failed to start history watcher", "error", err)
		}
		defer hw.Stop()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
