package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/adapter/input"
	"github.com/localdrop/localdrop/internal/adapter/output"
	"github.com/localdrop/localdrop/internal/audio"
	"github.com/localdrop/localdrop/internal/config"
	"github.com/localdrop/localdrop/internal/dbus"
	"github.com/localdrop/localdrop/internal/files"
	"github.com/localdrop/localdrop/internal/history"
	"github.com/localdrop/localdrop/internal/notify"
	"github.com/localdrop/localdrop/internal/session"
	"github.com/localdrop/localdrop/internal/store"
	"github.com/localdrop/localdrop/internal/sysinfo"
	"github.com/localdrop/localdrop/internal/theme"
	"github.com/localdrop/localdrop/internal/tui"
)

var tuiOpts struct {
	events   string
	commands string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	Long: `Launch the interactive terminal user interface.

Backend events are read from --events (a file or FIFO of newline-delimited
JSON) and commands such as accept, reject, send and cancel are appended to
--commands. Without --events the TUI runs with no backend attached.

Key bindings:
  j/k, ↑/↓    Navigate
  tab         Switch between devices and files
  enter       Send selected files to the highlighted device
  a / x       Add / remove a file
  y / n       Accept / reject an incoming request
  c           Cancel the current transfer
  r           Refresh devices
  s           Toggle sound effects
  t / C       Cycle theme / colorscheme
  h           Transfer history
  /           Search
  i           Copy device id
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().StringVar(&tuiOpts.events, "events", "",
			"Backend event source (file or FIFO path)")
		c.Flags().StringVar(&tuiOpts.commands, "commands", "",
			"Backend command sink (file or FIFO path)")
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefStore, err := openPrefs()
	if err != nil {
		return err
	}
	defer func() { _ = prefStore.Close() }()

	bus := dbus.NewSession()
	defer func() { _ = bus.Close() }()

	notifier := notify.New(bus, cfg.Notify, logger)

	sfx := audio.NewSfx(cfg.Audio, prefStore, logger)
	if err := sfx.Start(ctx); err != nil {
		logger.Warn("failed to start sound effects", "error", err)
	}
	defer sfx.Stop()

	st := store.New()
	defer func() { _ = st.Close() }()
	if err := st.SetDeviceInfo(sysinfo.Collect().DeviceInfo()); err != nil {
		return err
	}

	opts := session.Options{
		Store:      st,
		Sfx:        sfx,
		Notifier:   notifier,
		StaleAfter: cfg.Devices.StaleAfter.Duration(),
		Logger:     logger,
	}

	var historyLog *history.Log
	if cfg.History.Enabled {
		historyLog, err = history.Open(historyPath())
		if err != nil {
			logger.Warn("transfer history disabled", "error", err)
		} else {
			defer func() { _ = historyLog.Close() }()
			if n, err := historyLog.Trim(cfg.History.MaxEntries); err != nil {
				logger.Warn("failed to trim history", "error", err)
			} else if n > 0 {
				logger.Debug("trimmed history", "dropped", n)
			}
			opts.History = historyLog
		}
	}

	if tuiOpts.commands != "" {
		f, err := os.OpenFile(tuiOpts.commands, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return fmt.Errorf("failed to open command sink: %w", err)
		}
		defer func() { _ = f.Close() }()
		opts.Commands = output.NewCommandWriter(f)
	}

	sess := session.New(opts)

	var source input.EventSource
	if tuiOpts.events != "" {
		source, err = input.NewSource(tuiOpts.events)
		if err != nil {
			return err
		}
		defer func() { _ = source.Close() }()
	}

	cw := session.NewConfigWatcher(configPathOrDefault(), logger)
	cw.SetReloadCallback(func(c *config.Config) {
		sfx.UpdateConfig(c.Audio)
		notifier.UpdateConfig(c.Notify)
		sess.SetStaleAfter(c.Devices.StaleAfter.Duration())
	})
	cw.SetErrorCallback(func(err error) {
		notifier.NotifyConfigError(ctx, err)
	})
	if err := cw.Start(ctx, cfg); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}
	defer cw.Stop()

	doc := theme.NewDocument()
	doc.OnChange(func(name, value string) {
		logger.Debug("theme attribute changed", "name", name, "value", value)
	})

	runOpts := tui.RunOptions{
		Options: tui.Options{
			Config:    cfg,
			Session:   sess,
			Prefs:     prefStore,
			Applier:   theme.NewApplier(prefStore, theme.AppearanceFor(cfg.Theme.Appearance, bus), doc, logger),
			Loader:    theme.NewLoader(theme.PalettesDir(), logger),
			Inspector: files.NewInspector(cfg.TUI.ShowPreviews, logger),
		},
		Source:    source,
		PrefsFile: prefStore,
		Logger:    logger,
	}
	if historyLog != nil {
		runOpts.History = historyLog
		runOpts.HistoryPath = historyLog.Path()
	}

	return tui.Run(ctx, runOpts)
}

func configPathOrDefault() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}
