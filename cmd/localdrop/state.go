package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/adapter/input"
	"github.com/localdrop/localdrop/internal/adapter/output"
	"github.com/localdrop/localdrop/internal/session"
	"github.com/localdrop/localdrop/internal/store"
	"github.com/localdrop/localdrop/internal/sysinfo"
)

var stateOpts struct {
	events   string
	format   string
	template string
	devices  bool
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Replay backend events and print the resulting state",
	Long: `Read newline-delimited JSON backend events and print the client state
they produce. Useful for debugging a backend or scripting around it.

Examples:
  # Replay a captured event log
  localdrop state --events events.ndjson -f json

  # Pick a device with fuzzel
  backend-dump | localdrop state --devices -f dmenu | fuzzel -d`,
	RunE: runState,
}

func init() {
	rootCmd.AddCommand(stateCmd)

	stateCmd.Flags().StringVar(&stateOpts.events, "events", "-",
		"Event source (file path, or - for stdin)")
	stateCmd.Flags().StringVarP(&stateOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, dmenu, ids)")
	stateCmd.Flags().StringVar(&stateOpts.template, "template", "",
		"Custom Go template for dmenu/plain lines")
	stateCmd.Flags().BoolVar(&stateOpts.devices, "devices", false,
		"Print only the device list")
}

// replay feeds every event from source into a fresh session.
func replay(ctx context.Context, source string) (*store.Store, *session.Session, error) {
	src, err := input.NewSource(source)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = src.Close() }()

	st := store.New()
	if err := st.SetDeviceInfo(sysinfo.Collect().DeviceInfo()); err != nil {
		return nil, nil, err
	}
	sess := session.New(session.Options{Store: st, Logger: logger})

	events, err := src.Import(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range events {
		if err := sess.HandleEvent(ctx, e); err != nil && !errors.Is(err, store.ErrQueueFull) {
			logger.Warn("event rejected", "type", e.Type, "error", err)
		}
	}
	return st, sess, nil
}

func runState(cmd *cobra.Command, args []string) error {
	ft, err := parseFormat(stateOpts.format)
	if err != nil {
		return err
	}

	st, _, err := replay(cmd.Context(), stateOpts.events)
	if err != nil {
		return err
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = stateOpts.template
	formatter := output.NewFormatter(ft, opts)

	snap := st.Snapshot()
	if stateOpts.devices {
		return formatter.FormatDevices(os.Stdout, snap.Devices)
	}
	return formatter.FormatSnapshot(os.Stdout, &snap)
}
