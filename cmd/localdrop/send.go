package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/adapter/output"
	"github.com/localdrop/localdrop/internal/core"
	"github.com/localdrop/localdrop/internal/files"
	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/session"
)

var sendOpts struct {
	device   string
	events   string
	previews bool
}

var sendCmd = &cobra.Command{
	Use:   "send --device <query> <path>...",
	Short: "Offer files to a device",
	Long: `Inspect files and write a send command for the backend to stdout.

The device list is built from backend events read from --events. The
--device query matches a device id, a 1-based index in the list, a
hostname or name, or a unique id prefix.

Examples:
  localdrop send --events devices.ndjson --device laptop report.pdf
  localdrop send --events devices.ndjson --device 2 ~/Pictures/*.jpg >> commands.fifo`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendOpts.device, "device", "",
		"Receiving device (id, index, hostname or id prefix)")
	sendCmd.Flags().StringVar(&sendOpts.events, "events", "-",
		"Event source with device discoveries (file path, or - for stdin)")
	sendCmd.Flags().BoolVar(&sendOpts.previews, "previews", false,
		"Attach image thumbnails")
	_ = sendCmd.MarkFlagRequired("device")
}

func runSend(cmd *cobra.Command, args []string) error {
	st, _, err := replay(cmd.Context(), sendOpts.events)
	if err != nil {
		return err
	}

	devices := st.Devices()
	d := core.LookupDevice(devices, sendOpts.device)
	if d == nil {
		return fmt.Errorf("no device matches %q (%d known)", sendOpts.device, len(devices))
	}

	selected, err := files.NewInspector(sendOpts.previews, logger).InspectAll(args)
	if err != nil {
		if len(selected) == 0 {
			return err
		}
		logger.Warn("some files were skipped", "error", err)
	}
	if _, err := st.AddSelectedFiles(selected...); err != nil {
		return err
	}

	sess := session.New(session.Options{
		Store:    st,
		Commands: output.NewCommandWriter(os.Stdout),
		Logger:   logger,
	})
	cmdOut, err := sess.Send(d.ID)
	if err != nil {
		return err
	}

	logger.Info("send command written",
		"request_id", cmdOut.RequestID,
		"device", d.DisplayName(),
		"files", len(cmdOut.Files))
	return nil
}

var respondCmd = &cobra.Command{
	Use:   "command <accept|reject|cancel|refresh> [request-id]",
	Short: "Write a single backend command to stdout",
	Long: `Write one newline-delimited JSON command for the backend.

Examples:
  localdrop command accept 5f0c2a1e
  localdrop command refresh >> commands.fifo`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{string(model.ActionAccept), string(model.ActionReject), string(model.ActionCancel), string(model.ActionRefresh)},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := model.Action(args[0])
		switch action {
		case model.ActionAccept, model.ActionReject, model.ActionCancel, model.ActionRefresh:
		default:
			return fmt.Errorf("unknown action %q", args[0])
		}

		requestID := ""
		if len(args) > 1 {
			requestID = args[1]
		}
		if requestID == "" && (action == model.ActionAccept || action == model.ActionReject) {
			return fmt.Errorf("%s needs a request id", action)
		}

		return output.NewCommandWriter(os.Stdout).WriteCommand(model.NewCommand(action, requestID, ""))
	},
}

func init() {
	rootCmd.AddCommand(respondCmd)
}
