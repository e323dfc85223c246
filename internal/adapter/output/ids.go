package output

import (
	"fmt"
	"io"

	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
)

// IDsFormatter outputs just the ids, one per line.
// Useful for piping a picked device to other commands (e.g., localdrop send).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// FormatSnapshot writes the ids of the discovered devices.
func (f *IDsFormatter) FormatSnapshot(w io.Writer, snap *store.Snapshot) error {
	return f.FormatDevices(w, snap.Devices)
}

// FormatDevices writes device ids to the writer, one per line.
func (f *IDsFormatter) FormatDevices(w io.Writer, devices []model.Device) error {
	for _, d := range devices {
		if _, err := fmt.Fprintln(w, d.ID); err != nil {
			return err
		}
	}
	return nil
}

// FormatHistory writes record ids to the writer, one per line.
func (f *IDsFormatter) FormatHistory(w io.Writer, records []model.TransferRecord) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, r.ID); err != nil {
			return err
		}
	}
	return nil
}
