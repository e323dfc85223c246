package output

import (
	"encoding/json"
	"io"

	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
)

// JSONFormatter formats state as indented JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// FormatSnapshot writes the snapshot as a JSON object.
func (f *JSONFormatter) FormatSnapshot(w io.Writer, snap *store.Snapshot) error {
	return encodeJSON(w, snap)
}

// FormatDevices writes devices as a JSON array.
func (f *JSONFormatter) FormatDevices(w io.Writer, devices []model.Device) error {
	if devices == nil {
		devices = []model.Device{}
	}
	return encodeJSON(w, devices)
}

// FormatHistory writes records as a JSON array.
func (f *JSONFormatter) FormatHistory(w io.Writer, records []model.TransferRecord) error {
	if records == nil {
		records = []model.TransferRecord{}
	}
	return encodeJSON(w, records)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
