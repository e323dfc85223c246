package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
)

// YAMLFormatter formats state as YAML documents.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// FormatSnapshot writes the snapshot as a YAML mapping.
func (f *YAMLFormatter) FormatSnapshot(w io.Writer, snap *store.Snapshot) error {
	return encodeYAML(w, snap)
}

// FormatDevices writes devices as a YAML sequence.
func (f *YAMLFormatter) FormatDevices(w io.Writer, devices []model.Device) error {
	if devices == nil {
		devices = []model.Device{}
	}
	return encodeYAML(w, devices)
}

// FormatHistory writes records as a YAML sequence.
func (f *YAMLFormatter) FormatHistory(w io.Writer, records []model.TransferRecord) error {
	if records == nil {
		records = []model.TransferRecord{}
	}
	return encodeYAML(w, records)
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
