// Package output provides output formatters for client state and the
// command sink for the transfer backend.
package output

import (
	"io"

	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
)

// Formatter formats state for output.
type Formatter interface {
	// FormatSnapshot writes a full state snapshot.
	FormatSnapshot(w io.Writer, snap *store.Snapshot) error

	// FormatDevices writes the discovered device list.
	FormatDevices(w io.Writer, devices []model.Device) error

	// FormatHistory writes transfer history records.
	FormatHistory(w io.Writer, records []model.TransferRecord) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatIDs   FormatType = "ids"
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
	FormatYAML  FormatType = "yaml"
)

// FormatTypes lists the supported formats for flag help.
var FormatTypes = []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatDmenu, FormatIDs}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for dmenu/plain lines
	ShowIndex  bool   // Show 1-based index prefix
	ShowTime   bool   // Show relative time
	NameMaxLen int    // Maximum name length (0 = unlimited)
	Separator  string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults for dmenu output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		NameMaxLen: 40,
		Separator:  " | ",
	}
}
