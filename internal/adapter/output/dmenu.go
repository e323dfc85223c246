package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/localdrop/localdrop/internal/format"
	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
)

// DmenuFormatter formats devices and history for dmenu/rofi/fuzzel, one
// entry per line.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// FormatSnapshot writes the discovered devices, which is what a picker needs.
func (f *DmenuFormatter) FormatSnapshot(w io.Writer, snap *store.Snapshot) error {
	return f.FormatDevices(w, snap.Devices)
}

// FormatDevices writes one device per line.
func (f *DmenuFormatter) FormatDevices(w io.Writer, devices []model.Device) error {
	for i := range devices {
		line := f.deviceLine(i+1, &devices[i])
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatHistory writes one record per line.
func (f *DmenuFormatter) FormatHistory(w io.Writer, records []model.TransferRecord) error {
	for i := range records {
		line := f.recordLine(i+1, &records[i])
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// deviceLine formats: [index] [last seen] hostname | address | os
func (f *DmenuFormatter) deviceLine(index int, d *model.Device) string {
	data := templateData{Index: index, Device: d, RelativeTime: relativeTime(d.LastSeen)}
	if line, ok := f.execute(data); ok {
		return line
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}
	if f.opts.ShowTime {
		parts = append(parts, data.RelativeTime)
	}
	parts = append(parts,
		truncate(d.DisplayName(), f.opts.NameMaxLen),
		d.Address(),
		model.OSFamily(d.OS),
	)
	return strings.Join(parts, f.separator())
}

// recordLine formats: [index] [time] direction outcome | peer | n files (size)
func (f *DmenuFormatter) recordLine(index int, r *model.TransferRecord) string {
	data := templateData{Index: index, Record: r, RelativeTime: relativeTime(r.Timestamp)}
	if line, ok := f.execute(data); ok {
		return line
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}
	if f.opts.ShowTime {
		parts = append(parts, data.RelativeTime)
	}
	parts = append(parts,
		fmt.Sprintf("%s %s", r.Direction, r.Outcome),
		truncate(r.Peer, f.opts.NameMaxLen),
		fmt.Sprintf("%d files (%s)", r.FileCount(), format.SizeDefault(r.TotalSize)),
	)
	return strings.Join(parts, f.separator())
}

func (f *DmenuFormatter) execute(data templateData) (string, bool) {
	if f.template == nil {
		return "", false
	}
	var buf strings.Builder
	if err := f.template.Execute(&buf, data); err != nil {
		return "", false
	}
	return buf.String(), true
}

func (f *DmenuFormatter) separator() string {
	if f.opts.Separator == "" {
		return " | "
	}
	return f.opts.Separator
}

// templateData provides data for custom templates. Exactly one of Device
// and Record is set.
type templateData struct {
	Index        int
	Device       *model.Device
	Record       *model.TransferRecord
	RelativeTime string
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"reltime":  relativeTime,
		"size":     format.SizeDefault,
		"osFamily": model.OSFamily,
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// relativeTime returns a compact relative time string ("now", "5m", "2h").
func relativeTime(timestamp int64) string {
	if timestamp == 0 {
		return "unknown"
	}

	d := time.Since(time.Unix(timestamp, 0))

	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw", int(d.Hours()/24/7))
	}
}
