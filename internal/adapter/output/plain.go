package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/localdrop/localdrop/internal/format"
	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
)

// PlainFormatter formats state as human readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// FormatSnapshot writes a sectioned summary of the state.
func (f *PlainFormatter) FormatSnapshot(w io.Writer, snap *store.Snapshot) error {
	var sb strings.Builder

	info := snap.DeviceInfo
	if info.Hostname != "" || info.ID != "" {
		fmt.Fprintf(&sb, "This device: %s (%s) %s\n\n", info.Hostname, info.OSType, info.ID)
	}

	header := fmt.Sprintf("Devices (%d)", len(snap.Devices))
	if snap.AreDevicesRefreshing {
		header += " refreshing..."
	}
	sb.WriteString(header + "\n")
	for i := range snap.Devices {
		d := &snap.Devices[i]
		fmt.Fprintf(&sb, "  %s  %s  %s\n", d.DisplayName(), d.Address(), d.OS)
	}

	fmt.Fprintf(&sb, "\nSelected files (%d, %s)\n", len(snap.SelectedFiles), format.SizeDefault(snap.TotalSelectedSize()))
	for i := range snap.SelectedFiles {
		file := &snap.SelectedFiles[i]
		line := fmt.Sprintf("  %s  %s  %s", file.Name, format.SizeDefault(file.Size), file.MimeType)
		if file.Progress != nil {
			line += "  " + format.Percent(*file.Progress)
		}
		sb.WriteString(line + "\n")
	}

	if req := snap.FileTransferRequestQueue; req != nil {
		fmt.Fprintf(&sb, "\nIncoming request from %s: %d files (%s)\n",
			req.Sender(), req.FileCount(), format.SizeDefault(req.TotalSize()))
	}
	if snap.WaitingToAcceptTransferRequest {
		sb.WriteString("\nWaiting for the receiver to accept...\n")
	}
	if snap.ShowTransferProgressPopup {
		fmt.Fprintf(&sb, "\nTransfer progress: %s\n", format.Percent(snap.OverallProgress()))
	}
	if snap.ShowPopup && snap.PopupMessage != "" {
		fmt.Fprintf(&sb, "\n%s\n", snap.PopupMessage)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatDevices writes one device per line.
func (f *PlainFormatter) FormatDevices(w io.Writer, devices []model.Device) error {
	for i := range devices {
		if err := f.formatDevice(w, i+1, &devices[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatDevice(w io.Writer, index int, d *model.Device) error {
	if f.template != nil {
		data := templateData{Index: index, Device: d, RelativeTime: relativeTime(d.LastSeen)}
		return f.template.Execute(w, data)
	}

	var sb strings.Builder
	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}
	sb.WriteString(truncate(d.DisplayName(), f.opts.NameMaxLen))
	fmt.Fprintf(&sb, " %s", d.Address())
	if f.opts.ShowTime && d.LastSeen != 0 {
		fmt.Fprintf(&sb, " (%s)", format.RelativeTime(d.LastSeenTime()))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "    %s  id=%s\n", d.OS, d.ID)

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatHistory writes one block per record.
func (f *PlainFormatter) FormatHistory(w io.Writer, records []model.TransferRecord) error {
	for i := range records {
		if err := f.formatRecord(w, i+1, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatRecord(w io.Writer, index int, r *model.TransferRecord) error {
	if f.template != nil {
		data := templateData{Index: index, Record: r, RelativeTime: relativeTime(r.Timestamp)}
		return f.template.Execute(w, data)
	}

	var sb strings.Builder
	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}
	fmt.Fprintf(&sb, "%s %s %s", r.Direction, r.Outcome, r.Peer)
	if f.opts.ShowTime {
		fmt.Fprintf(&sb, " (%s)", format.RelativeTime(r.Time()))
	}
	sb.WriteString("\n")

	names := make([]string, 0, len(r.Files))
	for _, file := range r.Files {
		names = append(names, file.Name)
	}
	fmt.Fprintf(&sb, "    %d files, %s", r.FileCount(), format.SizeDefault(r.TotalSize))
	if len(names) > 0 {
		sb.WriteString(": " + truncate(strings.Join(names, ", "), 80))
	}
	sb.WriteString("\n")
	if r.Error != "" {
		sb.WriteString("    error: " + r.Error + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
