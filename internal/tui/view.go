package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/localdrop/localdrop/internal/format"
	"github.com/localdrop/localdrop/internal/prefs"
)

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	view := m.mode
	if view == ModeSearch {
		view = m.searchFrom
	}

	var body string
	switch {
	case m.mode == ModeHelp:
		body = m.viewHelp()
	case m.mode == ModeDetail:
		body = m.detail.View()
	case view == ModeHistory:
		body = m.records.View()
	default:
		body = m.viewMain()
	}

	if popup := m.viewPopup(); popup != "" && m.mode != ModeHelp {
		body = lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center, popup)
	}

	return m.viewHeader() + "\n" + body + "\n" + m.viewFooter()
}

func (m Model) viewHeader() string {
	info := m.snap.DeviceInfo
	name := info.Hostname
	if name == "" {
		name = "this device"
	}

	sfx := "sfx off"
	if prefs.SfxEnabled(m.prefs) {
		sfx = "sfx on"
	}

	left := m.styles.Title.Render("localdrop") + " " + m.styles.Muted.Render(name)
	if info.OSType != "" {
		left += m.styles.Muted.Render(" · " + info.OSType)
	}
	right := m.styles.Muted.Render(m.themeName + " · " + sfx)

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) viewFooter() string {
	switch m.mode {
	case ModeSearch:
		return "Search: " + m.searchInput.View()
	case ModeAddFile:
		return "Add: " + m.pathInput.View()
	}

	if m.statusMsg != "" {
		if m.statusErr {
			return m.styles.StatusErr.Render(m.statusMsg)
		}
		return m.styles.Status.Render(m.statusMsg)
	}
	if !m.cfg.TUI.ShowHelp {
		return ""
	}
	return m.buildKeybindBar(m.width, m.barMode())
}

func (m Model) barMode() string {
	switch {
	case m.snap.ShowFileTransferRequestPopup:
		return "request"
	case m.snap.ShowPopup:
		return "popup"
	case m.snap.ShowTransferProgressPopup, m.snap.WaitingToAcceptTransferRequest:
		return "transfer"
	case m.mode == ModeHistory:
		return "history"
	case m.mode == ModeDetail:
		return "detail"
	case m.mode == ModeHelp:
		return "help"
	default:
		return "main"
	}
}

func (m Model) viewMain() string {
	height := max(m.height-4, 1)
	leftWidth := max(m.width*3/5-2, 12)
	rightWidth := max(m.width-leftWidth-6, 12)

	devStyle, fileStyle := m.styles.Pane, m.styles.Pane
	if m.active == paneDevices {
		devStyle = m.styles.ActivePane
	} else {
		fileStyle = m.styles.ActivePane
	}

	devices := m.devices.View()
	if len(m.devices.Items()) == 0 {
		msg := "No devices found yet."
		if m.searchQuery != "" {
			msg = fmt.Sprintf("No devices match %q.", m.searchQuery)
		}
		devices = m.styles.Title.Render("Devices") + "\n\n" + m.styles.Muted.Render(msg)
	}
	if m.snap.AreDevicesRefreshing {
		devices = m.styles.Warning.Render("refreshing...") + "\n" + devices
	}

	left := devStyle.Width(leftWidth).Height(height).Render(devices)
	right := fileStyle.Width(rightWidth).Height(height).Render(m.viewFiles(rightWidth))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) viewFiles(width int) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Selected files"))
	b.WriteString("\n\n")

	if len(m.snap.SelectedFiles) == 0 {
		b.WriteString(m.styles.Muted.Render("Press a to add files."))
		return b.String()
	}

	nameWidth := max(width-14, 8)
	for i, f := range m.snap.SelectedFiles {
		name := f.Name
		if f.HasPreview() {
			name = "▣ " + name
		}
		if r := []rune(name); len(r) > nameWidth {
			name = string(r[:nameWidth-1]) + "…"
		}
		line := fmt.Sprintf("%-*s %10s", nameWidth, name, format.SizeDefault(f.Size))
		if i == m.fileCursor && m.active == paneFiles {
			b.WriteString(m.styles.SelectedItem.Render(line))
		} else {
			b.WriteString(m.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d files, %s",
		len(m.snap.SelectedFiles), format.SizeDefault(m.snap.TotalSelectedSize()))))
	return b.String()
}

// viewPopup renders the popup that currently owns the screen, if any.
func (m Model) viewPopup() string {
	switch {
	case m.snap.ShowFileTransferRequestPopup && m.snap.FileTransferRequestQueue != nil:
		req := m.snap.FileTransferRequestQueue
		var b strings.Builder
		b.WriteString(m.styles.PopupTitle.Render("Incoming transfer"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s (%s) wants to send you:\n\n", req.Sender(), req.Data.DeviceInfo.OSType)
		for _, f := range req.Data.FilesInfo {
			fmt.Fprintf(&b, "  %s  %s\n", f.Name, m.styles.Muted.Render(format.SizeDefault(f.Size)))
		}
		fmt.Fprintf(&b, "\n%d files, %s\n\n", req.FileCount(), format.SizeDefault(req.TotalSize()))
		b.WriteString(m.styles.Key.Render("y") + " accept   " + m.styles.Key.Render("n") + " reject")
		return m.styles.Popup.Render(b.String())

	case m.snap.ShowPopup:
		body := m.styles.PopupTitle.Render("localdrop") + "\n" + m.snap.PopupMessage + "\n\n" +
			m.styles.Muted.Render("enter to dismiss")
		return m.styles.Popup.Render(body)

	case m.snap.ShowTransferProgressPopup:
		var b strings.Builder
		b.WriteString(m.styles.PopupTitle.Render("Transferring"))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(float64(m.snap.OverallProgress()) / 100))
		b.WriteString("\n\n")
		for _, f := range m.snap.SelectedFiles {
			fmt.Fprintf(&b, "  %-30s %5s\n", f.Name, format.Percent(f.ProgressValue()))
		}
		b.WriteString("\n" + m.styles.Key.Render("c") + " cancel")
		return m.styles.Popup.Render(b.String())

	case m.snap.WaitingToAcceptTransferRequest:
		body := m.styles.PopupTitle.Render("Waiting") + "\n" +
			"Waiting for the receiver to accept...\n\n" +
			m.styles.Key.Render("c") + " cancel"
		return m.styles.Popup.Render(body)
	}
	return ""
}

func (m Model) viewHelp() string {
	s := m.styles.Title.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.View(m.keys)
	s += "\n\n" + m.styles.Muted.Render("Press ? or esc to return")
	return s
}

// keybind is one entry in the status bar.
type keybind struct {
	key  string
	desc string
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// Binds are listed most important first and dropped from the end.
func (m Model) buildKeybindBar(width int, mode string) string {
	var binds []keybind

	switch mode {
	case "main":
		binds = []keybind{
			{"q", "quit"},
			{"enter", "send"},
			{"a", "add"},
			{"?", "help"},
			{"tab", "pane"},
			{"x", "remove"},
			{"r", "refresh"},
			{"h", "history"},
			{"/", "search"},
			{"s", "sfx"},
			{"t/C", "theme"},
			{"i", "copy id"},
		}
	case "history":
		binds = []keybind{
			{"esc", "back"},
			{"enter", "details"},
			{"/", "filter"},
			{"↑/↓", "navigate"},
			{"q", "quit"},
		}
	case "detail":
		binds = []keybind{
			{"esc", "back"},
			{"↑/↓", "scroll"},
			{"q", "quit"},
		}
	case "request":
		binds = []keybind{
			{"y", "accept"},
			{"n", "reject"},
		}
	case "transfer":
		binds = []keybind{
			{"c", "cancel"},
			{"q", "quit"},
		}
	case "popup":
		binds = []keybind{
			{"enter", "dismiss"},
		}
	case "help":
		binds = []keybind{
			{"esc", "close"},
		}
	}

	const separator = "  "
	result := ""
	for _, b := range binds {
		item := m.styles.Key.Render(b.key) + " " + b.desc
		if width > 0 && lipgloss.Width(result)+len(separator)+lipgloss.Width(b.key+" "+b.desc) > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return m.styles.Muted.Render(result)
}
