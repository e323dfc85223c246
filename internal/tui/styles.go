package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/localdrop/localdrop/internal/theme"
)

// Styles holds the lipgloss styles derived from the active palette.
type Styles struct {
	Title        lipgloss.Style
	Pane         lipgloss.Style
	ActivePane   lipgloss.Style
	Item         lipgloss.Style
	SelectedItem lipgloss.Style
	Muted        lipgloss.Style
	Key          lipgloss.Style
	Status       lipgloss.Style
	StatusErr    lipgloss.Style
	Popup        lipgloss.Style
	PopupTitle   lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style

	accent  string
	success string
}

// NewStyles builds styles from p. A nil palette uses the default bundled one.
func NewStyles(p *theme.Palette) Styles {
	if p == nil {
		p = theme.PaletteFor("")
	}

	border := lipgloss.Color(p.Border)
	accent := lipgloss.Color(p.Accent)

	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Pane:       pane,
		ActivePane: pane.BorderForeground(accent),
		Item:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Foreground)),
		SelectedItem: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Background)).
			Background(accent),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Key:       lipgloss.NewStyle().Foreground(accent),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Foreground)),
		StatusErr: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Background(lipgloss.Color(p.Surface)).
			Padding(1, 2),
		PopupTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),

		accent:  p.Accent,
		success: p.Success,
	}
}

// NewProgress returns a progress bar coloured from the accent to the success colour.
func (s Styles) NewProgress(width int) progress.Model {
	p := progress.New(progress.WithGradient(s.accent, s.success))
	if width > 0 {
		p.Width = width
	}
	return p
}
