package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/localdrop/localdrop/internal/format"
	"github.com/localdrop/localdrop/internal/model"
)

// recordMarkdown describes a history record as markdown.
func recordMarkdown(r model.TransferRecord) string {
	var b strings.Builder

	verb := "Sent to"
	if r.Direction == model.DirectionIncoming {
		verb = "Received from"
	}
	fmt.Fprintf(&b, "# %s %s\n\n", verb, r.Peer)
	fmt.Fprintf(&b, "**Outcome:** %s  \n", r.Outcome)
	fmt.Fprintf(&b, "**When:** %s (%s)  \n", r.Time().Format(time.DateTime), format.RelativeTime(r.Time()))
	fmt.Fprintf(&b, "**Total:** %d files, %s  \n", r.FileCount(), format.SizeDefault(r.TotalSize))
	fmt.Fprintf(&b, "**ID:** `%s`\n", r.ID)

	if r.Error != "" {
		fmt.Fprintf(&b, "\n> %s\n", r.Error)
	}

	if len(r.Files) > 0 {
		b.WriteString("\n## Files\n\n| Name | Size |\n|---|---:|\n")
		for _, f := range r.Files {
			name := strings.ReplaceAll(f.Name, "|", `\|`)
			fmt.Fprintf(&b, "| %s | %s |\n", name, format.SizeDefault(f.Size))
		}
	}
	return b.String()
}

// renderMarkdown renders md for the terminal, matching the light or dark
// variant of the current theme. Rendering errors fall back to the source.
func renderMarkdown(md, themeName string, width int) string {
	style := styles.DarkStyle
	if strings.HasSuffix(themeName, "-light") {
		style = styles.LightStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
