package tui

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/localdrop/localdrop/internal/config"
)

var errNoClipboard = errors.New("no clipboard command available")

// clipboardCommands are tried in order. Wayland tools only count when a
// Wayland session is running.
var clipboardCommands = []struct {
	command string
	wayland bool
}{
	{"wl-copy", true},
	{"xclip -selection clipboard", false},
	{"xsel --clipboard --input", false},
	{"pbcopy", false},
}

// copyText pipes text into the clipboard command.
func copyText(text string, cfg *config.Config) error {
	parts := strings.Fields(detectClipboardCommand(cfg))
	if len(parts) == 0 {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// detectClipboardCommand returns the configured clipboard command, or the
// first installed one.
func detectClipboardCommand(cfg *config.Config) string {
	if cfg != nil && cfg.TUI.ClipboardCommand != "" {
		return cfg.TUI.ClipboardCommand
	}

	wayland := os.Getenv("WAYLAND_DISPLAY") != ""
	for _, c := range clipboardCommands {
		if c.wayland && !wayland {
			continue
		}
		name, _, _ := strings.Cut(c.command, " ")
		if _, err := exec.LookPath(name); err == nil {
			return c.command
		}
	}
	return ""
}
