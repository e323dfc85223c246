package theme

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidColor is returned when a palette colour is not #rrggbb.
var ErrInvalidColor = errors.New("invalid palette colour")

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Palette is the colour set for one resolved theme.
type Palette struct {
	Name       string `toml:"name"`
	Background string `toml:"background"`
	Surface    string `toml:"surface"`
	Foreground string `toml:"foreground"`
	Muted      string `toml:"muted"`
	Accent     string `toml:"accent"`
	Success    string `toml:"success"`
	Warning    string `toml:"warning"`
	Error      string `toml:"error"`
	Border     string `toml:"border"`

	Path    string    `toml:"-"` // Empty for bundled palettes
	ModTime time.Time `toml:"-"`
}

// ParsePalette decodes and validates a palette TOML document.
func ParsePalette(data []byte) (*Palette, error) {
	var p Palette
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPaletteFile reads a palette from disk.
func LoadPaletteFile(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	p, err := ParsePalette(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Path = path
	p.ModTime = info.ModTime()
	return p, nil
}

// Validate checks that every colour is a #rrggbb hex string.
func (p *Palette) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"background", p.Background},
		{"surface", p.Surface},
		{"foreground", p.Foreground},
		{"muted", p.Muted},
		{"accent", p.Accent},
		{"success", p.Success},
		{"warning", p.Warning},
		{"error", p.Error},
		{"border", p.Border},
	}
	for _, f := range fields {
		if !hexColorRegex.MatchString(f.value) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidColor, f.name, f.value)
		}
	}
	return nil
}

// IsBundled reports whether the palette came from the embedded set.
func (p *Palette) IsBundled() bool {
	return p.Path == ""
}

// Reload re-reads a user palette if its file is newer than p.
// It returns the fresh palette (p itself when nothing was re-read) and
// whether the colours changed. p is never modified.
func (p *Palette) Reload() (*Palette, bool, error) {
	if p.IsBundled() {
		return p, false, nil
	}

	info, err := os.Stat(p.Path)
	if err != nil {
		return p, false, err
	}
	if !info.ModTime().After(p.ModTime) {
		return p, false, nil
	}

	fresh, err := LoadPaletteFile(p.Path)
	if err != nil {
		return p, false, err
	}
	fresh.Name = p.Name
	return fresh, !fresh.sameColors(p), nil
}

func (p *Palette) sameColors(o *Palette) bool {
	a, b := *p, *o
	a.Path, a.ModTime = "", time.Time{}
	b.Path, b.ModTime = "", time.Time{}
	return a == b
}
