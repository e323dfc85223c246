package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedPalettes contains the bundled palette files.
//
//go:embed palettes/*.toml
var EmbeddedPalettes embed.FS

// DefaultPaletteName is the palette used when a name cannot be found.
const DefaultPaletteName = "gruvbox-dark"

// GetEmbeddedPalette returns the raw TOML for a bundled palette.
func GetEmbeddedPalette(name string) ([]byte, bool) {
	data, err := EmbeddedPalettes.ReadFile("palettes/" + name + ".toml")
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListEmbeddedPalettes returns the names of all bundled palettes.
func ListEmbeddedPalettes() []string {
	entries, err := fs.ReadDir(EmbeddedPalettes, "palettes")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".toml" {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}
	return names
}

// PaletteFor returns the bundled palette for a resolved theme name,
// falling back to DefaultPaletteName.
func PaletteFor(name string) *Palette {
	if data, ok := GetEmbeddedPalette(name); ok {
		if p, err := ParsePalette(data); err == nil {
			p.Name = name
			return p
		}
	}

	data, _ := GetEmbeddedPalette(DefaultPaletteName)
	p, err := ParsePalette(data)
	if err != nil {
		// The bundled default is compiled in and covered by tests.
		panic("theme: invalid default palette: " + err.Error())
	}
	p.Name = DefaultPaletteName
	return p
}
