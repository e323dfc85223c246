package theme

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmbeddedPalettes(t *testing.T) {
	names := ListEmbeddedPalettes()
	assert.ElementsMatch(t, []string{
		"gruvbox-dark", "gruvbox-light", "solarized-dark", "solarized-light",
	}, names)
}

func TestBundledPalettes_Valid(t *testing.T) {
	for _, name := range ListEmbeddedPalettes() {
		t.Run(name, func(t *testing.T) {
			data, ok := GetEmbeddedPalette(name)
			require.True(t, ok)
			p, err := ParsePalette(data)
			require.NoError(t, err)
			assert.Equal(t, name, p.Name)
		})
	}
}

func TestPaletteFor(t *testing.T) {
	p := PaletteFor("solarized-light")
	assert.Equal(t, "solarized-light", p.Name)
	assert.Equal(t, "#fdf6e3", p.Background)
	assert.True(t, p.IsBundled())

	fallback := PaletteFor("nonexistent")
	assert.Equal(t, DefaultPaletteName, fallback.Name)
	assert.Equal(t, "#282828", fallback.Background)
}

func TestParsePalette_InvalidColor(t *testing.T) {
	_, err := ParsePalette([]byte(`background = "red"`))
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = ParsePalette([]byte(`background = [`))
	assert.Error(t, err)
}

const customPalette = `
background = "#000000"
surface = "#111111"
foreground = "#ffffff"
muted = "#888888"
accent = "#ff00ff"
success = "#00ff00"
warning = "#ffff00"
error = "#ff0000"
border = "#222222"
`

func TestLoader_UserOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gruvbox-dark.toml"), []byte(customPalette), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.toml"), []byte(customPalette), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	l := NewLoader(dir, nil)

	p := l.Load("gruvbox-dark")
	assert.Equal(t, "#000000", p.Background)
	assert.False(t, p.IsBundled())
	assert.Same(t, p, l.Current())

	p = l.Load("solarized-dark")
	assert.Equal(t, "#002b36", p.Background)

	assert.Equal(t, []string{
		"gruvbox-dark", "gruvbox-light", "mine", "solarized-dark", "solarized-light",
	}, l.List())
}

func TestLoader_BadUserPaletteFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gruvbox-light.toml"), []byte(`accent = "nope"`), 0644))

	p := NewLoader(dir, nil).Load("gruvbox-light")
	assert.True(t, p.IsBundled())
	assert.Equal(t, "#fbf1c7", p.Background)
}

func TestLoader_CurrentDefaultsAndCallback(t *testing.T) {
	l := NewLoader("", nil)

	var got []string
	l.SetChangeCallback(func(p *Palette) { got = append(got, p.Name) })

	assert.Equal(t, DefaultPaletteName, l.Current().Name)
	l.Load("solarized-dark")
	assert.Equal(t, []string{DefaultPaletteName, "solarized-dark"}, got)
}

func TestWatcher_DetectsEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.toml")
	require.NoError(t, os.WriteFile(path, []byte(customPalette), 0644))

	p, err := LoadPaletteFile(path)
	require.NoError(t, err)

	w := NewWatcher(p, nil)
	w.SetPollInterval(10 * time.Millisecond)

	var mu sync.Mutex
	var reloaded *Palette
	w.SetChangeCallback(func(p *Palette) {
		mu.Lock()
		reloaded = p
		mu.Unlock()
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	edited := []byte(`
background = "#101010"
surface = "#111111"
foreground = "#ffffff"
muted = "#888888"
accent = "#ff00ff"
success = "#00ff00"
warning = "#ffff00"
error = "#ff0000"
border = "#222222"
`)
	require.NoError(t, os.WriteFile(path, edited, 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloaded != nil && reloaded.Background == "#101010"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "#000000", p.Background, "the original palette is not mutated")
}

func TestWatcher_IgnoresBundled(t *testing.T) {
	w := NewWatcher(PaletteFor("gruvbox-dark"), nil)
	called := false
	w.SetChangeCallback(func(*Palette) { called = true })
	w.checkForChanges()
	assert.False(t, called)

	w.Stop()
	assert.False(t, w.IsRunning())
}
