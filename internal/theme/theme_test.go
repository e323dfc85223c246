package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localdrop/localdrop/internal/prefs"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		mode        Mode
		scheme      ColorScheme
		prefersDark bool
		expected    string
	}{
		{ModeDark, SchemeGruvbox, false, "gruvbox-dark"},
		{ModeLight, SchemeGruvbox, true, "gruvbox-light"},
		{ModeDark, SchemeSolarized, false, "solarized-dark"},
		{ModeLight, SchemeSolarized, false, "solarized-light"},
		{ModeSystem, SchemeGruvbox, true, "gruvbox-dark"},
		{ModeSystem, SchemeGruvbox, false, "gruvbox-light"},
		{ModeSystem, SchemeSolarized, true, "solarized-dark"},
		{"", "", false, "gruvbox-dark"},
		{"", SchemeSolarized, false, "solarized-dark"},
		{ModeLight, "", false, "gruvbox-light"},
		{"sepia", "monokai", false, "gruvbox-dark"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+string(tt.scheme), func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.mode, tt.scheme, tt.prefersDark))
		})
	}
}

func TestResolve_AlwaysNamesABundledPalette(t *testing.T) {
	bundled := ListEmbeddedPalettes()
	for _, m := range Modes {
		for _, s := range Schemes {
			for _, dark := range []bool{true, false} {
				assert.Contains(t, bundled, Resolve(m, s, dark))
			}
		}
	}
}

type countingAppearance struct {
	dark  bool
	err   error
	calls int
}

func (c *countingAppearance) PrefersDark(context.Context) (bool, error) {
	c.calls++
	return c.dark, c.err
}

func TestApplier_SetsExactlyOneAttribute(t *testing.T) {
	store := prefs.NewMemoryStore(map[string]string{
		prefs.KeyTheme:       "light",
		prefs.KeyColorScheme: "solarized",
	})
	doc := NewDocument()
	app := &countingAppearance{dark: true}

	got := NewApplier(store, app, doc, nil).Apply(context.Background())

	assert.Equal(t, "solarized-light", got)
	assert.Equal(t, map[string]string{AttributeName: "solarized-light"}, doc.Attributes())
	assert.Zero(t, app.calls, "appearance is only consulted in system mode")
}

func TestApplier_Defaults(t *testing.T) {
	doc := NewDocument()
	a := NewApplier(prefs.NewMemoryStore(nil), nil, doc, nil)

	assert.Empty(t, a.Current())
	assert.Equal(t, "gruvbox-dark", a.Apply(context.Background()))
	assert.Equal(t, "gruvbox-dark", a.Current())

	v, ok := doc.Attribute(AttributeName)
	require.True(t, ok)
	assert.Equal(t, "gruvbox-dark", v)
}

func TestApplier_SystemMode(t *testing.T) {
	store := prefs.NewMemoryStore(map[string]string{prefs.KeyTheme: "system"})

	t.Run("prefers light", func(t *testing.T) {
		app := &countingAppearance{dark: false}
		got := NewApplier(store, app, NewDocument(), nil).Apply(context.Background())
		assert.Equal(t, "gruvbox-light", got)
		assert.Equal(t, 1, app.calls)
	})

	t.Run("prefers dark", func(t *testing.T) {
		got := NewApplier(store, StaticAppearance(true), NewDocument(), nil).Apply(context.Background())
		assert.Equal(t, "gruvbox-dark", got)
	})

	t.Run("probe failure falls back to dark", func(t *testing.T) {
		app := &countingAppearance{dark: false, err: errors.New("no portal")}
		got := NewApplier(store, app, NewDocument(), nil).Apply(context.Background())
		assert.Equal(t, "gruvbox-dark", got)
	})
}

func TestApplier_ReappliesAfterPreferenceChange(t *testing.T) {
	store := prefs.NewMemoryStore(nil)
	doc := NewDocument()

	var seen []string
	doc.OnChange(func(name, value string) {
		assert.Equal(t, AttributeName, name)
		seen = append(seen, value)
	})

	a := NewApplier(store, nil, doc, nil)
	a.Apply(context.Background())
	require.NoError(t, store.Set(prefs.KeyColorScheme, "solarized"))
	a.Apply(context.Background())

	assert.Equal(t, []string{"gruvbox-dark", "solarized-dark"}, seen)
	assert.Len(t, doc.Attributes(), 1)
}

type fakeCaller struct {
	body []any
	err  error
}

func (f *fakeCaller) Call(context.Context, string, dbus.ObjectPath, string, ...any) ([]any, error) {
	return f.body, f.err
}

func TestPortalAppearance(t *testing.T) {
	dark, err := NewPortalAppearance(&fakeCaller{body: []any{dbus.MakeVariant(dbus.MakeVariant(uint32(1)))}}).
		PrefersDark(context.Background())
	require.NoError(t, err)
	assert.True(t, dark)

	dark, err = NewPortalAppearance(&fakeCaller{body: []any{dbus.MakeVariant(uint32(0))}}).
		PrefersDark(context.Background())
	require.NoError(t, err)
	assert.False(t, dark, "no preference counts as light")

	_, err = NewPortalAppearance(&fakeCaller{err: errors.New("ServiceUnknown")}).
		PrefersDark(context.Background())
	assert.Error(t, err)
}

func TestAppearanceFor(t *testing.T) {
	assert.Equal(t, StaticAppearance(true), AppearanceFor("dark", nil))
	assert.Equal(t, StaticAppearance(false), AppearanceFor("light", nil))
	assert.IsType(t, &PortalAppearance{}, AppearanceFor("auto", &fakeCaller{}))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, ModeSystem, ParseMode("system"))
	assert.Equal(t, DefaultMode, ParseMode("bogus"))
	assert.Equal(t, SchemeSolarized, ParseColorScheme("solarized"))
	assert.Equal(t, DefaultScheme, ParseColorScheme(""))
}
