package prefs

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestValidate_KeepsValidValue(t *testing.T) {
	s := NewMemoryStore(map[string]string{KeyTheme: "light"})
	rule, _ := RuleFor(KeyTheme)

	var buf bytes.Buffer
	value, reset, err := Validate(s, rule, testLogger(&buf))
	require.NoError(t, err)

	assert.Equal(t, "light", value)
	assert.False(t, reset)
	assert.Empty(t, buf.String())
}

func TestValidate_ResetsMissingEmptyAndUnknown(t *testing.T) {
	tests := []struct {
		name    string
		initial map[string]string
		key     Key
		want    string
	}{
		{"missing theme", nil, KeyTheme, "dark"},
		{"empty theme", map[string]string{KeyTheme: ""}, KeyTheme, "dark"},
		{"unknown theme", map[string]string{KeyTheme: "sepia"}, KeyTheme, "dark"},
		{"unknown colorscheme", map[string]string{KeyColorScheme: "nord"}, KeyColorScheme, "gruvbox"},
		{"sfx wrong case", map[string]string{KeySfxEnabled: "TRUE"}, KeySfxEnabled, "false"},
		{"sfx missing", nil, KeySfxEnabled, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore(tt.initial)
			rule, ok := RuleFor(tt.key)
			require.True(t, ok)

			var buf bytes.Buffer
			value, reset, err := Validate(s, rule, testLogger(&buf))
			require.NoError(t, err)

			assert.True(t, reset)
			assert.Equal(t, tt.want, value)
			stored, _ := s.Get(tt.key)
			assert.Equal(t, tt.want, stored)
			assert.Contains(t, buf.String(), "Invalid "+tt.key+" value")
			assert.Contains(t, buf.String(), "level=WARN")
		})
	}
}

func TestValidate_AlwaysYieldsAllowedValue(t *testing.T) {
	inputs := []string{"", "dark", "light", "system", "DARK", " dark", "gruvbox", "true", "\x00"}

	for _, rule := range DefaultRules() {
		for _, in := range inputs {
			s := NewMemoryStore(map[string]string{rule.Key: in})
			value, _, err := Validate(s, rule, slog.New(slog.DiscardHandler))
			require.NoError(t, err)
			assert.Contains(t, rule.Valid, value, "rule %s input %q", rule.Key, in)
		}
	}
}

type failingStore struct{ *MemoryStore }

func (f failingStore) Set(Key, string) error { return errors.New("disk full") }

func TestValidate_StoreErrorStillReturnsDefault(t *testing.T) {
	s := failingStore{NewMemoryStore(nil)}
	rule, _ := RuleFor(KeyColorScheme)

	value, reset, err := Validate(s, rule, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
	assert.True(t, reset)
	assert.Equal(t, "gruvbox", value)
}

func TestValidateAll(t *testing.T) {
	s := NewMemoryStore(map[string]string{
		KeyTheme:       "system",
		KeyColorScheme: "bogus",
	})

	reset, err := ValidateAll(s, DefaultRules(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	assert.ElementsMatch(t, []Key{KeyColorScheme, KeySfxEnabled}, reset)
	assert.Equal(t, map[string]string{
		KeyTheme:       "system",
		KeyColorScheme: "gruvbox",
		KeySfxEnabled:  "false",
	}, s.All())
}

func TestSetValidated(t *testing.T) {
	s := NewMemoryStore(nil)

	require.NoError(t, SetValidated(s, KeyColorScheme, "solarized"))
	v, _ := s.Get(KeyColorScheme)
	assert.Equal(t, "solarized", v)

	err := SetValidated(s, KeyColorScheme, "nord")
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = SetValidated(s, "volume", "11")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSfxEnabled(t *testing.T) {
	s := NewMemoryStore(nil)
	assert.False(t, SfxEnabled(s))

	s.Set(KeySfxEnabled, "true")
	assert.True(t, SfxEnabled(s))

	s.Set(KeySfxEnabled, "yes")
	assert.False(t, SfxEnabled(s))
}

func TestCycle(t *testing.T) {
	s := NewMemoryStore(map[string]string{KeyTheme: "light"})

	next, err := Cycle(s, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", next)

	next, _ = Cycle(s, KeyTheme)
	assert.Equal(t, "system", next)

	next, _ = Cycle(s, KeyTheme)
	assert.Equal(t, "light", next)

	s.Set(KeyColorScheme, "weird")
	next, _ = Cycle(s, KeyColorScheme)
	assert.Equal(t, "gruvbox", next)

	_, err = Cycle(s, "nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestGetOr(t *testing.T) {
	s := NewMemoryStore(map[string]string{KeyTheme: ""})
	assert.Equal(t, "", GetOr(s, KeyTheme, "dark"), "present-but-empty is returned as is")
	assert.Equal(t, "gruvbox", GetOr(s, KeyColorScheme, "gruvbox"))
}

func TestValidate_SystemThemeIsKept(t *testing.T) {
	s := NewMemoryStore(map[string]string{KeyTheme: "system"})
	rule, ok := RuleFor(KeyTheme)
	require.True(t, ok)

	v, reset, err := Validate(s, rule, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, "system", v)

	stored, _ := s.Get(KeyTheme)
	assert.Equal(t, "system", stored)
}
