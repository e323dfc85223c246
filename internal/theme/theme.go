package theme

import (
	"context"
	"maps"
	"sync"
)

// AttributeName is the document-root attribute that carries the resolved theme.
const AttributeName = "data-theme"

// Mode is the light/dark preference.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// DefaultMode is used when no mode has been stored.
const DefaultMode = ModeDark

// ColorScheme is the palette family.
type ColorScheme string

const (
	SchemeGruvbox   ColorScheme = "gruvbox"
	SchemeSolarized ColorScheme = "solarized"
)

// DefaultScheme is used when no colorscheme has been stored.
const DefaultScheme = SchemeGruvbox

// Modes lists the accepted modes in cycle order.
var Modes = []Mode{ModeLight, ModeDark, ModeSystem}

// Schemes lists the accepted colour schemes.
var Schemes = []ColorScheme{SchemeGruvbox, SchemeSolarized}

// ParseMode returns the Mode for s, or DefaultMode if s is not a known mode.
func ParseMode(s string) Mode {
	switch m := Mode(s); m {
	case ModeLight, ModeDark, ModeSystem:
		return m
	default:
		return DefaultMode
	}
}

// ParseColorScheme returns the ColorScheme for s, or DefaultScheme if unknown.
func ParseColorScheme(s string) ColorScheme {
	switch c := ColorScheme(s); c {
	case SchemeGruvbox, SchemeSolarized:
		return c
	default:
		return DefaultScheme
	}
}

// Resolve derives the attribute value "<scheme>-<mode>".
// System mode becomes dark or light according to prefersDark; prefersDark is
// ignored for the other modes.
func Resolve(mode Mode, scheme ColorScheme, prefersDark bool) string {
	mode = ParseMode(string(mode))
	scheme = ParseColorScheme(string(scheme))

	if mode == ModeSystem {
		if prefersDark {
			mode = ModeDark
		} else {
			mode = ModeLight
		}
	}
	return string(scheme) + "-" + string(mode)
}

// Appearance answers the platform "prefers dark colour scheme" question.
type Appearance interface {
	PrefersDark(ctx context.Context) (bool, error)
}

// StaticAppearance always gives the same answer.
type StaticAppearance bool

// PrefersDark implements Appearance.
func (s StaticAppearance) PrefersDark(context.Context) (bool, error) {
	return bool(s), nil
}

// Target receives the resolved theme attribute.
type Target interface {
	SetAttribute(name, value string)
}

// Document is an in-memory Target standing in for the front end's root
// element. Listeners fire after every SetAttribute.
type Document struct {
	mu        sync.RWMutex
	attrs     map[string]string
	listeners []func(name, value string)
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{attrs: make(map[string]string)}
}

// SetAttribute implements Target.
func (d *Document) SetAttribute(name, value string) {
	d.mu.Lock()
	d.attrs[name] = value
	listeners := d.listeners
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(name, value)
	}
}

// Attribute returns the value of name and whether it is set.
func (d *Document) Attribute(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.attrs[name]
	return v, ok
}

// Attributes returns a copy of every attribute.
func (d *Document) Attributes() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.attrs)
}

// OnChange registers fn to run after each attribute write.
func (d *Document) OnChange(fn func(name, value string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}
