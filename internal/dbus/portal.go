package dbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	// PortalDest is the desktop portal bus name.
	PortalDest = "org.freedesktop.portal.Desktop"
	// PortalPath is the desktop portal object path.
	PortalPath = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	// SettingsRead is the portal settings read method.
	SettingsRead = "org.freedesktop.portal.Settings.Read"

	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"
)

// ColorSchemePreference is the portal's org.freedesktop.appearance color-scheme value.
type ColorSchemePreference uint32

const (
	PreferenceNone  ColorSchemePreference = 0
	PreferenceDark  ColorSchemePreference = 1
	PreferenceLight ColorSchemePreference = 2
)

// String returns the string representation of the preference.
func (p ColorSchemePreference) String() string {
	switch p {
	case PreferenceNone:
		return "default"
	case PreferenceDark:
		return "prefer-dark"
	case PreferenceLight:
		return "prefer-light"
	default:
		return "unknown"
	}
}

// ErrUnexpectedReply is returned when a reply body has the wrong shape.
var ErrUnexpectedReply = errors.New("unexpected D-Bus reply")

// ReadColorScheme asks the settings portal for the user's color-scheme preference.
func ReadColorScheme(ctx context.Context, c Caller) (ColorSchemePreference, error) {
	body, err := c.Call(ctx, PortalDest, PortalPath, SettingsRead, appearanceNamespace, colorSchemeKey)
	if err != nil {
		return PreferenceNone, err
	}
	if len(body) == 0 {
		return PreferenceNone, fmt.Errorf("%w: empty body", ErrUnexpectedReply)
	}

	switch v := unwrapVariant(body[0]).(type) {
	case uint32:
		return ColorSchemePreference(v), nil
	case int32:
		return ColorSchemePreference(v), nil
	default:
		return PreferenceNone, fmt.Errorf("%w: color-scheme has type %T", ErrUnexpectedReply, v)
	}
}
