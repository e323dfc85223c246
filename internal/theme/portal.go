package theme

import (
	"context"
	"fmt"
	"time"

	"github.com/localdrop/localdrop/internal/dbus"
)

// PortalAppearance reads the colour-scheme preference from the
// freedesktop settings portal.
type PortalAppearance struct {
	caller  dbus.Caller
	timeout time.Duration
}

// NewPortalAppearance creates a PortalAppearance using caller.
func NewPortalAppearance(caller dbus.Caller) *PortalAppearance {
	return &PortalAppearance{
		caller:  caller,
		timeout: 500 * time.Millisecond,
	}
}

// PrefersDark implements Appearance. "No preference" counts as light.
func (p *PortalAppearance) PrefersDark(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	pref, err := dbus.ReadColorScheme(ctx, p.caller)
	if err != nil {
		return false, fmt.Errorf("read portal color-scheme: %w", err)
	}
	return pref == dbus.PreferenceDark, nil
}

// AppearanceFor maps the config appearance setting to an Appearance.
// "dark" and "light" are fixed; anything else asks the portal.
func AppearanceFor(setting string, caller dbus.Caller) Appearance {
	switch setting {
	case "dark":
		return StaticAppearance(true)
	case "light":
		return StaticAppearance(false)
	default:
		return NewPortalAppearance(caller)
	}
}
