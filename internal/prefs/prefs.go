// Package prefs holds the user's persisted preferences: a flat string
// key-value store that survives restarts, plus allow-list validation that
// resets bad values to their defaults.
package prefs

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Key names a persisted preference.
type Key = string

// Preference keys.
const (
	KeyTheme       Key = "theme"
	KeyColorScheme Key = "colorscheme"
	KeySfxEnabled  Key = "isSfxEnabled"
)

// Default preference values.
const (
	DefaultTheme       = "dark"
	DefaultColorScheme = "gruvbox"
	DefaultSfxEnabled  = "false"
)

// Errors returned by stores and validation helpers.
var (
	ErrStoreClosed  = errors.New("preference store is closed")
	ErrUnknownKey   = errors.New("unknown preference key")
	ErrInvalidValue = errors.New("invalid preference value")
)

// Store is a flat string key-value store.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key Key) (string, bool)

	// Set stores a value, persisting it if the store is durable.
	Set(key Key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key Key) error

	// All returns a copy of every stored pair.
	All() map[string]string
}

// Rule is the allow-list and fallback for one key.
type Rule struct {
	Key     Key
	Valid   []string
	Default string
}

// Allows reports whether value is in the rule's allow-list.
func (r Rule) Allows(value string) bool {
	return value != "" && slices.Contains(r.Valid, value)
}

// DefaultRules returns the validation rules for every known preference.
func DefaultRules() []Rule {
	return []Rule{
		{Key: KeyTheme, Valid: []string{"light", "dark", "system"}, Default: DefaultTheme},
		{Key: KeyColorScheme, Valid: []string{"gruvbox", "solarized"}, Default: DefaultColorScheme},
		{Key: KeySfxEnabled, Valid: []string{"true", "false"}, Default: DefaultSfxEnabled},
	}
}

// RuleFor returns the default rule for key.
func RuleFor(key Key) (Rule, bool) {
	for _, r := range DefaultRules() {
		if r.Key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate checks the stored value for rule.Key against rule.Valid.
// A missing, empty or unlisted value is replaced with rule.Default and
// a warning is logged. It returns the effective value and whether a
// reset happened. The store error, if any, is returned alongside the
// default so callers can still proceed with a valid value.
func Validate(store Store, rule Rule, logger *slog.Logger) (string, bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	value, _ := store.Get(rule.Key)
	if rule.Allows(value) {
		return value, false, nil
	}

	logger.Warn(fmt.Sprintf("Invalid %s value. Reset to %q.", rule.Key, rule.Default),
		"key", rule.Key, "value", value, "default", rule.Default)

	if err := store.Set(rule.Key, rule.Default); err != nil {
		return rule.Default, true, fmt.Errorf("reset %s: %w", rule.Key, err)
	}
	return rule.Default, true, nil
}

// ValidateAll runs Validate for every rule and returns the keys that were reset.
// All rules are attempted even if one fails to persist.
func ValidateAll(store Store, rules []Rule, logger *slog.Logger) ([]Key, error) {
	var reset []Key
	var errs []error

	for _, rule := range rules {
		_, changed, err := Validate(store, rule, logger)
		if changed {
			reset = append(reset, rule.Key)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	return reset, errors.Join(errs...)
}

// SetValidated stores value for a known key after checking it against
// the default rules.
func SetValidated(store Store, key Key, value string) error {
	rule, ok := RuleFor(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if !rule.Allows(value) {
		return fmt.Errorf("%w: %s=%q (valid: %v)", ErrInvalidValue, key, value, rule.Valid)
	}
	return store.Set(key, value)
}

// GetOr returns the stored value or def when the key is absent.
func GetOr(store Store, key Key, def string) string {
	if v, ok := store.Get(key); ok {
		return v
	}
	return def
}

// SfxEnabled reports whether sound effects are switched on.
// Only the exact string "true" enables them.
func SfxEnabled(store Store) bool {
	return GetOr(store, KeySfxEnabled, DefaultSfxEnabled) == "true"
}

// Cycle advances key to the next value in its rule's allow-list,
// wrapping around. Unknown or invalid current values move to the first entry.
func Cycle(store Store, key Key) (string, error) {
	rule, ok := RuleFor(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	current, _ := store.Get(key)
	next := rule.Valid[0]
	if i := slices.Index(rule.Valid, current); i >= 0 {
		next = rule.Valid[(i+1)%len(rule.Valid)]
	}

	if err := store.Set(key, next); err != nil {
		return current, err
	}
	return next, nil
}
