// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppName is used for XDG directory names.
const AppName = "localdrop"

// Default configuration values.
const (
	DefaultVolume            = 100
	DefaultPopSound          = "sfx/pop.mp3"
	DefaultSuccessSound      = "sfx/success.mp3"
	DefaultAppearance        = "auto"
	DefaultStaleAfter        = Duration(30 * time.Second)
	DefaultNotifyMinGap      = Duration(5 * time.Second)
	DefaultNotifyTimeout     = Duration(5 * time.Second)
	DefaultHistoryMaxEntries = 500
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the localdrop configuration.
// Loaded from ~/.config/localdrop/config.toml
type Config struct {
	Audio   AudioConfig   `toml:"audio"`
	Theme   ThemeConfig   `toml:"theme"`
	Devices DevicesConfig `toml:"devices"`
	Notify  NotifyConfig  `toml:"notify"`
	History HistoryConfig `toml:"history"`
	TUI     TUIConfig     `toml:"tui"`
}

// AudioConfig contains sound effect settings.
// Whether sounds play at all is a persisted preference, not a config value.
type AudioConfig struct {
	Volume int         `toml:"volume"` // 0-100
	Sounds SoundConfig `toml:"sounds"`
}

// SoundConfig contains the sound effect file paths.
// Relative paths are resolved against the data directory.
type SoundConfig struct {
	Pop     string `toml:"pop"`
	Success string `toml:"success"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	// Appearance overrides the platform dark/light probe used by the
	// "system" theme: "auto", "dark" or "light".
	Appearance string `toml:"appearance"`
}

// DevicesConfig contains device list settings.
type DevicesConfig struct {
	StaleAfter Duration `toml:"stale_after"` // 0 = never prune
}

// NotifyConfig contains desktop notification settings.
type NotifyConfig struct {
	Enabled bool     `toml:"enabled"`
	MinGap  Duration `toml:"min_gap"`
	Timeout Duration `toml:"timeout"`
}

// HistoryConfig contains transfer history settings.
type HistoryConfig struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries"` // 0 = unlimited
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp     bool `toml:"show_help"`
	ShowPreviews bool `toml:"show_previews"`

	// ClipboardCommand overrides clipboard detection, e.g. "wl-copy".
	ClipboardCommand string `toml:"clipboard_command"`
}

// ValidAppearances lists accepted values for ThemeConfig.Appearance.
var ValidAppearances = []string{"auto", "dark", "light"}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			Volume: DefaultVolume,
			Sounds: SoundConfig{
				Pop:     DefaultPopSound,
				Success: DefaultSuccessSound,
			},
		},
		Theme: ThemeConfig{
			Appearance: DefaultAppearance,
		},
		Devices: DevicesConfig{
			StaleAfter: DefaultStaleAfter,
		},
		Notify: NotifyConfig{
			Enabled: true,
			MinGap:  DefaultNotifyMinGap,
			Timeout: DefaultNotifyTimeout,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: DefaultHistoryMaxEntries,
		},
		TUI: TUIConfig{
			ShowHelp:     true,
			ShowPreviews: false,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.toml")
}

// ConfigDir returns the directory holding the config file.
func ConfigDir() string {
	path := ConfigPath()
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// PreferencesPath returns the path to the persisted preferences file.
func PreferencesPath() string {
	return filepath.Join(DataPath(), "preferences.json")
}

// HistoryPath returns the path to the transfer history log.
func HistoryPath() string {
	return filepath.Join(DataPath(), "history.jsonl")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges that TOML decoding cannot enforce.
func (c *Config) Validate() error {
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("audio.volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	valid := false
	for _, a := range ValidAppearances {
		if c.Theme.Appearance == a {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("theme.appearance must be one of %v, got %q", ValidAppearances, c.Theme.Appearance)
	}

	if c.Devices.StaleAfter < 0 {
		return errors.New("devices.stale_after must not be negative")
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	return nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SoundPath resolves a configured sound path.
// "~" expands to the home directory and relative paths are
// resolved against the data directory.
func SoundPath(path string) string {
	if path == "" {
		return ""
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(DataPath(), path)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}
