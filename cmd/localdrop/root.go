// Package main provides the CLI entrypoint for localdrop.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/adapter/output"
	"github.com/localdrop/localdrop/internal/config"
	"github.com/localdrop/localdrop/internal/prefs"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose     bool
		configPath  string
		prefsFile   string
		historyFile string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "localdrop",
	Short: "Peer-to-peer file transfer on the local network",
	Long: `localdrop sends files to devices on the same local network.

The client shows discovered devices, lets you pick files and offer them to
a peer, answers incoming transfer requests and tracks progress. Discovery
and the transfer itself are handled by a backend that exchanges
newline-delimited JSON events and commands with the client.

Running localdrop without a subcommand launches the interactive TUI.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := config.EnsureDataDir(); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/localdrop/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.prefsFile, "prefs-file", "",
		"Path to preferences file (default: ~/.local/share/localdrop/preferences.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.historyFile, "history-file", "",
		"Path to history file (default: ~/.local/share/localdrop/history.jsonl)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output and commands
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func prefsPath() string {
	if globalOpts.prefsFile != "" {
		return globalOpts.prefsFile
	}
	return config.PreferencesPath()
}

func historyPath() string {
	if globalOpts.historyFile != "" {
		return globalOpts.historyFile
	}
	return config.HistoryPath()
}

// openPrefs opens the preference file and resets invalid values.
func openPrefs() (*prefs.FileStore, error) {
	store, err := prefs.OpenFileStore(prefsPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	if _, err := prefs.ValidateAll(store, prefs.DefaultRules(), logger); err != nil {
		logger.Warn("failed to persist preference defaults", "error", err)
	}
	return store, nil
}

// parseFormat maps a --format value to a formatter type.
func parseFormat(s string) (output.FormatType, error) {
	for _, f := range output.FormatTypes {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (valid: %v)", s, output.FormatTypes)
}
