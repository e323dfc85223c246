package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/dbus"
	"github.com/localdrop/localdrop/internal/theme"
)

var themeOpts struct {
	mode        string
	scheme      string
	prefersDark bool
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Resolve themes and inspect palettes",
}

var themeResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the theme attribute for the current preferences",
	Long: `Print the "<colorscheme>-<mode>" value applied to the UI.

Without flags the stored preferences are used and, in system mode, the
desktop's dark/light setting is asked over D-Bus. With --mode or --scheme
the value is computed offline.

Examples:
  localdrop theme resolve
  localdrop theme resolve --mode system --scheme solarized --prefers-dark=false`,
	RunE: runThemeResolve,
}

var themePaletteCmd = &cobra.Command{
	Use:   "palette [name]",
	Short: "Print a palette as TOML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runThemePalette,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available palettes",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range theme.NewLoader(theme.PalettesDir(), logger).List() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeResolveCmd, themePaletteCmd, themeListCmd)

	themeResolveCmd.Flags().StringVar(&themeOpts.mode, "mode", "",
		"Theme mode (light, dark, system)")
	themeResolveCmd.Flags().StringVar(&themeOpts.scheme, "scheme", "",
		"Colorscheme (gruvbox, solarized)")
	themeResolveCmd.Flags().BoolVar(&themeOpts.prefersDark, "prefers-dark", true,
		"Platform preference used for system mode with --mode")
}

func runThemeResolve(cmd *cobra.Command, args []string) error {
	if themeOpts.mode != "" || themeOpts.scheme != "" {
		fmt.Println(theme.Resolve(theme.Mode(themeOpts.mode), theme.ColorScheme(themeOpts.scheme), themeOpts.prefersDark))
		return nil
	}

	store, err := openPrefs()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	bus := dbus.NewSession()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	doc := theme.NewDocument()
	applier := theme.NewApplier(store, theme.AppearanceFor(cfg.Theme.Appearance, bus), doc, logger)
	fmt.Println(applier.Apply(ctx))
	return nil
}

func runThemePalette(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		name = theme.NewApplier(store, theme.StaticAppearance(true), theme.NewDocument(), logger).
			Apply(context.Background())
	}

	p := theme.NewLoader(theme.PalettesDir(), logger).Load(name)
	data, err := toml.Marshal(p)
	if err != nil {
		return err
	}
	if p.Path != "" {
		fmt.Fprintf(os.Stdout, "# %s\n", p.Path)
	}
	_, err = os.Stdout.Write(data)
	return err
}
