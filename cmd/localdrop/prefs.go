package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and change persisted preferences",
	Long: `Read and change the persisted preferences.

Known keys:
  theme          light, dark, system
  colorscheme    gruvbox, solarized
  isSfxEnabled   true, false`,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a preference value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		v, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", prefs.ErrUnknownKey, args[0])
		}
		fmt.Println(v)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference, rejecting values outside its allow-list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		return prefs.SetValidated(store, args[0], args[1])
	},
}

var prefsCycleCmd = &cobra.Command{
	Use:   "cycle <key>",
	Short: "Advance a preference to its next allowed value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		v, err := prefs.Cycle(store, args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var prefsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Reset missing or invalid preferences to their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefs.OpenFileStore(prefsPath(), logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		reset, err := prefs.ValidateAll(store, prefs.DefaultRules(), logger)
		for _, k := range reset {
			v, _ := store.Get(k)
			fmt.Fprintf(os.Stdout, "reset %s to %s\n", k, v)
		}
		return err
	},
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every preference and its allowed values",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		all := store.All()
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			line := fmt.Sprintf("%s=%s", k, all[k])
			if rule, ok := prefs.RuleFor(k); ok {
				line += fmt.Sprintf("  (%s; default %s)", strings.Join(rule.Valid, ", "), rule.Default)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd, prefsCycleCmd, prefsValidateCmd, prefsListCmd)
}
