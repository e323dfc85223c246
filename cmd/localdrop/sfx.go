package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/localdrop/localdrop/internal/audio"
	"github.com/localdrop/localdrop/internal/prefs"
)

var sfxOpts struct {
	force bool
	wait  time.Duration
}

var sfxCmd = &cobra.Command{
	Use:   "sfx",
	Short: "Sound effects",
}

var sfxPlayCmd = &cobra.Command{
	Use:   "play <pop|success>",
	Short: "Play a sound effect",
	Long: `Play one of the two sound effects.

Nothing is played while the isSfxEnabled preference is off unless --force
is given. Unknown names fall back to pop.`,
	Args: cobra.ExactArgs(1),
	RunE: runSfxPlay,
}

func init() {
	rootCmd.AddCommand(sfxCmd)
	sfxCmd.AddCommand(sfxPlayCmd)

	sfxPlayCmd.Flags().BoolVar(&sfxOpts.force, "force", false,
		"Play even when sound effects are disabled")
	sfxPlayCmd.Flags().DurationVar(&sfxOpts.wait, "wait", 2*time.Second,
		"Longest time to wait for the sound to finish")
}

func runSfxPlay(cmd *cobra.Command, args []string) error {
	var store prefs.Store
	if sfxOpts.force {
		store = prefs.NewMemoryStore(map[string]string{prefs.KeySfxEnabled: "true"})
	} else {
		fs, err := openPrefs()
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close() }()
		store = fs
	}

	sfx := audio.NewSfx(cfg.Audio, store, logger)
	if err := sfx.Start(context.Background()); err != nil {
		logger.Debug("sound preload failed", "error", err)
	}
	defer sfx.Stop()

	if !sfx.Enabled() {
		fmt.Println("sound effects are disabled (use --force)")
		return nil
	}

	sound := audio.ParseSound(args[0])
	logger.Debug("playing sound", "sound", sound, "path", sfx.Path(sound))

	ctx, cancel := context.WithTimeout(cmd.Context(), sfxOpts.wait)
	defer cancel()
	err := sfx.PlayAndWait(ctx, string(sound))
	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
