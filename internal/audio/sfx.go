package audio

import (
	"context"
	"log/slog"
	"sync"

	"github.com/localdrop/localdrop/internal/config"
	"github.com/localdrop/localdrop/internal/prefs"
)

// Sound names a sound effect.
type Sound string

const (
	SoundPop     Sound = "pop"
	SoundSuccess Sound = "success"
)

// ParseSound maps a name to a Sound. Unknown names play the pop sound.
func ParseSound(name string) Sound {
	if Sound(name) == SoundSuccess {
		return SoundSuccess
	}
	return SoundPop
}

// Output is what Sfx plays through. *Player implements it.
type Output interface {
	Supports(path string) bool
	Play(path string) error
}

// Sfx plays sound effects when the user has enabled them.
type Sfx struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	store   prefs.Store
	output  Output
	player  *Player // nil when output is not a *Player
	watcher *Watcher
	sounds  map[Sound]string
}

// NewSfx creates a sound effect manager playing through a speaker-backed Player.
func NewSfx(cfg config.AudioConfig, store prefs.Store, logger *slog.Logger) *Sfx {
	player := NewPlayer(logger)
	s := NewSfxWithOutput(soundPaths(cfg), store, player, logger)
	s.applyVolume(cfg.Volume)
	return s
}

// NewSfxWithOutput creates a manager playing through out.
func NewSfxWithOutput(sounds map[Sound]string, store prefs.Store, out Output, logger *slog.Logger) *Sfx {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sfx{
		logger: logger,
		store:  store,
		output: out,
		sounds: sounds,
	}
	if p, ok := out.(*Player); ok {
		s.player = p
		s.watcher = NewWatcher(p.InvalidateCache, logger)
	}
	return s
}

func soundPaths(cfg config.AudioConfig) map[Sound]string {
	return map[Sound]string{
		SoundPop:     config.SoundPath(cfg.Sounds.Pop),
		SoundSuccess: config.SoundPath(cfg.Sounds.Success),
	}
}

func (s *Sfx) applyVolume(volume int) {
	if s.player != nil {
		s.player.SetVolume(float64(volume) / 100.0)
	}
}

// Enabled reports whether the isSfxEnabled preference is "true".
func (s *Sfx) Enabled() bool {
	return prefs.SfxEnabled(s.store)
}

// Path returns the file configured for sound.
func (s *Sfx) Path(sound Sound) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sounds[sound]
}

// Start preloads the sounds and begins watching their files.
// A sound that fails to preload is logged and retried on first play.
func (s *Sfx) Start(ctx context.Context) error {
	s.preload()

	if s.watcher == nil {
		return nil
	}
	return s.watcher.Start(ctx)
}

func (s *Sfx) preload() {
	if s.player == nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for sound, path := range s.sounds {
		if !s.player.Supports(path) {
			s.logger.Debug("sound encoding not supported", "sound", sound, "path", path)
			continue
		}
		if err := s.player.Preload(path); err != nil {
			s.logger.Warn("failed to preload sound", "sound", sound, "path", path, "error", err)
		}
		s.watcher.Watch(path)
	}
}

// Stop stops the watcher and releases the speaker.
func (s *Sfx) Stop() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.player != nil {
		s.player.Close()
	}
	s.logger.Debug("sfx stopped")
}

// waitingOutput is an Output that can block until playback ends.
type waitingOutput interface {
	PlayAndWait(ctx context.Context, path string) error
}

// Play plays the named sound without waiting for it to finish.
// Unknown names play pop. Nothing happens when sound effects are disabled
// or the file's encoding is not supported.
func (s *Sfx) Play(name string) error {
	sound, path, ok := s.playable(name)
	if !ok {
		return nil
	}

	if err := s.output.Play(path); err != nil {
		s.logger.Warn("failed to play sound", "sound", sound, "path", path, "error", err)
		return err
	}
	return nil
}

// PlayAndWait is Play, blocking until the sound ends or ctx is done.
// Outputs that cannot wait return as soon as playback starts.
func (s *Sfx) PlayAndWait(ctx context.Context, name string) error {
	sound, path, ok := s.playable(name)
	if !ok {
		return nil
	}

	w, canWait := s.output.(waitingOutput)
	if !canWait {
		return s.output.Play(path)
	}
	if err := w.PlayAndWait(ctx, path); err != nil {
		s.logger.Debug("sound did not finish", "sound", sound, "path", path, "error", err)
		return err
	}
	return nil
}

// playable resolves name to a path the output can play, if sound effects
// are on.
func (s *Sfx) playable(name string) (Sound, string, bool) {
	sound := ParseSound(name)
	if !s.Enabled() {
		return sound, "", false
	}

	path := s.Path(sound)
	if path == "" || !s.output.Supports(path) {
		s.logger.Debug("skipping sound", "sound", sound, "path", path)
		return sound, path, false
	}
	return sound, path, true
}

// UpdateConfig swaps in new sound paths and volume, used on config hot-reload.
func (s *Sfx) UpdateConfig(cfg config.AudioConfig) {
	s.mu.Lock()
	s.sounds = soundPaths(cfg)
	s.mu.Unlock()

	s.applyVolume(cfg.Volume)
	if s.player != nil {
		s.player.ClearCache()
		s.watcher.Reset()
		s.preload()
	}
	s.logger.Debug("sfx config updated")
}
