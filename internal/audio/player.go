package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for files with no known decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps lower-case file extensions to beep decoders.
var decoders = map[string]decodeFunc{
	".wav": func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) },
	".ogg": vorbis.Decode,
	".mp3": mp3.Decode,
}

// Player decodes and plays sound files through the system speaker.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	volume      float64 // 0.0 to 1.0
	initialized bool
	sampleRate  beep.SampleRate

	cacheMu sync.RWMutex
	cache   map[string]*beep.Buffer
}

// NewPlayer creates a new audio player.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		cache:      make(map[string]*beep.Buffer),
	}
}

// Supports reports whether path has an encoding the player can decode.
func (p *Player) Supports(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SetVolume sets the playback volume, clamped to 0.0-1.0.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = max(0, min(1, volume))
	p.logger.Debug("volume set", "volume", p.volume)
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play starts playing path and returns without waiting for it to finish.
func (p *Player) Play(path string) error {
	_, err := p.start(path)
	return err
}

// PlayAndWait plays path and blocks until playback ends or ctx is done.
func (p *Player) PlayAndWait(ctx context.Context, path string) error {
	done, err := p.start(path)
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Player) start(path string) (<-chan struct{}, error) {
	buffer, err := p.buffer(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())
	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}
	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     10,
			Volume:   volumeToBels(volume),
			Silent:   volume == 0,
		}
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() { close(done) })))
	return done, nil
}

// Preload decodes path into the cache without playing it.
func (p *Player) Preload(path string) error {
	if _, err := p.buffer(path); err != nil {
		return err
	}
	p.logger.Debug("preloaded sound", "path", path)
	return nil
}

// buffer returns the cached decoded sound for path, decoding on a miss.
func (p *Player) buffer(path string) (*beep.Buffer, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnsupportedFormat)
	}

	p.cacheMu.RLock()
	cached, ok := p.cache[path]
	p.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	buffer, err := p.decode(path)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[path] = buffer
	p.cacheMu.Unlock()
	return buffer, nil
}

func (p *Player) decode(path string) (*beep.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}

	// The decoder's Close closes f.
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = streamer.Close() }()

	if err := p.ensureInitialized(format.SampleRate); err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// ensureInitialized initializes the speaker at the first decoded sample rate.
func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	bufferSize := sampleRate.N(100 * time.Millisecond)
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

// InvalidateCache drops the decoded buffer for path.
func (p *Player) InvalidateCache(path string) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	delete(p.cache, path)
}

// ClearCache drops every decoded buffer.
func (p *Player) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	clear(p.cache)
}

// Cached reports whether path is decoded and cached.
func (p *Player) Cached(path string) bool {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	_, ok := p.cache[path]
	return ok
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.mu.Unlock()

	p.ClearCache()
	p.logger.Debug("audio player closed")
}

// volumeToBels converts linear gain to the base-10 exponent effects.Volume expects.
func volumeToBels(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log10(volume)
}
