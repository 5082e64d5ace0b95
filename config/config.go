// SPDX-License-Identifier: EPL-2.0

// Package config loads player settings from a TOML file.
//
// Settings are grouped into [playback], [log], and [remote] tables. Every
// key has a default, so an empty file yields a working configuration; a
// missing file is created with the defaults written out.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/auricle-audio/auricle/dsp"
)

// Configuration defaults are used when keys are absent from the file.
const (
	DefaultRingDurationMS    = 2500
	DefaultUnderrunThreshold = 0.1
	DefaultPrefetchPackets   = 4
	DefaultVolume            = 1.0
	DefaultDither            = "triangular"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultListenAddr        = ":8090"
	DefaultStatusIntervalMS  = 500
)

// PlaybackConfig holds buffering and output settings for the engine.
type PlaybackConfig struct {
	// RingDurationMS is the ring buffer capacity in milliseconds.
	RingDurationMS int `toml:"ring_duration_ms" validate:"gte=100,lte=30000"`
	// UnderrunThreshold is the fill level below which underruns are
	// reported.
	UnderrunThreshold float64 `toml:"underrun_threshold" validate:"gte=0,lte=1"`
	// BufferFrames is the device period size in frames. Zero lets the
	// backend choose.
	BufferFrames int `toml:"buffer_frames" validate:"gte=0,lte=65536"`
	// PrefetchPackets is how many decoded packets are kept ahead of the
	// ring when streaming. Zero selects the decoder default.
	PrefetchPackets int `toml:"prefetch_packets" validate:"gte=0,lte=1024"`
	// Loop restarts the track when it ends.
	Loop bool `toml:"loop"`
	// Volume is the initial volume, linear in [0, 1].
	Volume float64 `toml:"volume" validate:"gte=0,lte=1"`
	// Dither selects the noise shape applied on integer outputs, one of
	// "none", "rectangular", or "triangular".
	Dither string `toml:"dither" validate:"oneof=none rectangular triangular"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", or "error".
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	// Format is "text" or "json".
	Format string `toml:"format" validate:"oneof=text json"`
}

// RemoteConfig holds settings for the status and control server.
type RemoteConfig struct {
	// Enabled serves the WebSocket control plane when true.
	Enabled bool `toml:"enabled"`
	// Listen is the host:port address the server binds to.
	Listen string `toml:"listen" validate:"omitempty,hostname_port"`
	// StatusIntervalMS is the push period for status frames.
	StatusIntervalMS int `toml:"status_interval_ms" validate:"gte=50,lte=10000"`
}

// Config holds all player configuration.
type Config struct {
	Playback PlaybackConfig `toml:"playback"`
	Log      LogConfig      `toml:"log"`
	Remote   RemoteConfig   `toml:"remote"`

	path string
}

// New creates a Config bound to the given file path, with default values.
func New(path string) *Config {
	c := &Config{path: path}
	c.reset()
	return c
}

// Path returns the file path the configuration is bound to.
func (c *Config) Path() string { return c.path }

// reset restores every section to its defaults.
func (c *Config) reset() {
	c.Playback = PlaybackConfig{
		RingDurationMS:    DefaultRingDurationMS,
		UnderrunThreshold: DefaultUnderrunThreshold,
		PrefetchPackets:   DefaultPrefetchPackets,
		Volume:            DefaultVolume,
		Dither:            DefaultDither,
	}
	c.Log = LogConfig{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	}
	c.Remote = RemoteConfig{
		Listen:           DefaultListenAddr,
		StatusIntervalMS: DefaultStatusIntervalMS,
	}
}

// Load reads the configuration file, creating one with defaults if none
// exists. Keys absent from the file keep their default values.
func (c *Config) Load() error {
	c.reset()

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return c.Save()
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	return c.Validate()
}

// Save writes the configuration to its file, creating parent directories
// as needed.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// RingDuration returns the ring buffer capacity as a duration.
func (p PlaybackConfig) RingDuration() time.Duration {
	return time.Duration(p.RingDurationMS) * time.Millisecond
}

// DitherAlgorithm maps the dither key to its dsp algorithm.
func (p PlaybackConfig) DitherAlgorithm() dsp.DitherAlgorithm {
	switch p.Dither {
	case "rectangular":
		return dsp.DitherRectangular
	case "triangular":
		return dsp.DitherTriangular
	default:
		return dsp.DitherNone
	}
}

// SlogLevel maps the level key to a slog level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Handler builds a slog handler writing to w in the configured format.
func (l LogConfig) Handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// StatusInterval returns the status push period as a duration.
func (r RemoteConfig) StatusInterval() time.Duration {
	return time.Duration(r.StatusIntervalMS) * time.Millisecond
}
