// SPDX-License-Identifier: EPL-2.0

package ring

import (
	"fmt"
	"time"

	"github.com/auricle-audio/auricle/audio"
)

const (
	// MinDuration is the shortest allowed buffer length.
	MinDuration = 100 * time.Millisecond
	// MaxDuration is the longest allowed buffer length.
	MaxDuration = 30 * time.Second
	// MaxBytes caps the backing array size at 100 MB of f64 samples.
	MaxBytes = 100 * 1024 * 1024

	// DefaultUnderrunThreshold marks the buffer as starved below 10% fill.
	DefaultUnderrunThreshold = 0.1

	sampleBytes = 8
)

// Config describes a ring buffer to be created by New.
type Config struct {
	// Duration is the playback time the buffer covers at Format's rate.
	Duration time.Duration
	// Format supplies the sample rate and channel count that size the buffer.
	Format audio.Format
	// AllowOverwrite records whether the producer intends to discard the
	// oldest unread samples under pressure (WriteOverwrite) instead of
	// writing short (Write). Advisory; both calls stay available.
	AllowOverwrite bool
	// UnderrunThreshold is the fill fraction below which health probes
	// report starvation. Zero selects DefaultUnderrunThreshold.
	UnderrunThreshold float64
}

// LowLatencyConfig trades dropout margin for responsiveness (0.5 s).
func LowLatencyConfig(format audio.Format) Config {
	return Config{Duration: 500 * time.Millisecond, Format: format}
}

// StandardConfig suits normal file playback (2.5 s).
func StandardConfig(format audio.Format) Config {
	return Config{Duration: 2500 * time.Millisecond, Format: format}
}

// HighLatencyConfig tolerates slow producers at the cost of memory and seek
// latency (4.5 s).
func HighLatencyConfig(format audio.Format) Config {
	return Config{Duration: 4500 * time.Millisecond, Format: format}
}

// TotalSamples returns the backing array length the config derives:
// duration x sample rate, truncated, times channels.
func (c Config) TotalSamples() int {
	frames := int(c.Duration.Seconds() * float64(c.Format.SampleRate))
	return frames * c.Format.Channels
}

// SizeBytes returns the backing array size in bytes.
func (c Config) SizeBytes() int {
	return c.TotalSamples() * sampleBytes
}

// threshold returns the effective underrun threshold.
func (c Config) threshold() float64 {
	if c.UnderrunThreshold <= 0 {
		return DefaultUnderrunThreshold
	}
	return c.UnderrunThreshold
}

// Validate rejects configurations before any allocation.
func (c Config) Validate() error {
	if c.Duration < MinDuration {
		return fmt.Errorf("%w: %v is shorter than %v", ErrDurationTooShort, c.Duration, MinDuration)
	}
	if c.Duration > MaxDuration {
		return fmt.Errorf("%w: %v is longer than %v", ErrDurationTooLong, c.Duration, MaxDuration)
	}
	if err := c.Format.Validate(); err != nil {
		return err
	}
	if c.UnderrunThreshold < 0 || c.UnderrunThreshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.UnderrunThreshold)
	}
	if c.SizeBytes() > MaxBytes {
		return fmt.Errorf("%w: %d MB exceeds %d MB",
			ErrBufferTooLarge, c.SizeBytes()/(1024*1024), MaxBytes/(1024*1024))
	}
	return nil
}
