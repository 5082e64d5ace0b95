// SPDX-License-Identifier: EPL-2.0

package device

import (
	"github.com/auricle-audio/auricle/audio"
)

// RenderFunc fills out with exactly frames frames of interleaved audio in
// the stream's negotiated format. It runs on the backend's real-time
// thread and must not block; a renderer that cannot produce data in time
// fills silence instead.
type RenderFunc func(out []byte, frames int)

// ConfigRange describes one configuration a device supports: a contiguous
// sample-rate range at a fixed channel count and sample encoding.
type ConfigRange struct {
	MinSampleRate int
	MaxSampleRate int
	Channels      int
	Sample        audio.SampleType
}

// Contains reports whether the range can carry the given sample rate.
func (r ConfigRange) Contains(sampleRate int) bool {
	return sampleRate >= r.MinSampleRate && sampleRate <= r.MaxSampleRate
}

// DeviceInfo identifies one output device and the configurations it
// reports. ID is backend-specific and stable for the lifetime of the
// Host; the empty ID addresses the system default device.
type DeviceInfo struct {
	ID        string
	Name      string
	IsDefault bool
	Ranges    []ConfigRange
}

// StreamConfig describes the stream to open.
//
// DeviceID selects an output by its DeviceInfo.ID; empty selects the
// system default. BufferFrames requests a period size in frames, zero
// leaves the backend's default in place. OnStop, when set, is called
// once whenever the backend stops the stream, including stops the
// application did not request.
type StreamConfig struct {
	DeviceID     string
	Format       audio.Format
	BufferFrames int
	OnStop       func()
}

// Host enumerates output devices and opens streams on them.
type Host interface {
	// Outputs lists the available output devices.
	Outputs() ([]DeviceInfo, error)

	// OpenStream builds a stream that pulls audio through render. The
	// stream is created suspended; call Start on it to begin playback.
	OpenStream(cfg StreamConfig, render RenderFunc) (Stream, error)

	// Close releases the backend. Streams opened from this host must be
	// closed first.
	Close() error
}

// Stream is one open hardware output stream.
type Stream interface {
	// Start begins or resumes pulling audio through the render callback.
	Start() error

	// Stop suspends the stream without releasing it; Start resumes.
	Stop() error

	// Close releases the stream. The render callback does not run after
	// Close returns.
	Close() error
}
