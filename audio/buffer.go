// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Buffer holds a fully decoded track as interleaved canonical samples.
// It backs the engine's static playback path and offline tooling; streaming
// playback uses the ring package instead.
type Buffer struct {
	// Data is interleaved canonical samples, Format.Channels per frame.
	Data   []float64
	Format Format
}

// NewBuffer wraps interleaved samples in a Buffer. The sample count must be
// a whole number of frames for the format.
func NewBuffer(data []float64, format Format) (*Buffer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if len(data)%format.Channels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels",
			ErrPartialFrame, len(data), format.Channels)
	}
	return &Buffer{Data: data, Format: format}, nil
}

// Frames returns the number of frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Format.Channels == 0 {
		return 0
	}
	return len(b.Data) / b.Format.Channels
}

// DurationSeconds returns the playback length in seconds.
func (b *Buffer) DurationSeconds() float64 {
	if b.Format.SampleRate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Format.SampleRate)
}

// Slice returns the interleaved samples for frames [start, end), clamped to
// the buffer bounds. The returned slice aliases the buffer data.
func (b *Buffer) Slice(start, end int) []float64 {
	frames := b.Frames()
	if start < 0 {
		start = 0
	}
	if end > frames {
		end = frames
	}
	if start >= end {
		return nil
	}
	ch := b.Format.Channels
	return b.Data[start*ch : end*ch]
}

// ChannelData de-interleaves one channel into a fresh slice.
func (b *Buffer) ChannelData(channel int) []float64 {
	ch := b.Format.Channels
	if channel < 0 || channel >= ch {
		return nil
	}
	frames := b.Frames()
	out := make([]float64, frames)
	for i := range frames {
		out[i] = b.Data[i*ch+channel]
	}
	return out
}
