// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides shared test doubles: scripted decoders,
// waveform generators and a manually pumped device host.
package audiotest

import (
	"io"
	"math"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
)

// DefaultPacketFrames is the packet size MockDecoder delivers unless
// configured otherwise.
const DefaultPacketFrames = 256

// Waveform generates the canonical sample at a frame position for one
// channel.
type Waveform func(frame, channel int) float64

// MockDecoder is a scripted decode.Decoder that synthesizes packets from
// a waveform function. It supports seeking and optional error injection.
type MockDecoder struct {
	format       audio.Format
	totalFrames  uint64
	pos          uint64
	packetFrames int
	waveform     Waveform

	// FailAtFrame makes DecodeNext return FailErr once the position
	// reaches the given frame. Zero disables injection.
	FailAtFrame uint64
	FailErr     error

	// SeekErr, when set, is returned by every Seek call.
	SeekErr error

	closed bool
	seeks  []uint64
}

// NewMockDecoder returns a decoder producing totalFrames frames of the
// waveform at the given format.
func NewMockDecoder(format audio.Format, totalFrames uint64, waveform Waveform) *MockDecoder {
	return &MockDecoder{
		format:       format.WithLayout(),
		totalFrames:  totalFrames,
		packetFrames: DefaultPacketFrames,
		waveform:     waveform,
	}
}

// NewConstantDecoder produces frames holding a constant value on every
// channel.
func NewConstantDecoder(format audio.Format, totalFrames uint64, value float64) *MockDecoder {
	return NewMockDecoder(format, totalFrames, func(int, int) float64 { return value })
}

// NewSilentDecoder produces all-zero frames.
func NewSilentDecoder(format audio.Format, totalFrames uint64) *MockDecoder {
	return NewConstantDecoder(format, totalFrames, 0)
}

// NewRampDecoder produces a deterministic per-frame ramp, frame i carrying
// i/totalFrames on every channel. Useful for position assertions.
func NewRampDecoder(format audio.Format, totalFrames uint64) *MockDecoder {
	total := float64(totalFrames)
	return NewMockDecoder(format, totalFrames, func(frame, _ int) float64 {
		return float64(frame) / total
	})
}

// NewSineDecoder produces a sine wave at the given frequency on every
// channel.
func NewSineDecoder(format audio.Format, totalFrames uint64, frequency float64) *MockDecoder {
	rate := float64(format.SampleRate)
	return NewMockDecoder(format, totalFrames, func(frame, _ int) float64 {
		return math.Sin(2 * math.Pi * frequency * float64(frame) / rate)
	})
}

// SetPacketFrames overrides the packet size.
func (d *MockDecoder) SetPacketFrames(frames int) {
	if frames > 0 {
		d.packetFrames = frames
	}
}

// Seeks returns every frame position Seek was called with.
func (d *MockDecoder) Seeks() []uint64 { return d.seeks }

// Closed reports whether Close has been called.
func (d *MockDecoder) Closed() bool { return d.closed }

func (d *MockDecoder) Format() audio.Format { return d.format }

func (d *MockDecoder) Duration() (uint64, bool) { return d.totalFrames, true }

func (d *MockDecoder) Seek(frame uint64) error {
	if d.SeekErr != nil {
		return d.SeekErr
	}
	if frame > d.totalFrames {
		frame = d.totalFrames
	}
	d.pos = frame
	d.seeks = append(d.seeks, frame)
	return nil
}

func (d *MockDecoder) DecodeNext() (*decode.Packet, error) {
	if d.FailAtFrame > 0 && d.pos >= d.FailAtFrame && d.FailErr != nil {
		return nil, d.FailErr
	}
	if d.pos >= d.totalFrames {
		return nil, io.EOF
	}

	frames := d.packetFrames
	if remaining := d.totalFrames - d.pos; uint64(frames) > remaining {
		frames = int(remaining)
	}

	ch := d.format.Channels
	samples := make([]float64, frames*ch)
	for f := range frames {
		for c := range ch {
			samples[f*ch+c] = d.waveform(int(d.pos)+f, c)
		}
	}
	d.pos += uint64(frames)

	return &decode.Packet{Samples: samples, Frames: frames, Format: d.format}, nil
}

func (d *MockDecoder) Close() error {
	d.closed = true
	return nil
}
