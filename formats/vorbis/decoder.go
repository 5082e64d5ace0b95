package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/dsp"
)

// packetFrames is how many frames a single DecodeNext call yields at most.
const packetFrames = 1024

// oggSource mirrors the oggvorbis reader surface this package consumes, so
// tests can script float output without real Ogg streams. Read fills p with
// interleaved values and returns the value count, not the frame count.
type oggSource interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
	Length() int64
	SetPosition(pos int64) error
}

// Decoder reads Ogg Vorbis streams and yields canonical float64 packets.
// It implements decode.Decoder.
type Decoder struct {
	dec    oggSource
	format audio.Format
	frames uint64
	known  bool
	buf    []float32
}

// New opens an Ogg Vorbis stream. The reader must be seekable so the total
// length can be read from the last page and SetPosition can work.
func New(rs io.ReadSeeker) (*Decoder, error) {
	dec, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("opening vorbis stream: %w", err)
	}

	format := audio.Format{
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
		Sample:     audio.F32,
	}.WithLayout()
	if err := format.Validate(); err != nil {
		return nil, err
	}

	d := &Decoder{dec: dec, format: format}
	if n := dec.Length(); n > 0 {
		d.frames = uint64(n)
		d.known = true
	}
	return d, nil
}

// Format returns the source stream format.
func (d *Decoder) Format() audio.Format { return d.format }

// Duration returns the total frame count when the stream length is known.
func (d *Decoder) Duration() (uint64, bool) { return d.frames, d.known }

// DecodeNext reads the next block of frames. It returns io.EOF once the
// stream is exhausted.
func (d *Decoder) DecodeNext() (*decode.Packet, error) {
	want := packetFrames * d.format.Channels
	if cap(d.buf) < want {
		d.buf = make([]float32, want)
	}
	d.buf = d.buf[:want]

	n, err := d.dec.Read(d.buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading vorbis stream: %w", err)
	}

	usable := n - n%d.format.Channels
	frames := usable / d.format.Channels
	if frames == 0 {
		return nil, io.EOF
	}

	samples := dsp.FromFloat32(make([]float64, 0, usable), d.buf[:usable])

	return &decode.Packet{Samples: samples, Frames: frames, Format: d.format}, nil
}

// Seek positions the stream at the given frame using the library's native
// page-granular seek.
func (d *Decoder) Seek(frame uint64) error {
	if d.known && frame > d.frames {
		frame = d.frames
	}
	if err := d.dec.SetPosition(int64(frame)); err != nil {
		return fmt.Errorf("seeking vorbis stream: %w", err)
	}
	return nil
}

// Close releases the decoder. The underlying reader is owned by the caller
// and stays open.
func (d *Decoder) Close() error { return nil }
