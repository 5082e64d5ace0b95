// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/dsp"
)

// packetFrames is how many frames a single DecodeNext call yields at most.
const packetFrames = 1024

// go-mp3 always emits two interleaved 16-bit channels, 4 bytes per frame.
const (
	mp3Channels = 2
	frameBytes  = 4
)

// pcmReader mirrors the go-mp3 decoder surface this package consumes, so
// tests can script PCM output without real MP3 bitstreams.
type pcmReader interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

// Decoder reads MP3 streams and yields canonical float64 packets.
// It implements decode.Decoder.
type Decoder struct {
	dec    pcmReader
	format audio.Format
	frames uint64
	known  bool
	buf    []byte
}

// New opens an MP3 stream. The reader must be seekable; go-mp3 needs that
// both for Seek and for reporting the total length.
func New(rs io.ReadSeeker) (*Decoder, error) {
	dec, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("opening mp3 stream: %w", err)
	}

	format := audio.Format{
		SampleRate: dec.SampleRate(),
		Channels:   mp3Channels,
		Sample:     audio.I16,
	}.WithLayout()
	if err := format.Validate(); err != nil {
		return nil, err
	}

	d := &Decoder{dec: dec, format: format}
	if n := dec.Length(); n > 0 {
		d.frames = uint64(n) / frameBytes
		d.known = true
	}
	return d, nil
}

// Format returns the source stream format.
func (d *Decoder) Format() audio.Format { return d.format }

// Duration returns the total frame count when the source length is known.
func (d *Decoder) Duration() (uint64, bool) { return d.frames, d.known }

// DecodeNext reads the next block of frames. It returns io.EOF once the
// stream is exhausted.
func (d *Decoder) DecodeNext() (*decode.Packet, error) {
	want := packetFrames * frameBytes
	if cap(d.buf) < want {
		d.buf = make([]byte, want)
	}
	d.buf = d.buf[:want]

	n, err := io.ReadFull(d.dec, d.buf)
	if n == 0 {
		if err == io.EOF || err == nil {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading mp3 stream: %w", err)
	}

	// A short final block arrives with io.ErrUnexpectedEOF; deliver what
	// came and report end of stream on the next call.
	usable := n - n%frameBytes
	frames := usable / frameBytes
	if frames == 0 {
		return nil, io.EOF
	}

	samples := make([]float64, usable/2)
	if _, err := dsp.Decode(samples, d.buf[:usable], audio.I16); err != nil {
		return nil, err
	}

	return &decode.Packet{Samples: samples, Frames: frames, Format: d.format}, nil
}

// Seek positions the stream at the given frame using go-mp3's byte-addressed
// seek over the decoded PCM.
func (d *Decoder) Seek(frame uint64) error {
	if d.known && frame > d.frames {
		frame = d.frames
	}
	if _, err := d.dec.Seek(int64(frame)*frameBytes, io.SeekStart); err != nil {
		return fmt.Errorf("seeking mp3 stream: %w", err)
	}
	return nil
}

// Close releases the decoder. The underlying reader is owned by the caller
// and stays open.
func (d *Decoder) Close() error { return nil }
