// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/tphakala/flac"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/dsp"
)

// blockSource yields one FLAC block of interleaved little-endian PCM per
// call and io.EOF at end of stream.
type blockSource interface {
	Next() ([]byte, error)
}

// Decoder reads FLAC streams and yields canonical float64 packets, one per
// FLAC block. It implements decode.Decoder.
type Decoder struct {
	src    blockSource
	reopen func() (blockSource, error)
	format audio.Format
	st     audio.SampleType
	frames uint64
	pos    uint64

	// pending holds the converted tail of a block a seek landed inside.
	pending []float64
}

// New opens a FLAC stream. The reader must be seekable because rewinds
// re-parse the stream from the top.
func New(rs io.ReadSeeker) (*Decoder, error) {
	dec, err := flac.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("opening flac stream: %w", err)
	}

	st, err := sampleType(dec.BitsPerSample)
	if err != nil {
		return nil, err
	}

	format := audio.Format{
		SampleRate: dec.SampleRate,
		Channels:   dec.NChannels,
		Sample:     st,
	}.WithLayout()
	if err := format.Validate(); err != nil {
		return nil, err
	}

	return &Decoder{
		src:    dec,
		format: format,
		st:     st,
		frames: uint64(dec.TotalSamples),
		reopen: func() (blockSource, error) {
			if _, err := rs.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("rewinding: %w", err)
			}
			dec, err := flac.NewDecoder(rs)
			if err != nil {
				return nil, fmt.Errorf("reopening flac stream: %w", err)
			}
			return dec, nil
		},
	}, nil
}

func sampleType(bits int) (audio.SampleType, error) {
	switch bits {
	case 8:
		// FLAC stores 8-bit PCM signed.
		return audio.I8, nil
	case 16:
		return audio.I16, nil
	case 24:
		return audio.I24, nil
	case 32:
		return audio.I32, nil
	default:
		return 0, fmt.Errorf("%w: %d-bit FLAC", dsp.ErrUnsupportedBitDepth, bits)
	}
}

// Format returns the source stream format.
func (d *Decoder) Format() audio.Format { return d.format }

// Duration returns the STREAMINFO sample count. Encoders may leave it at
// zero, in which case the length is reported as unknown.
func (d *Decoder) Duration() (uint64, bool) { return d.frames, d.frames > 0 }

// DecodeNext converts the next block. It returns io.EOF once the stream is
// exhausted.
func (d *Decoder) DecodeNext() (*decode.Packet, error) {
	if len(d.pending) > 0 {
		samples := d.pending
		d.pending = nil
		frames := len(samples) / d.format.Channels
		d.pos += uint64(frames)
		return &decode.Packet{Samples: samples, Frames: frames, Format: d.format}, nil
	}

	raw, err := d.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading flac block: %w", err)
	}

	samples, err := d.convert(raw)
	if err != nil {
		return nil, err
	}
	frames := len(samples) / d.format.Channels
	if frames == 0 {
		return nil, io.EOF
	}

	d.pos += uint64(frames)

	return &decode.Packet{Samples: samples, Frames: frames, Format: d.format}, nil
}

// Seek positions the stream at the given frame. There is no native seek at
// the block layer, so backward seeks rewind and re-parse; forward seeks
// discard whole blocks and stash the tail of a block the target lands in.
func (d *Decoder) Seek(frame uint64) error {
	if d.frames > 0 && frame > d.frames {
		frame = d.frames
	}
	if frame < d.pos {
		src, err := d.reopen()
		if err != nil {
			return err
		}
		d.src = src
		d.pos = 0
		d.pending = nil
	}
	return d.discard(frame - d.pos)
}

// Close releases the decoder. The underlying reader is owned by the caller
// and stays open.
func (d *Decoder) Close() error { return nil }

func (d *Decoder) discard(frames uint64) error {
	ch := uint64(d.format.Channels)
	for frames > 0 {
		if have := uint64(len(d.pending)) / ch; have > 0 {
			if have > frames {
				d.pending = d.pending[frames*ch:]
				d.pos += frames
				return nil
			}
			d.pending = nil
			d.pos += have
			frames -= have
			continue
		}

		raw, err := d.src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading flac block: %w", err)
		}

		blockFrames := uint64(len(raw)/d.st.Size()) / ch
		if blockFrames <= frames {
			d.pos += blockFrames
			frames -= blockFrames
			continue
		}

		// The target lands inside this block.
		samples, err := d.convert(raw)
		if err != nil {
			return err
		}
		d.pending = samples[frames*ch:]
		d.pos += frames
		return nil
	}
	return nil
}

// convert turns one raw block into canonical samples, dropping any trailing
// bytes that do not fill a whole frame.
func (d *Decoder) convert(raw []byte) ([]float64, error) {
	frameBytes := d.st.Size() * d.format.Channels
	usable := len(raw) - len(raw)%frameBytes
	samples := make([]float64, usable/d.st.Size())
	if _, err := dsp.Decode(samples, raw[:usable], d.st); err != nil {
		return nil, err
	}
	return samples, nil
}
