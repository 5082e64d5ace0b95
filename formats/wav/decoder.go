// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/dsp"
)

// packetFrames is how many frames a single DecodeNext call yields at most.
const packetFrames = 1024

// Decoder reads PCM WAV files and yields canonical float64 packets.
// It implements decode.Decoder.
type Decoder struct {
	rs     io.ReadSeeker
	dec    *gowav.Decoder
	format audio.Format
	frames uint64
	pos    uint64
	depth  int
	buf    *goaudio.IntBuffer
}

// New opens a PCM WAV stream. Only format tag 1 (integer PCM) is accepted,
// at 8, 16, 24 or 32 bits per sample.
func New(rs io.ReadSeeker) (*Decoder, error) {
	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedWavLayout, dec.WavAudioFormat)
	}

	depth := int(dec.BitDepth)
	st, err := sampleType(depth)
	if err != nil {
		return nil, err
	}

	format := audio.Format{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		Sample:     st,
	}.WithLayout()
	if err := format.Validate(); err != nil {
		return nil, err
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating pcm data: %w", err)
	}

	return &Decoder{
		rs:     rs,
		dec:    dec,
		format: format,
		frames: uint64(dec.PCMLen()) / uint64(format.FrameSize()),
		depth:  depth,
	}, nil
}

func sampleType(depth int) (audio.SampleType, error) {
	switch depth {
	case 8:
		// WAV stores 8-bit PCM unsigned.
		return audio.U8, nil
	case 16:
		return audio.I16, nil
	case 24:
		return audio.I24, nil
	case 32:
		return audio.I32, nil
	default:
		return 0, fmt.Errorf("%w: %d-bit WAV", dsp.ErrUnsupportedBitDepth, depth)
	}
}

// Format returns the source stream format.
func (d *Decoder) Format() audio.Format { return d.format }

// Duration returns the total frame count. It is always known for WAV because
// the data chunk carries its byte length.
func (d *Decoder) Duration() (uint64, bool) { return d.frames, true }

// DecodeNext reads the next block of frames. It returns io.EOF once the data
// chunk is exhausted.
func (d *Decoder) DecodeNext() (*decode.Packet, error) {
	n, err := d.readBlock(packetFrames)
	if err != nil {
		return nil, err
	}
	frames := n / d.format.Channels
	if frames == 0 {
		// A trailing partial frame is dropped rather than delivered.
		return nil, io.EOF
	}

	ints := d.buf.Data[:frames*d.format.Channels]
	samples := make([]float64, 0, len(ints))
	if d.depth == 8 {
		for _, v := range ints {
			samples = append(samples, (float64(v)/255.0)*2.0-1.0)
		}
	} else {
		if samples, err = dsp.FromInts(samples, ints, d.depth); err != nil {
			return nil, err
		}
	}

	d.pos += uint64(frames)

	return &decode.Packet{Samples: samples, Frames: frames, Format: d.format}, nil
}

// Seek positions the stream at the given frame. Backward seeks rewind the
// underlying reader and re-parse the headers; forward seeks decode and
// discard. Seeking past the end positions the stream at end of data.
func (d *Decoder) Seek(frame uint64) error {
	if frame > d.frames {
		frame = d.frames
	}
	if frame < d.pos {
		if err := d.rewind(); err != nil {
			return err
		}
	}
	return d.discard(frame - d.pos)
}

// Close releases the decoder. The underlying reader is owned by the caller
// and stays open.
func (d *Decoder) Close() error { return nil }

func (d *Decoder) rewind() error {
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding: %w", err)
	}
	dec := gowav.NewDecoder(d.rs)
	if !dec.IsValidFile() {
		return ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("locating pcm data: %w", err)
	}
	d.dec = dec
	d.pos = 0
	return nil
}

func (d *Decoder) discard(frames uint64) error {
	for frames > 0 {
		want := packetFrames
		if uint64(want) > frames {
			want = int(frames)
		}
		n, err := d.readBlock(want)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		got := n / d.format.Channels
		if got == 0 {
			return nil
		}
		d.pos += uint64(got)
		frames -= uint64(got)
	}
	return nil
}

// readBlock pulls up to frames frames of machine ints into d.buf and returns
// the sample count. The library reports end of data as a zero-sample read,
// which is mapped to io.EOF here.
func (d *Decoder) readBlock(frames int) (int, error) {
	want := frames * d.format.Channels
	if d.buf == nil || cap(d.buf.Data) < want {
		d.buf = &goaudio.IntBuffer{
			Data: make([]int, want),
			Format: &goaudio.Format{
				NumChannels: d.format.Channels,
				SampleRate:  d.format.SampleRate,
			},
		}
	}
	d.buf.Data = d.buf.Data[:want]

	n, err := d.dec.PCMBuffer(d.buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("reading pcm: %w", err)
		}
		return 0, io.EOF
	}
	return n, nil
}
