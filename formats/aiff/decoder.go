package aiff

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/dsp"
)

// packetFrames is how many frames a single DecodeNext call yields at most.
const packetFrames = 1024

// Decoder reads PCM AIFF files and yields canonical float64 packets.
// It implements decode.Decoder.
type Decoder struct {
	rs     io.ReadSeeker
	dec    *aiff.Decoder
	format audio.Format
	frames uint64
	pos    uint64
	depth  int
	buf    *goaudio.IntBuffer
}

// New opens a PCM AIFF stream at 8, 16, 24 or 32 bits per sample.
func New(rs io.ReadSeeker) (*Decoder, error) {
	dec, err := open(rs)
	if err != nil {
		return nil, err
	}

	depth := int(dec.BitDepth)
	st, err := sampleType(depth)
	if err != nil {
		return nil, err
	}

	layout := dec.Format()
	if layout == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	format := audio.Format{
		SampleRate: layout.SampleRate,
		Channels:   layout.NumChannels,
		Sample:     st,
	}.WithLayout()
	if err := format.Validate(); err != nil {
		return nil, err
	}

	return &Decoder{
		rs:     rs,
		dec:    dec,
		format: format,
		frames: uint64(dec.NumSampleFrames),
		depth:  depth,
	}, nil
}

func open(rs io.ReadSeeker) (*aiff.Decoder, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()
	return dec, nil
}

func sampleType(depth int) (audio.SampleType, error) {
	switch depth {
	case 8:
		// AIFF stores 8-bit PCM signed, unlike WAV.
		return audio.I8, nil
	case 16:
		return audio.I16, nil
	case 24:
		return audio.I24, nil
	case 32:
		return audio.I32, nil
	default:
		return 0, fmt.Errorf("%w: %d-bit AIFF", dsp.ErrUnsupportedBitDepth, depth)
	}
}

// Format returns the source stream format.
func (d *Decoder) Format() audio.Format { return d.format }

// Duration returns the frame count from the COMM chunk.
func (d *Decoder) Duration() (uint64, bool) { return d.frames, true }

// DecodeNext reads the next block of frames. It returns io.EOF once the
// sound data is exhausted.
func (d *Decoder) DecodeNext() (*decode.Packet, error) {
	n, err := d.readBlock(packetFrames)
	if err != nil {
		return nil, err
	}
	frames := n / d.format.Channels
	if frames == 0 {
		return nil, io.EOF
	}

	ints := d.buf.Data[:frames*d.format.Channels]
	samples, err := dsp.FromInts(make([]float64, 0, len(ints)), ints, d.depth)
	if err != nil {
		return nil, err
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
	dec, err := open(d.rs)
	if err != nil {
		return err
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
// the sample count. End of sound data arrives as a zero-sample read, which
// is mapped to io.EOF here.
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
