// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/auricle-audio/auricle/audio"
)

// fakeOgg stands in for the oggvorbis reader, serving scripted interleaved
// float values.
type fakeOgg struct {
	rate     int
	channels int
	values   []float32
	off      int64
	readErr  error
	seeks    []int64
}

func (f *fakeOgg) SampleRate() int { return f.rate }
func (f *fakeOgg) Channels() int   { return f.channels }

func (f *fakeOgg) Length() int64 {
	return int64(len(f.values) / f.channels)
}

func (f *fakeOgg) Read(p []float32) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if f.off >= int64(len(f.values)) {
		return 0, io.EOF
	}
	n := copy(p, f.values[f.off:])
	f.off += int64(n)
	return n, nil
}

func (f *fakeOgg) SetPosition(pos int64) error {
	if pos < 0 || pos > f.Length() {
		return errors.New("position out of range")
	}
	f.seeks = append(f.seeks, pos)
	f.off = pos * int64(f.channels)
	return nil
}

func testDecoder(fake *fakeOgg) *Decoder {
	format := audio.Format{SampleRate: fake.rate, Channels: fake.channels, Sample: audio.F32}.WithLayout()
	d := &Decoder{dec: fake, format: format}
	if n := fake.Length(); n > 0 {
		d.frames = uint64(n)
		d.known = true
	}
	return d
}

func TestNew_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := New(bytes.NewReader([]byte("this is not an ogg container"))); err == nil {
		t.Error("New() error = nil, want error for invalid data")
	}
}

func TestDecodeNext_WidensToFloat64(t *testing.T) {
	t.Parallel()

	values := []float32{0, 0.5, -0.5, 1.0, -1.0, 0.25}
	dec := testDecoder(&fakeOgg{rate: 48000, channels: 2, values: values})

	frames, ok := dec.Duration()
	if !ok || frames != 3 {
		t.Fatalf("Duration() = (%d, %v), want (3, true)", frames, ok)
	}

	pkt, err := dec.DecodeNext()
	if err != nil {
		t.Fatalf("DecodeNext() error = %v", err)
	}
	if pkt.Frames != 3 {
		t.Errorf("Frames = %d, want 3", pkt.Frames)
	}
	if pkt.Format.Sample != audio.F32 {
		t.Errorf("packet sample type = %v, want F32", pkt.Format.Sample)
	}
	for i, v := range values {
		if got, expect := pkt.Samples[i], float64(v); got != expect {
			t.Errorf("Samples[%d] = %v, want %v", i, got, expect)
		}
	}

	if _, err := dec.DecodeNext(); err != io.EOF {
		t.Errorf("DecodeNext() after drain error = %v, want io.EOF", err)
	}
	if _, err := dec.DecodeNext(); err != io.EOF {
		t.Errorf("repeated DecodeNext() error = %v, want io.EOF", err)
	}
}

func TestDecodeNext_SpansPackets(t *testing.T) {
	t.Parallel()

	const frames = packetFrames + 200
	values := make([]float32, frames*2)
	for i := range values {
		values[i] = float32(i%100) / 100.0
	}
	dec := testDecoder(&fakeOgg{rate: 44100, channels: 2, values: values})

	pkt1, err := dec.DecodeNext()
	if err != nil {
		t.Fatalf("first DecodeNext() error = %v", err)
	}
	if pkt1.Frames != packetFrames {
		t.Errorf("first packet frames = %d, want %d", pkt1.Frames, packetFrames)
	}

	pkt2, err := dec.DecodeNext()
	if err != nil {
		t.Fatalf("second DecodeNext() error = %v", err)
	}
	if pkt2.Frames != 200 {
		t.Errorf("second packet frames = %d, want 200", pkt2.Frames)
	}
	if got, expect := pkt2.Samples[0], float64(float32((packetFrames*2)%100)/100.0); got != expect {
		t.Errorf("second packet starts at %v, want %v", got, expect)
	}
}

func TestDecodeNext_WrapsReadError(t *testing.T) {
	t.Parallel()

	bang := errors.New("page checksum failed")
	dec := testDecoder(&fakeOgg{rate: 44100, channels: 2, values: []float32{1, 2}, readErr: bang})

	_, err := dec.DecodeNext()
	if !errors.Is(err, bang) {
		t.Errorf("DecodeNext() error = %v, want wrapped read error", err)
	}
}

func TestSeek_Native(t *testing.T) {
	t.Parallel()

	values := make([]float32, 100)
	for i := range values {
		values[i] = float32(i)
	}
	fake := &fakeOgg{rate: 44100, channels: 2, values: values}
	dec := testDecoder(fake)

	if err := dec.Seek(20); err != nil {
		t.Fatalf("Seek(20) error = %v", err)
	}
	if len(fake.seeks) != 1 || fake.seeks[0] != 20 {
		t.Fatalf("source seeks = %v, want [20]", fake.seeks)
	}

	pkt, err := dec.DecodeNext()
	if err != nil {
		t.Fatalf("DecodeNext() error = %v", err)
	}
	if got := pkt.Samples[0]; got != 40.0 {
		t.Errorf("first sample after seek = %v, want 40", got)
	}
}

func TestSeek_PastEndClamps(t *testing.T) {
	t.Parallel()

	fake := &fakeOgg{rate: 44100, channels: 1, values: []float32{1, 2, 3, 4}}
	dec := testDecoder(fake)

	if err := dec.Seek(1 << 40); err != nil {
		t.Fatalf("Seek past end error = %v", err)
	}
	if _, err := dec.DecodeNext(); err != io.EOF {
		t.Errorf("DecodeNext() error = %v, want io.EOF", err)
	}
}

func TestSeek_WrapsSourceError(t *testing.T) {
	t.Parallel()

	// An unknown length leaves the clamp disabled, so the out-of-range
	// position reaches the source.
	format := audio.Format{SampleRate: 44100, Channels: 1, Sample: audio.F32}.WithLayout()
	dec := &Decoder{dec: &fakeOgg{rate: 44100, channels: 1}, format: format}

	if err := dec.Seek(10); err == nil {
		t.Error("Seek() error = nil, want source range error")
	}
}

func TestDuration_UnknownLength(t *testing.T) {
	t.Parallel()

	format := audio.Format{SampleRate: 44100, Channels: 2, Sample: audio.F32}.WithLayout()
	dec := &Decoder{dec: &fakeOgg{rate: 44100, channels: 2}, format: format}

	if _, ok := dec.Duration(); ok {
		t.Error("Duration() ok = true without a stream length, want false")
	}
}
