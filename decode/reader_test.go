// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/ring"
)

var errCorrupt = errors.New("corrupt stream")

// scriptedDecoder replays a fixed list of packets, optionally failing at
// one of them. Seek(0) rewinds, which is all looping needs.
type scriptedDecoder struct {
	format  audio.Format
	packets [][]float64
	pos     int
	failAt  int // packet index that errors, -1 for none
	seeks   []uint64
	closed  bool
}

func newScripted(packets ...[]float64) *scriptedDecoder {
	return &scriptedDecoder{
		format:  monoFormat(),
		packets: packets,
		failAt:  -1,
	}
}

func (d *scriptedDecoder) Format() audio.Format { return d.format }

func (d *scriptedDecoder) Duration() (uint64, bool) {
	var frames uint64
	for _, p := range d.packets {
		frames += uint64(len(p) / d.format.Channels)
	}
	return frames, true
}

func (d *scriptedDecoder) Seek(frame uint64) error {
	d.seeks = append(d.seeks, frame)
	d.pos = int(frame) / d.packetFrames()
	return nil
}

func (d *scriptedDecoder) packetFrames() int {
	if len(d.packets) == 0 || len(d.packets[0]) == 0 {
		return 1
	}
	return len(d.packets[0]) / d.format.Channels
}

func (d *scriptedDecoder) DecodeNext() (*Packet, error) {
	if d.pos == d.failAt {
		return nil, errCorrupt
	}
	if d.pos >= len(d.packets) {
		return nil, io.EOF
	}
	samples := d.packets[d.pos]
	d.pos++
	return &Packet{
		Samples: samples,
		Frames:  len(samples) / d.format.Channels,
		Format:  d.format,
	}, nil
}

func (d *scriptedDecoder) Close() error {
	d.closed = true
	return nil
}

func TestReader_DeliversPacketsInOrder(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	r := NewReader(dec, ReaderConfig{})
	defer r.Close()

	var got []float64
	for {
		pkt, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() = %v", err)
		}
		got = append(got, pkt.Samples...)
	}

	want := []float64{1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("received %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReader_ReportsFormatAndDuration(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{1, 2}, []float64{3, 4})
	r := NewReader(dec, ReaderConfig{})
	defer r.Close()

	if got := r.Format(); got != monoFormat() {
		t.Errorf("Format() = %v, want %v", got, monoFormat())
	}
	frames, ok := r.Duration()
	if !ok || frames != 4 {
		t.Errorf("Duration() = %d, %v, want 4, true", frames, ok)
	}
}

func TestReader_ErrorPropagates(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{1}, []float64{2}, []float64{3})
	dec.failAt = 1
	r := NewReader(dec, ReaderConfig{})
	defer r.Close()

	pkt, err := r.Next()
	if err != nil || pkt.Samples[0] != 1 {
		t.Fatalf("first Next() = %v, %v", pkt, err)
	}

	_, err = r.Next()
	if !errors.Is(err, errCorrupt) {
		t.Fatalf("Next() after failure = %v, want errCorrupt", err)
	}
	if !errors.Is(r.Err(), errCorrupt) {
		t.Errorf("Err() = %v, want errCorrupt", r.Err())
	}
}

func TestReader_Loop(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{1}, []float64{2}, []float64{3})
	r := NewReader(dec, ReaderConfig{Loop: true})
	defer r.Close()

	want := []float64{1, 2, 3, 1, 2, 3, 1}
	for i, w := range want {
		pkt, err := r.Next()
		if err != nil {
			t.Fatalf("Next() #%d = %v", i, err)
		}
		if pkt.Samples[0] != w {
			t.Fatalf("packet %d = %v, want %v", i, pkt.Samples[0], w)
		}
	}

	r.Stop()
	if len(dec.seeks) == 0 {
		t.Fatal("looping never rewound the decoder")
	}
	for _, s := range dec.seeks {
		if s != 0 {
			t.Errorf("loop rewind seeked to %d, want 0", s)
		}
	}
}

func TestReader_StopIsIdempotentAndFinal(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{1}, []float64{2})
	r := NewReader(dec, ReaderConfig{})

	r.Stop()
	r.Stop()

	if r.IsActive() {
		t.Error("IsActive() = true after Stop")
	}
	if dec.closed {
		t.Error("Stop closed the decoder; only Close may")
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if !dec.closed {
		t.Error("Close() did not close the decoder")
	}
}

func TestReader_SeekReachesDecoder(t *testing.T) {
	t.Parallel()

	// Enough packets that the prefetch queue fills and the decode
	// goroutine stays alive for the seek.
	var packets [][]float64
	for i := range 32 {
		packets = append(packets, []float64{float64(i), float64(i)})
	}
	dec := newScripted(packets...)
	r := NewReader(dec, ReaderConfig{})
	defer r.Close()

	if err := r.Seek(4); err != nil {
		t.Fatalf("Seek() = %v", err)
	}

	r.Stop()
	found := false
	for _, s := range dec.seeks {
		if s == 4 {
			found = true
		}
	}
	if !found {
		t.Errorf("decoder saw seeks %v, want one to frame 4", dec.seeks)
	}
}

func TestReader_SeekAfterCloseFails(t *testing.T) {
	t.Parallel()

	r := NewReader(newScripted([]float64{1}), ReaderConfig{})
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	if err := r.Seek(0); !errors.Is(err, ErrReaderStopped) {
		t.Errorf("Seek() after Close = %v, want ErrReaderStopped", err)
	}
}

func TestReader_PumpFillsRing(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{0.1, 0.2}, []float64{0.3, 0.4}, []float64{0.5})
	r := NewReader(dec, ReaderConfig{})
	defer r.Close()

	prod, cons, err := ring.New(ring.Config{
		Duration: 100 * time.Millisecond,
		Format:   monoFormat(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Pump(prod, false); err != nil {
		t.Fatalf("Pump() = %v", err)
	}

	out := make([]float64, 5)
	if n := cons.Read(out); n != 5 {
		t.Fatalf("Read() = %d, want 5", n)
	}
	want := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestReader_PumpBackpressure(t *testing.T) {
	t.Parallel()

	// 10-slot ring (9 usable) against 20 samples forces Pump to wait for
	// the consumer.
	var packets [][]float64
	for i := range 10 {
		packets = append(packets, []float64{float64(2 * i), float64(2*i + 1)})
	}
	r := NewReader(newScripted(packets...), ReaderConfig{})
	defer r.Close()

	prod, cons, err := ring.New(ring.Config{
		Duration: 100 * time.Millisecond,
		Format:   audio.Format{SampleRate: 100, Channels: 1, Sample: audio.F64},
	})
	if err != nil {
		t.Fatal(err)
	}

	pumpDone := make(chan error, 1)
	go func() { pumpDone <- r.Pump(prod, false) }()

	var got []float64
	buf := make([]float64, 4)
	deadline := time.Now().Add(30 * time.Second)
	for len(got) < 20 {
		n := cons.Read(buf)
		got = append(got, buf[:n]...)
		if n == 0 {
			if time.Now().After(deadline) {
				t.Fatalf("stalled with %d of 20 samples", len(got))
			}
			time.Sleep(time.Millisecond)
		}
	}

	if err := <-pumpDone; err != nil {
		t.Fatalf("Pump() = %v", err)
	}
	for i := range got {
		if got[i] != float64(i) {
			t.Fatalf("sample %d = %v, want %v", i, got[i], float64(i))
		}
	}
}

func TestReader_PumpOverwriteNeverBlocks(t *testing.T) {
	t.Parallel()

	var packets [][]float64
	for i := range 7 {
		packets = append(packets, []float64{float64(i), float64(i)})
	}
	r := NewReader(newScripted(packets...), ReaderConfig{})
	defer r.Close()

	prod, cons, err := ring.New(ring.Config{
		Duration:       100 * time.Millisecond,
		Format:         audio.Format{SampleRate: 100, Channels: 1, Sample: audio.F64},
		AllowOverwrite: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	// No consumer runs; overwrite mode must still finish
	if err := r.Pump(prod, true); err != nil {
		t.Fatalf("Pump() = %v", err)
	}
	if cons.AvailableRead() == 0 {
		t.Error("ring empty after overwrite pump")
	}
}

func TestDecodeAll(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{0.1, -0.1}, []float64{0.2, -0.2})
	buf, err := DecodeAll(dec)
	if err != nil {
		t.Fatal(err)
	}

	if buf.Frames() != 4 {
		t.Errorf("Frames() = %d, want 4", buf.Frames())
	}
	want := []float64{0.1, -0.1, 0.2, -0.2}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, buf.Data[i], want[i])
		}
	}
}

func TestDecodeAll_PropagatesError(t *testing.T) {
	t.Parallel()

	dec := newScripted([]float64{0.1}, []float64{0.2})
	dec.failAt = 1

	_, err := DecodeAll(dec)
	if !errors.Is(err, errCorrupt) {
		t.Errorf("DecodeAll() = %v, want errCorrupt", err)
	}
}
