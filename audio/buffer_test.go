package audio

import (
	"errors"
	"math"
	"testing"
)

func stereoF64(rate int) Format {
	return Format{SampleRate: rate, Channels: 2, Sample: F64}
}

func TestNewBuffer(t *testing.T) {
	t.Parallel()

	data := []float64{0.1, -0.1, 0.2, -0.2}
	buf, err := NewBuffer(data, stereoF64(44100))
	if err != nil {
		t.Fatalf("NewBuffer() returned %v", err)
	}

	if buf.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", buf.Frames())
	}
}

func TestNewBuffer_RejectsPartialFrame(t *testing.T) {
	t.Parallel()

	// 3 samples cannot form whole stereo frames
	_, err := NewBuffer([]float64{0.1, 0.2, 0.3}, stereoF64(44100))
	if !errors.Is(err, ErrPartialFrame) {
		t.Errorf("NewBuffer() = %v, want ErrPartialFrame", err)
	}
}

func TestNewBuffer_RejectsInvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := NewBuffer([]float64{0.1, 0.2}, Format{SampleRate: 0, Channels: 2, Sample: F64})
	if !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("NewBuffer() = %v, want ErrInvalidSampleRate", err)
	}
}

func TestBuffer_DurationSeconds(t *testing.T) {
	t.Parallel()

	// One second of stereo audio at 100 Hz
	data := make([]float64, 200)
	buf, err := NewBuffer(data, stereoF64(100))
	if err != nil {
		t.Fatal(err)
	}

	if got := buf.DurationSeconds(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("DurationSeconds() = %v, want 1.0", got)
	}
}

func TestBuffer_Slice(t *testing.T) {
	t.Parallel()

	data := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	buf, err := NewBuffer(data, stereoF64(44100))
	if err != nil {
		t.Fatal(err)
	}

	got := buf.Slice(1, 3)
	want := []float64{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Slice(1, 3) has %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice(1, 3)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuffer_Slice_Clamps(t *testing.T) {
	t.Parallel()

	buf, err := NewBuffer([]float64{0, 1, 2, 3}, stereoF64(44100))
	if err != nil {
		t.Fatal(err)
	}

	if got := buf.Slice(-5, 100); len(got) != 4 {
		t.Errorf("Slice(-5, 100) has %d samples, want 4", len(got))
	}
	if got := buf.Slice(3, 1); got != nil {
		t.Errorf("Slice(3, 1) = %v, want nil", got)
	}
}

func TestBuffer_ChannelData(t *testing.T) {
	t.Parallel()

	// L/R interleave: left ramps up, right ramps down
	data := []float64{0.0, 1.0, 0.25, 0.75, 0.5, 0.5}
	buf, err := NewBuffer(data, stereoF64(44100))
	if err != nil {
		t.Fatal(err)
	}

	left := buf.ChannelData(0)
	right := buf.ChannelData(1)

	wantLeft := []float64{0.0, 0.25, 0.5}
	wantRight := []float64{1.0, 0.75, 0.5}
	for i := range wantLeft {
		if left[i] != wantLeft[i] {
			t.Errorf("left[%d] = %v, want %v", i, left[i], wantLeft[i])
		}
		if right[i] != wantRight[i] {
			t.Errorf("right[%d] = %v, want %v", i, right[i], wantRight[i])
		}
	}

	if got := buf.ChannelData(2); got != nil {
		t.Errorf("ChannelData(2) = %v, want nil for out-of-range channel", got)
	}
}
