package dsp

import (
	"errors"
	"math"
	"testing"
)

func TestResample_PassThrough(t *testing.T) {
	t.Parallel()

	in := []float64{0.1, 0.2, 0.3, 0.4}
	out, err := Resample(in, 1, 44100, 44100)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != len(in) {
		t.Fatalf("passthrough length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}

	// The copy must not alias the input
	out[0] = 9
	if in[0] == 9 {
		t.Error("passthrough aliases the input slice")
	}
}

func TestResample_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		frames   int
		src, dst int
	}{
		{"upsample double", 100, 22050, 44100},
		{"downsample half", 100, 44100, 22050},
		{"cd to dat", 441, 44100, 48000},
		{"hires down", 96, 96000, 44100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := make([]float64, tt.frames)
			out, err := Resample(in, 1, tt.src, tt.dst)
			if err != nil {
				t.Fatal(err)
			}

			ratio := float64(tt.dst) / float64(tt.src)
			want := int(float64(tt.frames-1)*ratio) + 1
			if len(out) != want {
				t.Errorf("output frames = %d, want %d", len(out), want)
			}
		})
	}
}

func TestResample_UpsampleInterpolates(t *testing.T) {
	t.Parallel()

	// Doubling the rate puts interpolated midpoints between source samples
	in := []float64{0.0, 1.0, 0.0}
	out, err := Resample(in, 1, 100, 200)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.0, 0.5, 1.0, 0.5, 0.0}
	if len(out) != len(want) {
		t.Fatalf("output length = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestResample_ConstantSignalStaysConstant(t *testing.T) {
	t.Parallel()

	in := make([]float64, 500)
	for i := range in {
		in[i] = 0.42
	}

	out, err := Resample(in, 1, 44100, 48000)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range out {
		if math.Abs(s-0.42) > 1e-12 {
			t.Fatalf("out[%d] = %v, want 0.42", i, s)
		}
	}
}

func TestResample_Stereo(t *testing.T) {
	t.Parallel()

	// Left ramps, right stays constant; channels must not bleed
	in := []float64{0.0, 1.0, 0.5, 1.0, 1.0, 1.0}
	out, err := Resample(in, 2, 100, 200)
	if err != nil {
		t.Fatal(err)
	}

	frames := len(out) / 2
	if frames != 5 {
		t.Fatalf("output frames = %d, want 5", frames)
	}
	for i := range frames {
		if math.Abs(out[i*2+1]-1.0) > 1e-12 {
			t.Errorf("right channel frame %d = %v, want 1.0", i, out[i*2+1])
		}
	}
	if math.Abs(out[2]-0.25) > 1e-12 {
		t.Errorf("left midpoint = %v, want 0.25", out[2])
	}
}

func TestResample_SineWavePreservesShape(t *testing.T) {
	t.Parallel()

	// A low-frequency sine survives linear interpolation nearly unchanged
	const freq = 100.0
	src := 8000
	dst := 16000
	in := make([]float64, src/10)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(src))
	}

	out, err := Resample(in, 1, src, dst)
	if err != nil {
		t.Fatal(err)
	}

	for i := range out {
		want := math.Sin(2 * math.Pi * freq * float64(i) / float64(dst))
		if math.Abs(out[i]-want) > 0.01 {
			t.Fatalf("out[%d] = %v, want %v within 0.01", i, out[i], want)
		}
	}
}

func TestResample_EdgeCases(t *testing.T) {
	t.Parallel()

	// Empty input
	out, err := Resample(nil, 1, 44100, 48000)
	if err != nil || out != nil {
		t.Errorf("Resample(nil) = %v, %v, want nil, nil", out, err)
	}

	// Single frame has no neighbor to interpolate toward
	out, err = Resample([]float64{0.5}, 1, 44100, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != 0.5 {
		t.Errorf("single frame resample = %v, want [0.5]", out)
	}
}

func TestResample_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Resample([]float64{0}, 1, 0, 44100); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("zero src rate = %v, want ErrInvalidRate", err)
	}
	if _, err := Resample([]float64{0}, 1, 44100, -1); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("negative dst rate = %v, want ErrInvalidRate", err)
	}
	if _, err := Resample([]float64{0, 0, 0}, 2, 44100, 48000); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("partial frame = %v, want ErrInvalidChannels", err)
	}
	if _, err := Resample([]float64{0}, 0, 44100, 48000); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("zero channels = %v, want ErrInvalidChannels", err)
	}
}

func BenchmarkResample_Upsample(b *testing.B) {
	in := make([]float64, 4096)
	for i := range in {
		in[i] = math.Sin(float64(i) / 50)
	}

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Resample(in, 2, 44100, 48000)
	}
}
