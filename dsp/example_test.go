// SPDX-License-Identifier: EPL-2.0

package dsp_test

import (
	"fmt"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/dsp"
)

// Example_volumeRamp shows a click-free volume change advancing one step
// per processed sample.
func Example_volumeRamp() {
	format := audio.Format{SampleRate: 1000, Channels: 1, Sample: audio.F64}

	p := dsp.NewProcessor(format)
	p.SetVolume(0)

	// Ramp to full volume over 4 ms: at 1000 Hz that is 4 samples
	p.SetVolumeRamped(1.0, 4)

	samples := []float64{1, 1, 1, 1}
	p.ApplyVolume(samples)

	for _, s := range samples {
		fmt.Printf("%.2f ", s)
	}
	fmt.Printf("\nfinal volume: %.2f\n", p.Volume())
	// Output: 0.00 0.25 0.50 0.75
	// final volume: 1.00
}

// ExampleDBToLinear converts between the decibel and linear volume scales.
func ExampleDBToLinear() {
	fmt.Printf("%.4f\n", dsp.DBToLinear(-6.0))
	fmt.Printf("%.2f\n", dsp.LinearToDB(0.5))
	fmt.Printf("%.1f\n", dsp.DBToLinear(-60.0))
	// Output: 0.5012
	// -6.02
	// 0.0
}

// ExampleDecode converts 16-bit PCM bytes to canonical samples.
func ExampleDecode() {
	// Two samples: 32767 and -32767, little-endian
	raw := []byte{0xFF, 0x7F, 0x01, 0x80}

	samples := make([]float64, 2)
	n, err := dsp.Decode(samples, raw, audio.I16)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%d samples: %.0f, %.0f\n", n, samples[0], samples[1])
	// Output: 2 samples: 1, -1
}
