// SPDX-License-Identifier: EPL-2.0

package checksum

import "math"

// Stats summarizes one run of canonical samples in the linear domain.
// Meters report decibels during playback; this is the offline view used
// when comparing buffers.
type Stats struct {
	// Samples is how many samples were analyzed.
	Samples int
	// RMS is the root mean square level in [0, 1].
	RMS float64
	// Peak is the largest absolute sample value.
	Peak float64
	// Min and Max are the raw extremes, sign included.
	Min float64
	Max float64
	// Mean is the average sample value; a DC offset shows up here.
	Mean float64
}

// Analyze computes Stats over samples. Empty input yields the zero Stats.
func Analyze(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	st := Stats{
		Samples: len(samples),
		Min:     samples[0],
		Max:     samples[0],
	}

	var sumSquares, sum float64
	for _, s := range samples {
		sumSquares += s * s
		sum += s

		if a := math.Abs(s); a > st.Peak {
			st.Peak = a
		}
		if s < st.Min {
			st.Min = s
		}
		if s > st.Max {
			st.Max = s
		}
	}

	st.RMS = math.Sqrt(sumSquares / float64(len(samples)))
	st.Mean = sum / float64(len(samples))
	return st
}
