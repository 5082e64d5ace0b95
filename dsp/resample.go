// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"

	"github.com/auricle-audio/auricle/utils"
)

// Resample converts interleaved canonical samples from srcRate to dstRate
// using linear interpolation between adjacent frames. Equal rates return a
// copy. Output length is (inputFrames-1)*ratio + 1 frames, where ratio is
// dstRate/srcRate.
//
// Linear interpolation is a deliberate quality trade: no filter latency and
// tiny cost, at the price of rolloff and imaging near the Nyquist limit of
// the lower rate. See the package documentation.
func Resample(samples []float64, channels, srcRate, dstRate int) ([]float64, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d Hz", ErrInvalidRate, srcRate, dstRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels",
			ErrInvalidChannels, len(samples), channels)
	}

	if srcRate == dstRate {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}

	frames := len(samples) / channels
	if frames == 0 {
		return nil, nil
	}
	if frames == 1 {
		out := make([]float64, channels)
		copy(out, samples)
		return out, nil
	}

	ratio := float64(dstRate) / float64(srcRate)
	step := 1.0 / ratio
	outFrames := int(float64(frames-1)*ratio) + 1

	out := make([]float64, outFrames*channels)
	for i := range outFrames {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)

		next := idx + 1
		if next >= frames {
			next = frames - 1
		}

		for c := range channels {
			y0 := samples[idx*channels+c]
			y1 := samples[next*channels+c]
			out[i*channels+c] = utils.Lerp(y0, y1, frac)
		}
	}

	return out, nil
}
