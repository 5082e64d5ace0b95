// SPDX-License-Identifier: EPL-2.0

package dsp

import "fmt"

// DownmixMono folds interleaved multi-channel samples to mono by averaging
// each frame's channels, appending to dst. Averaging keeps the result inside
// the canonical range without further clamping.
func DownmixMono(dst []float64, src []float64, channels int) ([]float64, error) {
	if channels < 1 {
		return dst, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if len(src)%channels != 0 {
		return dst, fmt.Errorf("%w: %d samples, %d channels",
			ErrInvalidChannels, len(src), channels)
	}
	if channels == 1 {
		return append(dst, src...), nil
	}

	div := float64(channels)
	for i := 0; i < len(src); i += channels {
		var sum float64
		for c := range channels {
			sum += src[i+c]
		}
		dst = append(dst, sum/div)
	}
	return dst, nil
}

// ConvertChannels adapts interleaved samples from srcCh to dstCh channels.
// Downmix to mono averages; mono upmix replicates; other conversions map
// overlapping channels positionally and zero-fill the remainder.
func ConvertChannels(src []float64, srcCh, dstCh int) ([]float64, error) {
	if srcCh < 1 || dstCh < 1 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidChannels, srcCh, dstCh)
	}
	if len(src)%srcCh != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels",
			ErrInvalidChannels, len(src), srcCh)
	}

	if srcCh == dstCh {
		out := make([]float64, len(src))
		copy(out, src)
		return out, nil
	}

	frames := len(src) / srcCh

	if dstCh == 1 {
		return DownmixMono(make([]float64, 0, frames), src, srcCh)
	}

	out := make([]float64, frames*dstCh)
	if srcCh == 1 {
		for i := range frames {
			for c := range dstCh {
				out[i*dstCh+c] = src[i]
			}
		}
		return out, nil
	}

	keep := srcCh
	if dstCh < keep {
		keep = dstCh
	}
	for i := range frames {
		for c := range keep {
			out[i*dstCh+c] = src[i*srcCh+c]
		}
	}
	return out, nil
}
