// SPDX-License-Identifier: EPL-2.0

package dsp

import "github.com/auricle-audio/auricle/audio"

// DitherAlgorithm selects the noise shape applied before bit-depth reduction.
type DitherAlgorithm int

const (
	// DitherNone disables dithering.
	DitherNone DitherAlgorithm = iota
	// DitherRectangular adds uniform noise of one LSB peak-to-peak.
	DitherRectangular
	// DitherTriangular adds TPDF noise, the sum of two uniform draws.
	// Better decorrelation of quantization error than rectangular.
	DitherTriangular
)

func (a DitherAlgorithm) String() string {
	switch a {
	case DitherNone:
		return "none"
	case DitherRectangular:
		return "rectangular"
	case DitherTriangular:
		return "triangular"
	default:
		return "unknown"
	}
}

// Knuth's MMIX linear congruential constants.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// Ditherer adds quantization noise to canonical samples ahead of a reduction
// to targetBits of precision. The generator is a plain 64-bit LCG: fast,
// deterministic per seed, and statistically adequate for dither. It is not
// cryptographic and must not be used as a general randomness source.
type Ditherer struct {
	algorithm DitherAlgorithm
	rng       uint64
}

// NewDitherer returns a Ditherer with the given algorithm and PRNG seed.
// The same seed reproduces the same noise sequence.
func NewDitherer(algorithm DitherAlgorithm, seed uint64) *Ditherer {
	return &Ditherer{algorithm: algorithm, rng: seed}
}

// Algorithm returns the configured noise shape.
func (d *Ditherer) Algorithm() DitherAlgorithm {
	return d.algorithm
}

// next advances the LCG and returns a uniform draw in [0, 1).
func (d *Ditherer) next() float64 {
	d.rng = d.rng*lcgMultiplier + lcgIncrement
	return float64(d.rng>>11) / (1 << 53)
}

// Apply adds dither noise scaled to the LSB of a targetBits reduction.
// LSB = 1 / 2^(targetBits-1) in the canonical domain.
func (d *Ditherer) Apply(samples []float64, targetBits int) {
	if d.algorithm == DitherNone || targetBits <= 1 || targetBits > 32 {
		return
	}

	lsb := 1.0 / float64(uint64(1)<<(targetBits-1))

	switch d.algorithm {
	case DitherRectangular:
		for i := range samples {
			samples[i] += (d.next() - 0.5) * lsb
		}
	case DitherTriangular:
		for i := range samples {
			samples[i] += ((d.next() - 0.5) + (d.next() - 0.5)) * lsb
		}
	}
}

// ApplyForType dithers ahead of a narrowing to the given sample type.
// Float targets lose no precision worth masking and are skipped.
func (d *Ditherer) ApplyForType(samples []float64, st audio.SampleType) {
	if st.IsFloat() {
		return
	}
	d.Apply(samples, st.Bits())
}
