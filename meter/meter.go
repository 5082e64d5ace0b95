// SPDX-License-Identifier: EPL-2.0

package meter

import (
	"math"

	"github.com/auricle-audio/auricle/dsp"
)

// FloorDB is the level reported for silence, shared with the dsp package.
const FloorDB = dsp.SilenceFloorDB

// ClipThreshold is the absolute sample value counted as a clip, slightly
// below full scale to catch near-clips.
const ClipThreshold = 0.999

// Levels is one measurement: per-channel RMS and peak in decibels
// relative to full scale, plus per-channel clip counts and the number of
// frames the measurement covers.
type Levels struct {
	RMS    []float64
	Peak   []float64
	Clips  []int
	Frames int
}

// Accumulator gathers level data from interleaved canonical samples.
type Accumulator struct {
	channels   int
	sumSquares []float64
	peaks      []float64
	clips      []int
	frames     int
}

// NewAccumulator returns an accumulator for the given channel count.
// Channel counts below one are treated as mono.
func NewAccumulator(channels int) *Accumulator {
	if channels < 1 {
		channels = 1
	}
	return &Accumulator{
		channels:   channels,
		sumSquares: make([]float64, channels),
		peaks:      make([]float64, channels),
		clips:      make([]int, channels),
	}
}

// Channels returns the channel count the accumulator was created with.
func (a *Accumulator) Channels() int {
	return a.channels
}

// Process folds interleaved samples into the running measurement. A
// trailing partial frame is ignored. No allocation takes place.
func (a *Accumulator) Process(samples []float64) {
	frames := len(samples) / a.channels
	for f := range frames {
		base := f * a.channels
		for ch := range a.channels {
			v := samples[base+ch]
			a.sumSquares[ch] += v * v

			if abs := math.Abs(v); abs > a.peaks[ch] {
				a.peaks[ch] = abs
			}
			if v >= ClipThreshold || v <= -ClipThreshold {
				a.clips[ch]++
			}
		}
	}
	a.frames += frames
}

// Levels computes the measurement accumulated so far. An accumulator that
// has seen no frames reports the silence floor on every channel.
func (a *Accumulator) Levels() Levels {
	lv := Levels{
		RMS:    make([]float64, a.channels),
		Peak:   make([]float64, a.channels),
		Clips:  make([]int, a.channels),
		Frames: a.frames,
	}

	if a.frames == 0 {
		for ch := range a.channels {
			lv.RMS[ch] = FloorDB
			lv.Peak[ch] = FloorDB
		}
		return lv
	}

	for ch := range a.channels {
		rms := math.Sqrt(a.sumSquares[ch] / float64(a.frames))
		lv.RMS[ch] = max(dsp.LinearToDB(rms), FloorDB)
		lv.Peak[ch] = max(dsp.LinearToDB(a.peaks[ch]), FloorDB)
		lv.Clips[ch] = a.clips[ch]
	}
	return lv
}

// Reset clears the accumulators for the next measurement period.
func (a *Accumulator) Reset() {
	for ch := range a.channels {
		a.sumSquares[ch] = 0
		a.peaks[ch] = 0
		a.clips[ch] = 0
	}
	a.frames = 0
}
