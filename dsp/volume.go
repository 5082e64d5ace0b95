// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/utils"
)

// SilenceFloorDB is the decibel level treated as absolute silence.
const SilenceFloorDB = -60.0

// rampEpsilon is the smallest step magnitude considered an active ramp.
const rampEpsilon = 1e-10

// Processor applies volume to canonical samples, moving gradually toward a
// target level when a ramp is active. It is not safe for concurrent use; the
// engine serializes access from the render callback.
type Processor struct {
	format   audio.Format
	volume   float64
	target   float64
	rampStep float64
}

// NewProcessor returns a Processor at full volume for the given format.
// The format's sample rate determines ramp step sizes.
func NewProcessor(format audio.Format) *Processor {
	return &Processor{
		format: format,
		volume: 1.0,
		target: 1.0,
	}
}

// Format returns the format the processor was created with.
func (p *Processor) Format() audio.Format {
	return p.format
}

// Volume returns the current volume level in [0, 1].
func (p *Processor) Volume() float64 {
	return p.volume
}

// TargetVolume returns the level an active ramp is moving toward. Equal to
// Volume when no ramp is active.
func (p *Processor) TargetVolume() float64 {
	return p.target
}

// Ramping reports whether a volume ramp is in progress.
func (p *Processor) Ramping() bool {
	return math.Abs(p.rampStep) > rampEpsilon
}

// SetVolume sets the level immediately, clamped to [0, 1], and cancels any
// ramp in progress. For audible transitions use SetVolumeRamped.
func (p *Processor) SetVolume(volume float64) {
	p.volume = utils.Clamp(volume, 0, 1)
	p.target = p.volume
	p.rampStep = 0
}

// SetVolumeRamped moves the level toward volume over durationMS milliseconds,
// one step per sample. A non-positive duration applies immediately.
func (p *Processor) SetVolumeRamped(volume, durationMS float64) {
	target := utils.Clamp(volume, 0, 1)
	p.target = target

	if durationMS <= 0 {
		p.volume = target
		p.rampStep = 0
		return
	}

	totalSamples := float64(p.format.SampleRate) * durationMS / 1000.0
	if totalSamples < 1 {
		totalSamples = 1
	}
	p.rampStep = (target - p.volume) / totalSamples
}

// ApplyVolume scales samples in place by the current volume, advancing the
// ramp one step per sample. The level stops exactly at the target, never
// overshooting, so repeated ramps stay click-free.
func (p *Processor) ApplyVolume(samples []float64) {
	if p.Ramping() {
		for i := range samples {
			samples[i] *= p.volume
			p.volume += p.rampStep

			if (p.rampStep > 0 && p.volume >= p.target) ||
				(p.rampStep < 0 && p.volume <= p.target) {
				p.volume = p.target
				p.rampStep = 0
			}
		}
		return
	}

	for i := range samples {
		samples[i] *= p.volume
	}
}

// ApplyVolumeStatic scales samples by a fixed level without touching any
// processor state. Used for previews and offline renders.
func ApplyVolumeStatic(samples []float64, volume float64) {
	vol := utils.Clamp(volume, 0, 1)
	for i := range samples {
		samples[i] *= vol
	}
}

// DBToLinear converts decibels to a linear scale factor. Levels at or below
// the -60 dB silence floor map to exact zero.
func DBToLinear(db float64) float64 {
	if db <= SilenceFloorDB {
		return 0
	}
	return math.Pow(10, db/20.0)
}

// LinearToDB converts a linear scale factor to decibels. Non-positive input
// reports the -60 dB silence floor.
func LinearToDB(linear float64) float64 {
	if linear <= 0 {
		return SilenceFloorDB
	}
	return 20.0 * math.Log10(linear)
}
