// SPDX-License-Identifier: EPL-2.0

// Package meter measures audio levels from canonical samples.
//
// An Accumulator gathers per-channel square sums and peaks from the
// interleaved samples a render pass produces; Levels converts the
// accumulated state to RMS and peak values in decibels, with the same
// -60 dB silence floor the dsp package uses. A PeakHolder keeps peak
// readings visible for a hold period so short transients register on
// slow consumers such as status displays.
//
// # Measuring
//
//	acc := meter.NewAccumulator(format.Channels)
//	acc.Process(samples) // per render buffer
//	lv := acc.Levels()   // per display tick
//	acc.Reset()
//
// Process allocates nothing and runs in bounded time, so it is safe to
// call from a real-time render callback. Accumulator is not safe for
// concurrent use; callers serialize Process against Levels and Reset.
// PeakHolder carries its own lock and may be shared.
package meter
