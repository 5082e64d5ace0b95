// SPDX-License-Identifier: EPL-2.0

// Package dsp implements the sample-processing layer of the playback
// pipeline: conversion between PCM encodings and the canonical 64-bit float
// domain, volume application with click-free ramping, dithering, decibel
// mapping, and sample-rate conversion.
//
// # Conversions
//
// Decode and Encode translate between encoded PCM bytes and canonical
// samples in [-1.0, 1.0]:
//
//	samples := make([]float64, len(raw)/audio.I16.Size())
//	n, err := dsp.Decode(samples, raw, audio.I16)
//
// The conversion formulas are fixed:
//   - unsigned N-bit u: (u / maxU) * 2 - 1
//   - signed 8/16/32-bit s: s / maxPositive (i16 divides by 32767, not 32768)
//   - 24-bit little-endian: sign-extend to 32 bits, divide by 2^23
//   - f32/f64: pass through (widen or narrow only)
//
// Encoding clamps to [-1.0, 1.0] first, then inverts the formula; 24-bit
// output takes the low 3 bytes of the scaled 32-bit result.
//
// # Volume
//
// Processor tracks a current and a target volume and moves between them one
// sample at a time, so a volume change never produces an audible click:
//
//	p := dsp.NewProcessor(format)
//	p.SetVolumeRamped(0.2, 50) // reach 0.2 over 50 ms
//	p.ApplyVolume(samples)     // advances the ramp per sample
//
// SetVolume changes the level immediately and cancels any ramp in progress.
//
// # Decibels
//
// DBToLinear and LinearToDB map between the linear [0, 1] volume scale and
// decibels with a defined silence floor at -60 dB: anything at or below the
// floor is exact zero, and a zero linear volume reports the floor.
//
// # Dithering
//
// Ditherer adds low-level noise before bit-depth reduction to decorrelate
// quantization error. Rectangular dither draws uniform noise of one LSB
// peak-to-peak; triangular (TPDF) dither sums two independent uniform draws.
// The generator is a deterministic 64-bit linear congruential PRNG, adequate
// for dither and reproducible across runs given the same seed. Float targets
// need no dither and are skipped.
//
// # Resampling
//
// Resample converts between sample rates with linear interpolation. This is
// deliberately not a sinc-based design: linear interpolation keeps the
// implementation small and the latency zero, at the cost of high-frequency
// rolloff and imaging above roughly half the lower of the two rates. For a
// playback engine fed by full-quality sources this trade is acceptable;
// callers that need mastering-grade conversion should resample upstream.
package dsp
