// SPDX-License-Identifier: EPL-2.0

// Package audio defines the data model shared by every stage of the playback
// pipeline: sample encodings, channel layouts, stream formats, and the static
// decoded buffer.
//
// # Canonical Domain
//
// Internally the pipeline works on normalized 64-bit floats in [-1.0, 1.0],
// regardless of how samples are encoded on disk or on the wire:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// A Format describes an encoded representation (sample rate, channel count,
// sample type); the dsp package converts between that representation and the
// canonical domain.
//
// # Formats
//
// Format values are plain data and safe to copy. Validate rejects parameters
// the engine cannot drive:
//
//	format := audio.Format{SampleRate: 44100, Channels: 2, Sample: audio.I16}
//	if err := format.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Sample rates above 192 kHz and channel counts outside [1, 32] fail
// validation before any allocation happens.
//
// # Buffers
//
// Buffer holds a fully decoded track as interleaved canonical samples. It is
// the static counterpart of the streaming ring buffer: short files are decoded
// whole into a Buffer, long files stream through the ring package instead.
//
//	buf, _ := audio.NewBuffer(samples, format)
//	fmt.Println(buf.Frames(), buf.DurationSeconds())
//
// # Channel Layouts
//
// A ChannelLayout names the speaker arrangement for common channel counts
// (mono, stereo, 2.1, 5.1, 7.1). Layouts are advisory: the engine negotiates
// on channel count, layouts only label the channels for display purposes.
package audio
