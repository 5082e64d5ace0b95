// SPDX-License-Identifier: EPL-2.0

// Package auricle provides high-fidelity audio playback for Go applications.
//
// The package couples a platform audio host with a playback engine that
// decodes audio files whole or streams them packet by packet, renders
// through a float64 processing chain, and reports state changes, levels,
// and buffer health while it plays.
//
// # Supported Formats
//
// Files are routed to a decoder by extension:
//   - WAV (8/16/24/32-bit PCM and float) via formats/wav
//   - FLAC via formats/flac
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (8/16/24/32-bit PCM) via formats/aiff
//
// # Quick Start
//
// The simplest way to play a file is through Player, which opens the
// default output device and wires a playback engine to it:
//
//	player, err := auricle.NewPlayer(engine.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer player.Close()
//
//	if err := player.LoadFile("track.flac"); err != nil {
//		log.Fatal(err)
//	}
//	player.Play()
//
// LoadFile decodes the whole track into memory for sample-accurate
// seeking. LoadStream decodes packet by packet through a ring buffer
// instead and is the right choice for long material.
//
// # Volume and Metering
//
// The engine exposes its processing chain while playing:
//
//	player.SetVolumeRamped(0.5, 200) // fade to half volume over 200 ms
//	player.Mute()
//
//	levels := player.Levels() // per-channel RMS and peak since the last call
//
// # Offline Processing
//
// Decoded audio is also available outside playback. Load reads a whole
// file into a canonical buffer for analysis or conversion:
//
//	buf, _ := auricle.Load("take3.wav")
//	stats := checksum.Analyze(buf.Data)
//	sum := checksum.Sum(buf.Data, checksum.SHA256)
//
// LoadResampled converts to a target sample rate on the way in, and
// formats/wav.WriteBuffer writes a buffer back out as 16-bit PCM with
// optional dithering.
//
// # Packages
//
// The root package is a thin convenience layer; the subpackages carry
// the machinery:
//   - audio: canonical sample formats and static buffers
//   - engine: playback state machine and render loop
//   - device: audio host abstraction and the miniaudio backend
//   - decode: decoder interface, registry, and the streaming reader
//   - ring: the lock-free ring buffer behind streaming playback
//   - dsp: volume, dithering, channel and rate conversion
//   - meter: RMS, peak, and clip metering
//   - checksum: buffer fingerprints and offline statistics
//   - remote: WebSocket remote control and status frames
//   - config: TOML player configuration
//
// See the individual subpackages for more detailed documentation.
package auricle
