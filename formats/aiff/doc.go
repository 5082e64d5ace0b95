// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// Decoding is built on github.com/go-audio/aiff and accepts integer PCM at
// 8, 16, 24 or 32 bits per sample. AIFF stores samples big-endian and, at
// 8 bits, signed; both differ from WAV and are normalized away here, so
// packets come out as canonical float64 either way.
//
// # Decoding AIFF Files
//
//	f, _ := os.Open("audio.aiff")
//	dec, err := aiff.New(f)
//	if err != nil {
//	    // Handle error
//	}
//
//	for {
//	    pkt, err := dec.DecodeNext()
//	    if err == io.EOF {
//	        break
//	    }
//	    // pkt.Samples holds interleaved float64 in [-1.0, 1.0]
//	}
//
// The COMM chunk carries the exact frame count, so Duration always reports
// ok. Backward seeks rewind the reader and re-parse; forward seeks decode
// and discard, the same strategy the wav package uses.
package aiff
