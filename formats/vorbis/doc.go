// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// Decoding is built on github.com/jfreymuth/oggvorbis, which emits
// interleaved float32 values. Output is widened to the canonical float64
// domain without any integer quantization step.
//
// # Decoding Ogg Vorbis Files
//
//	f, _ := os.Open("audio.ogg")
//	dec, err := vorbis.New(f)
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
// # Seeking and Duration
//
// The library seeks natively by frame position, so Seek is a single call.
// Length comes from the last Ogg page when the source is seekable, which
// New requires; an unterminated stream reports its duration as unknown.
package vorbis
