// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC audio file decoding.
//
// Decoding is built on github.com/tphakala/flac, which yields whole FLAC
// blocks as interleaved little-endian PCM. Blocks are converted to the
// canonical float64 domain at 8, 16, 24 or 32 bits per sample.
//
// # Decoding FLAC Files
//
//	f, _ := os.Open("audio.flac")
//	dec, err := flac.New(f)
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
// # Seeking
//
// The block reader has no native seek, so Seek rewinds the source and
// discards blocks up to the target frame. A seek that lands inside a block
// converts that block and holds the tail, which the next DecodeNext call
// delivers; packet sizes therefore vary around seek points.
//
// # Duration
//
// STREAMINFO carries a total sample count that encoders may leave at zero.
// Duration reports ok only when the count is present.
package flac
