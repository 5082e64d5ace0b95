// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// Decoding is built on github.com/hajimehoshi/go-mp3, which emits 16-bit
// little-endian stereo PCM regardless of the source layout; mono files come
// out with both channels carrying the same signal. Output is converted to
// the canonical float64 domain.
//
// # Decoding MP3 Files
//
//	f, _ := os.Open("audio.mp3")
//	dec, err := mp3.New(f)
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
// go-mp3 exposes a byte-addressed seek over the decoded PCM, so Seek is a
// single call rather than a decode-and-discard walk. The total length is
// known whenever the source is seekable, which New requires.
//
// # Limitations
//
//   - Decoding only; there is no MP3 encoder here
//   - Output is always two channels at 16-bit source precision
package mp3
