// SPDX-License-Identifier: EPL-2.0

// Package decode defines how compressed or containerized audio enters the
// canonical sample domain.
//
// This package contains the decoding building blocks:
//   - Decoder interface producing canonical float64 packets
//   - Registry mapping file extensions to decoder constructors
//   - Reader for prefetched streaming decode on a separate goroutine
//   - DecodeAll for loading a whole track into memory
//
// # Decoder Interface
//
// A Decoder turns one open stream into packets of interleaved canonical
// samples:
//
//	type Decoder interface {
//	    Format() audio.Format
//	    Duration() (frames uint64, ok bool)
//	    Seek(frame uint64) error
//	    DecodeNext() (*Packet, error)
//	    Close() error
//	}
//
// DecodeNext returns io.EOF when the stream is exhausted. Durations are
// reported in frames; containers that do not carry a length report ok ==
// false.
//
// # Registry
//
// The Registry maps lower-case file extensions to constructors:
//
//	reg := decode.NewRegistry()
//	reg.Register(wav.New, "wav", "wave")
//	dec, err := reg.Open("track.wav")
//
// Open validates the extension before touching the file system, so an
// unsupported path fails fast with ErrUnsupportedFormat.
//
// # Streaming
//
// A Reader owns a decode goroutine that keeps a bounded number of packets
// ready ahead of playback:
//
//	r := decode.NewReader(dec, decode.ReaderConfig{})
//	defer r.Close()
//	for {
//	    pkt, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
//
// Pump connects a Reader directly to a ring buffer producer, which is the
// engine's streaming playback path.
package decode
