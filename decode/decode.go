// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/auricle-audio/auricle/audio"
)

// Packet is one chunk of decoded audio: interleaved canonical samples,
// Frames * Format.Channels values long.
type Packet struct {
	Samples []float64
	Frames  int
	Format  audio.Format
}

// Decoder decodes one audio stream into canonical packets.
//
// Implementations are not safe for concurrent use; the Reader serializes
// access when decoding moves to its own goroutine.
type Decoder interface {
	// Format describes the decoded stream. The sample type reflects the
	// source encoding; packet data is always canonical float64.
	Format() audio.Format

	// Duration returns the total length in frames when the container
	// carries one.
	Duration() (frames uint64, ok bool)

	// Seek positions the stream so the next packet starts at the given
	// frame.
	Seek(frame uint64) error

	// DecodeNext returns the next packet, or io.EOF at stream end.
	DecodeNext() (*Packet, error)

	// Close releases decoder resources.
	Close() error
}

// DecodeAll drains a decoder into a single static buffer. The decoder is
// left at end of stream; closing it remains the caller's responsibility.
func DecodeAll(dec Decoder) (*audio.Buffer, error) {
	format := dec.Format()

	var samples []float64
	if frames, ok := dec.Duration(); ok {
		samples = make([]float64, 0, int(frames)*format.Channels)
	}

	for {
		pkt, err := dec.DecodeNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding stream: %w", err)
		}
		samples = append(samples, pkt.Samples...)
	}

	buf, err := audio.NewBuffer(samples, format)
	if err != nil {
		return nil, fmt.Errorf("assembling decoded buffer: %w", err)
	}
	return buf, nil
}
