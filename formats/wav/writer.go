// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/dsp"
)

// writeChunk is how many samples each payload write carries.
const writeChunk = 8192

// header builds a canonical 44-byte PCM WAV header.
func header(sampleRate, channels, bitsPerSample, dataBytes int) []byte {
	byteRate := uint32(sampleRate) * uint32(channels) * uint32(bitsPerSample/8)
	blockAlign := uint16(channels) * uint16(bitsPerSample/8)
	dataSize := uint32(dataBytes)
	riffSize := 36 + dataSize

	h := make([]byte, 44)

	// RIFF header (12 bytes)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], riffSize)
	copy(h[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(h[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], uint16(bitsPerSample))

	// data chunk header (8 bytes)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)

	return h
}

// WriteWAV16 writes interleaved 16-bit PCM as a complete WAV file.
// The payload is written in chunks to keep allocations flat for large files.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if _, err := w.Write(header(sampleRate, channels, 16, len(samples)*2)); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), writeChunk)*2)
	for i := 0; i < len(samples); i += writeChunk {
		chunk := samples[i:min(i+writeChunk, len(samples))]
		buf = buf[:len(chunk)*2]
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:j*2+2], uint16(s))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}
	return nil
}

// WriteBuffer narrows a canonical float64 buffer to 16-bit PCM and writes it
// as a complete WAV file. When dither is non-nil its noise is added before
// truncation; the source buffer itself is not modified.
func WriteBuffer(w io.Writer, buf *audio.Buffer, dither *dsp.Ditherer) error {
	if err := buf.Format.Validate(); err != nil {
		return err
	}
	samples := buf.Data
	if _, err := w.Write(header(buf.Format.SampleRate, buf.Format.Channels, 16, len(samples)*2)); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	if len(samples) == 0 {
		return nil
	}

	scratch := make([]float64, 0, min(len(samples), writeChunk))
	out := make([]byte, min(len(samples), writeChunk)*2)
	for i := 0; i < len(samples); i += writeChunk {
		chunk := samples[i:min(i+writeChunk, len(samples))]
		if dither != nil {
			scratch = append(scratch[:0], chunk...)
			dither.Apply(scratch, 16)
			chunk = scratch
		}
		n, err := dsp.Encode(out[:len(chunk)*2], chunk, audio.I16)
		if err != nil {
			return err
		}
		if _, err := w.Write(out[:n*2]); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}
	return nil
}
