// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding is built on github.com/go-audio/wav and accepts integer PCM at
// 8, 16, 24 and 32 bits per sample, any channel count, any sample rate.
// Compressed and IEEE-float WAV variants are rejected.
//
// # Decoding WAV Files
//
// New wraps an io.ReadSeeker and yields canonical float64 packets:
//
//	f, _ := os.Open("audio.wav")
//	dec, err := wav.New(f)
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
// The total frame count is always known for WAV, so Duration reports ok and
// Seek can clamp to the end of the stream. Backward seeks rewind the reader
// and re-parse the headers, which requires the seekable source New demands.
//
// # Writing WAV Files
//
// WriteWAV16 writes interleaved int16 PCM with a canonical 44-byte header:
//
//	samples := []int16{100, -100, 200, -200}
//	file, _ := os.Create("output.wav")
//	err := wav.WriteWAV16(file, 44100, 2, samples)
//
// WriteBuffer narrows a canonical float64 buffer to 16-bit PCM, optionally
// adding dither noise before truncation:
//
//	dither := dsp.NewDitherer(dsp.DitherTriangular, 1)
//	err := wav.WriteBuffer(file, buf, dither)
//
// # Error Handling
//
//   - ErrNotWavFile: the input does not parse as a WAV file
//   - ErrUnsupportedWavLayout: a WAV variant other than integer PCM
//   - dsp.ErrUnsupportedBitDepth: a bit depth outside 8/16/24/32
//
// All construction errors support errors.Is.
package wav
