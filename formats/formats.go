// SPDX-License-Identifier: EPL-2.0

// Package formats wires every built-in codec into a decode.Registry.
//
// Importing the individual codec packages keeps binaries small when only
// one format is needed; this package is the convenience path that enables
// all of them at once:
//
//	reg := formats.NewRegistry()
//	dec, err := reg.Open("track.flac")
//
// The registry recognizes files by extension. Call Register on the
// returned registry to add codecs beyond the built-in set or to replace
// a built-in binding.
package formats

import (
	"io"

	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/formats/aiff"
	"github.com/auricle-audio/auricle/formats/flac"
	"github.com/auricle-audio/auricle/formats/mp3"
	"github.com/auricle-audio/auricle/formats/vorbis"
	"github.com/auricle-audio/auricle/formats/wav"
)

// NewRegistry returns a registry with every built-in codec registered
// under its customary extensions.
func NewRegistry() *decode.Registry {
	r := decode.NewRegistry()

	r.Register(func(rs io.ReadSeeker) (decode.Decoder, error) {
		return wav.New(rs)
	}, "wav", "wave")

	r.Register(func(rs io.ReadSeeker) (decode.Decoder, error) {
		return flac.New(rs)
	}, "flac")

	r.Register(func(rs io.ReadSeeker) (decode.Decoder, error) {
		return mp3.New(rs)
	}, "mp3")

	r.Register(func(rs io.ReadSeeker) (decode.Decoder, error) {
		return vorbis.New(rs)
	}, "ogg", "oga")

	r.Register(func(rs io.ReadSeeker) (decode.Decoder, error) {
		return aiff.New(rs)
	}, "aiff", "aif", "aifc")

	return r
}
