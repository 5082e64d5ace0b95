// SPDX-License-Identifier: EPL-2.0

package auricle

import (
	"fmt"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/device"
	"github.com/auricle-audio/auricle/dsp"
	"github.com/auricle-audio/auricle/engine"
	"github.com/auricle-audio/auricle/formats"
)

// Player bundles a playback engine with the audio host that drives it.
// Engine methods are promoted, so a Player is used like an Engine that
// also owns its output device.
type Player struct {
	*engine.Engine
	host device.Host
}

// NewPlayer opens the platform audio host and builds a playback engine
// on it. Pass the zero engine.Config for the defaults: all registered
// formats, a 2.5 second stream buffer, no dithering.
func NewPlayer(cfg engine.Config) (*Player, error) {
	host, err := device.NewMalgoHost(nil)
	if err != nil {
		return nil, fmt.Errorf("opening audio host: %w", err)
	}
	return NewPlayerWithHost(host, cfg)
}

// NewPlayerWithHost builds a player on a caller-supplied host. The
// player takes ownership of the host; Close shuts both down.
func NewPlayerWithHost(host device.Host, cfg engine.Config) (*Player, error) {
	eng, err := engine.New(host, cfg)
	if err != nil {
		host.Close()
		return nil, err
	}
	return &Player{Engine: eng, host: host}, nil
}

// Close stops playback, releases the engine, and closes the audio host.
func (p *Player) Close() error {
	err := p.Engine.Close()
	if cerr := p.host.Close(); err == nil {
		err = cerr
	}
	return err
}

// Load decodes an entire audio file into a canonical buffer. The decoder
// is picked by file extension, as in Engine.LoadFile.
func Load(path string) (*audio.Buffer, error) {
	dec, err := formats.NewRegistry().Open(path)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return decode.DecodeAll(dec)
}

// LoadResampled decodes an audio file and converts it to the given
// sample rate. The channel count and layout are unchanged; a file
// already at the target rate is returned as is.
func LoadResampled(path string, sampleRate int) (*audio.Buffer, error) {
	buf, err := Load(path)
	if err != nil {
		return nil, err
	}
	if buf.Format.SampleRate == sampleRate {
		return buf, nil
	}

	out, err := dsp.Resample(buf.Data, buf.Format.Channels, buf.Format.SampleRate, sampleRate)
	if err != nil {
		return nil, err
	}
	format := buf.Format
	format.SampleRate = sampleRate
	return audio.NewBuffer(out, format)
}
