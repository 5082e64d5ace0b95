// SPDX-License-Identifier: EPL-2.0

// Package device abstracts the operating system's audio output layer.
//
// The engine never talks to an audio backend directly. It talks to two
// small interfaces:
//   - Host enumerates output devices and builds streams
//   - Stream starts, suspends, and releases one hardware stream
//
// # Host and Stream
//
// A Host turns a StreamConfig plus a pull callback into a running output
// stream:
//
//	host, _ := device.NewMalgoHost(nil)
//	defer host.Close()
//
//	stream, _ := host.OpenStream(device.StreamConfig{Format: format}, render)
//	stream.Start()
//
// The callback contract is strict: RenderFunc runs on the backend's
// real-time thread, must fill the output buffer completely, and must
// never block. Anything that could wait (locks, channels, allocation)
// belongs on the other side of a non-blocking handoff.
//
// # Negotiation
//
// Outputs() reports each device together with the configuration ranges it
// supports. Negotiate scores every (device, range) pair against a target
// format and returns the best match:
//
//	sel, err := device.Negotiate(outputs, format)
//	if err != nil {
//	    // no device can carry this format
//	}
//
// Scoring prefers ranges that contain the target sample rate, match the
// channel count exactly, support high rates for high-resolution targets,
// and cover the common rates 44100/48000/96000/192000.
//
// # Backends
//
// NewMalgoHost wraps the miniaudio library via github.com/gen2brain/malgo
// and is the production backend. Tests substitute their own Host; the
// interfaces carry no malgo types.
package device
