// SPDX-License-Identifier: EPL-2.0

// Package engine ties decoding, processing and device output into the
// playback state machine.
//
// # Lifecycle
//
// An Engine renders to a device.Host it is handed at construction:
//
//	eng, err := engine.New(host, engine.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	if err := eng.LoadFile("track.flac"); err != nil {
//	    log.Fatal(err)
//	}
//	eng.Play()
//
// LoadFile decodes the whole track into memory before playback starts;
// LoadStream decodes on a background goroutine through a ring buffer and
// begins with a short Buffering phase while the ring prefills.
//
// # States
//
// The engine is always in exactly one of Stopped, Playing, Paused,
// Buffering or Error. Play, Pause, Stop and Seek move between them;
// re-applying the current state is a no-op, while an impossible request
// such as pausing from Stopped fails with ErrState. Error is entered on
// device or decode failures and left by loading a source again. Every
// transition is observable through the event stream.
//
// # Rendering
//
// The device backend pulls audio from a realtime callback. The callback
// never allocates, logs or blocks; when the control lock is contended or
// the engine is not in Playing, the period is rendered as silence. Volume
// ramps, metering and optional dither run inside the callback on the
// canonical samples just before they are encoded for the wire.
//
// # Events
//
// State changes, position jumps, track end, buffer underruns and failures
// are delivered to a single Handler on a dedicated dispatch goroutine:
//
//	eng.SetHandler(engine.HandlerFunc(func(ev engine.Event) {
//	    log.Printf("%s", ev.Type)
//	}))
//
// Delivery is ordered but lossy: events are dropped rather than ever
// making the render callback wait.
package engine
