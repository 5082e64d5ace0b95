// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/device"
	"github.com/auricle-audio/auricle/dsp"
)

// renderChunkFrames bounds how many frames one scratch pass covers.
const renderChunkFrames = 1024

// renderFunc binds the render callback to the negotiated wire format.
// The closure captures the format by value so the callback touches no
// engine state before holding the lock.
func (e *Engine) renderFunc(hw audio.Format) device.RenderFunc {
	st := hw.Sample
	ch := hw.Channels
	return func(out []byte, frames int) {
		e.render(out, frames, st, ch)
	}
}

// render fills one hardware period. It runs on the backend's realtime
// thread: no allocation, no blocking, no logging. When the control lock
// is contended the period comes out as silence rather than a stall.
func (e *Engine) render(out []byte, frames int, st audio.SampleType, ch int) {
	if !e.mu.TryLock() {
		fillSilence(out, st)
		return
	}
	defer e.mu.Unlock()

	if e.state != Playing {
		fillSilence(out, st)
		return
	}

	size := st.Size()
	off := 0
	for remaining := frames; remaining > 0; {
		n := min(remaining, renderChunkFrames)
		chunk := e.scratch[:n*ch]

		e.pullLocked(chunk, n)
		e.proc.ApplyVolume(chunk)
		e.acc.Process(chunk)
		if e.dith != nil {
			e.dith.ApplyForType(chunk, st)
		}

		// The sample type was vetted when the stream opened.
		written, _ := dsp.Encode(out[off:], chunk, st)
		off += written * size
		remaining -= n

		// pullLocked flips the state at end of data; the chunk holding
		// the final samples is already encoded at this point.
		if e.state != Playing {
			break
		}
	}
	fillSilence(out[off:], st)
}

// pullLocked fills dst with the next frames of source audio in
// canonical form, advancing the position by the frames actually
// consumed. Shortfalls come out as silence.
func (e *Engine) pullLocked(dst []float64, frames int) {
	switch {
	case e.strm != nil:
		e.pullStreamLocked(dst, frames)
	case e.buf != nil:
		e.pullStaticLocked(dst)
	default:
		clear(dst)
	}
}

// pullStreamLocked drains the ring. Once the decode goroutine finishes,
// the remaining audio is a tail drain that ends the track when the ring
// empties; a shortfall while it still runs is an underrun, surfaced as
// an event but rendered as silence.
func (e *Engine) pullStreamLocked(dst []float64, frames int) {
	s := e.strm

	have := s.cons.AvailableRead() / e.format.Channels
	if have > frames {
		have = frames
	}

	select {
	case <-s.pumpDone:
		n := s.cons.Read(dst[:have*e.format.Channels])
		clear(dst[n:])
		e.position += uint64(have)
		if s.cons.IsEmpty() {
			e.finishLocked()
		}
		return
	default:
	}

	before := s.cons.UnderrunCount()
	s.cons.ReadWithSilence(dst)
	e.position += uint64(have)

	if s.cons.UnderrunCount() != before {
		e.emit(Event{Type: EventBufferUnderrun, Position: e.position})
	}
}

// pullStaticLocked copies out of the in-memory buffer, wrapping at the
// end when looping is on.
func (e *Engine) pullStaticLocked(dst []float64) {
	ch := e.format.Channels
	total := uint64(e.buf.Frames())

	filled := 0
	for filled < len(dst) {
		if e.position >= total {
			if e.cfg.Loop && total > 0 {
				e.position = 0
				continue
			}
			clear(dst[filled:])
			e.finishLocked()
			return
		}
		want := uint64((len(dst) - filled) / ch)
		end := min(e.position+want, total)
		filled += copy(dst[filled:], e.buf.Slice(int(e.position), int(end)))
		e.position = end
	}
}

// finishLocked ends the track: position rewound, TrackEnded then
// Stopped. The hardware stream cannot be stopped from its own callback,
// so suspending it is handed to a separate goroutine.
func (e *Engine) finishLocked() {
	e.position = 0
	e.emit(Event{Type: EventTrackEnded})
	e.setStateLocked(Stopped)
	go e.quiesceStream()
}

// quiesceStream suspends the hardware stream once playback has settled
// in Stopped after a track ended. A Play in the meantime wins the lock
// race either way: the state check backs off, or Play restarts the
// freshly suspended stream.
func (e *Engine) quiesceStream() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state != Stopped || !e.running {
		return
	}

	e.expectStop.Store(true)
	err := e.stream.Stop()
	e.expectStop.Store(false)
	if err != nil {
		e.log.Warn("suspending idle stream failed", "error", err)
		return
	}
	e.running = false
}

// fillSilence writes the wire encoding of digital silence. Unsigned
// 8-bit centers on 0x80; every other supported encoding is all zero
// bytes.
func fillSilence(out []byte, st audio.SampleType) {
	if st == audio.U8 {
		for i := range out {
			out[i] = 0x80
		}
		return
	}
	clear(out)
}
