// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/device"
	"github.com/auricle-audio/auricle/dsp"
	"github.com/auricle-audio/auricle/formats"
	"github.com/auricle-audio/auricle/meter"
	"github.com/auricle-audio/auricle/ring"
)

const (
	// DefaultRingDuration is the streaming buffer length when the
	// configuration does not choose one.
	DefaultRingDuration = 2500 * time.Millisecond

	// DefaultEventBuffer is the dispatch queue depth; events beyond it
	// are dropped rather than blocking their producer.
	DefaultEventBuffer = 64

	// muteRampMS fades mute transitions over a few milliseconds so they
	// stay click-free.
	muteRampMS = 10.0

	// prefillTimeout caps how long LoadStream waits for the ring to
	// reach its underrun threshold before handing control back.
	prefillTimeout = 250 * time.Millisecond
)

// Config tunes an Engine. The zero value is usable.
type Config struct {
	// Registry resolves file extensions to decoders. Nil selects the
	// full built-in codec set.
	Registry *decode.Registry

	// RingDuration is the streaming buffer length. Zero selects
	// DefaultRingDuration.
	RingDuration time.Duration

	// UnderrunThreshold is the ring fill fraction below which health
	// probes report starvation. Zero selects the ring default.
	UnderrunThreshold float64

	// BufferFrames requests a hardware period size. Zero leaves the
	// backend default.
	BufferFrames int

	// Prefetch is the streaming decoder's packet queue depth. Zero
	// selects the decode default.
	Prefetch int

	// Loop restarts playback from the beginning at end of file.
	Loop bool

	// Dither selects the noise added ahead of bit-depth reduction when
	// the output encoding is an integer type. DitherNone disables it.
	Dither dsp.DitherAlgorithm

	// Logger receives engine lifecycle logs. Nil selects slog.Default.
	// Nothing is logged on the render path.
	Logger *slog.Logger
}

// streamSource bundles the streaming playback chain: the decoder, the
// prefetching reader, and the ring buffer between decode and render.
type streamSource struct {
	dec      decode.Decoder
	reader   *decode.Reader
	prod     *ring.Producer
	cons     *ring.Consumer
	pumpDone chan struct{}
}

// Engine owns the device stream, the playback state machine and the
// render callback. All exported methods are safe for concurrent use.
type Engine struct {
	host device.Host
	cfg  Config
	log  *slog.Logger

	mu      sync.RWMutex
	state   State
	proc    *dsp.Processor
	dith    *dsp.Ditherer
	muted   bool
	preMute float64

	loaded   bool
	format   audio.Format
	position uint64
	duration uint64
	hasDur   bool

	buf  *audio.Buffer
	strm *streamSource

	stream  device.Stream
	running bool

	scratch []float64
	acc     *meter.Accumulator
	holder  *meter.PeakHolder

	closed bool

	// expectStop marks deliberate stream suspends so the backend's stop
	// notification is not mistaken for a device failure. Atomic because
	// the notification arrives on the backend's own thread.
	expectStop atomic.Bool

	events chan Event
	quit   chan struct{}
	done   chan struct{}

	hmu     sync.Mutex
	handler Handler
}

// New returns an engine rendering to host. The engine does not take
// ownership of the host; close the engine first, then the host.
func New(host device.Host, cfg Config) (*Engine, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: nil device host", ErrDevice)
	}
	if cfg.Registry == nil {
		cfg.Registry = formats.NewRegistry()
	}
	if cfg.RingDuration == 0 {
		cfg.RingDuration = DefaultRingDuration
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		host:   host,
		cfg:    cfg,
		log:    log.With("component", "engine"),
		state:  Stopped,
		proc:   dsp.NewProcessor(audio.DefaultFormat()),
		events: make(chan Event, DefaultEventBuffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go e.dispatch()
	return e, nil
}

// LoadFile decodes the whole file into memory and attaches it as the
// playback source. The previous source and stream are released first; a
// failure moves the engine to the Error state.
func (e *Engine) LoadFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: engine is closed", ErrState)
	}
	e.detachLocked()
	e.setStateLocked(Stopped)

	dec, err := e.cfg.Registry.Open(path)
	if err != nil {
		return e.loadFailedLocked(fmt.Errorf("%w: %w", ErrDecoding, err))
	}
	buf, err := decode.DecodeAll(dec)
	dec.Close()
	if err != nil {
		return e.loadFailedLocked(fmt.Errorf("%w: %w", ErrDecoding, err))
	}

	e.attachLocked(buf.Format)
	e.buf = buf
	e.duration = uint64(buf.Frames())
	e.hasDur = true

	if err := e.openStreamLocked(); err != nil {
		return e.loadFailedLocked(err)
	}

	e.log.Info("loaded file", "path", path, "format", buf.Format.String(), "frames", e.duration)
	return nil
}

// LoadStream attaches the file as a streaming source: a decode goroutine
// feeds a ring buffer that the render callback drains. The engine passes
// through Buffering while the ring prefills. The previous source and
// stream are released first; a failure moves the engine to Error.
func (e *Engine) LoadStream(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: engine is closed", ErrState)
	}
	e.detachLocked()
	e.setStateLocked(Stopped)

	dec, err := e.cfg.Registry.Open(path)
	if err != nil {
		return e.loadFailedLocked(fmt.Errorf("%w: %w", ErrDecoding, err))
	}

	format := dec.Format()
	prod, cons, err := ring.New(ring.Config{
		Duration:          e.cfg.RingDuration,
		Format:            format,
		UnderrunThreshold: e.cfg.UnderrunThreshold,
	})
	if err != nil {
		dec.Close()
		return e.loadFailedLocked(fmt.Errorf("%w: %w", ErrFormat, err))
	}

	s := &streamSource{
		dec:    dec,
		reader: decode.NewReader(dec, e.readerConfig()),
		prod:   prod,
		cons:   cons,
	}

	e.attachLocked(format)
	e.strm = s
	e.duration, e.hasDur = s.reader.Duration()
	e.startPumpLocked(s)

	if err := e.openStreamLocked(); err != nil {
		return e.loadFailedLocked(err)
	}

	e.setStateLocked(Buffering)
	e.waitPrefillLocked(s)
	e.setStateLocked(Stopped)

	e.log.Info("loaded stream", "path", path, "format", format.String(),
		"ring_capacity", cons.Capacity(), "duration_known", e.hasDur)
	return nil
}

// Play starts or resumes playback. It is a no-op when already playing.
// A stream start failure is retried once on a rebuilt stream before the
// engine enters the Error state.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: engine is closed", ErrState)
	}
	switch e.state {
	case Playing:
		return nil
	case Error:
		return fmt.Errorf("%w: in error state, load a file to recover", ErrState)
	}
	if e.buf == nil && e.strm == nil {
		return fmt.Errorf("%w: no source loaded", ErrState)
	}

	if e.strm != nil {
		// A finished decode goroutine with a drained ring means the
		// previous pass reached end of file; restart the chain so
		// playback begins where position says. A full ring with a
		// finished pump is just a short track buffered whole.
		select {
		case <-e.strm.pumpDone:
			if e.strm.cons.IsEmpty() {
				if err := e.rewindStreamLocked(e.position); err != nil {
					return e.failOpLocked(fmt.Errorf("%w: %w", ErrDecoding, err))
				}
			}
		default:
		}
	}

	if !e.running {
		if err := e.startStreamLocked(); err != nil {
			return e.failOpLocked(err)
		}
	}

	e.setStateLocked(Playing)
	return nil
}

// Pause suspends playback, keeping the stream and position for a fast
// resume. It is a no-op when already paused.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: engine is closed", ErrState)
	}
	switch e.state {
	case Paused:
		return nil
	case Playing:
	default:
		return fmt.Errorf("%w: pause requires active playback", ErrState)
	}

	if err := e.suspendStreamLocked(); err != nil {
		return e.failOpLocked(err)
	}

	e.setStateLocked(Paused)
	return nil
}

// Stop halts playback and resets the position to the start. It is
// idempotent; stopping a stopped engine only rewinds the position.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: engine is closed", ErrState)
	}

	if e.running {
		if err := e.suspendStreamLocked(); err != nil {
			return e.failOpLocked(err)
		}
	}

	e.position = 0
	if e.strm != nil {
		if err := e.rewindStreamLocked(0); err != nil {
			return e.failOpLocked(fmt.Errorf("%w: %w", ErrDecoding, err))
		}
	}

	if e.state == Playing || e.state == Paused || e.state == Buffering {
		e.setStateLocked(Stopped)
	}
	return nil
}

// Seek moves the playback position to the given frame, clamped to the
// duration when it is known. The stream need not be active. An
// EventPositionChanged is emitted only when the position actually moves.
func (e *Engine) Seek(frame uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: engine is closed", ErrState)
	}
	if e.buf == nil && e.strm == nil {
		return fmt.Errorf("%w: no source loaded", ErrState)
	}

	if e.hasDur && frame > e.duration {
		frame = e.duration
	}
	if frame == e.position {
		return nil
	}

	if e.strm != nil {
		if err := e.rewindStreamLocked(frame); err != nil {
			return fmt.Errorf("%w: %w", ErrDecoding, err)
		}
	}

	e.position = frame
	e.emit(Event{Type: EventPositionChanged, Position: frame})
	return nil
}

// SetVolume sets the playback level immediately, clamped to [0, 1]. An
// explicit level is taken as intent to hear it, so any mute is cleared.
func (e *Engine) SetVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.muted = false
	e.proc.SetVolume(volume)
}

// SetVolumeRamped fades the playback level to volume over durationMS
// milliseconds of rendered audio. Clears any mute, like SetVolume.
func (e *Engine) SetVolumeRamped(volume, durationMS float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.muted = false
	e.proc.SetVolumeRamped(volume, durationMS)
}

// Mute fades the level to zero, remembering the level to restore. It is
// a no-op when already muted.
func (e *Engine) Mute() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.muted {
		return
	}
	e.preMute = e.proc.TargetVolume()
	e.proc.SetVolumeRamped(0, muteRampMS)
	e.muted = true
}

// Unmute restores the level Mute preserved. It is a no-op when not
// muted.
func (e *Engine) Unmute() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.muted {
		return
	}
	e.proc.SetVolumeRamped(e.preMute, muteRampMS)
	e.muted = false
}

// IsMuted reports whether the engine is muted.
func (e *Engine) IsMuted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.muted
}

// Volume returns the level playback is at or ramping toward.
func (e *Engine) Volume() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.proc.TargetVolume()
}

// State returns the playback state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Position returns the playback position in frames.
func (e *Engine) Position() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

// Duration returns the loaded source's length in frames, when known.
func (e *Engine) Duration() (uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.duration, e.hasDur
}

// Format returns the loaded source's format. ok is false before the
// first successful load.
func (e *Engine) Format() (format audio.Format, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.format, e.loaded
}

// Levels is a point-in-time metering snapshot: the per-channel levels
// accumulated since the previous snapshot, held peaks, and the
// cumulative ring underrun count for streaming sources.
type Levels struct {
	meter.Levels
	HeldPeak  []float64
	Underruns uint64
}

// Levels returns the metering snapshot accumulated since the last call
// and starts the next measurement period.
func (e *Engine) Levels() Levels {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.acc == nil {
		e.acc = meter.NewAccumulator(e.format.Channels)
		e.holder = meter.NewPeakHolder(e.acc.Channels())
	}

	lv := e.acc.Levels()
	e.acc.Reset()

	out := Levels{
		Levels:   lv,
		HeldPeak: e.holder.Update(lv.Peak, time.Now()),
	}
	if e.strm != nil {
		out.Underruns = e.strm.cons.UnderrunCount()
	}
	return out
}

// SetHandler registers the single event observer, replacing any previous
// one. Events are delivered in order from a dispatch goroutine, never
// from the render callback. Handlers may call back into the engine,
// except Close, which waits for the dispatcher to drain.
func (e *Engine) SetHandler(h Handler) {
	e.hmu.Lock()
	defer e.hmu.Unlock()
	e.handler = h
}

// ClearHandler removes the event observer. Events emitted afterwards are
// discarded.
func (e *Engine) ClearHandler() {
	e.hmu.Lock()
	defer e.hmu.Unlock()
	e.handler = nil
}

// Close releases the source, the stream and the dispatch goroutine. The
// injected device host is left open. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.detachLocked()
	e.loaded = false
	e.state = Stopped
	e.mu.Unlock()

	close(e.quit)
	<-e.done
	return nil
}

// --- internal machinery; every *Locked method runs under e.mu ---

// attachLocked resets per-source state for a new load, carrying the
// volume and mute settings across.
func (e *Engine) attachLocked(format audio.Format) {
	level := e.proc.TargetVolume()
	p := dsp.NewProcessor(format)
	p.SetVolume(level)
	e.proc = p

	if e.cfg.Dither != dsp.DitherNone {
		e.dith = dsp.NewDitherer(e.cfg.Dither, uint64(time.Now().UnixNano()))
	} else {
		e.dith = nil
	}

	e.format = format
	e.loaded = true
	e.position = 0
	e.duration = 0
	e.hasDur = false

	e.scratch = make([]float64, renderChunkFrames*format.Channels)
	e.acc = meter.NewAccumulator(format.Channels)
	e.holder = meter.NewPeakHolder(format.Channels)
}

// detachLocked releases the current source and stream.
func (e *Engine) detachLocked() {
	if e.stream != nil {
		e.expectStop.Store(true)
		e.stream.Close()
		e.expectStop.Store(false)
		e.stream = nil
	}
	e.running = false

	if s := e.strm; s != nil {
		s.reader.Stop()
		<-s.pumpDone
		s.dec.Close()
		e.strm = nil
	}
	e.buf = nil
}

// loadFailedLocked rolls back a partial load and enters the Error state.
func (e *Engine) loadFailedLocked(err error) error {
	e.detachLocked()
	e.loaded = false
	e.enterErrorLocked(err)
	return err
}

// enterErrorLocked records a failure: log, Error event, Error state.
func (e *Engine) enterErrorLocked(err error) {
	e.log.Error("playback failure", "error", err)
	e.emit(Event{Type: EventError, Message: err.Error()})
	e.setStateLocked(Error)
}

// failOpLocked is enterErrorLocked for control operations that also
// return the error to their caller.
func (e *Engine) failOpLocked(err error) error {
	e.enterErrorLocked(err)
	return err
}

// setStateLocked transitions the state machine, emitting a StateChanged
// event when the state actually changes.
func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	e.state = s
	e.emit(Event{Type: EventStateChanged, State: s})
}

// openStreamLocked negotiates an output and opens a suspended stream on
// it. The stream runs at the source rate and channel count; only the
// wire encoding comes from the negotiated range, since the backend
// performs rate and channel conversion internally.
func (e *Engine) openStreamLocked() error {
	devices, err := e.host.Outputs()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	sel, err := device.Negotiate(devices, e.format)
	if err != nil {
		if errors.Is(err, device.ErrNoCompatibleConfig) {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	hw := audio.Format{
		SampleRate: e.format.SampleRate,
		Channels:   e.format.Channels,
		Sample:     sel.Range.Sample,
	}.WithLayout()

	stream, err := e.host.OpenStream(device.StreamConfig{
		DeviceID:     sel.Device.ID,
		Format:       hw,
		BufferFrames: e.cfg.BufferFrames,
		OnStop:       e.onStreamStop,
	}, e.renderFunc(hw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	e.stream = stream
	e.running = false
	e.log.Debug("output stream open",
		"device", sel.Device.Name, "format", hw.String(), "score", sel.Score)
	return nil
}

// startStreamLocked starts the stream, rebuilding it once on failure.
func (e *Engine) startStreamLocked() error {
	if e.stream == nil {
		if err := e.openStreamLocked(); err != nil {
			return err
		}
	}

	err := e.stream.Start()
	if err == nil {
		e.running = true
		return nil
	}

	e.log.Warn("stream start failed, rebuilding output", "error", err)
	if rerr := e.rebuildStreamLocked(); rerr != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	if err := e.stream.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	e.running = true
	return nil
}

// suspendStreamLocked stops the stream, rebuilding it once on failure.
// A rebuilt stream comes up suspended, which is the desired end state.
func (e *Engine) suspendStreamLocked() error {
	e.expectStop.Store(true)
	err := e.stream.Stop()
	e.expectStop.Store(false)

	if err == nil {
		e.running = false
		return nil
	}

	e.log.Warn("stream stop failed, rebuilding output", "error", err)
	if rerr := e.rebuildStreamLocked(); rerr != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	return nil
}

// rebuildStreamLocked replaces the stream with a freshly negotiated one,
// created suspended.
func (e *Engine) rebuildStreamLocked() error {
	if e.stream != nil {
		e.expectStop.Store(true)
		e.stream.Close()
		e.expectStop.Store(false)
		e.stream = nil
	}
	e.running = false
	return e.openStreamLocked()
}

func (e *Engine) readerConfig() decode.ReaderConfig {
	return decode.ReaderConfig{Prefetch: e.cfg.Prefetch, Loop: e.cfg.Loop}
}

// startPumpLocked spawns the goroutine moving packets from the reader
// into the ring. pumpDone closes when it exits; a decode failure is
// reported only if this source is still the engine's current one.
func (e *Engine) startPumpLocked(s *streamSource) {
	done := make(chan struct{})
	s.pumpDone = done
	reader := s.reader

	go func() {
		err := reader.Pump(s.prod, false)
		close(done)
		if err != nil {
			e.pumpFailed(s, err)
		}
	}()
}

func (e *Engine) pumpFailed(s *streamSource, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.strm != s {
		return
	}
	e.enterErrorLocked(fmt.Errorf("%w: %w", ErrDecoding, err))
}

// rewindStreamLocked repositions the streaming source at frame and
// flushes audio buffered before the move. With the decode goroutine
// still running the reader seeks in place; after end of file the chain
// is rebuilt on the same decoder. Repositioning is packet-coarse: one
// packet decoded concurrently with the seek may still slip through.
func (e *Engine) rewindStreamLocked(frame uint64) error {
	s := e.strm

	select {
	case <-s.pumpDone:
		s.cons.Skip(s.cons.AvailableRead())
		if err := s.dec.Seek(frame); err != nil {
			return err
		}
		s.reader = decode.NewReader(s.dec, e.readerConfig())
		e.startPumpLocked(s)
	default:
		if err := s.reader.Seek(frame); err != nil {
			return err
		}
		s.cons.Skip(s.cons.AvailableRead())
	}
	return nil
}

// waitPrefillLocked blocks until the ring reaches the underrun
// threshold, the decode goroutine finishes, or the prefill timeout
// passes. Short files finish before the threshold is reachable.
func (e *Engine) waitPrefillLocked(s *streamSource) {
	threshold := e.cfg.UnderrunThreshold
	if threshold <= 0 {
		threshold = ring.DefaultUnderrunThreshold
	}

	deadline := time.Now().Add(prefillTimeout)
	for s.cons.Utilization() < threshold {
		select {
		case <-s.pumpDone:
			return
		default:
		}
		if time.Now().After(deadline) {
			e.log.Warn("stream prefill timed out", "utilization", s.cons.Utilization())
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// onStreamStop runs on the backend's thread when the stream stops. It
// must not block or take locks; unexpected stops are handled on a fresh
// goroutine.
func (e *Engine) onStreamStop() {
	if e.expectStop.Load() {
		return
	}
	go e.handleDeviceStop()
}

// handleDeviceStop treats a backend-initiated stop during playback as a
// device failure: Error state and event, then one recovery attempt that
// lands in Stopped with the position preserved.
func (e *Engine) handleDeviceStop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state != Playing {
		return
	}

	e.running = false
	e.enterErrorLocked(fmt.Errorf("%w: output stream stopped unexpectedly", ErrDevice))

	if err := e.rebuildStreamLocked(); err != nil {
		e.log.Warn("device recovery failed", "error", err)
		return
	}
	e.setStateLocked(Stopped)
	e.log.Info("recovered output stream after device stop")
}

// emit queues an event for the dispatcher without ever blocking. When
// the queue is full the event is dropped; the render path must not wait.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// dispatch delivers events to the registered handler, one at a time, on
// a control-context goroutine.
func (e *Engine) dispatch() {
	defer close(e.done)

	for {
		select {
		case <-e.quit:
			return
		case ev := <-e.events:
			e.hmu.Lock()
			h := e.handler
			e.hmu.Unlock()
			if h != nil {
				h.HandleEvent(ev)
			}
		}
	}
}
