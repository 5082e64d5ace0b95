// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"sync"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/device"
)

// MockHost is a device.Host whose devices and failures are scripted.
// Streams it opens are pumped manually with MockStream.Render, so tests
// drive the "hardware" callback synchronously.
type MockHost struct {
	mu sync.Mutex

	// Devices is what Outputs reports. Leave nil for one default stereo
	// output covering the full rate window.
	Devices []device.DeviceInfo

	// OutputsErr and OpenErr inject failures into the corresponding calls.
	OutputsErr error
	OpenErr    error

	streams []*MockStream
	closed  bool
}

// NewMockHost returns a host with one default full-range stereo output.
func NewMockHost() *MockHost {
	return &MockHost{}
}

// DefaultOutput is the device MockHost reports when none are scripted.
func DefaultOutput() device.DeviceInfo {
	ranges := make([]device.ConfigRange, 0, 4)
	for _, st := range []audio.SampleType{audio.F32, audio.I16} {
		for _, ch := range []int{2, 1} {
			ranges = append(ranges, device.ConfigRange{
				MinSampleRate: 8000,
				MaxSampleRate: audio.MaxSampleRate,
				Channels:      ch,
				Sample:        st,
			})
		}
	}
	return device.DeviceInfo{ID: "mock-out", Name: "Mock Output", IsDefault: true, Ranges: ranges}
}

func (h *MockHost) Outputs() ([]device.DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.OutputsErr != nil {
		return nil, h.OutputsErr
	}
	if h.Devices == nil {
		return []device.DeviceInfo{DefaultOutput()}, nil
	}
	return h.Devices, nil
}

func (h *MockHost) OpenStream(cfg device.StreamConfig, render device.RenderFunc) (device.Stream, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.OpenErr != nil {
		return nil, h.OpenErr
	}
	if render == nil {
		return nil, fmt.Errorf("nil render callback")
	}

	s := &MockStream{cfg: cfg, render: render}
	h.streams = append(h.streams, s)
	return s, nil
}

func (h *MockHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (h *MockHost) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Streams returns every stream the host has opened, in order.
func (h *MockHost) Streams() []*MockStream {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*MockStream(nil), h.streams...)
}

// LastStream returns the most recently opened stream, or nil.
func (h *MockHost) LastStream() *MockStream {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.streams) == 0 {
		return nil
	}
	return h.streams[len(h.streams)-1]
}

// MockStream records lifecycle calls and lets the test invoke the render
// callback on demand.
type MockStream struct {
	mu     sync.Mutex
	cfg    device.StreamConfig
	render device.RenderFunc

	started bool
	closed  bool

	// StartErr and StopErr inject failures into the corresponding calls.
	StartErr error
	StopErr  error

	starts int
	stops  int
}

// Config returns the configuration the stream was opened with.
func (s *MockStream) Config() device.StreamConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *MockStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return device.ErrStreamClosed
	}
	if s.StartErr != nil {
		return s.StartErr
	}
	s.started = true
	s.starts++
	return nil
}

func (s *MockStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return device.ErrStreamClosed
	}
	if s.StopErr != nil {
		return s.StopErr
	}
	s.started = false
	s.stops++
	return nil
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.started = false
	return nil
}

// Running reports whether the stream is between Start and Stop.
func (s *MockStream) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// IsClosed reports whether Close has been called.
func (s *MockStream) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Starts returns how many times Start succeeded.
func (s *MockStream) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Render invokes the stream's render callback for the given frame count,
// as the hardware would, and returns the filled output buffer.
func (s *MockStream) Render(frames int) []byte {
	s.mu.Lock()
	render := s.render
	out := make([]byte, frames*s.cfg.Format.FrameSize())
	s.mu.Unlock()

	render(out, frames)
	return out
}

// FireStop invokes the stream's OnStop hook, simulating a backend-initiated
// stop such as a device disappearing.
func (s *MockStream) FireStop() {
	s.mu.Lock()
	onStop := s.cfg.OnStop
	s.mu.Unlock()

	if onStop != nil {
		onStop()
	}
}
