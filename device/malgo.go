// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/auricle-audio/auricle/audio"
)

// Playback devices accept any rate in this window; miniaudio converts to
// the true native rate internally.
const (
	malgoMinRate = 8000
	malgoMaxRate = audio.MaxSampleRate
)

// malgoHost drives output through the miniaudio library.
type malgoHost struct {
	ctx    *malgo.AllocatedContext
	mu     sync.Mutex
	closed bool
}

// NewMalgoHost initializes the miniaudio backend. logProc, when non-nil,
// receives the backend's diagnostic messages.
func NewMalgoHost(logProc func(message string)) (Host, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, logProc)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}
	return &malgoHost{ctx: ctx}, nil
}

func (h *malgoHost) Outputs() ([]DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHostClosed
	}

	infos, err := h.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerating output devices: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i := range infos {
		// The null sink is not a useful playback target
		if infos[i].Name() == "Discard all samples" {
			continue
		}
		devices = append(devices, DeviceInfo{
			ID:        infos[i].ID.String(),
			Name:      infos[i].Name(),
			IsDefault: infos[i].IsDefault != 0,
			Ranges:    malgoRanges(),
		})
	}

	if len(devices) == 0 {
		return nil, ErrNoOutputs
	}
	return devices, nil
}

// malgoRanges reports the conversions miniaudio performs on behalf of
// every playback device rather than per-device native modes, which the
// enumeration API does not expose portably.
func malgoRanges() []ConfigRange {
	ranges := make([]ConfigRange, 0, 4)
	for _, st := range []audio.SampleType{audio.F32, audio.I16} {
		for _, ch := range []int{2, 1} {
			ranges = append(ranges, ConfigRange{
				MinSampleRate: malgoMinRate,
				MaxSampleRate: malgoMaxRate,
				Channels:      ch,
				Sample:        st,
			})
		}
	}
	return ranges
}

func (h *malgoHost) OpenStream(cfg StreamConfig, render RenderFunc) (Stream, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHostClosed
	}
	if render == nil {
		return nil, fmt.Errorf("opening stream: nil render callback")
	}
	if err := cfg.Format.Validate(); err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}

	format, err := malgoFormat(cfg.Format.Sample)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = uint32(cfg.Format.Channels)
	deviceConfig.SampleRate = uint32(cfg.Format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1
	if cfg.BufferFrames > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(cfg.BufferFrames)
	}

	if cfg.DeviceID != "" {
		ptr, err := h.devicePointer(cfg.DeviceID)
		if err != nil {
			return nil, err
		}
		deviceConfig.Playback.DeviceID = ptr
	}

	stream := &malgoStream{onStop: cfg.OnStop}

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frames uint32) {
			render(out, int(frames))
		},
		Stop: func() {
			stream.notifyStop()
		},
	}

	dev, err := malgo.InitDevice(h.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("initializing output device: %w", err)
	}
	stream.device = dev

	return stream, nil
}

// devicePointer resolves a DeviceInfo.ID back to the backend handle.
// Caller holds h.mu.
func (h *malgoHost) devicePointer(id string) (unsafe.Pointer, error) {
	infos, err := h.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerating output devices: %w", err)
	}
	for i := range infos {
		if infos[i].ID.String() == id {
			return infos[i].ID.Pointer(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
}

func (h *malgoHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if err := h.ctx.Uninit(); err != nil {
		return fmt.Errorf("releasing audio context: %w", err)
	}
	h.ctx.Free()
	return nil
}

// malgoFormat maps a sample type to the backend's encoding.
func malgoFormat(st audio.SampleType) (malgo.FormatType, error) {
	switch st {
	case audio.U8:
		return malgo.FormatU8, nil
	case audio.I16:
		return malgo.FormatS16, nil
	case audio.I24:
		return malgo.FormatS24, nil
	case audio.I32:
		return malgo.FormatS32, nil
	case audio.F32:
		return malgo.FormatF32, nil
	default:
		return malgo.FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedSampleType, st)
	}
}

// malgoStream wraps one miniaudio device.
type malgoStream struct {
	device *malgo.Device
	onStop func()

	mu     sync.Mutex
	closed atomic.Bool
}

func (s *malgoStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrStreamClosed
	}
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}
	return nil
}

func (s *malgoStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrStreamClosed
	}
	if err := s.device.Stop(); err != nil {
		return fmt.Errorf("stopping stream: %w", err)
	}
	return nil
}

func (s *malgoStream) Close() error {
	// The flag is set before Uninit so the backend's final stop
	// notification is not reported as a failure. Uninit joins the device
	// thread, so it must not run under a lock the stop callback takes.
	if s.closed.Swap(true) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.device.Uninit()
	return nil
}

// notifyStop runs on the backend's device thread.
func (s *malgoStream) notifyStop() {
	if s.closed.Load() {
		return
	}
	if s.onStop != nil {
		s.onStop()
	}
}
