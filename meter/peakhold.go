// SPDX-License-Identifier: EPL-2.0

package meter

import (
	"sync"
	"time"
)

// DefaultHoldDuration is how long a peak reading is held before it may
// decay to a lower value.
const DefaultHoldDuration = 3 * time.Second

// PeakHolder keeps per-channel peak readings visible for a hold period.
// It is safe for concurrent use.
type PeakHolder struct {
	mu     sync.Mutex
	held   []float64
	heldAt []time.Time
	hold   time.Duration
}

// NewPeakHolder returns a holder for the given channel count, initialized
// to the silence floor with the default hold duration.
func NewPeakHolder(channels int) *PeakHolder {
	if channels < 1 {
		channels = 1
	}
	held := make([]float64, channels)
	for ch := range held {
		held[ch] = FloorDB
	}
	return &PeakHolder{
		held:   held,
		heldAt: make([]time.Time, channels),
		hold:   DefaultHoldDuration,
	}
}

// Update folds new per-channel peak readings in dB into the held state
// and returns the held peaks. A reading at or above the held value
// replaces it immediately; lower readings replace it only once the hold
// duration has passed. Channels beyond the holder's count are ignored.
func (p *PeakHolder) Update(peaksDB []float64, now time.Time) []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	for ch := range p.held {
		if ch >= len(peaksDB) {
			break
		}
		if peaksDB[ch] >= p.held[ch] || now.Sub(p.heldAt[ch]) > p.hold {
			p.held[ch] = peaksDB[ch]
			p.heldAt[ch] = now
		}
	}

	out := make([]float64, len(p.held))
	copy(out, p.held)
	return out
}

// SetHoldDuration changes how long peaks are held.
func (p *PeakHolder) SetHoldDuration(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hold = d
}

// Reset drops all held peaks back to the silence floor.
func (p *PeakHolder) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.held {
		p.held[ch] = FloorDB
		p.heldAt[ch] = time.Time{}
	}
}
