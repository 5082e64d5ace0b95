// SPDX-License-Identifier: EPL-2.0

package ring

import (
	"sync/atomic"

	"github.com/auricle-audio/auricle/audio"
)

// buffer is the shared core behind a Producer/Consumer pair. Samples live in
// a fixed []float64; the cursors are positions in [0, capacity). The write
// cursor belongs to the producer goroutine, the read cursor to the consumer
// goroutine; each is stored with release ordering and loaded with acquire
// ordering so published samples travel with the cursor update.
type buffer struct {
	data      []float64
	capacity  uint64
	format    audio.Format
	threshold float64

	// The cursors sit on separate cache lines so the producer and consumer
	// cores do not invalidate each other on every update.
	writePos atomic.Uint64
	_        [56]byte
	readPos  atomic.Uint64
	_        [56]byte

	underruns atomic.Uint64
}

// New allocates a ring buffer for cfg and returns its two ends. The producer
// side belongs to the decode goroutine, the consumer side to the render
// callback. All validation happens before the backing array is allocated.
func New(cfg Config) (*Producer, *Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	total := cfg.TotalSamples()
	b := &buffer{
		data:      make([]float64, total),
		capacity:  uint64(total),
		format:    cfg.Format,
		threshold: cfg.threshold(),
	}

	return &Producer{b: b}, &Consumer{b: b}, nil
}

// availableRead returns the number of samples between the cursors.
func (b *buffer) availableRead() int {
	w := b.writePos.Load()
	r := b.readPos.Load()

	if w >= r {
		return int(w - r)
	}
	return int(b.capacity - r + w)
}

// availableWrite leaves the one-slot gap that distinguishes full from empty.
func (b *buffer) availableWrite() int {
	return int(b.capacity) - b.availableRead() - 1
}

func (b *buffer) isEmpty() bool {
	return b.availableRead() == 0
}

func (b *buffer) isFull() bool {
	return b.availableWrite() == 0
}

// utilization returns the fill level in [0, 1].
func (b *buffer) utilization() float64 {
	return float64(b.availableRead()) / float64(b.capacity)
}
