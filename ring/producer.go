// SPDX-License-Identifier: EPL-2.0

package ring

// Producer is the writing end of a ring buffer. Exactly one goroutine may
// use it; it is the sole writer of the write cursor and of sample data in
// the writable region.
type Producer struct {
	b *buffer
}

// Write copies as many samples as fit without disturbing unread data and
// returns the count. A full buffer returns 0; the call never blocks and
// never allocates.
func (p *Producer) Write(samples []float64) int {
	b := p.b

	toWrite := len(samples)
	if avail := b.availableWrite(); toWrite > avail {
		toWrite = avail
	}
	if toWrite == 0 {
		return 0
	}

	w := b.writePos.Load()
	p.copyIn(w, samples[:toWrite])
	b.writePos.Store((w + uint64(toWrite)) % b.capacity)

	return toWrite
}

// WriteOverwrite copies up to capacity-1 samples regardless of unread data,
// then pushes the read cursor past whatever was overwritten so the consumer
// resumes at the oldest surviving sample. Used by producers that prefer
// dropping stale audio over falling behind live input.
func (p *Producer) WriteOverwrite(samples []float64) int {
	b := p.b

	toWrite := len(samples)
	if limit := int(b.capacity) - 1; toWrite > limit {
		toWrite = limit
	}
	if toWrite == 0 {
		return 0
	}

	w := b.writePos.Load()
	p.copyIn(w, samples[:toWrite])
	newWrite := (w + uint64(toWrite)) % b.capacity
	b.writePos.Store(newWrite)

	// The write consumed the empty slot: everything older than one slot
	// past the new write position is gone.
	if b.availableRead() >= int(b.capacity)-1 {
		b.readPos.Store((newWrite + 1) % b.capacity)
	}

	return toWrite
}

// copyIn writes samples starting at cursor w, wrapping in at most two
// bounds-checked segment copies.
func (p *Producer) copyIn(w uint64, samples []float64) {
	b := p.b
	n := uint64(len(samples))

	if w+n <= b.capacity {
		copy(b.data[w:w+n], samples)
		return
	}

	first := b.capacity - w
	copy(b.data[w:], samples[:first])
	copy(b.data[:n-first], samples[first:])
}

// AvailableWrite returns how many samples the next Write can accept.
func (p *Producer) AvailableWrite() int {
	return p.b.availableWrite()
}

// IsFull reports whether a plain Write would accept nothing.
func (p *Producer) IsFull() bool {
	return p.b.isFull()
}

// Capacity returns the backing array length in samples. One slot of it is
// always kept empty.
func (p *Producer) Capacity() int {
	return int(p.b.capacity)
}

// Utilization returns the buffer fill level in [0, 1].
func (p *Producer) Utilization() float64 {
	return p.b.utilization()
}
