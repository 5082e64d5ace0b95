// SPDX-License-Identifier: EPL-2.0

package ring

// Consumer is the reading end of a ring buffer. Exactly one goroutine may
// use it; it is the sole writer of the read cursor.
type Consumer struct {
	b *buffer
}

// Health is a point-in-time probe of the consumer side, taken periodically
// by the engine to decide whether the producer is keeping up.
type Health struct {
	// AvailableRead is the sample count ready at probe time.
	AvailableRead int
	// Utilization is the fill level in [0, 1].
	Utilization float64
	// Underruns is the cumulative shortfall count since construction.
	Underruns uint64
	// Starved reports whether the fill level sat below the configured
	// underrun threshold.
	Starved bool
}

// Read copies up to len(out) available samples into out and returns the
// count. An empty buffer returns 0; the call never blocks.
func (c *Consumer) Read(out []float64) int {
	b := c.b

	toRead := len(out)
	if avail := b.availableRead(); toRead > avail {
		toRead = avail
	}
	if toRead == 0 {
		return 0
	}

	r := b.readPos.Load()
	c.copyOut(r, out[:toRead])
	b.readPos.Store((r + uint64(toRead)) % b.capacity)

	return toRead
}

// ReadWithSilence fills all of out, zero-filling whatever the buffer cannot
// supply, and always returns len(out). A shortfall counts one underrun.
// The render callback uses this so the hardware never sees a partial buffer.
func (c *Consumer) ReadWithSilence(out []float64) int {
	n := c.Read(out)

	if n < len(out) {
		clear(out[n:])
		c.b.underruns.Add(1)
	}

	return len(out)
}

// Peek copies like Read but leaves the read cursor in place, so the same
// samples remain available. Returns the count copied.
func (c *Consumer) Peek(out []float64) int {
	b := c.b

	toPeek := len(out)
	if avail := b.availableRead(); toPeek > avail {
		toPeek = avail
	}
	if toPeek == 0 {
		return 0
	}

	c.copyOut(b.readPos.Load(), out[:toPeek])
	return toPeek
}

// Skip advances the read cursor by up to count samples without copying and
// returns how many were skipped.
func (c *Consumer) Skip(count int) int {
	b := c.b

	toSkip := count
	if avail := b.availableRead(); toSkip > avail {
		toSkip = avail
	}
	if toSkip <= 0 {
		return 0
	}

	r := b.readPos.Load()
	b.readPos.Store((r + uint64(toSkip)) % b.capacity)

	return toSkip
}

// copyOut reads samples starting at cursor r, wrapping in at most two
// bounds-checked segment copies.
func (c *Consumer) copyOut(r uint64, out []float64) {
	b := c.b
	n := uint64(len(out))

	if r+n <= b.capacity {
		copy(out, b.data[r:r+n])
		return
	}

	first := b.capacity - r
	copy(out[:first], b.data[r:])
	copy(out[first:], b.data[:n-first])
}

// AvailableRead returns how many samples the next Read can supply.
func (c *Consumer) AvailableRead() int {
	return c.b.availableRead()
}

// IsEmpty reports whether a plain Read would supply nothing.
func (c *Consumer) IsEmpty() bool {
	return c.b.isEmpty()
}

// Capacity returns the backing array length in samples.
func (c *Consumer) Capacity() int {
	return int(c.b.capacity)
}

// Utilization returns the buffer fill level in [0, 1].
func (c *Consumer) Utilization() float64 {
	return c.b.utilization()
}

// IsUnderrun reports whether the fill level is below threshold, a fraction
// of capacity in [0, 1].
func (c *Consumer) IsUnderrun(threshold float64) bool {
	return c.b.utilization() < threshold
}

// UnderrunCount returns the cumulative number of silence-filled shortfalls.
func (c *Consumer) UnderrunCount() uint64 {
	return c.b.underruns.Load()
}

// CheckHealth probes the buffer against the configured underrun threshold.
func (c *Consumer) CheckHealth() Health {
	avail := c.b.availableRead()
	util := float64(avail) / float64(c.b.capacity)

	return Health{
		AvailableRead: avail,
		Utilization:   util,
		Underruns:     c.b.underruns.Load(),
		Starved:       util < c.b.threshold,
	}
}
