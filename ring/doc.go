// SPDX-License-Identifier: EPL-2.0

// Package ring implements the lock-free single-producer/single-consumer ring
// buffer that carries canonical samples from the decode goroutine to the
// real-time render callback.
//
// # Construction
//
// New sizes the buffer from a playback duration and hands back the two ends:
//
//	prod, cons, err := ring.New(ring.StandardConfig(format))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The decode goroutine owns the Producer, the render callback owns the
// Consumer. Neither end ever blocks and neither allocates after construction.
//
// # Invariants
//
// One slot is always kept empty so a full buffer and an empty buffer have
// distinct cursor states. For a buffer of capacity C, at every point:
//
//	AvailableRead() + AvailableWrite() == C - 1
//
// Writes and reads wrap around the end of the backing array in at most two
// contiguous copies. Cursor updates publish with release semantics, so a
// consumer that observes a new write position also observes the samples
// behind it.
//
// # Concurrency
//
// Exactly one goroutine may use the Producer and exactly one the Consumer.
// Several goroutines sharing one Consumer would race on the read cursor;
// fan-out needs separate ring buffers or an explicit broadcast layer above
// this package.
//
// # Underruns
//
// ReadWithSilence always fills its output slice, zero-filling whatever the
// buffer cannot supply, and counts one underrun per shortfall. The render
// callback uses it so the hardware never starves; the engine surfaces the
// counter through health probes and events.
package ring
