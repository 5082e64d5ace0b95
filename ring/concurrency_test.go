// SPDX-License-Identifier: EPL-2.0

package ring

import (
	"runtime"
	"testing"
	"time"

	"github.com/auricle-audio/auricle/audio"
)

// TestConcurrent_SingleProducerSingleConsumer streams a known sequence
// through the buffer from a dedicated writer goroutine and checks that
// the reader observes every sample exactly once, in order.
func TestConcurrent_SingleProducerSingleConsumer(t *testing.T) {
	t.Parallel()

	prod, cons, err := New(Config{
		Duration: 100 * time.Millisecond,
		Format:   audio.Format{SampleRate: 44100, Channels: 1, Sample: audio.F64},
	})
	if err != nil {
		t.Fatal(err)
	}

	const total = 200_000
	const chunk = 512

	go func() {
		buf := make([]float64, chunk)
		sent := 0
		for sent < total {
			n := min(chunk, total-sent)
			for i := range n {
				buf[i] = float64(sent + i)
			}
			written := 0
			for written < n {
				written += prod.Write(buf[written:n])
				if written < n {
					runtime.Gosched()
				}
			}
			sent += n
		}
	}()

	out := make([]float64, chunk)
	received := 0
	deadline := time.Now().Add(30 * time.Second)
	for received < total {
		n := cons.Read(out)
		for i := range n {
			if got := out[i]; got != float64(received+i) {
				t.Fatalf("sample %d = %v, want %v", received+i, got, float64(received+i))
			}
		}
		received += n
		if n == 0 {
			if time.Now().After(deadline) {
				t.Fatalf("stalled after %d of %d samples", received, total)
			}
			runtime.Gosched()
		}
	}

	if got := cons.UnderrunCount(); got != 0 {
		t.Errorf("UnderrunCount() = %d, plain Read must never count underruns", got)
	}
}

// TestConcurrent_HealthReadsDuringStreaming exercises the snapshot
// accessors from the reader side while a writer is active. The values
// only need to stay within range, the test is a race detector target.
func TestConcurrent_HealthReadsDuringStreaming(t *testing.T) {
	t.Parallel()

	prod, cons, err := New(LowLatencyConfig(audio.Format{SampleRate: 8000, Channels: 1, Sample: audio.F64}))
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		buf := make([]float64, 64)
		for range 2000 {
			prod.Write(buf)
			runtime.Gosched()
		}
	}()

	out := make([]float64, 48)
	for range 2000 {
		cons.Read(out)
		h := cons.CheckHealth()
		if h.AvailableRead < 0 || h.AvailableRead >= cons.Capacity() {
			t.Fatalf("Health.AvailableRead = %d out of range", h.AvailableRead)
		}
		if h.Utilization < 0 || h.Utilization > 1 {
			t.Fatalf("Health.Utilization = %v out of range", h.Utilization)
		}
	}

	<-done
}
