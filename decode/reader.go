// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/ring"
)

const defaultPrefetch = 4

// ReaderConfig tunes streaming decode.
type ReaderConfig struct {
	// Prefetch is how many decoded packets are kept ready ahead of the
	// consumer. Zero means a default of 4.
	Prefetch int

	// Loop restarts the stream from frame zero at end of file instead of
	// finishing.
	Loop bool
}

// Reader decodes a stream on its own goroutine, keeping a bounded number
// of packets prefetched. The consumer side is a single goroutine.
type Reader struct {
	mu  sync.Mutex // serializes decoder access between Seek and the decode loop
	dec Decoder

	format   audio.Format
	duration uint64
	hasDur   bool
	loop     bool

	out  chan *Packet
	stop chan struct{}
	done chan struct{}

	stopOnce sync.Once
	err      error // sticky; written before out closes
}

// NewReader starts decoding dec in the background. The reader takes over
// the decoder; use Close to release both.
func NewReader(dec Decoder, cfg ReaderConfig) *Reader {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}

	r := &Reader{
		dec:    dec,
		format: dec.Format(),
		loop:   cfg.Loop,
		out:    make(chan *Packet, prefetch),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	r.duration, r.hasDur = dec.Duration()

	go r.run()
	return r
}

func (r *Reader) run() {
	defer close(r.done)
	defer close(r.out)

	for {
		select {
		case <-r.stop:
			return
		default:
		}

		r.mu.Lock()
		pkt, err := r.dec.DecodeNext()
		if errors.Is(err, io.EOF) && r.loop {
			if seekErr := r.dec.Seek(0); seekErr != nil {
				r.mu.Unlock()
				r.err = seekErr
				return
			}
			pkt, err = r.dec.DecodeNext()
		}
		r.mu.Unlock()

		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			r.err = err
			return
		}

		select {
		case r.out <- pkt:
		case <-r.stop:
			return
		}
	}
}

// Format describes the decoded stream.
func (r *Reader) Format() audio.Format { return r.format }

// Duration returns the stream length in frames when known.
func (r *Reader) Duration() (uint64, bool) { return r.duration, r.hasDur }

// Packets exposes the prefetch channel for select-based consumers. The
// channel closes at end of stream or on error; check Err afterwards.
func (r *Reader) Packets() <-chan *Packet { return r.out }

// Next blocks for the next packet. It returns io.EOF at end of stream and
// the decoder's error if decoding failed.
func (r *Reader) Next() (*Packet, error) {
	pkt, ok := <-r.out
	if !ok {
		if err := r.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return pkt, nil
}

// Err returns the error that terminated decoding, nil for a clean end of
// stream. Valid once Packets is closed.
func (r *Reader) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Seek repositions the underlying decoder. Packets already prefetched are
// discarded, but one packet decoded concurrently with the seek may still
// be delivered; seeking is packet-coarse by design of the prefetch queue.
func (r *Reader) Seek(frame uint64) error {
	select {
	case <-r.done:
		return ErrReaderStopped
	default:
	}

	r.mu.Lock()
	err := r.dec.Seek(frame)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	for {
		select {
		case _, ok := <-r.out:
			if !ok {
				return nil
			}
		default:
			return nil
		}
	}
}

// Stop halts the decode goroutine and waits for it to finish. It does not
// close the underlying decoder.
func (r *Reader) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// IsActive reports whether the decode goroutine is still running.
func (r *Reader) IsActive() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Close stops the reader and closes the underlying decoder.
func (r *Reader) Close() error {
	r.Stop()
	return r.dec.Close()
}

// Pump feeds decoded packets into a ring buffer producer until the stream
// ends, the reader is stopped, or decoding fails. With overwrite set,
// stale unread samples are dropped instead of throttling the decoder;
// otherwise Pump retries short writes, yielding briefly while the ring
// is full.
func (r *Reader) Pump(prod *ring.Producer, overwrite bool) error {
	for {
		pkt, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if overwrite {
			prod.WriteOverwrite(pkt.Samples)
			continue
		}

		samples := pkt.Samples
		for len(samples) > 0 {
			n := prod.Write(samples)
			samples = samples[n:]
			if n == 0 {
				select {
				case <-r.stop:
					return nil
				case <-time.After(time.Millisecond):
				}
			}
		}
	}
}
