// Package ring provides the bounded single-producer/single-consumer queue
// that bridges the hard-real-time sampler to the best-effort publisher.
package ring

import (
	"sync/atomic"

	"github.com/stagelab/stagestream/internal/domain"
)

// Buffer is a fixed-capacity SPSC ring of position samples.
//
// Exactly one goroutine may call TryWrite and exactly one (possibly
// different) goroutine may call TryRead; no other concurrency pattern is
// supported. Within that discipline the buffer is lock-free: the write
// cursor is released by the producer and acquired by the consumer, which is
// what makes the slot contents visible without further synchronization.
//
// The writer never advances past the read cursor, so unread samples are
// never overwritten; a write against a full buffer fails and the caller
// counts the drop.
type Buffer struct {
	slots []domain.Sample
	write atomic.Uint64
	read  atomic.Uint64
}

// New creates a buffer with the given slot count. One slot is kept empty to
// distinguish full from empty, so the usable capacity is slots-1. Slot
// counts below 2 are rounded up to 2.
func New(slots int) *Buffer {
	if slots < 2 {
		slots = 2
	}
	return &Buffer{slots: make([]domain.Sample, slots)}
}

// TryWrite enqueues a sample. It returns false, without blocking, when the
// buffer is full; the sample is then lost and the caller must account for
// the drop.
func (b *Buffer) TryWrite(s domain.Sample) bool {
	w := b.write.Load()
	next := (w + 1) % uint64(len(b.slots))
	if next == b.read.Load() {
		return false
	}
	b.slots[w] = s
	b.write.Store(next)
	return true
}

// TryRead dequeues the oldest sample. It returns false, without blocking,
// when the buffer is empty. Samples come out in exact write order and each
// is returned at most once.
func (b *Buffer) TryRead() (domain.Sample, bool) {
	r := b.read.Load()
	if r == b.write.Load() {
		return domain.Sample{}, false
	}
	s := b.slots[r]
	b.read.Store((r + 1) % uint64(len(b.slots)))
	return s, true
}

// Occupancy returns an approximate count of queued samples. It is a
// diagnostics snapshot: under concurrent access it may be stale by one
// update.
func (b *Buffer) Occupancy() int {
	w := b.write.Load()
	r := b.read.Load()
	if w >= r {
		return int(w - r)
	}
	return len(b.slots) - int(r) + int(w)
}

// Capacity returns the number of samples the buffer can hold.
func (b *Buffer) Capacity() int {
	return len(b.slots) - 1
}
