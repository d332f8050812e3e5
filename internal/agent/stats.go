package agent

import "sync/atomic"

// stats aggregates the lifetime counters of the pipeline. Each counter has a
// single writer (captured/dropped: sampler, published/discarded: publisher,
// commandDrops: transport callback) and any number of readers, so bare
// atomics are sufficient; they gate nothing, they only observe.
type stats struct {
	captured  atomic.Uint64 // samples accepted by the ring
	published atomic.Uint64 // samples handed to the transport
	dropped   atomic.Uint64 // samples lost to a full ring
	discarded atomic.Uint64 // samples lost to a disconnected transport or failed publish

	commandDrops atomic.Uint64 // inbound commands lost to a full queue

	// Previous totals, touched only by the supervisor's Window calls.
	lastCaptured  uint64
	lastPublished uint64
	lastDropped   uint64
}

// snapshot is a point-in-time copy of the lifetime counters.
type snapshot struct {
	Captured  uint64
	Published uint64
	Dropped   uint64
	Discarded uint64
}

func (s *stats) Snapshot() snapshot {
	return snapshot{
		Captured:  s.captured.Load(),
		Published: s.published.Load(),
		Dropped:   s.dropped.Load(),
		Discarded: s.discarded.Load(),
	}
}

// Window returns the counter deltas since the previous Window call. Only the
// supervisor loop may call it.
func (s *stats) Window() snapshot {
	cur := s.Snapshot()
	w := snapshot{
		Captured:  cur.Captured - s.lastCaptured,
		Published: cur.Published - s.lastPublished,
		Dropped:   cur.Dropped - s.lastDropped,
	}
	s.lastCaptured = cur.Captured
	s.lastPublished = cur.Published
	s.lastDropped = cur.Dropped
	return w
}
