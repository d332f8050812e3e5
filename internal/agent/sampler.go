package agent

import (
	"context"
	"time"

	"github.com/stagelab/stagestream/internal/domain"
	"github.com/stagelab/stagestream/internal/ports"
	"github.com/stagelab/stagestream/internal/ring"
	"github.com/stagelab/stagestream/pkg/log"
)

// sampler is the real-time producer: one sample per tick, pushed into the
// ring, never blocking on transport. The hot loop does no I/O, takes no
// locks, and allocates nothing; drops under backpressure are counted, never
// retried.
type sampler struct {
	device ports.Device
	buf    *ring.Buffer
	rate   *rateCell
	stats  *stats
	logger log.Logger
}

func newSampler(device ports.Device, buf *ring.Buffer, rate *rateCell, st *stats, logger log.Logger) *sampler {
	return &sampler{device: device, buf: buf, rate: rate, stats: st, logger: logger}
}

// Run samples until the context is canceled. Cancellation is cooperative:
// the context is polled once per tick, so stopping takes at most one
// sampling period.
func (s *sampler) Run(ctx context.Context) {
	s.logger.Info("sampler started", log.Int("rate_hz", s.rate.Hz()))

	p := newPacer(time.Now())
	for ctx.Err() == nil {
		// Read the shared rate once per iteration; a SET_RATE takes effect
		// on the next tick without locking.
		interval := s.rate.Interval()

		sample := s.readAll()
		if s.buf.TryWrite(sample) {
			s.stats.captured.Add(1)
		} else {
			s.stats.dropped.Add(1)
		}

		p.Wait(interval)
	}

	snap := s.stats.Snapshot()
	s.logger.Info("sampler stopped",
		log.Uint64("captured", snap.Captured),
		log.Uint64("dropped", snap.Dropped),
	)
}

// readAll assembles one sample from every connected axis. A failed read
// leaves the axis bit clear and its value at the zero sentinel; the other
// axes are unaffected.
func (s *sampler) readAll() domain.Sample {
	sample := domain.Sample{Timestamp: time.Now().UnixNano()}
	for _, a := range domain.Axes() {
		if !s.device.AxisConnected(a) {
			continue
		}
		pos, err := s.device.Position(a)
		if err != nil {
			continue
		}
		sample.SetPosition(a, pos)
	}
	return sample
}
