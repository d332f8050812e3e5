package agent

import (
	"context"
	"time"

	"github.com/stagelab/stagestream/internal/domain"
	"github.com/stagelab/stagestream/internal/ports"
	"github.com/stagelab/stagestream/internal/ring"
	"github.com/stagelab/stagestream/pkg/log"
)

// telemetryQoS is fire-and-forget: losing a telemetry batch is cheaper than
// stalling the drain cycle on broker acknowledgements.
const telemetryQoS = 0

// publisher is the ring's only consumer. On a fixed cadence it drains up to
// one batch, serializes it, and hands it to the transport when connected.
// Batches that cannot be delivered are discarded, not queued: acquisition
// continuity wins over delivery guarantees.
type publisher struct {
	transport ports.Transport
	buf       *ring.Buffer
	topic     string
	batchSize int
	interval  time.Duration
	stats     *stats
	logger    log.Logger

	batch   []domain.Sample
	payload []byte
}

func newPublisher(transport ports.Transport, buf *ring.Buffer, topic string, batchSize int, interval time.Duration, st *stats, logger log.Logger) *publisher {
	return &publisher{
		transport: transport,
		buf:       buf,
		topic:     topic,
		batchSize: batchSize,
		interval:  interval,
		stats:     st,
		logger:    logger,
		batch:     make([]domain.Sample, 0, batchSize),
		payload:   make([]byte, 0, batchSize*32),
	}
}

// Run publishes until the context is canceled.
func (p *publisher) Run(ctx context.Context) {
	p.logger.Info("publisher started",
		log.Duration("interval", p.interval),
		log.Int("batch_size", p.batchSize),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("publisher stopped",
				log.Uint64("published", p.stats.published.Load()),
			)
			return
		case <-ticker.C:
			p.publishPending()
		}
	}
}

// publishPending drains at most one batch from the ring and attempts a
// single publish. The drain bound keeps one catastrophically large backlog
// from monopolizing a cycle; leftovers are picked up next tick.
func (p *publisher) publishPending() {
	p.batch = p.batch[:0]
	for len(p.batch) < p.batchSize {
		s, ok := p.buf.TryRead()
		if !ok {
			break
		}
		p.batch = append(p.batch, s)
	}
	if len(p.batch) == 0 {
		return
	}

	n := uint64(len(p.batch))
	if !p.transport.Connected() {
		// The sampler's drop counter is the real
		// backpressure signal, this only tracks outage volume.
		p.stats.discarded.Add(n)
		p.logger.Debug("transport disconnected, discarding batch", log.Uint64("samples", n))
		return
	}

	p.payload = domain.AppendBatch(p.payload[:0], p.batch)
	if err := p.transport.Publish(p.topic, telemetryQoS, p.payload); err != nil {
		p.stats.discarded.Add(n)
		p.logger.Error("publish failed, batch lost",
			log.Err(err),
			log.Uint64("samples", n),
		)
		return
	}

	p.stats.published.Add(n)
}
