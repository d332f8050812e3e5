// Package agent implements the stage streaming pipeline: a real-time
// sampler feeding a bounded SPSC ring, a batch publisher draining it onto
// the telemetry topic, and a command processor executing inbound commands
// against the device.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/stagelab/stagestream/internal/domain"
	"github.com/stagelab/stagestream/internal/ports"
	"github.com/stagelab/stagestream/internal/ring"
	"github.com/stagelab/stagestream/pkg/log"
)

// commandQoS is at-least-once on the inbound side; duplicate delivery after
// a reconnect is harmless because every command is idempotent at the device.
const commandQoS = 1

// Run wires the pipeline together and blocks until the context is canceled.
// The transport must already be connected and the device opened; Run owns
// neither and releases neither. Axis outputs are enabled on entry and motion
// is disabled again after all workers have joined.
func Run(ctx context.Context, cfg Config, device ports.Device, transport ports.Transport, logger log.Logger) error {
	buf := ring.New(cfg.BatchSize * cfg.BufferMultiplier)
	rate := newRateCell(cfg.SampleRateHz)
	st := &stats{}

	proc := newProcessor(device, transport, buf, rate, st, cfg.ResultTopic, cfg.CommandQueueSize, logger)

	// The subscription callback runs on a transport-owned thread; it only
	// enqueues, the processor worker does the rest.
	err := transport.Subscribe(cfg.CommandTopic, commandQoS, func(_ string, payload []byte) {
		proc.Enqueue(payload)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.CommandTopic, err)
	}

	enableOutputs(device, logger)

	smp := newSampler(device, buf, rate, st, logger)
	pub := newPublisher(transport, buf, cfg.PositionTopic, cfg.BatchSize, cfg.BatchInterval, st, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{}, 3)
	go func() { smp.Run(runCtx); done <- struct{}{} }()
	go func() { pub.Run(runCtx); done <- struct{}{} }()
	go func() { proc.Run(runCtx); done <- struct{}{} }()

	workers := 3
	if cfg.ConfigFile != "" {
		go func() { newConfigWatcher(cfg.ConfigFile, rate, logger).Run(runCtx); done <- struct{}{} }()
		workers++
	}

	logger.Info("pipeline running",
		log.Int("rate_hz", cfg.SampleRateHz),
		log.Int("batch_size", cfg.BatchSize),
		log.Int("buffer_capacity", buf.Capacity()),
	)

	supervise(runCtx, cfg.StatsInterval, st, buf, logger)

	// Cooperative shutdown: cancel, then join every worker before touching
	// the device again.
	cancel()
	for i := 0; i < workers; i++ {
		<-done
	}

	quiesce(device, logger)
	return ctx.Err()
}

// supervise logs windowed throughput until the context is canceled. It is
// observability only; nothing here affects control flow.
func supervise(ctx context.Context, interval time.Duration, st *stats, buf *ring.Buffer, logger log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	secs := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w := st.Window()
			logger.Info("pipeline stats",
				log.Uint64("captured", w.Captured),
				log.Uint64("published", w.Published),
				log.Uint64("dropped", w.Dropped),
				log.Int("capture_hz", int(float64(w.Captured)/secs)),
				log.Int("buffer_occupancy", buf.Occupancy()),
			)
		}
	}
}

// enableOutputs arms the output stage of every connected axis. Failures are
// logged, not fatal: the axis simply stays passive.
func enableOutputs(device ports.Device, logger log.Logger) {
	for _, a := range domain.Axes() {
		if !device.AxisConnected(a) {
			continue
		}
		if err := device.SetOutputEnabled(a, true); err != nil {
			logger.Warn("enable output failed", log.String("axis", a.Name()), log.Err(err))
		}
	}
}

// quiesce stops motion and disarms outputs on shutdown, best effort.
func quiesce(device ports.Device, logger log.Logger) {
	for _, a := range domain.Axes() {
		if !device.AxisConnected(a) {
			continue
		}
		if err := device.SetMoveEnabled(a, false); err != nil {
			logger.Warn("stop motion failed", log.String("axis", a.Name()), log.Err(err))
		}
		if err := device.SetOutputEnabled(a, false); err != nil {
			logger.Warn("disable output failed", log.String("axis", a.Name()), log.Err(err))
		}
	}
}
