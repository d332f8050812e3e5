package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stagelab/stagestream/internal/domain"
	"github.com/stagelab/stagestream/internal/ports"
	"github.com/stagelab/stagestream/internal/ring"
	"github.com/stagelab/stagestream/pkg/log"
)

// resultQoS is at-least-once: a command sender is entitled to its result
// even across a brief broker hiccup.
const resultQoS = 1

// resultVerbStatus is the verb label used on STATUS report results.
const resultVerbStatus = domain.Verb("SYSTEM_INFO")

// processor serializes all device-mutating calls: a single worker drains the
// command queue in arrival order, so the device never sees concurrent writes
// from this subsystem.
//
// The queue is fed from transport callback threads via Enqueue and drained
// only by Run.
type processor struct {
	device      ports.Device
	transport   ports.Transport
	buf         *ring.Buffer
	rate        *rateCell
	stats       *stats
	resultTopic string
	logger      log.Logger

	queue chan string
}

func newProcessor(device ports.Device, transport ports.Transport, buf *ring.Buffer, rate *rateCell, st *stats, resultTopic string, queueSize int, logger log.Logger) *processor {
	return &processor{
		device:      device,
		transport:   transport,
		buf:         buf,
		rate:        rate,
		stats:       st,
		resultTopic: resultTopic,
		logger:      logger,
		queue:       make(chan string, queueSize),
	}
}

// Enqueue hands an inbound command payload to the processor. It is the only
// code that runs on the transport's delivery thread and it never blocks:
// when the queue is full the command is dropped and counted, the same
// no-result outcome a sender sees for an unparseable command.
func (p *processor) Enqueue(payload []byte) {
	select {
	case p.queue <- string(payload):
	default:
		p.stats.commandDrops.Add(1)
		p.logger.Warn("command queue full, dropping command")
	}
}

// Run processes commands one at a time until the context is canceled.
func (p *processor) Run(ctx context.Context) {
	p.logger.Info("command processor started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("command processor stopped")
			return
		case raw := <-p.queue:
			p.handle(raw)
		}
	}
}

func (p *processor) handle(raw string) {
	cmd, err := domain.ParseCommand(raw)
	if err != nil {
		// Parse failures are silent: log, no result.
		p.logger.Debug("ignoring unparseable command",
			log.String("payload", raw),
			log.Err(err),
		)
		return
	}

	p.logger.Info("processing command", log.String("payload", raw))

	switch cmd.Verb {
	case domain.VerbStatus:
		p.handleStatus()
	case domain.VerbSetRate:
		p.handleSetRate(cmd)
	case domain.VerbSetAmp, domain.VerbSetFreq, domain.VerbStop:
		p.handleAxisControl(cmd)
	case domain.VerbMove:
		p.handleMove(cmd)
	}
}

// handleSetRate validates the requested rate and mutates the shared
// configuration. A rejected value leaves the active rate unchanged.
func (p *processor) handleSetRate(cmd domain.Command) {
	if err := p.rate.Set(int(cmd.Value)); err != nil {
		p.publishResult(domain.CategoryCommand, cmd.Verb, domain.AxisAll, domain.OutcomeFailed, err.Error())
		return
	}
	p.logger.Info("sampling rate changed", log.Int("rate_hz", int(cmd.Value)))
	p.publishResult(domain.CategoryCommand, cmd.Verb, domain.AxisAll, domain.OutcomeSuccess,
		fmt.Sprintf("sampling rate set to %d Hz", cmd.Value))
}

// handleAxisControl covers the single-step axis verbs: SET_AMP, SET_FREQ and
// STOP. An unknown axis name for these is a grammar-level failure and stays
// silent.
func (p *processor) handleAxisControl(cmd domain.Command) {
	axis, ok := domain.ParseAxis(cmd.AxisName)
	if !ok {
		p.logger.Debug("ignoring command with unknown axis",
			log.String("axis", cmd.AxisName),
			log.String("verb", string(cmd.Verb)),
		)
		return
	}
	if !p.device.AxisConnected(axis) {
		p.publishResult(domain.CategoryCommand, cmd.Verb, axis.Name(), domain.OutcomeFailed, "axis not connected")
		return
	}

	var err error
	var detail string
	switch cmd.Verb {
	case domain.VerbSetAmp:
		err = p.device.SetAmplitude(axis, cmd.Value)
		detail = fmt.Sprintf("amplitude set to %d mV", cmd.Value)
		if err != nil {
			detail = "failed to set amplitude"
		}
	case domain.VerbSetFreq:
		err = p.device.SetFrequency(axis, cmd.Value)
		detail = fmt.Sprintf("frequency set to %d mHz", cmd.Value)
		if err != nil {
			detail = "failed to set frequency"
		}
	case domain.VerbStop:
		err = p.device.SetMoveEnabled(axis, false)
		detail = "movement stopped"
		if err != nil {
			detail = "failed to stop movement"
		}
	}

	outcome := domain.OutcomeSuccess
	if err != nil {
		outcome = domain.OutcomeFailed
		p.logger.Warn("device call failed",
			log.String("verb", string(cmd.Verb)),
			log.String("axis", axis.Name()),
			log.Err(err),
		)
	}
	p.publishResult(domain.CategoryCommand, cmd.Verb, axis.Name(), outcome, detail)
}

// handleMove is the two-step verb: set the target position, then enable
// closed-loop motion only if the target was accepted. Any step failing
// short-circuits the rest.
func (p *processor) handleMove(cmd domain.Command) {
	axis, ok := domain.ParseAxis(cmd.AxisName)
	if !ok {
		p.publishResult(domain.CategoryCommand, cmd.Verb, cmd.AxisName, domain.OutcomeFailed, "invalid axis name")
		return
	}
	if !p.device.AxisConnected(axis) {
		p.publishResult(domain.CategoryCommand, cmd.Verb, axis.Name(), domain.OutcomeFailed, "axis not connected")
		return
	}

	if err := p.device.SetTarget(axis, cmd.Value); err != nil {
		p.logger.Warn("move: set target failed", log.String("axis", axis.Name()), log.Err(err))
		p.publishResult(domain.CategoryCommand, cmd.Verb, axis.Name(), domain.OutcomeFailed, "failed to set target position")
		return
	}
	if err := p.device.SetMoveEnabled(axis, true); err != nil {
		p.logger.Warn("move: enable failed", log.String("axis", axis.Name()), log.Err(err))
		p.publishResult(domain.CategoryCommand, cmd.Verb, axis.Name(), domain.OutcomeFailed, "failed to enable movement")
		return
	}

	p.publishResult(domain.CategoryCommand, cmd.Verb, axis.Name(), domain.OutcomeSuccess,
		fmt.Sprintf("movement started to %d", cmd.Value))
}

// handleStatus gathers the device snapshot plus the pipeline counters and
// publishes them as a single report.
func (p *processor) handleStatus() {
	report, err := p.device.StatusReport()
	if err != nil {
		p.publishResult(domain.CategoryStatus, resultVerbStatus, domain.AxisAll, domain.OutcomeFailed, "failed to read device status")
		return
	}

	snap := p.stats.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "=== stagestream status ===\n")
	fmt.Fprintf(&b, "transport connected: %s\n", yesNo(p.transport.Connected()))
	fmt.Fprintf(&b, "sample rate: %d Hz\n", p.rate.Hz())
	fmt.Fprintf(&b, "captured: %d\npublished: %d\ndropped: %d\ndiscarded: %d\n",
		snap.Captured, snap.Published, snap.Dropped, snap.Discarded)
	fmt.Fprintf(&b, "buffer usage: %d/%d\n\n", p.buf.Occupancy(), p.buf.Capacity())
	b.WriteString(report)

	p.publishResult(domain.CategoryStatus, resultVerbStatus, domain.AxisAll, domain.OutcomeSuccess, b.String())
}

// publishResult emits one result message. Results are never retried; if the
// transport is down the result is lost and logged.
func (p *processor) publishResult(cat domain.Category, verb domain.Verb, axisLabel string, outcome domain.Outcome, detail string) {
	res := domain.Result{
		Timestamp: time.Now().UnixNano(),
		Category:  cat,
		Verb:      verb,
		AxisLabel: axisLabel,
		Outcome:   outcome,
		Detail:    detail,
	}

	if !p.transport.Connected() {
		p.logger.Warn("transport disconnected, result lost",
			log.String("verb", string(verb)),
			log.String("outcome", string(outcome)),
		)
		return
	}
	if err := p.transport.Publish(p.resultTopic, resultQoS, res.Encode()); err != nil {
		p.logger.Error("failed to publish result", log.Err(err))
	}
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}
