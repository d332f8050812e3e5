// Package stagestream provides an agent that streams multi-axis position
// telemetry from a motion-control stage over MQTT and executes motion and
// configuration commands arriving on a command topic.
//
// Example usage:
//
//	cfg := stagestream.DefaultConfig()
//	cfg.BrokerURL = "tcp://broker:1883"
//	cfg.Sim = true
//	s, err := stagestream.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
package stagestream

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stagelab/stagestream/internal/adapters/mqtt"
	"github.com/stagelab/stagestream/internal/adapters/sim"
	"github.com/stagelab/stagestream/internal/agent"
	"github.com/stagelab/stagestream/internal/app"
	"github.com/stagelab/stagestream/internal/domain"
	"github.com/stagelab/stagestream/internal/ports"
	"github.com/stagelab/stagestream/pkg/log"
)

// Config holds the configuration for the streaming agent.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = agent.Config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return agent.DefaultConfig()
}

// Device is the motion-control surface a hardware integration must provide.
type Device = ports.Device

// Transport is the pub/sub boundary; the default implementation is MQTT.
type Transport = ports.Transport

// State represents the lifecycle state of a Stream.
type State = app.State

// Lifecycle states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// Sentinel errors, checkable with errors.Is.
var (
	ErrAlreadyRunning = domain.ErrAlreadyRunning
	ErrNotRunning     = domain.ErrNotRunning
	ErrNoDevice       = domain.ErrNoDevice
	ErrInvalidConfig  = domain.ErrInvalidConfig
)

// Option customizes a Stream.
type Option func(*options)

type options struct {
	logger    log.Logger
	device    ports.Device
	transport ports.Transport
}

// WithLogger supplies a logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDevice supplies the hardware device adapter. Without it, Start
// requires cfg.Sim and uses the simulated stage.
func WithDevice(d ports.Device) Option {
	return func(o *options) { o.device = d }
}

// WithTransport replaces the MQTT transport, mainly for tests.
func WithTransport(t ports.Transport) Option {
	return func(o *options) { o.transport = t }
}

// Stream is a stage streaming agent that can be embedded in other
// applications. Use New() to create an instance, then Start() to begin.
type Stream struct {
	cfg       Config
	opts      options
	lifecycle *app.Lifecycle
	logger    log.Logger

	mu        sync.Mutex
	device    ports.Device
	transport ports.Transport
	cancel    context.CancelFunc
}

// New creates a Stream in StateStopped. Returns an error if the
// configuration is invalid.
func New(cfg Config, opts ...Option) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNop()
	}

	return &Stream{
		cfg:       cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(logger),
		logger:    logger,
	}, nil
}

// Start connects the transport, opens the device, and launches the pipeline
// in the background. A failure to reach the broker or the device is fatal:
// partially acquired resources are released and the error returned.
func (s *Stream) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	device := s.opts.device
	switch {
	case device != nil:
	case s.cfg.Sim:
		device = sim.New()
	default:
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "no device")
		return domain.ErrNoDevice
	}

	transport := s.opts.transport
	if transport == nil {
		transport = mqtt.New(s.cfg.BrokerURL, s.cfg.ClientID, s.cfg.ConnectTimeout, s.logger)
	}
	if err := transport.Connect(ctx); err != nil {
		_ = device.Close()
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "transport connect failed")
		return err
	}

	s.device = device
	s.transport = transport

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lifecycle.SetCancel(cancel)

	s.lifecycle.AddWorker()
	go func() {
		defer s.lifecycle.WorkerDone()

		if err := s.lifecycle.TransitionTo(app.StateRunning, "pipeline starting"); err != nil {
			s.logger.Error("failed to transition to running", log.Err(err))
			return
		}

		err := agent.Run(runCtx, s.cfg, device, transport, s.logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("pipeline error", log.Err(err))
			_ = s.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	}()

	return nil
}

// Stop gracefully shuts the pipeline down: cancels the workers, waits for
// them to join (up to 30 seconds), then releases the device and transport.
func (s *Stream) Stop() error {
	s.mu.Lock()

	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	err := s.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	s.mu.Lock()
	if s.transport != nil {
		s.transport.Close()
		s.transport = nil
	}
	if s.device != nil {
		if closeErr := s.device.Close(); closeErr != nil {
			s.logger.Warn("device close failed", log.Err(closeErr))
		}
		s.device = nil
	}
	s.mu.Unlock()

	if err != nil {
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Stream) Status() State {
	return s.lifecycle.State()
}

// Run starts a stream with the given configuration and blocks until the
// context is canceled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	s, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// Logger returns the package-level zerolog logger used by the agent.
func Logger() zerolog.Logger {
	return agent.Logger()
}
