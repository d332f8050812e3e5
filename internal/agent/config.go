package agent

import (
	"fmt"
	"strconv"
	"time"

	"github.com/stagelab/stagestream/internal/domain"
)

// Sample-rate bounds accepted at startup and by SET_RATE.
const (
	MinSampleRateHz = 100
	MaxSampleRateHz = 15000
)

// Default topics of the pub/sub transport.
const (
	DefaultPositionTopic = "microscope/stage/position"
	DefaultCommandTopic  = "microscope/stage/command"
	DefaultResultTopic   = "microscope/stage/result"
)

// Config holds the configuration for the stage streaming agent.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// BrokerURL is the MQTT broker endpoint, e.g. "tcp://localhost:1883".
	BrokerURL string

	// ClientID identifies the agent to the broker.
	ClientID string

	// PositionTopic carries outbound telemetry batches.
	PositionTopic string

	// CommandTopic carries inbound commands.
	CommandTopic string

	// ResultTopic carries command results.
	ResultTopic string

	// SampleRateHz is the initial sampling rate, within
	// [MinSampleRateHz, MaxSampleRateHz].
	SampleRateHz int

	// BatchSize is the nominal number of samples per telemetry message and
	// the per-cycle drain bound of the publisher.
	BatchSize int

	// BatchInterval is the publish cadence, independent of the sample rate.
	BatchInterval time.Duration

	// BufferMultiplier oversizes the ring: capacity = BatchSize * multiplier.
	// The headroom absorbs transient publisher stalls without dropping.
	BufferMultiplier int

	// StatsInterval is the cadence of the supervisor's stats log line.
	StatsInterval time.Duration

	// ConnectTimeout bounds the initial broker connection wait.
	ConnectTimeout time.Duration

	// CommandQueueSize bounds the inbound command queue. Commands arriving
	// while it is full are dropped and logged.
	CommandQueueSize int

	// Sim selects the built-in simulated stage instead of real hardware.
	Sim bool

	// ConfigFile, when set, is watched at runtime; sample-rate changes in it
	// are applied through the same bounds check as SET_RATE.
	ConfigFile string
}

// DefaultConfig returns a Config with default values. BrokerURL has a
// localhost default; override it for any non-local broker.
func DefaultConfig() Config {
	return Config{
		BrokerURL:        "tcp://localhost:1883",
		ClientID:         "stagestream",
		PositionTopic:    DefaultPositionTopic,
		CommandTopic:     DefaultCommandTopic,
		ResultTopic:      DefaultResultTopic,
		SampleRateHz:     1000,
		BatchSize:        1000,
		BatchInterval:    100 * time.Millisecond,
		BufferMultiplier: 4,
		StatsInterval:    5 * time.Second,
		ConnectTimeout:   5 * time.Second,
		CommandQueueSize: 64,
	}
}

// Validate checks the configuration for errors. All failures wrap
// domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.BrokerURL == "" {
		return fmt.Errorf("%w: broker URL is required", domain.ErrInvalidConfig)
	}
	if c.ClientID == "" {
		return fmt.Errorf("%w: client ID is required", domain.ErrInvalidConfig)
	}
	if c.PositionTopic == "" || c.CommandTopic == "" || c.ResultTopic == "" {
		return fmt.Errorf("%w: all three topics are required", domain.ErrInvalidConfig)
	}
	if c.SampleRateHz < MinSampleRateHz || c.SampleRateHz > MaxSampleRateHz {
		return fmt.Errorf("%w: sample rate %d Hz out of range [%d, %d]",
			domain.ErrInvalidConfig, c.SampleRateHz, MinSampleRateHz, MaxSampleRateHz)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", domain.ErrInvalidConfig)
	}
	if c.BatchInterval <= 0 {
		return fmt.Errorf("%w: batch interval must be positive", domain.ErrInvalidConfig)
	}
	if c.BufferMultiplier < 2 {
		return fmt.Errorf("%w: buffer multiplier must be at least 2", domain.ErrInvalidConfig)
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("%w: stats interval must be positive", domain.ErrInvalidConfig)
	}
	if c.CommandQueueSize <= 0 {
		return fmt.Errorf("%w: command queue size must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag has not been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables, which come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
