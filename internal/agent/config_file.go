package agent

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config but uses strings for durations to keep the TOML
// file human-editable.
type fileConfig struct {
	BrokerURL        string `toml:"broker_url"`
	ClientID         string `toml:"client_id"`
	PositionTopic    string `toml:"position_topic"`
	CommandTopic     string `toml:"command_topic"`
	ResultTopic      string `toml:"result_topic"`
	SampleRateHz     int    `toml:"sample_rate_hz"`
	BatchSize        int    `toml:"batch_size"`
	BatchInterval    string `toml:"batch_interval"`
	BufferMultiplier int    `toml:"buffer_multiplier"`
	StatsInterval    string `toml:"stats_interval"`
	ConnectTimeout   string `toml:"connect_timeout"`
	CommandQueueSize int    `toml:"command_queue_size"`
	Sim              *bool  `toml:"sim"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.stagestream/config.toml if the user home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".stagestream", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc fileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("broker", fc.BrokerURL, &cfg.BrokerURL)
	s.setString("client-id", fc.ClientID, &cfg.ClientID)
	s.setString("position-topic", fc.PositionTopic, &cfg.PositionTopic)
	s.setString("command-topic", fc.CommandTopic, &cfg.CommandTopic)
	s.setString("result-topic", fc.ResultTopic, &cfg.ResultTopic)

	s.setInt("rate", fc.SampleRateHz, &cfg.SampleRateHz)
	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setInt("buffer-multiplier", fc.BufferMultiplier, &cfg.BufferMultiplier)
	s.setInt("command-queue-size", fc.CommandQueueSize, &cfg.CommandQueueSize)

	if err := s.setDuration("batch-interval", fc.BatchInterval, &cfg.BatchInterval); err != nil {
		return err
	}
	if err := s.setDuration("stats-interval", fc.StatsInterval, &cfg.StatsInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}

	s.setBool("sim", fc.Sim, &cfg.Sim)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
