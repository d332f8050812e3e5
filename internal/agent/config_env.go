package agent

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (STAGESTREAM_*). It respects flags that have been explicitly set (changed
// map). Returns an error if any variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("broker", os.Getenv("STAGESTREAM_BROKER_URL"), &cfg.BrokerURL)
	s.setString("client-id", os.Getenv("STAGESTREAM_CLIENT_ID"), &cfg.ClientID)
	s.setString("position-topic", os.Getenv("STAGESTREAM_POSITION_TOPIC"), &cfg.PositionTopic)
	s.setString("command-topic", os.Getenv("STAGESTREAM_COMMAND_TOPIC"), &cfg.CommandTopic)
	s.setString("result-topic", os.Getenv("STAGESTREAM_RESULT_TOPIC"), &cfg.ResultTopic)

	if err := s.setIntFromString("rate", os.Getenv("STAGESTREAM_SAMPLE_RATE_HZ"), &cfg.SampleRateHz); err != nil {
		return err
	}
	if err := s.setIntFromString("batch-size", os.Getenv("STAGESTREAM_BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("buffer-multiplier", os.Getenv("STAGESTREAM_BUFFER_MULTIPLIER"), &cfg.BufferMultiplier); err != nil {
		return err
	}

	if err := s.setDuration("batch-interval", os.Getenv("STAGESTREAM_BATCH_INTERVAL"), &cfg.BatchInterval); err != nil {
		return err
	}
	if err := s.setDuration("stats-interval", os.Getenv("STAGESTREAM_STATS_INTERVAL"), &cfg.StatsInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", os.Getenv("STAGESTREAM_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}

	s.setBoolFromString("sim", os.Getenv("STAGESTREAM_SIM"), &cfg.Sim)

	return nil
}
