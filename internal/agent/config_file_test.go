package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
broker_url = "tcp://broker:1883"
client_id = "bench-rig"
position_topic = "lab/stage/position"
sample_rate_hz = 2000
batch_size = 500
batch_interval = "50ms"
sim = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.BrokerURL != "tcp://broker:1883" {
		t.Errorf("BrokerURL = %q", fc.BrokerURL)
	}
	if fc.ClientID != "bench-rig" {
		t.Errorf("ClientID = %q", fc.ClientID)
	}
	if fc.SampleRateHz != 2000 {
		t.Errorf("SampleRateHz = %d", fc.SampleRateHz)
	}
	if fc.BatchInterval != "50ms" {
		t.Errorf("BatchInterval = %q", fc.BatchInterval)
	}
	if fc.Sim == nil || !*fc.Sim {
		t.Error("Sim not parsed as true")
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFileConfig() succeeded on a missing file")
	}
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	path := writeConfigFile(t, "broker_url = [not toml")
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() succeeded on invalid TOML")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultConfig()
	fc := fileConfig{
		BrokerURL:     "tcp://broker:1883",
		SampleRateHz:  4000,
		BatchInterval: "250ms",
	}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}

	if cfg.BrokerURL != "tcp://broker:1883" {
		t.Errorf("BrokerURL = %q", cfg.BrokerURL)
	}
	if cfg.SampleRateHz != 4000 {
		t.Errorf("SampleRateHz = %d", cfg.SampleRateHz)
	}
	if cfg.BatchInterval != 250*time.Millisecond {
		t.Errorf("BatchInterval = %v", cfg.BatchInterval)
	}
	// Fields absent from the file keep their defaults.
	if cfg.ClientID != "stagestream" {
		t.Errorf("ClientID = %q, want default", cfg.ClientID)
	}
}

func TestApplyFileConfig_FlagWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRateHz = 8000 // as if set by flag
	fc := fileConfig{SampleRateHz: 300}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{"rate": true}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.SampleRateHz != 8000 {
		t.Errorf("SampleRateHz = %d, want flag value 8000", cfg.SampleRateHz)
	}
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := fileConfig{BatchInterval: "whenever"}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Error("ApplyFileConfig() accepted an unparseable duration")
	}
}

func TestFileExists(t *testing.T) {
	path := writeConfigFile(t, "")
	if !FileExists(path) {
		t.Error("FileExists() = false for an existing file")
	}
	if FileExists(filepath.Join(t.TempDir(), "nope.toml")) {
		t.Error("FileExists() = true for a missing file")
	}
}
