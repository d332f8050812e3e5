package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	stagestream "github.com/stagelab/stagestream"
	"github.com/stagelab/stagestream/internal/agent"
	"github.com/stagelab/stagestream/pkg/log"
)

const helpDescription = `
Stream multi-axis stage positions to an MQTT broker and accept motion
commands over the same broker.

Highlights:
  - Samples X/Y/Z/R positions at a fixed rate (100-15000 Hz) and publishes
    them in newline-joined batches.
  - Accepts STATUS, SET_RATE, SET_AMP, SET_FREQ, MOVE and STOP commands on
    the command topic; results come back on the result topic.
  - Telemetry is lossy on overload or broker outage; commands and results
    are delivered at least once.
  - Configure via file, environment (STAGESTREAM_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  stagestream --broker tcp://broker:1883 --rate 2000
  stagestream --config $HOME/.stagestream/config.toml --sim
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := agent.DefaultConfig()
	var cfgPath string

	zl := agent.Logger()

	root := &cobra.Command{
		Use:     "stagestream",
		Short:   "Stream stage position telemetry over MQTT",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Precedence: flags > environment > config file > defaults.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = agent.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && agent.FileExists(cfgFile) {
				fc, err := agent.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := agent.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
				cfg.ConfigFile = cfgFile
			}

			if err := agent.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			zl.Info().Interface("config", cfg).Msg("configuration")

			s, err := stagestream.New(cfg, stagestream.WithLogger(log.NewZerolog(zl)))
			if err != nil {
				return fmt.Errorf("create stream: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("start stream: %w", err)
			}

			doneCh := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if s.Status() == stagestream.StateCrashed {
							close(doneCh)
							return
						}
					}
				}
			}()

			select {
			case <-sigCh:
				zl.Info().Msg("received signal, stopping...")
			case <-doneCh:
				zl.Error().Msg("stream crashed")
			}

			if err := s.Stop(); err != nil {
				return fmt.Errorf("stop stream: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.stagestream/config.toml)")
	root.Flags().StringVar(&cfg.BrokerURL, "broker", cfg.BrokerURL, "MQTT broker URL")
	root.Flags().StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "MQTT client identifier")

	root.Flags().StringVar(&cfg.PositionTopic, "position-topic", cfg.PositionTopic, "topic for outbound position batches")
	root.Flags().StringVar(&cfg.CommandTopic, "command-topic", cfg.CommandTopic, "topic for inbound commands")
	root.Flags().StringVar(&cfg.ResultTopic, "result-topic", cfg.ResultTopic, "topic for command results")

	root.Flags().IntVar(&cfg.SampleRateHz, "rate", cfg.SampleRateHz, "initial sampling rate in Hz")
	root.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "samples per telemetry batch")
	root.Flags().DurationVar(&cfg.BatchInterval, "batch-interval", cfg.BatchInterval, "publish cadence")
	root.Flags().IntVar(&cfg.BufferMultiplier, "buffer-multiplier", cfg.BufferMultiplier, "ring capacity as a multiple of batch size")
	root.Flags().DurationVar(&cfg.StatsInterval, "stats-interval", cfg.StatsInterval, "stats log cadence")
	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "initial broker connect timeout")
	root.Flags().IntVar(&cfg.CommandQueueSize, "command-queue-size", cfg.CommandQueueSize, "inbound command queue depth")
	root.Flags().BoolVar(&cfg.Sim, "sim", cfg.Sim, "use the built-in simulated stage")

	if err := root.Execute(); err != nil {
		zl.Error().Err(err).Msg("stagestream")
		os.Exit(1)
	}
}
