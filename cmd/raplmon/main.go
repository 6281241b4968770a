package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/raplmon/internal/config"
	"codeberg.org/mutker/raplmon/internal/domain"
	"codeberg.org/mutker/raplmon/internal/errors"
	"codeberg.org/mutker/raplmon/internal/gpu"
	"codeberg.org/mutker/raplmon/internal/logger"
	"codeberg.org/mutker/raplmon/internal/pid"
	"codeberg.org/mutker/raplmon/internal/rapl"
	"codeberg.org/mutker/raplmon/internal/report"
	"codeberg.org/mutker/raplmon/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLogLevel(level)
		}
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	trackers, err := rapl.Discover(cfg.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to discover RAPL domains")
	}
	logger.Info().Int("domains", len(trackers)).Msg("Tracking RAPL domains")

	if cfg.GPU {
		gpuTrackers, err := gpu.Discover()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to discover GPU domains")
		}
		defer gpu.Shutdown()
		logger.Info().Int("domains", len(gpuTrackers)).Msg("Tracking GPU domains")
		trackers = append(trackers, gpuTrackers...)
	}

	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.Enabled = cfg.Telemetry
	if cfg.TelemetryDB != "" {
		telemetryCfg.DBPath = cfg.TelemetryDB
	}
	collector, err := telemetry.NewService(telemetryCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close telemetry")
		}
	}()

	renderer := report.NewRenderer(os.Stdout)
	defer renderer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop(ctx, trackers, renderer, collector); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

// loop samples every domain once per interval. Cancellation only
// interrupts the wait between cycles, never a cycle in progress.
func loop(ctx context.Context, trackers []*domain.Tracker, renderer *report.Renderer, collector telemetry.Collector) error {
	if cfg.Interval <= 0 {
		return errors.New().WithData(errors.ErrInvalidInterval, cfg.Interval)
	}

	ticker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			readings := sampleAll(trackers)
			renderer.Render(readings)
			record(ctx, collector, readings)
		}
	}
}

// sampleAll polls each tracker in turn. A domain that fails to sample
// is skipped for this cycle only; its tracker state is untouched and
// the next cycle retries.
func sampleAll(trackers []*domain.Tracker) []report.Reading {
	readings := make([]report.Reading, 0, len(trackers))
	for _, tracker := range trackers {
		power, err := tracker.Sample()
		if err != nil {
			logger.Debug().Err(err).Str("domain", tracker.Name()).Msg("Skipping domain this cycle")
			continue
		}

		readings = append(readings, report.Reading{
			Name:          tracker.Name(),
			PowerW:        power,
			AveragePowerW: tracker.AveragePower(),
			EnergyWh:      tracker.CumulativeEnergyWattHours(),
			PeakPowerW:    tracker.PeakPower(),
		})
	}

	return readings
}

func record(ctx context.Context, collector telemetry.Collector, readings []report.Reading) {
	now := time.Now()
	for i := range readings {
		sample := &telemetry.Sample{
			Timestamp:     now,
			Domain:        readings[i].Name,
			PowerW:        readings[i].PowerW,
			AveragePowerW: readings[i].AveragePowerW,
			EnergyWh:      readings[i].EnergyWh,
			PeakPowerW:    readings[i].PeakPowerW,
		}
		if err := collector.Record(ctx, sample); err != nil {
			logger.Warn().Err(err).Str("domain", sample.Domain).Msg("failed to record sample")
		}
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
