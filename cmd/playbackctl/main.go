package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/termplay/playbackctl/internal/adaptive"
	"github.com/termplay/playbackctl/internal/config"
	"github.com/termplay/playbackctl/internal/logger"
	"github.com/termplay/playbackctl/internal/pid"
	"github.com/termplay/playbackctl/internal/playback"
	"github.com/termplay/playbackctl/internal/telemetry"
)

var (
	cfg        *config.Config
	controller *playback.Controller
	collector  telemetry.Collector
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")

	controller, err = playback.New(playback.Config{
		TargetFPS:       cfg.TargetFPS,
		WindowSize:      cfg.WindowSize,
		Thresholds:      thresholdsFromConfig(cfg),
		MonitorInterval: time.Duration(cfg.Interval) * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize playback controller")
	}

	if cfg.Telemetry {
		tcfg := telemetry.DefaultConfig()
		if cfg.TelemetryDB != "" {
			tcfg.DBPath = cfg.TelemetryDB
		}
		collector, err = telemetry.NewService(tcfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telemetry")
		}
	}
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	controller.StartMonitoring()
	defer controller.StopMonitoring()

	if collector != nil {
		defer func() {
			if err := collector.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close telemetry")
			}
		}()
	}

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func loop(ctx context.Context) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("invalid interval: %d", cfg.Interval)
	}

	statusTicker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer statusTicker.Stop()

	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Logging playback status...")
	}

	params := controller.AdaptiveParameters()
	frameTimer := time.NewTimer(frameInterval(params))
	defer frameTimer.Stop()

	// Fractional skip debt carried between frames so a skip ratio of 0.4
	// drops four frames out of ten.
	var skipDebt float64

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frameTimer.C:
			params = controller.AdaptiveParameters()

			skipDebt += params.SkipRatio
			if skipDebt >= 1.0 {
				skipDebt--
				controller.RegisterSkip()
			} else {
				controller.RegisterFrame()
			}

			frameTimer.Reset(frameInterval(params))
		case <-statusTicker.C:
			logStatus(params)
			if err := recordTelemetry(ctx, params); err != nil {
				logger.Error().Err(err).Msg("failed to record telemetry")
			}
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

func frameInterval(params adaptive.Parameters) time.Duration {
	return time.Duration(float64(time.Second) / params.FPS)
}

func thresholdsFromConfig(c *config.Config) *adaptive.Thresholds {
	th := adaptive.DefaultThresholds()
	if c.SevereBandEdge > 0 {
		th.SevereBandEdge = c.SevereBandEdge
	}
	if c.ModerateBandEdge > 0 {
		th.ModerateBandEdge = c.ModerateBandEdge
	}
	if c.CPUPressureHigh > 0 {
		th.CPUPressureHigh = c.CPUPressureHigh
	}
	if c.MemPressureHigh > 0 {
		th.MemPressureHigh = c.MemPressureHigh
	}
	if c.CPUPressureLow > 0 {
		th.CPUPressureLow = c.CPUPressureLow
	}
	if c.MemPressureLow > 0 {
		th.MemPressureLow = c.MemPressureLow
	}

	return &th
}

func logStatus(params adaptive.Parameters) {
	status := controller.SystemStatus()

	if cfg.Debug {
		logger.Debug().
			Dur("elapsed", status.Elapsed).
			Str("capability", status.Capability.String()).
			Float64("target_fps", status.TargetFPS).
			Float64("current_fps", status.CurrentFPS).
			Float64("actual_fps", status.ActualFPS).
			Float64("fps_ratio", status.FPSRatio).
			Float64("advised_fps", params.FPS).
			Float64("smoothness", params.Smoothness).
			Float64("skip_ratio", params.SkipRatio).
			Uint64("frames_rendered", status.FramesRendered).
			Uint64("skipped_frames", status.SkippedFrames).
			Int("window_size", status.WindowSize).
			Float64("cpu_percent", status.Resources.CPUPercent).
			Float64("memory_percent", status.Resources.MemoryPercent).
			Bool("optimized", status.Optimized).
			Bool("monitoring", status.Monitoring).
			Msg("")
	} else if cfg.Verbose || cfg.Monitor {
		logger.Info().
			Float64("current_fps", status.CurrentFPS).
			Float64("actual_fps", status.ActualFPS).
			Float64("advised_fps", params.FPS).
			Float64("skip_ratio", params.SkipRatio).
			Uint64("frames_rendered", status.FramesRendered).
			Float64("cpu_percent", status.Resources.CPUPercent).
			Float64("memory_percent", status.Resources.MemoryPercent).
			Bool("optimized", status.Optimized).
			Msg("")
	}
}

func recordTelemetry(ctx context.Context, params adaptive.Parameters) error {
	if collector == nil {
		return nil
	}

	status := controller.SystemStatus()

	return collector.Record(ctx, &telemetry.Snapshot{
		Timestamp:      time.Now(),
		Capability:     status.Capability.String(),
		TargetFPS:      status.TargetFPS,
		CurrentFPS:     status.CurrentFPS,
		ActualFPS:      status.ActualFPS,
		AdvisedFPS:     params.FPS,
		Smoothness:     params.Smoothness,
		SkipRatio:      params.SkipRatio,
		FramesRendered: status.FramesRendered,
		SkippedFrames:  status.SkippedFrames,
		CPUPercent:     status.Resources.CPUPercent,
		MemoryPercent:  status.Resources.MemoryPercent,
		Optimized:      status.Optimized,
	})
}
