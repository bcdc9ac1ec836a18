// Package playback ties the capability profiler, frame timing tracker,
// resource monitor and adaptive engine together behind the controller
// surface the frame source and sink collaborate with.
package playback

import (
	"time"

	"github.com/termplay/playbackctl/internal/adaptive"
	"github.com/termplay/playbackctl/internal/capability"
	"github.com/termplay/playbackctl/internal/errors"
	"github.com/termplay/playbackctl/internal/logger"
	"github.com/termplay/playbackctl/internal/platform"
	"github.com/termplay/playbackctl/internal/resource"
	"github.com/termplay/playbackctl/internal/timing"
)

const (
	DefaultTargetFPS  = 24.0
	DefaultWindowSize = 5

	// elapsedEpsilon floors the elapsed time used for the overall rate so
	// a status query right after construction cannot divide by zero.
	elapsedEpsilon = 0.001
)

// Config configures a controller. Zero values take the defaults; the
// optional fields exist for tests and embedders.
type Config struct {
	TargetFPS  float64
	WindowSize int

	// Thresholds overrides the adaptation policy tuning when non-nil.
	Thresholds *adaptive.Thresholds

	// Sampler overrides the OS resource sampler when non-nil.
	Sampler resource.Sampler

	// Prober overrides the platform signal source. Left nil the standard
	// platform probe is used.
	Prober capability.Prober

	// MonitorInterval overrides the resource sampling interval.
	MonitorInterval time.Duration
}

// Controller is the adaptive playback controller.
type Controller struct {
	targetFPS float64
	createdAt time.Time

	tracker *timing.Tracker
	engine  *adaptive.Engine
	monitor *resource.Monitor
}

// New constructs a controller. Capability is classified once here and is
// immutable for the controller's lifetime.
func New(cfg Config) (*Controller, error) {
	errFactory := errors.New()

	if cfg.TargetFPS < 0 {
		return nil, errFactory.WithData(errors.ErrInvalidTargetFPS, cfg.TargetFPS)
	}
	if cfg.WindowSize < 0 {
		return nil, errFactory.WithData(errors.ErrInvalidWindow, cfg.WindowSize)
	}

	if cfg.TargetFPS == 0 {
		cfg.TargetFPS = DefaultTargetFPS
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = DefaultWindowSize
	}

	thresholds := adaptive.DefaultThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}

	prober := cfg.Prober
	if prober == nil {
		prober = platform.Probe
	}
	tier := capability.Detect(prober)

	sampler := cfg.Sampler
	if sampler == nil {
		sampler = resource.NewSystemSampler()
	}

	tracker := timing.NewTracker(cfg.TargetFPS, cfg.WindowSize)
	engine := adaptive.NewEngine(tier, cfg.TargetFPS, thresholds, tracker.CurrentFPS)
	monitor := resource.NewMonitor(sampler, engine.OptimizeForResources, resource.Config{
		Interval: cfg.MonitorInterval,
	})

	logger.Info().
		Str("capability", tier.String()).
		Float64("target_fps", cfg.TargetFPS).
		Int("window_size", cfg.WindowSize).
		Msg("Playback controller initialized")

	return &Controller{
		targetFPS: cfg.TargetFPS,
		createdAt: time.Now(),
		tracker:   tracker,
		engine:    engine,
		monitor:   monitor,
	}, nil
}

// RegisterFrame records one rendered frame. Called by the frame sink once
// per frame it actually renders.
func (c *Controller) RegisterFrame() {
	c.tracker.RegisterFrame()
}

// RegisterSkip records a frame the sink dropped on the engine's advice.
func (c *Controller) RegisterSkip() {
	c.tracker.RegisterSkip()
}

// AdaptiveParameters returns the pacing policy the renderer should honor
// for its next frame. Values are advisory.
func (c *Controller) AdaptiveParameters() adaptive.Parameters {
	return c.engine.Parameters()
}

// CurrentFPS returns the measured frame rate over the timing window.
func (c *Controller) CurrentFPS() float64 {
	return c.tracker.CurrentFPS()
}

// Tier returns the detected capability tier.
func (c *Controller) Tier() capability.Tier {
	return c.engine.Tier()
}

// StartMonitoring launches background resource sampling. Idempotent; a
// no-op when the host's resource statistics are unavailable.
func (c *Controller) StartMonitoring() {
	c.monitor.Start()
}

// StopMonitoring halts background sampling, waiting a bounded time for the
// sampling goroutine to exit. Safe to call without a prior start.
func (c *Controller) StopMonitoring() {
	c.monitor.Stop()
}

// SystemStatus returns a consistent point-in-time view for diagnostics.
func (c *Controller) SystemStatus() Status {
	start := c.tracker.StartTime()
	if start.IsZero() {
		start = c.createdAt
	}
	elapsed := time.Since(start)

	frames := c.tracker.FramesRendered()
	actualFPS := float64(frames) / max(elapsed.Seconds(), elapsedEpsilon)

	fpsRatio := 0.0
	if c.targetFPS > 0 {
		fpsRatio = actualFPS / c.targetFPS
	}

	sample, hasSample := c.monitor.Latest()

	return Status{
		Elapsed:        elapsed,
		TargetFPS:      c.targetFPS,
		CurrentFPS:     c.tracker.CurrentFPS(),
		ActualFPS:      actualFPS,
		FPSRatio:       fpsRatio,
		Capability:     c.engine.Tier(),
		FramesRendered: frames,
		SkippedFrames:  c.tracker.SkippedFrames(),
		WindowSize:     c.tracker.WindowSize(),
		Resources:      sample,
		HasResources:   hasSample,
		Optimized:      c.engine.IsOptimized(),
		Monitoring:     c.monitor.IsMonitoring(),
	}
}
