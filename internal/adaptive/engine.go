// Package adaptive derives the frame pacing policy from the capability
// tier, the measured frame rate and the latest resource sample.
package adaptive

import (
	"sync/atomic"

	"github.com/termplay/playbackctl/internal/capability"
	"github.com/termplay/playbackctl/internal/logger"
	"github.com/termplay/playbackctl/internal/resource"
)

// Parameters is the advisory pacing policy a renderer should honor.
type Parameters struct {
	FPS        float64
	Smoothness float64
	SkipRatio  float64
}

// Engine computes pacing parameters. Parameters are recomputed fresh on
// every call; callers should not query more often than once per rendered
// frame to avoid oscillation from transient jitter.
type Engine struct {
	tier       capability.Tier
	targetFPS  float64
	thresholds Thresholds
	currentFPS func() float64
	optimized  atomic.Bool
}

// NewEngine creates an engine. currentFPS supplies the measured frame rate,
// typically timing.Tracker.CurrentFPS.
func NewEngine(tier capability.Tier, targetFPS float64, thresholds Thresholds, currentFPS func() float64) *Engine {
	return &Engine{
		tier:       tier,
		targetFPS:  targetFPS,
		thresholds: thresholds,
		currentFPS: currentFPS,
	}
}

// OptimalFPS returns the frame rate ceiling for the detected tier, bounded
// above by the configured target rate.
func (e *Engine) OptimalFPS() float64 {
	switch e.tier {
	case capability.TierLow:
		return min(e.thresholds.LowTierFPSCap, e.targetFPS)
	case capability.TierMedium:
		return min(e.thresholds.MediumTierFPSCap, e.targetFPS)
	default:
		return e.targetFPS
	}
}

// Parameters evaluates the three-band policy against the current measured
// frame rate.
func (e *Engine) Parameters() Parameters {
	current := e.currentFPS()
	optimal := e.OptimalFPS()
	th := e.thresholds

	var params Parameters
	switch {
	case current < optimal*th.SevereBandEdge:
		params = Parameters{
			FPS:        max(th.SevereFPSFloor, optimal*th.SevereFPSFactor),
			Smoothness: th.SevereSmoothness,
			SkipRatio:  th.SevereSkipRatio,
		}
	case current < optimal*th.ModerateBandEdge:
		params = Parameters{
			FPS:        optimal * th.ModerateFPSFactor,
			Smoothness: th.ModerateSmoothness,
			SkipRatio:  th.ModerateSkipRatio,
		}
	default:
		params = Parameters{
			FPS:        optimal,
			Smoothness: 1.0,
			SkipRatio:  0.0,
		}
	}

	params.FPS = min(params.FPS, e.targetFPS)
	params.Smoothness = clamp01(params.Smoothness)
	params.SkipRatio = clamp01(params.SkipRatio)

	return params
}

// OptimizeForResources updates the optimized flag from a resource sample.
// Invoked by the resource monitor's sampling goroutine.
func (e *Engine) OptimizeForResources(sample resource.Sample) {
	th := e.thresholds

	switch {
	case sample.CPUPercent >= th.CPUPressureHigh || sample.MemoryPercent >= th.MemPressureHigh:
		if !e.optimized.Swap(true) {
			logger.Debug().
				Float64("cpu_percent", sample.CPUPercent).
				Float64("memory_percent", sample.MemoryPercent).
				Msg("Resource pressure high, optimization enabled")
		}
	case sample.CPUPercent < th.CPUPressureLow && sample.MemoryPercent < th.MemPressureLow:
		if e.optimized.Swap(false) {
			logger.Debug().
				Float64("cpu_percent", sample.CPUPercent).
				Float64("memory_percent", sample.MemoryPercent).
				Msg("Resource pressure cleared, optimization disabled")
		}
	}
	// Between the bands the flag is left unchanged to avoid flapping.
}

// IsOptimized reports whether resource pressure currently warrants
// pre-emptive degradation.
func (e *Engine) IsOptimized() bool {
	return e.optimized.Load()
}

// Tier returns the capability tier the engine was built with.
func (e *Engine) Tier() capability.Tier {
	return e.tier
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
