package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/termplay/playbackctl/internal/capability"
	"github.com/termplay/playbackctl/internal/resource"
)

func newTestEngine(tier capability.Tier, targetFPS, currentFPS float64) *Engine {
	return NewEngine(tier, targetFPS, DefaultThresholds(), func() float64 { return currentFPS })
}

func TestOptimalFPSPerTier(t *testing.T) {
	tests := []struct {
		tier      capability.Tier
		targetFPS float64
		want      float64
	}{
		{capability.TierLow, 30.0, 15.0},
		{capability.TierMedium, 30.0, 24.0},
		{capability.TierHigh, 30.0, 30.0},
		{capability.TierLow, 10.0, 10.0},
		{capability.TierMedium, 20.0, 20.0},
		{capability.TierHigh, 20.0, 20.0},
	}

	for _, tt := range tests {
		engine := newTestEngine(tt.tier, tt.targetFPS, tt.targetFPS)
		assert.InDelta(t, tt.want, engine.OptimalFPS(), 0.001, "tier %s target %v", tt.tier, tt.targetFPS)
	}
}

func TestOptimalFPSMonotonicAcrossTiers(t *testing.T) {
	for _, targetFPS := range []float64{24.0, 30.0, 60.0, 120.0} {
		low := newTestEngine(capability.TierLow, targetFPS, targetFPS).OptimalFPS()
		med := newTestEngine(capability.TierMedium, targetFPS, targetFPS).OptimalFPS()
		high := newTestEngine(capability.TierHigh, targetFPS, targetFPS).OptimalFPS()

		assert.LessOrEqual(t, low, med)
		assert.LessOrEqual(t, med, high)
		assert.LessOrEqual(t, high, targetFPS)
	}
}

func TestParametersSevereBand(t *testing.T) {
	// 16/24 is 0.667x optimal, inside the severe band.
	engine := newTestEngine(capability.TierMedium, 24.0, 16.0)

	params := engine.Parameters()
	assert.InDelta(t, 12.0, params.FPS, 0.001)
	assert.InDelta(t, 0.8, params.Smoothness, 0.001)
	assert.InDelta(t, 0.4, params.SkipRatio, 0.001)
}

func TestParametersModerateBand(t *testing.T) {
	// 20/24 is 0.833x optimal.
	engine := newTestEngine(capability.TierMedium, 24.0, 20.0)

	params := engine.Parameters()
	assert.InDelta(t, 24.0*0.8, params.FPS, 0.001)
	assert.InDelta(t, 0.9, params.Smoothness, 0.001)
	assert.InDelta(t, 0.2, params.SkipRatio, 0.001)
}

func TestParametersNominalBand(t *testing.T) {
	// 23/24 is 0.958x optimal.
	engine := newTestEngine(capability.TierMedium, 24.0, 23.0)

	params := engine.Parameters()
	assert.InDelta(t, 24.0, params.FPS, 0.001)
	assert.InDelta(t, 1.0, params.Smoothness, 0.001)
	assert.InDelta(t, 0.0, params.SkipRatio, 0.001)
}

func TestParametersAlwaysWithinBounds(t *testing.T) {
	currents := []float64{0.0, 0.5, 5.0, 12.0, 23.99, 24.0, 100.0, 1e9}
	tiers := []capability.Tier{capability.TierLow, capability.TierMedium, capability.TierHigh}

	for _, tier := range tiers {
		for _, current := range currents {
			engine := newTestEngine(tier, 24.0, current)
			params := engine.Parameters()

			assert.Positive(t, params.FPS)
			assert.LessOrEqual(t, params.FPS, 24.0)
			assert.GreaterOrEqual(t, params.Smoothness, 0.0)
			assert.LessOrEqual(t, params.Smoothness, 1.0)
			assert.GreaterOrEqual(t, params.SkipRatio, 0.0)
			assert.LessOrEqual(t, params.SkipRatio, 1.0)
		}
	}
}

func TestParametersSevereFloorClampedToTarget(t *testing.T) {
	// With a target below the severe floor the policy must not advise a
	// rate above the configured target.
	engine := newTestEngine(capability.TierHigh, 10.0, 1.0)

	params := engine.Parameters()
	assert.InDelta(t, 10.0, params.FPS, 0.001)
}

func TestOptimizeForResourcesHysteresis(t *testing.T) {
	engine := newTestEngine(capability.TierHigh, 24.0, 24.0)

	assert.False(t, engine.IsOptimized())

	// High CPU pressure sets the flag.
	engine.OptimizeForResources(resource.Sample{CPUPercent: 85.0, MemoryPercent: 40.0})
	assert.True(t, engine.IsOptimized())

	// Mid-band load leaves it unchanged.
	engine.OptimizeForResources(resource.Sample{CPUPercent: 70.0, MemoryPercent: 75.0})
	assert.True(t, engine.IsOptimized())

	// Low load clears it.
	engine.OptimizeForResources(resource.Sample{CPUPercent: 30.0, MemoryPercent: 40.0})
	assert.False(t, engine.IsOptimized())

	// Mid-band again leaves it cleared.
	engine.OptimizeForResources(resource.Sample{CPUPercent: 70.0, MemoryPercent: 75.0})
	assert.False(t, engine.IsOptimized())

	// High memory pressure alone also sets it.
	engine.OptimizeForResources(resource.Sample{CPUPercent: 10.0, MemoryPercent: 90.0})
	assert.True(t, engine.IsOptimized())
}

func TestOptimizeBoundaryValues(t *testing.T) {
	engine := newTestEngine(capability.TierHigh, 24.0, 24.0)

	// Exactly at the high marks triggers optimization.
	engine.OptimizeForResources(resource.Sample{CPUPercent: 80.0, MemoryPercent: 0.0})
	assert.True(t, engine.IsOptimized())

	// Exactly at the low marks does not clear (clear requires strictly below).
	engine.OptimizeForResources(resource.Sample{CPUPercent: 60.0, MemoryPercent: 70.0})
	assert.True(t, engine.IsOptimized())

	engine.OptimizeForResources(resource.Sample{CPUPercent: 59.9, MemoryPercent: 69.9})
	assert.False(t, engine.IsOptimized())
}
