package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termplay/playbackctl/internal/capability"
	"github.com/termplay/playbackctl/internal/errors"
	"github.com/termplay/playbackctl/internal/platform"
	"github.com/termplay/playbackctl/internal/resource"
)

type stubSampler struct {
	sample   resource.Sample
	probeErr error
}

func (s *stubSampler) Probe() error { return s.probeErr }

func (s *stubSampler) Sample() (resource.Sample, error) { return s.sample, nil }

func highTierProber() capability.Prober {
	return func() platform.Info { return platform.Info{} }
}

func newTestController(t *testing.T, cfg Config) *Controller {
	t.Helper()

	if cfg.Prober == nil {
		cfg.Prober = highTierProber()
	}
	if cfg.Sampler == nil {
		cfg.Sampler = &stubSampler{}
	}
	if cfg.MonitorInterval == 0 {
		cfg.MonitorInterval = 5 * time.Millisecond
	}

	ctrl, err := New(cfg)
	require.NoError(t, err)

	return ctrl
}

func TestNewDefaults(t *testing.T) {
	ctrl := newTestController(t, Config{})

	status := ctrl.SystemStatus()
	assert.InDelta(t, DefaultTargetFPS, status.TargetFPS, 0.001)
	assert.Equal(t, DefaultWindowSize, status.WindowSize)
	assert.Equal(t, capability.TierHigh, status.Capability)
}

func TestNewRejectsNegativeConfig(t *testing.T) {
	_, err := New(Config{TargetFPS: -1})
	require.Error(t, err)

	var appErr errors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrInvalidTargetFPS, appErr.Code())

	_, err = New(Config{WindowSize: -1})
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrInvalidWindow, appErr.Code())
}

func TestRegisterFrameCounts(t *testing.T) {
	ctrl := newTestController(t, Config{WindowSize: 3})

	for i := 0; i < 7; i++ {
		ctrl.RegisterFrame()
	}
	ctrl.RegisterSkip()

	status := ctrl.SystemStatus()
	assert.Equal(t, uint64(7), status.FramesRendered)
	assert.Equal(t, uint64(1), status.SkippedFrames)
}

func TestAdaptiveParametersBeforeAnyFrame(t *testing.T) {
	ctrl := newTestController(t, Config{TargetFPS: 24.0})

	// No cadence data yet reads as on-target, so no degradation.
	params := ctrl.AdaptiveParameters()
	assert.InDelta(t, 24.0, params.FPS, 0.001)
	assert.InDelta(t, 1.0, params.Smoothness, 0.001)
	assert.InDelta(t, 0.0, params.SkipRatio, 0.001)
}

func TestStopBeforeStartDoesNotPanic(t *testing.T) {
	ctrl := newTestController(t, Config{})

	assert.NotPanics(t, func() { ctrl.StopMonitoring() })
}

func TestMonitoringLifecycle(t *testing.T) {
	sampler := &stubSampler{sample: resource.Sample{CPUPercent: 95.0, MemoryPercent: 20.0, Timestamp: time.Now()}}
	ctrl := newTestController(t, Config{Sampler: sampler})

	ctrl.StartMonitoring()
	ctrl.StartMonitoring() // idempotent
	defer ctrl.StopMonitoring()

	require.Eventually(t, func() bool {
		return ctrl.SystemStatus().HasResources
	}, time.Second, time.Millisecond)

	status := ctrl.SystemStatus()
	assert.True(t, status.Monitoring)
	assert.InDelta(t, 95.0, status.Resources.CPUPercent, 0.001)
	// CPU above the high mark flips the optimized flag.
	assert.True(t, status.Optimized)

	ctrl.StopMonitoring()
	assert.False(t, ctrl.SystemStatus().Monitoring)
}

func TestMonitoringUnavailableSampler(t *testing.T) {
	sampler := &stubSampler{probeErr: errors.New().New(errors.ErrSamplerUnavailable)}
	ctrl := newTestController(t, Config{Sampler: sampler})

	ctrl.StartMonitoring()

	status := ctrl.SystemStatus()
	assert.False(t, status.Monitoring)
	assert.False(t, status.HasResources)

	// Cadence-based adaptation still works.
	params := ctrl.AdaptiveParameters()
	assert.Positive(t, params.FPS)
}

func TestSystemStatusImmediatelyAfterConstruction(t *testing.T) {
	ctrl := newTestController(t, Config{})

	status := ctrl.SystemStatus()
	assert.Equal(t, uint64(0), status.FramesRendered)
	assert.GreaterOrEqual(t, status.ActualFPS, 0.0)
	assert.GreaterOrEqual(t, status.FPSRatio, 0.0)
	assert.False(t, status.Optimized)
}

func TestLowTierCapsAdvisedRate(t *testing.T) {
	ctrl := newTestController(t, Config{
		TargetFPS: 60.0,
		Prober:    func() platform.Info { return platform.Info{IsAlpine: true} },
	})

	assert.Equal(t, capability.TierLow, ctrl.Tier())

	params := ctrl.AdaptiveParameters()
	assert.LessOrEqual(t, params.FPS, 15.0)
}
