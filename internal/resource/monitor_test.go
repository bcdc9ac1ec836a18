package resource

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termplay/playbackctl/internal/errors"
)

type fakeSampler struct {
	mu        sync.Mutex
	samples   []Sample
	probeErr  error
	sampleErr error
	calls     int
}

func (f *fakeSampler) Probe() error {
	return f.probeErr
}

func (f *fakeSampler) Sample() (Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.sampleErr != nil {
		return Sample{}, f.sampleErr
	}

	s := f.samples[0]
	if len(f.samples) > 1 {
		f.samples = f.samples[1:]
	}

	return s, nil
}

func (f *fakeSampler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func testConfig() Config {
	return Config{Interval: 5 * time.Millisecond, StopTimeout: 100 * time.Millisecond}
}

func TestStartAndPublish(t *testing.T) {
	sampler := &fakeSampler{samples: []Sample{{CPUPercent: 42.0, MemoryPercent: 50.0, Timestamp: time.Now()}}}
	var seen atomic.Int64
	monitor := NewMonitor(sampler, func(Sample) { seen.Add(1) }, testConfig())
	defer monitor.Stop()

	require.True(t, monitor.Start())
	require.True(t, monitor.IsMonitoring())

	require.Eventually(t, func() bool {
		_, ok := monitor.Latest()
		return ok
	}, time.Second, time.Millisecond)

	sample, ok := monitor.Latest()
	require.True(t, ok)
	assert.InDelta(t, 42.0, sample.CPUPercent, 0.001)
	assert.InDelta(t, 50.0, sample.MemoryPercent, 0.001)
	assert.Positive(t, seen.Load())
}

func TestStartIdempotent(t *testing.T) {
	sampler := &fakeSampler{samples: []Sample{{}}}
	monitor := NewMonitor(sampler, nil, testConfig())
	defer monitor.Stop()

	require.True(t, monitor.Start())
	assert.False(t, monitor.Start())
}

func TestStartNoOpWhenSamplerUnavailable(t *testing.T) {
	sampler := &fakeSampler{probeErr: errors.New().New(errors.ErrSamplerUnavailable)}
	monitor := NewMonitor(sampler, nil, testConfig())

	assert.False(t, monitor.Start())
	assert.False(t, monitor.IsMonitoring())

	_, ok := monitor.Latest()
	assert.False(t, ok)
}

func TestStopBeforeStartIsNoOp(t *testing.T) {
	monitor := NewMonitor(&fakeSampler{samples: []Sample{{}}}, nil, testConfig())

	assert.NotPanics(t, func() { monitor.Stop() })
	assert.False(t, monitor.IsMonitoring())
}

func TestStopHaltsSampling(t *testing.T) {
	sampler := &fakeSampler{samples: []Sample{{CPUPercent: 10}}}
	monitor := NewMonitor(sampler, nil, testConfig())

	require.True(t, monitor.Start())
	require.Eventually(t, func() bool { return sampler.callCount() > 0 }, time.Second, time.Millisecond)

	monitor.Stop()
	assert.False(t, monitor.IsMonitoring())

	calls := sampler.callCount()
	time.Sleep(30 * time.Millisecond)
	// At most one in-flight iteration may land after Stop returns.
	assert.LessOrEqual(t, sampler.callCount(), calls+1)
}

func TestSampleErrorKeepsLoopAlive(t *testing.T) {
	sampler := &fakeSampler{sampleErr: errors.New().New(errors.ErrSampleFailed)}
	monitor := NewMonitor(sampler, nil, testConfig())
	defer monitor.Stop()

	require.True(t, monitor.Start())

	require.Eventually(t, func() bool { return sampler.callCount() >= 3 }, time.Second, time.Millisecond)

	_, ok := monitor.Latest()
	assert.False(t, ok)
	assert.True(t, monitor.IsMonitoring())
}

func TestRestartAfterStop(t *testing.T) {
	sampler := &fakeSampler{samples: []Sample{{CPUPercent: 5}}}
	monitor := NewMonitor(sampler, nil, testConfig())

	require.True(t, monitor.Start())
	monitor.Stop()
	require.True(t, monitor.Start())
	defer monitor.Stop()

	assert.True(t, monitor.IsMonitoring())
}
