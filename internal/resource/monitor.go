package resource

import (
	"sync"
	"time"

	"github.com/termplay/playbackctl/internal/logger"
)

const (
	// DefaultInterval is the pause between samples.
	DefaultInterval = 2 * time.Second

	// DefaultStopTimeout bounds how long Stop waits for the sampling
	// goroutine to exit before abandoning it.
	DefaultStopTimeout = 500 * time.Millisecond
)

// Config tunes the monitor loop. Zero values fall back to the defaults.
type Config struct {
	Interval    time.Duration
	StopTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}

	return c
}

// Monitor runs the background sampling loop. The loop is the only writer of
// the latest sample; foreground callers read it through Latest.
type Monitor struct {
	sampler  Sampler
	onSample func(Sample)
	cfg      Config

	mu         sync.RWMutex
	latest     Sample
	hasSample  bool
	monitoring bool
	stopCh     chan struct{}
	done       chan struct{}
}

// NewMonitor creates a monitor. onSample is invoked from the sampling
// goroutine after each published sample; it must be safe to call
// concurrently with foreground reads. A nil onSample is allowed.
func NewMonitor(sampler Sampler, onSample func(Sample), cfg Config) *Monitor {
	return &Monitor{
		sampler:  sampler,
		onSample: onSample,
		cfg:      cfg.withDefaults(),
	}
}

// Start launches the sampling goroutine. It is idempotent: starting an
// already-running monitor is a no-op. When the sampler probe fails the
// monitor silently stays off and resource-based adaptation is disabled.
func (m *Monitor) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.monitoring {
		return false
	}

	if err := m.sampler.Probe(); err != nil {
		logger.Debug().Err(err).Msg("Resource sampler unavailable, monitoring disabled")

		return false
	}

	m.monitoring = true
	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})

	go m.loop(m.stopCh, m.done)

	logger.Debug().Dur("interval", m.cfg.Interval).Msg("Resource monitoring started")

	return true
}

// Stop clears the monitoring flag and waits up to the configured timeout
// for the goroutine to exit. On timeout it returns anyway; the goroutine
// observes the cleared flag on its next wake and exits on its own.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.monitoring {
		m.mu.Unlock()

		return
	}
	m.monitoring = false
	close(m.stopCh)
	done := m.done
	m.mu.Unlock()

	select {
	case <-done:
	case <-time.After(m.cfg.StopTimeout):
		logger.Debug().Msg("Resource monitor did not stop in time, abandoning")
	}
}

// IsMonitoring reports whether the sampling loop is active.
func (m *Monitor) IsMonitoring() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.monitoring
}

// Latest returns the most recently published sample. The second return is
// false before the first sampling tick completes.
func (m *Monitor) Latest() (Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.latest, m.hasSample
}

func (m *Monitor) loop(stopCh, done chan struct{}) {
	defer close(done)

	for {
		sample, err := m.sampler.Sample()
		if err != nil {
			// One failed sample does not end monitoring; skip the
			// iteration and try again next tick.
			logger.Debug().Err(err).Msg("Resource sample failed")
		} else {
			m.publish(sample)
			if m.onSample != nil {
				m.onSample(sample)
			}
		}

		select {
		case <-stopCh:
			return
		case <-time.After(m.cfg.Interval):
		}

		m.mu.RLock()
		monitoring := m.monitoring
		m.mu.RUnlock()
		if !monitoring {
			return
		}
	}
}

func (m *Monitor) publish(sample Sample) {
	m.mu.Lock()
	m.latest = sample
	m.hasSample = true
	m.mu.Unlock()
}
