// Package timing tracks frame cadence over a bounded sliding window of
// inter-frame intervals and derives the measured frame rate from it.
package timing

import (
	"sync"
	"time"
)

// Tracker maintains the frame timing window. A single foreground writer
// calls RegisterFrame; the window and counters may be read concurrently.
type Tracker struct {
	targetFPS  float64
	windowSize int

	mu             sync.RWMutex
	intervals      []float64 // seconds
	startTime      time.Time
	lastUpdateTime time.Time
	framesRendered uint64
	skippedFrames  uint64
}

// NewTracker creates a tracker for the given target frame rate and window
// capacity. Both must be positive; the caller validates.
func NewTracker(targetFPS float64, windowSize int) *Tracker {
	return &Tracker{
		targetFPS:  targetFPS,
		windowSize: windowSize,
		intervals:  make([]float64, 0, windowSize),
	}
}

// RegisterFrame records a rendered frame at the current time.
func (t *Tracker) RegisterFrame() {
	t.RegisterFrameAt(time.Now())
}

// RegisterFrameAt records a rendered frame at the given instant. The first
// call records the session start and produces no interval; subsequent calls
// append the inter-frame interval, evicting the oldest entry once the
// window is full.
func (t *Tracker) RegisterFrameAt(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.framesRendered > 0 {
		interval := now.Sub(t.lastUpdateTime).Seconds()
		t.intervals = append(t.intervals, interval)
		if len(t.intervals) > t.windowSize {
			t.intervals = t.intervals[1:]
		}
	} else {
		t.startTime = now
	}

	t.lastUpdateTime = now
	t.framesRendered++
}

// RegisterSkip records a frame the sink dropped instead of rendering.
func (t *Tracker) RegisterSkip() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.skippedFrames++
}

// CurrentFPS returns the measured frame rate over the window. With no
// intervals yet, or a degenerate zero average, it reports the configured
// target rate rather than zero.
func (t *Tracker) CurrentFPS() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.intervals) == 0 {
		return t.targetFPS
	}

	sum := 0.0
	for _, interval := range t.intervals {
		sum += interval
	}

	avg := sum / float64(len(t.intervals))
	if avg <= 0 {
		return t.targetFPS
	}

	return 1.0 / avg
}

// FramesRendered returns the total number of registered frames.
func (t *Tracker) FramesRendered() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.framesRendered
}

// SkippedFrames returns the total number of skipped frames.
func (t *Tracker) SkippedFrames() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.skippedFrames
}

// StartTime returns the instant of the first registered frame, or the zero
// time if no frame has been registered yet.
func (t *Tracker) StartTime() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.startTime
}

// WindowLen returns the number of intervals currently held.
func (t *Tracker) WindowLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.intervals)
}

// WindowSize returns the configured window capacity.
func (t *Tracker) WindowSize() int {
	return t.windowSize
}
