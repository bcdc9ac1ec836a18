package telemetry

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot is one persisted view of playback state.
type Snapshot struct {
	Timestamp      time.Time
	Capability     string
	TargetFPS      float64
	CurrentFPS     float64
	ActualFPS      float64
	AdvisedFPS     float64
	Smoothness     float64
	SkipRatio      float64
	FramesRendered uint64
	SkippedFrames  uint64
	CPUPercent     float64
	MemoryPercent  float64
	Optimized      bool
}
