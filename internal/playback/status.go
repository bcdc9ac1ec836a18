package playback

import (
	"time"

	"github.com/termplay/playbackctl/internal/capability"
	"github.com/termplay/playbackctl/internal/resource"
)

// Status is a point-in-time diagnostic snapshot of the controller.
type Status struct {
	Elapsed        time.Duration
	TargetFPS      float64
	CurrentFPS     float64
	ActualFPS      float64
	FPSRatio       float64
	Capability     capability.Tier
	FramesRendered uint64
	SkippedFrames  uint64
	WindowSize     int
	Resources      resource.Sample
	HasResources   bool
	Optimized      bool
	Monitoring     bool
}
