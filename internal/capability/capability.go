// Package capability classifies the host into a coarse rendering capability
// tier. Classification runs once at controller construction and never fails:
// every detection path ends in a safe default.
package capability

import (
	"os"
	"runtime"
	"strings"

	"github.com/termplay/playbackctl/internal/logger"
	"github.com/termplay/playbackctl/internal/platform"
)

// Tier is the coarse host performance class.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"

	// defaultTier is returned when no detection rule matches.
	defaultTier = TierMedium
)

func (t Tier) String() string {
	return string(t)
}

// Prober supplies platform signals. The production implementation is
// platform.Probe; tests inject fixed signals.
type Prober func() platform.Info

// rule maps a platform predicate to a tier. Rules are evaluated top-down;
// the first match wins.
type rule struct {
	name    string
	matches func(platform.Info) bool
	tier    Tier
}

var rules = []rule{
	{
		name: "limited_terminal",
		matches: func(info platform.Info) bool {
			return info.IsLimitedTerminal || info.IsAlpine || info.IsISH || info.IsTermux || info.IsAndroid
		},
		tier: TierLow,
	},
	{
		name:    "arm_architecture",
		matches: func(info platform.Info) bool { return info.IsARM },
		tier:    TierMedium,
	},
	{
		name:    "wsl_environment",
		matches: func(info platform.Info) bool { return info.IsWSL },
		tier:    TierHigh,
	},
	{
		name:    "standard_desktop",
		matches: func(platform.Info) bool { return true },
		tier:    TierHigh,
	},
}

// Detect classifies the host using the platform prober. A nil prober stands
// in for an unavailable platform collaborator and triggers the local
// introspection fallback.
func Detect(probe Prober) Tier {
	if probe == nil {
		return detectFallback(readOSVersion())
	}

	info := probe()
	for _, r := range rules {
		if r.matches(info) {
			logger.Debug().
				Str("rule", r.name).
				Str("tier", r.tier.String()).
				Msg("Capability detected")

			return r.tier
		}
	}

	return defaultTier
}

// detectFallback classifies from OS name and machine architecture alone,
// optionally consulting a kernel version string for musl-libc tokens.
func detectFallback(osVersion string) Tier {
	isMusl := strings.Contains(osVersion, "alpine") || strings.Contains(osVersion, "musl")
	isARM := strings.Contains(runtime.GOARCH, "arm") || strings.Contains(runtime.GOARCH, "aarch")

	if isMusl || isARM {
		return TierMedium
	}

	return TierHigh
}

// readOSVersion reads the kernel version string. Read failures are
// swallowed; the signal is simply absent.
func readOSVersion() string {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return ""
	}

	return strings.ToLower(string(data))
}
