package adaptive

// Default tuning values. Band edges and resource thresholds are carried in
// Thresholds so tests can probe boundary behavior deterministically.
const (
	DefaultSevereBandEdge   = 0.7
	DefaultModerateBandEdge = 0.9

	DefaultLowTierFPSCap    = 15.0
	DefaultMediumTierFPSCap = 24.0

	DefaultSevereFPSFloor     = 12.0
	DefaultSevereFPSFactor    = 0.5
	DefaultModerateFPSFactor  = 0.8
	DefaultSevereSmoothness   = 0.8
	DefaultModerateSmoothness = 0.9
	DefaultSevereSkipRatio    = 0.4
	DefaultModerateSkipRatio  = 0.2

	DefaultCPUPressureHigh = 80.0
	DefaultMemPressureHigh = 85.0
	DefaultCPUPressureLow  = 60.0
	DefaultMemPressureLow  = 70.0
)

// Thresholds holds the tunable edges of the adaptation policy.
type Thresholds struct {
	// Band edges as fractions of the optimal frame rate.
	SevereBandEdge   float64
	ModerateBandEdge float64

	// Per-tier frame rate caps.
	LowTierFPSCap    float64
	MediumTierFPSCap float64

	// Degradation policy per band.
	SevereFPSFloor     float64
	SevereFPSFactor    float64
	ModerateFPSFactor  float64
	SevereSmoothness   float64
	ModerateSmoothness float64
	SevereSkipRatio    float64
	ModerateSkipRatio  float64

	// Resource pressure hysteresis bands. The optimized flag is set above
	// the high marks and cleared below the low marks; between them it is
	// left unchanged.
	CPUPressureHigh float64
	MemPressureHigh float64
	CPUPressureLow  float64
	MemPressureLow  float64
}

// DefaultThresholds returns the standard policy tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SevereBandEdge:     DefaultSevereBandEdge,
		ModerateBandEdge:   DefaultModerateBandEdge,
		LowTierFPSCap:      DefaultLowTierFPSCap,
		MediumTierFPSCap:   DefaultMediumTierFPSCap,
		SevereFPSFloor:     DefaultSevereFPSFloor,
		SevereFPSFactor:    DefaultSevereFPSFactor,
		ModerateFPSFactor:  DefaultModerateFPSFactor,
		SevereSmoothness:   DefaultSevereSmoothness,
		ModerateSmoothness: DefaultModerateSmoothness,
		SevereSkipRatio:    DefaultSevereSkipRatio,
		ModerateSkipRatio:  DefaultModerateSkipRatio,
		CPUPressureHigh:    DefaultCPUPressureHigh,
		MemPressureHigh:    DefaultMemPressureHigh,
		CPUPressureLow:     DefaultCPUPressureLow,
		MemPressureLow:     DefaultMemPressureLow,
	}
}
