// Package resource samples host CPU and memory utilization on a background
// goroutine and publishes the latest sample for the playback controller.
package resource

import (
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/termplay/playbackctl/internal/errors"
)

// Sample is one observation of host load. Samples are immutable once
// published.
type Sample struct {
	CPUPercent    float64
	MemoryPercent float64
	Timestamp     time.Time
}

// Sampler reads host utilization. Probe reports whether the underlying OS
// facility is usable at all; Sample takes one blocking measurement.
type Sampler interface {
	Probe() error
	Sample() (Sample, error)
}

// cpuSampleInterval is how long the blocking CPU measurement observes the
// host. Kept well below the monitor interval.
const cpuSampleInterval = 250 * time.Millisecond

type systemSampler struct{}

// NewSystemSampler returns a sampler backed by the OS statistics interfaces.
func NewSystemSampler() Sampler {
	return &systemSampler{}
}

func (*systemSampler) Probe() error {
	errFactory := errors.New()

	if _, err := cpu.Percent(0, false); err != nil {
		return errFactory.Wrap(errors.ErrSamplerUnavailable, err)
	}
	if _, err := mem.VirtualMemory(); err != nil {
		return errFactory.Wrap(errors.ErrSamplerUnavailable, err)
	}

	return nil
}

func (*systemSampler) Sample() (Sample, error) {
	errFactory := errors.New()

	cpuPercents, err := cpu.Percent(cpuSampleInterval, false)
	if err != nil {
		return Sample{}, errFactory.Wrap(errors.ErrSampleFailed, err)
	}
	if len(cpuPercents) == 0 {
		return Sample{}, errFactory.WithMessage(errors.ErrSampleFailed, "no CPU sample returned")
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return Sample{}, errFactory.Wrap(errors.ErrSampleFailed, err)
	}

	return Sample{
		CPUPercent:    cpuPercents[0],
		MemoryPercent: vm.UsedPercent,
		Timestamp:     time.Now(),
	}, nil
}
