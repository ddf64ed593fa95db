package sensor

import (
	"context"

	"github.com/shirou/gopsutil/v4/mem"

	apperrors "github.com/agbru/resmon/internal/errors"
)

// MemorySensor reads physical memory utilization as used/total*100. The
// division is performed in floating point; rounding to an integer happens
// at presentation time, not here.
type MemorySensor struct {
	// virtualMemory is the probe call, overridable in tests.
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewMemorySensor creates a memory utilization sensor.
func NewMemorySensor() *MemorySensor {
	return &MemorySensor{
		virtualMemory: mem.VirtualMemoryWithContext,
	}
}

// Metric reports the memory dimension.
func (s *MemorySensor) Metric() Metric { return Memory }

// Sample returns used/total physical memory as a percentage.
func (s *MemorySensor) Sample(ctx context.Context) (float64, error) {
	vm, err := s.virtualMemory(ctx)
	if err != nil {
		return 0, apperrors.SensorReadError{Metric: Memory.String(), Cause: err}
	}
	if vm == nil || vm.Total == 0 {
		return 0, apperrors.SensorUnavailableError{Metric: Memory.String(), Reason: "total memory reported as zero"}
	}

	return clampPercent(float64(vm.Used) / float64(vm.Total) * 100.0), nil
}

// Compile-time interface compliance check.
var _ Sensor = (*MemorySensor)(nil)
