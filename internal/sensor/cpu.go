package sensor

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"

	apperrors "github.com/agbru/resmon/internal/errors"
)

// CPUSensor reads system-wide CPU utilization as the average of per-core
// percentages. It uses interval=0 sampling, i.e. the delta since the
// previous call; gopsutil refreshes the per-core counters on every call, so
// the first reading after construction seeds the counters and may report 0.
type CPUSensor struct {
	// percent is the probe call, overridable in tests.
	percent func(ctx context.Context, interval int, percpu bool) ([]float64, error)
}

// NewCPUSensor creates a CPU utilization sensor.
func NewCPUSensor() *CPUSensor {
	return &CPUSensor{
		percent: func(ctx context.Context, _ int, percpu bool) ([]float64, error) {
			return cpu.PercentWithContext(ctx, 0, percpu)
		},
	}
}

// Metric reports the CPU dimension.
func (s *CPUSensor) Metric() Metric { return CPU }

// Sample returns the mean of per-core utilization percentages.
func (s *CPUSensor) Sample(ctx context.Context) (float64, error) {
	perCore, err := s.percent(ctx, 0, true)
	if err != nil {
		return 0, apperrors.SensorReadError{Metric: CPU.String(), Cause: err}
	}
	if len(perCore) == 0 {
		return 0, apperrors.SensorUnavailableError{Metric: CPU.String(), Reason: "no logical cores reported"}
	}

	var total float64
	for _, pct := range perCore {
		total += pct
	}
	return clampPercent(total / float64(len(perCore))), nil
}

// Compile-time interface compliance check.
var _ Sensor = (*CPUSensor)(nil)
