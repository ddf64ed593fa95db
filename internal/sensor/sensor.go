// Package sensor wraps the host's utilization probes behind a uniform
// contract. Each sensor reads one hardware dimension and reports a
// normalized percentage in [0, 100] or a typed failure; it never touches
// shared monitor state.
package sensor

import "context"

// Metric identifies one monitored resource dimension.
type Metric int

// The monitored metrics.
const (
	CPU Metric = iota
	Memory
	GPU
)

// String returns the lowercase metric name used in logs, metric labels, and
// API paths.
func (m Metric) String() string {
	switch m {
	case CPU:
		return "cpu"
	case Memory:
		return "memory"
	case GPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// All returns every metric in declaration order.
func All() []Metric {
	return []Metric{CPU, Memory, GPU}
}

// ParseMetric resolves a lowercase metric name, as used in API paths, back
// to its Metric. The second return value is false for unknown names.
func ParseMetric(name string) (Metric, bool) {
	for _, m := range All() {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

// Sensor is a single hardware utilization probe.
//
// Sample returns the current utilization percentage in [0, 100]. Failures
// are reported as apperrors.SensorUnavailableError (nothing to measure,
// caller substitutes a neutral zero) or apperrors.SensorReadError (probe
// call failed, caller skips the update). Sensors may keep internal OS
// snapshot state between calls (e.g. CPU counter deltas) but must not share
// it with other components.
type Sensor interface {
	// Metric reports which dimension this sensor measures.
	Metric() Metric
	// Sample reads the probe and returns a percentage in [0, 100].
	Sample(ctx context.Context) (float64, error)
}

// clampPercent bounds v to the closed range [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
