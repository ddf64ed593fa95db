// Package metrics exposes the monitor's Prometheus instruments and a
// runtime self-telemetry snapshot for the status endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Instruments bundles the Prometheus instruments fed by the sampling loop.
// Each Instruments value owns its registry, so tests can construct
// independent instances without global collector collisions.
type Instruments struct {
	registry *prometheus.Registry

	usage        *prometheus.GaugeVec
	ticks        prometheus.Counter
	ticksSkipped prometheus.Counter
	sensorErrors *prometheus.CounterVec
}

// NewInstruments creates and registers all instruments on a fresh registry.
// Runtime collectors are not registered here; the HTTP layer merges this
// registry with the process-wide default one, which already carries them.
func NewInstruments() *Instruments {
	reg := prometheus.NewRegistry()

	i := &Instruments{
		registry: reg,
		usage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "resmon_usage_percent",
			Help: "Most recent utilization reading per metric, 0-100.",
		}, []string{"metric"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resmon_ticks_total",
			Help: "Completed sampling ticks.",
		}),
		ticksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resmon_ticks_skipped_total",
			Help: "Sampling ticks skipped because the host snapshot guard was held.",
		}),
		sensorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resmon_sensor_errors_total",
			Help: "Sensor read failures per metric.",
		}, []string{"metric"}),
	}

	reg.MustRegister(i.usage, i.ticks, i.ticksSkipped, i.sensorErrors)
	return i
}

// Registry returns the registry backing these instruments, for exposition.
func (i *Instruments) Registry() *prometheus.Registry { return i.registry }

// ObserveSample records the latest reading for a metric.
func (i *Instruments) ObserveSample(metric string, percent float64) {
	i.usage.WithLabelValues(metric).Set(percent)
}

// ObserveTick counts one completed sampling tick.
func (i *Instruments) ObserveTick() { i.ticks.Inc() }

// ObserveSkippedTick counts one tick skipped on guard acquisition.
func (i *Instruments) ObserveSkippedTick() { i.ticksSkipped.Inc() }

// ObserveSensorError counts one failed sensor read for a metric.
func (i *Instruments) ObserveSensorError(metric string) {
	i.sensorErrors.WithLabelValues(metric).Inc()
}
