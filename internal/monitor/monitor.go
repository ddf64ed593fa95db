// Package monitor owns the sampling loop and per-metric shared state of the
// resource monitor. One background goroutine samples every sensor on a fixed
// interval and publishes results; any number of concurrent readers consume
// current values and history through the accessors.
package monitor

import (
	"context"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/resmon/internal/errors"
	"github.com/agbru/resmon/internal/logging"
	"github.com/agbru/resmon/internal/metrics"
	"github.com/agbru/resmon/internal/ring"
	"github.com/agbru/resmon/internal/sensor"
)

// Default sampling parameters, matching the reference deployment: one tick
// per second, sixty retained samples per metric.
const (
	DefaultInterval   = 1 * time.Second
	DefaultHistoryCap = 60
)

// cell pairs one metric's current-value slot with its history ring. Each
// cell has its own lock, so contention on one metric never blocks reads of
// another. The sampler is the sole writer.
type cell struct {
	mu      sync.RWMutex
	current float64
	history *ring.Ring
}

// Monitor is the process-wide sampler instance. Construct it once at
// startup, call Start exactly once, and hand the value to every reader.
// Tests construct independent instances.
type Monitor struct {
	interval time.Duration
	sensors  map[sensor.Metric]sensor.Sensor
	cells    map[sensor.Metric]*cell

	logger logging.Logger
	inst   *metrics.Instruments
	tracer trace.Tracer

	// hostMu is the host snapshot guard: held for the duration of one tick's
	// probe-and-publish work. Acquisition failure skips the whole tick.
	hostMu sync.Mutex

	startOnce sync.Once
	done      chan struct{}
	ticks     atomic.Uint64
}

// Option configures a Monitor during construction.
type Option func(*Monitor)

// WithLogger sets the logger used by the sampling loop.
func WithLogger(l logging.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// WithInstruments attaches Prometheus instruments fed on every tick.
func WithInstruments(i *metrics.Instruments) Option {
	return func(m *Monitor) { m.inst = i }
}

// WithInterval overrides the sampling interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// New creates a Monitor over the given sensors with the given history
// capacity per metric. Cells exist for every metric regardless of which
// sensors are supplied, so accessors for an unsampled metric (e.g. GPU on a
// host without one) return the neutral zero and an empty history.
func New(historyCap int, sensors []sensor.Sensor, opts ...Option) *Monitor {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}

	m := &Monitor{
		interval: DefaultInterval,
		sensors:  make(map[sensor.Metric]sensor.Sensor, len(sensors)),
		cells:    make(map[sensor.Metric]*cell, len(sensor.All())),
		logger:   logging.NewLogger(io.Discard, "monitor"),
		tracer:   otel.Tracer("resmon/monitor"),
		done:     make(chan struct{}),
	}
	for _, s := range sensors {
		m.sensors[s.Metric()] = s
	}
	for _, metric := range sensor.All() {
		m.cells[metric] = &cell{history: ring.New(historyCap)}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the background sampling goroutine. It must be called at
// most once per Monitor; further calls are no-ops. The loop runs until ctx
// is cancelled; Done reports completion of the final tick.
func (m *Monitor) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		go m.run(ctx)
	})
}

// Done returns a channel closed once the sampling loop has fully stopped.
func (m *Monitor) Done() <-chan struct{} { return m.done }

// Interval returns the configured sampling interval.
func (m *Monitor) Interval() time.Duration { return m.interval }

// Ticks returns the number of completed sampling ticks.
func (m *Monitor) Ticks() uint64 { return m.ticks.Load() }

// run executes ticks until the context is cancelled. The first tick fires
// immediately so readers see data within one probe latency of startup.
func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("sampler started",
		logging.String("interval", m.interval.String()),
		logging.Int("sensors", len(m.sensors)))

	for {
		m.tick(ctx)

		select {
		case <-ctx.Done():
			m.logger.Info("sampler stopped", logging.Uint64("ticks", m.ticks.Load()))
			return
		case <-ticker.C:
		}
	}
}

// tick performs one measurement cycle: acquire the host snapshot guard,
// sample every sensor, publish values. All failures are contained here;
// nothing propagates to readers.
func (m *Monitor) tick(ctx context.Context) {
	ctx, span := m.tracer.Start(ctx, "monitor.tick")
	defer span.End()

	if !m.hostMu.TryLock() {
		// Guard still held from a previous tick. Skip, don't retry.
		m.logger.Warn("tick skipped", logging.Err(apperrors.StateLockError{}))
		if m.inst != nil {
			m.inst.ObserveSkippedTick()
		}
		span.SetAttributes(attribute.Bool("skipped", true))
		return
	}
	defer m.hostMu.Unlock()

	for _, metric := range sensor.All() {
		s, ok := m.sensors[metric]
		if !ok {
			continue
		}

		value, err := s.Sample(ctx)
		if err != nil {
			if !apperrors.IsUnavailable(err) {
				// Read failure: keep the previous value for this metric.
				m.logger.Error("sensor read failed", err, logging.String("metric", metric.String()))
				if m.inst != nil {
					m.inst.ObserveSensorError(metric.String())
				}
				continue
			}
			// No hardware to measure: publish the neutral default.
			value = 0
		}

		rounded := math.Round(value)
		m.publish(metric, rounded)
		span.SetAttributes(attribute.Float64(metric.String(), rounded))
		if m.inst != nil {
			m.inst.ObserveSample(metric.String(), rounded)
		}
	}

	m.ticks.Add(1)
	if m.inst != nil {
		m.inst.ObserveTick()
	}
}

// publish writes one metric's rounded sample into its cell and ring under
// the cell lock. The critical section is O(1).
func (m *Monitor) publish(metric sensor.Metric, value float64) {
	c := m.cells[metric]
	c.mu.Lock()
	c.current = value
	c.history.Push(value)
	c.mu.Unlock()
}

// Current returns the most recent integer percentage for a metric, or 0
// before the first completed sample.
func (m *Monitor) Current(metric sensor.Metric) int {
	c, ok := m.cells[metric]
	if !ok {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(c.current)
}

// History returns up to min(seconds, capacity, held) most recent samples
// for a metric, newest first. Requesting more than is retained returns only
// what is available; there is no padding and no error.
func (m *Monitor) History(metric sensor.Metric, seconds int) []int {
	c, ok := m.cells[metric]
	if !ok || seconds <= 0 {
		return nil
	}

	c.mu.RLock()
	tail := c.history.TailNewestFirst(seconds)
	c.mu.RUnlock()

	out := make([]int, len(tail))
	for i, v := range tail {
		out[i] = int(v)
	}
	return out
}
