package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP-layer instruments. These are registered on the process-wide default
// registry exactly once, so every Metrics instance shares them.
var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "resmon_active_requests",
		Help: "Number of HTTP requests currently being served.",
	})

	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resmon_requests_total",
		Help: "Total number of HTTP requests served.",
	})
)

// Metrics exposes Prometheus metrics over HTTP and tracks request activity.
type Metrics struct {
	handler http.Handler
}

// NewMetrics creates a Metrics serving the default registry, which carries
// the HTTP-layer instruments plus the standard Go and process collectors.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// NewMetricsFor creates a Metrics whose exposition merges the default
// registry with the given gatherers, typically the sampler's instrument
// registry.
func NewMetricsFor(extra ...prometheus.Gatherer) *Metrics {
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
	gatherers = append(gatherers, extra...)
	return &Metrics{
		handler: promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}),
	}
}

// WritePrometheus serves the metrics exposition for the given request.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// IncrementActiveRequests records the start of an in-flight request.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
	requestsTotal.Inc()
}

// DecrementActiveRequests records the end of an in-flight request.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}
