// Package server exposes the sampler's readings over a small read-only
// HTTP API, alongside health, status, and Prometheus endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/agbru/resmon/internal/logging"
	"github.com/agbru/resmon/internal/metrics"
	"github.com/agbru/resmon/internal/monitor"
	"github.com/agbru/resmon/internal/sensor"
)

// shutdownTimeout bounds how long graceful shutdown waits for in-flight
// requests before the listener is torn down.
const shutdownTimeout = 5 * time.Second

// Server serves the monitor's current readings and history over HTTP. All
// endpoints are read-only; the server never mutates sampler state.
type Server struct {
	addr     string
	version  string
	monitor  *monitor.Monitor
	memory   *metrics.MemoryCollector
	metrics  *Metrics
	security SecurityConfig
	logger   logging.Logger
	started  time.Time

	httpServer *http.Server
}

// New creates a Server publishing the given monitor on addr. The sampler's
// instrument registry is merged into the /metrics exposition.
func New(addr, version string, mon *monitor.Monitor, inst *metrics.Instruments, logger logging.Logger) *Server {
	s := &Server{
		addr:     addr,
		version:  version,
		monitor:  mon,
		memory:   metrics.NewMemoryCollector(),
		metrics:  NewMetricsFor(inst.Registry()),
		security: DefaultSecurityConfig(),
		logger:   logger,
		started:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/usage/{metric}", s.wrap(s.handleUsage))
	mux.HandleFunc("GET /api/v1/usage/{metric}/history", s.wrap(s.handleHistory))
	mux.HandleFunc("GET /api/v1/status", s.wrap(s.handleStatus))
	mux.HandleFunc("OPTIONS /", s.wrap(func(w http.ResponseWriter, r *http.Request) {}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/metrics", s.handleMetrics)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// wrap applies the security and metrics middleware to an API handler.
func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// metricsMiddleware tracks request counts around the next handler.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		next(w, r)
	}
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully. It
// returns nil on clean shutdown and the listener error otherwise.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", logging.String("addr", s.addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown", err)
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// usageResponse is the body of a current-usage reply.
type usageResponse struct {
	Metric  string `json:"metric"`
	Percent int    `json:"percent"`
}

// historyResponse is the body of a history reply. Samples are ordered
// newest first.
type historyResponse struct {
	Metric  string `json:"metric"`
	Seconds int    `json:"seconds"`
	Samples []int  `json:"samples"`
}

// statusResponse is the body of the status endpoint.
type statusResponse struct {
	Version           string         `json:"version"`
	GoVersion         string         `json:"go_version"`
	Ticks             uint64         `json:"ticks"`
	IntervalSeconds   float64        `json:"interval_seconds"`
	UptimeSeconds     float64        `json:"uptime_seconds"`
	HostUptimeSeconds uint64         `json:"host_uptime_seconds"`
	Memory            memoryResponse `json:"memory"`
}

// memoryResponse reports the monitor's own runtime memory usage.
type memoryResponse struct {
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes   uint64 `json:"heap_sys_bytes"`
	SysBytes       uint64 `json:"sys_bytes"`
	NumGC          uint32 `json:"num_gc"`
	GCPauseTotalNs uint64 `json:"gc_pause_total_ns"`
	Goroutines     int    `json:"goroutines"`
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// handleUsage serves the current reading for one metric.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	metric, ok := sensor.ParseMetric(r.PathValue("metric"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown metric %q", r.PathValue("metric"))
		return
	}

	s.writeJSON(w, http.StatusOK, usageResponse{
		Metric:  metric.String(),
		Percent: s.monitor.Current(metric),
	})
}

// handleHistory serves the most recent readings for one metric, newest
// first. The seconds query parameter defaults to the full retention window.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	metric, ok := sensor.ParseMetric(r.PathValue("metric"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown metric %q", r.PathValue("metric"))
		return
	}

	seconds := monitor.DefaultHistoryCap
	if raw := r.URL.Query().Get("seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "seconds must be an integer, got %q", raw)
			return
		}
		seconds = n
	}
	if seconds < 1 || seconds > s.security.MaxHistorySeconds {
		s.writeError(w, http.StatusBadRequest,
			"seconds must be between 1 and %d, got %d", s.security.MaxHistorySeconds, seconds)
		return
	}

	samples := s.monitor.History(metric, seconds)
	if samples == nil {
		samples = []int{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{
		Metric:  metric.String(),
		Seconds: seconds,
		Samples: samples,
	})
}

// handleStatus serves build and runtime information about the monitor.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.memory.Snapshot()
	s.writeJSON(w, http.StatusOK, statusResponse{
		Version:           s.version,
		GoVersion:         runtime.Version(),
		Ticks:             s.monitor.Ticks(),
		IntervalSeconds:   s.monitor.Interval().Seconds(),
		UptimeSeconds:     time.Since(s.started).Seconds(),
		HostUptimeSeconds: hostUptimeSeconds(),
		Memory: memoryResponse{
			HeapAllocBytes: snap.HeapAlloc,
			HeapSysBytes:   snap.HeapSys,
			SysBytes:       snap.Sys,
			NumGC:          snap.NumGC,
			GCPauseTotalNs: snap.PauseTotalNs,
			Goroutines:     snap.Goroutines,
		},
	})
}

// handleHealthz reports liveness. A sampler that has stopped ticking is
// still live; readiness is the caller's concern.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics serves the Prometheus exposition. Only GET is accepted.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method %s not allowed", r.Method)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// writeJSON writes v as a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", err)
	}
}

// writeError writes a JSON error body and logs the condition at debug level.
func (s *Server) writeError(w http.ResponseWriter, status int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.logger != nil {
		s.logger.Debug("request rejected",
			logging.Int("status", status), logging.String("reason", msg))
	}
	s.writeJSON(w, status, errorResponse{Error: msg})
}
