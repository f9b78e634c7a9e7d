package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for store operations.
type Metrics struct {
	config MetricsConfig

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	stored     *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of store operations",
			},
			[]string{"backend", "operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Duration of store operations in seconds",
				Buckets:   buckets,
			},
			[]string{"backend", "operation"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Total number of store errors by error class",
			},
			[]string{"backend", "operation", "class"},
		),
		stored: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "todos_stored",
				Help:      "Number of records seen by the last full fetch",
			},
			[]string{"backend"},
		),
	}

	registry.MustRegister(
		m.operations,
		m.duration,
		m.errors,
		m.stored,
	)

	return m, nil
}

// Result labels for store operations.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// RecordOperation records a completed store operation with its duration.
func (m *Metrics) RecordOperation(backend, operation, result string, duration time.Duration) {
	if m.operations == nil {
		return
	}
	m.operations.WithLabelValues(backend, operation, result).Inc()
	m.duration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordError records a store error by class.
func (m *Metrics) RecordError(backend, operation, class string) {
	if m.errors == nil {
		return
	}
	if class == "" {
		class = "unknown"
	}
	m.errors.WithLabelValues(backend, operation, class).Inc()
}

// SetStoredCount sets the number of records held by a backend.
func (m *Metrics) SetStoredCount(backend string, count int) {
	if m.stored == nil {
		return
	}
	m.stored.WithLabelValues(backend).Set(float64(count))
}

// Registry returns the metrics registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
// It does nothing unless metrics are enabled and a listen address is set.
func (m *Metrics) StartMetricsServer() (*http.Server, error) {
	if !m.config.Enabled || m.config.ListenAddress == "" {
		return nil, nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return server, nil
}
