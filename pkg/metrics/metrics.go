// Package metrics exposes Prometheus instrumentation for HTTP traffic and
// link detection.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/hub/pkg/middleware"
)

const namespace = "hub"

// Detection call sites.
const (
	CallClassify = "classify"
	CallResolve  = "resolve"
	CallView     = "view"
)

// Metrics owns a private registry so tests and multiple servers never collide
// on the global default registerer.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	detections *prometheus.CounterVec
}

// New creates a registry with the Go and process collectors and the hub metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"module", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"module", "method"},
		),
		detections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "media_detections_total",
				Help:      "Link provider detections by provider and call site",
			},
			[]string{"provider", "call"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.detections,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency under the given module label.
func (m *Metrics) Middleware(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := middleware.NewStatusRecorder(w)
			next.ServeHTTP(rec, r)

			m.requests.WithLabelValues(module, r.Method, strconv.Itoa(rec.Status)).Inc()
			m.duration.WithLabelValues(module, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// RecordDetection counts one provider detection. Safe to call on a nil receiver.
func (m *Metrics) RecordDetection(provider, call string) {
	if m == nil {
		return
	}
	m.detections.WithLabelValues(provider, call).Inc()
}
