// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application metrics.
type Collector struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram
	recomputes   *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huddle_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "huddle_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huddle_progress_recomputes_total",
			Help: "Progress percentage recomputes by level",
		}, []string{"level"}),
	}

	registry.MustRegister(c.httpRequests, c.httpLatency, c.recomputes)

	return c
}

// RecordHTTPRequest counts a completed request and its latency.
func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordRecompute counts a percentage recompute at the given level
// ("task" or "project").
func (c *Collector) RecordRecompute(level string) {
	c.recomputes.WithLabelValues(level).Inc()
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
