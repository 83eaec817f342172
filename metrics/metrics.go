// Package metrics exposes Prometheus instrumentation for the HTTP client:
// request counts and latencies, retry volume, and cache effectiveness.
// A nil *Collector is valid and records nothing, so callers never guard
// their instrumentation sites.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records client metrics. It is safe for concurrent use.
// Labels are bounded: method is one of the HTTP verbs and host is the
// request host, never the full URL.
type Collector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	coalescedTotal *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec
}

// NewCollector creates a collector registered on the default registerer.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector registered on the supplied
// registerer. Registering two collectors on the same registerer panics, as
// usual with Prometheus collectors.
func NewCollectorWithRegistry(registry prometheus.Registerer) *Collector {
	return &Collector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsenet_requests_total",
				Help: "Total number of HTTP requests completed",
			},
			[]string{"method", "host", "status"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulsenet_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "host", "status"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pulsenet_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"method", "host"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsenet_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"method", "host"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsenet_cache_hits_total",
				Help: "Total number of response cache hits",
			},
			[]string{"method", "host"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsenet_cache_misses_total",
				Help: "Total number of response cache misses",
			},
			[]string{"method", "host"},
		),
		coalescedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsenet_coalesced_requests_total",
				Help: "Total number of requests served by an in-flight duplicate",
			},
			[]string{"method", "host"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsenet_errors_total",
				Help: "Total number of failed requests by error type",
			},
			[]string{"type", "method", "host"},
		),
	}
}

// RecordRequest records one completed request with its final status.
func (c *Collector) RecordRequest(method, host string, statusCode int, duration time.Duration) {
	if c == nil {
		return
	}
	status := strconv.Itoa(statusCode)
	c.requestsTotal.WithLabelValues(method, host, status).Inc()
	c.requestDuration.WithLabelValues(method, host, status).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (c *Collector) RecordRequestStart(method, host string) {
	if c == nil {
		return
	}
	c.requestsInFlight.WithLabelValues(method, host).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (c *Collector) RecordRequestEnd(method, host string) {
	if c == nil {
		return
	}
	c.requestsInFlight.WithLabelValues(method, host).Dec()
}

// RecordRetry counts one retry attempt.
func (c *Collector) RecordRetry(method, host string) {
	if c == nil {
		return
	}
	c.retriesTotal.WithLabelValues(method, host).Inc()
}

// RecordCacheHit counts a response served from cache.
func (c *Collector) RecordCacheHit(method, host string) {
	if c == nil {
		return
	}
	c.cacheHits.WithLabelValues(method, host).Inc()
}

// RecordCacheMiss counts a cache lookup that fell through to the network.
func (c *Collector) RecordCacheMiss(method, host string) {
	if c == nil {
		return
	}
	c.cacheMisses.WithLabelValues(method, host).Inc()
}

// RecordCoalesced counts a request that shared another caller's dispatch.
func (c *Collector) RecordCoalesced(method, host string) {
	if c == nil {
		return
	}
	c.coalescedTotal.WithLabelValues(method, host).Inc()
}

// RecordError counts a failed request by error type.
func (c *Collector) RecordError(errorType, method, host string) {
	if c == nil {
		return
	}
	c.errorsTotal.WithLabelValues(errorType, method, host).Inc()
}
