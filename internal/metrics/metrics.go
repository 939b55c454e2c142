// Package metrics exposes Prometheus instrumentation for upstream API
// calls and the response cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records API request outcomes and cache effectiveness. It
// satisfies the client's Recorder interface.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewCollector registers the collector's metrics on reg and returns it.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Name:      "api_requests_total",
			Help:      "Upstream API requests by operation and outcome.",
		}, []string{"operation", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "riskdesk",
			Name:      "api_request_duration_seconds",
			Help:      "Upstream API request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Name:      "cache_hits_total",
			Help:      "Response cache hits by operation.",
		}, []string{"operation"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Name:      "cache_misses_total",
			Help:      "Response cache misses by operation.",
		}, []string{"operation"}),
	}
}

func (c *Collector) RecordRequest(operation, status string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(operation, status).Inc()
	c.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordCacheHit(operation string) {
	c.cacheHits.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordCacheMiss(operation string) {
	c.cacheMisses.WithLabelValues(operation).Inc()
}
