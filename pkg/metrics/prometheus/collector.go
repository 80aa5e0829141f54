// Package prometheus adapts a Prometheus registry to the dispatch metrics
// Collector interface.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/calder-io/dispatch/pkg/metrics"
)

// Collector records request counts and latencies into Prometheus metrics.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with the given
// registerer. Namespace scopes the metric names (e.g. "orgsvc_http_requests_total").
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Completed HTTP requests by method, route template, and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(c.requests, c.latency)
	return c
}

// ObserveRequest implements metrics.Collector.
func (c *Collector) ObserveRequest(labels metrics.RequestLabels, duration time.Duration) {
	status := strconv.Itoa(labels.Status)
	c.requests.WithLabelValues(labels.Method, labels.Route, status).Inc()
	c.latency.WithLabelValues(labels.Method, labels.Route).Observe(duration.Seconds())
}

var _ metrics.Collector = (*Collector)(nil)
