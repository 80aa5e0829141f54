// Package metrics provides an interface-based metrics side channel for the
// dispatch pipeline. The framework defines the Collector interface and calls
// it on a best-effort basis; users provide the implementation (a Prometheus
// adapter ships in this package).
//
// Metrics are a fire-and-forget concern: observations run off the request's
// critical path and their failures are always swallowed, so a broken or slow
// collector can never block or fail the primary request.
package metrics

import "time"

// RequestLabels identify one completed request for observation purposes.
// Route is the matched route template (not the concrete path) to keep
// cardinality bounded; unmatched requests carry an empty Route.
type RequestLabels struct {
	Method string
	Route  string
	Status int
}

// Collector receives one observation per completed request.
type Collector interface {
	ObserveRequest(labels RequestLabels, duration time.Duration)
}

// CollectorFunc adapts a plain function to the Collector interface.
type CollectorFunc func(labels RequestLabels, duration time.Duration)

// ObserveRequest implements Collector.
func (f CollectorFunc) ObserveRequest(labels RequestLabels, duration time.Duration) {
	f(labels, duration)
}

// Notify delivers an observation to the collector as a detached, best-effort
// notification. It returns immediately; a panicking collector is silently
// discarded rather than propagated to the request path.
func Notify(c Collector, labels RequestLabels, duration time.Duration) {
	if c == nil {
		return
	}
	go func() {
		defer func() {
			_ = recover()
		}()
		c.ObserveRequest(labels, duration)
	}()
}
