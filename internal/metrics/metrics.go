// Package metrics exposes Prometheus instrumentation of engine calls.
package metrics

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "query_engine"

// Outcome labels of an invocation.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector records engine invocations and retries. A nil *Collector is
// valid and records nothing.
type Collector struct {
	invocations *prometheus.CounterVec
	retries     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New registers the engine metrics with reg. Registering twice with the same
// registerer reuses the existing collectors. A nil reg returns a nil Collector.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		return nil, nil
	}

	invocations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invocations_total",
		Help:      "Query engine process invocations by operation and outcome.",
	}, []string{"op", "outcome"}))
	if err != nil {
		return nil, err
	}

	retries, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retries_total",
		Help:      "Query engine retries by operation and transient hazard.",
	}, []string{"op", "rule"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "invocation_duration_seconds",
		Help:      "Wall time of query engine processes.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"op"}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		invocations: invocations,
		retries:     retries,
		duration:    duration,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := stderrors.AsType[prometheus.AlreadyRegisteredError](err); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}

		var zero T

		return zero, fmt.Errorf("register metrics: %w", err)
	}

	return c, nil
}

// ObserveInvocation records one finished engine process.
func (c *Collector) ObserveInvocation(op, outcome string, d time.Duration) {
	if c == nil {
		return
	}

	c.invocations.WithLabelValues(op, outcome).Inc()
	c.duration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveRetry records one retry of op caused by rule.
func (c *Collector) ObserveRetry(op, rule string) {
	if c == nil {
		return
	}

	c.retries.WithLabelValues(op, rule).Inc()
}
