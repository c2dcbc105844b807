package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew_NilRegisterer(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	require.Nil(t, c)

	// Nil collectors are no-ops.
	c.ObserveInvocation("dmmf", OutcomeSuccess, time.Second)
	c.ObserveRetry("dmmf", "readiness")
}

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()

	c, err := New(reg)
	require.NoError(t, err)

	c.ObserveInvocation("dmmf", OutcomeSuccess, 20*time.Millisecond)
	c.ObserveInvocation("dmmf", OutcomeError, 30*time.Millisecond)
	c.ObserveInvocation("get_config", OutcomeSuccess, 10*time.Millisecond)
	c.ObserveRetry("dmmf", "readiness")
	c.ObserveRetry("dmmf", "readiness")

	require.InDelta(t, 1, testutil.ToFloat64(c.invocations.WithLabelValues("dmmf", OutcomeSuccess)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.invocations.WithLabelValues("dmmf", OutcomeError)), 0)
	require.InDelta(t, 2, testutil.ToFloat64(c.retries.WithLabelValues("dmmf", "readiness")), 0)
	require.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := New(reg)
	require.NoError(t, err)

	second, err := New(reg)
	require.NoError(t, err)

	first.ObserveRetry("dmmf", "text_file_busy")
	second.ObserveRetry("dmmf", "text_file_busy")

	require.InDelta(t, 2, testutil.ToFloat64(first.retries.WithLabelValues("dmmf", "text_file_busy")), 0)
}
