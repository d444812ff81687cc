package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"conceptgraph/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		tp, shutdown, err := Setup(config.TelemetryConfig{Tracing: "none"})
		require.NoError(t, err)
		_, span := tp.Tracer("test").Start(context.Background(), "op")
		assert.False(t, span.SpanContext().IsValid())
		span.End()
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("stdout writes spans on shutdown", func(t *testing.T) {
		var buf bytes.Buffer
		tp, shutdown, err := setup(config.TelemetryConfig{Tracing: "stdout"}, &buf)
		require.NoError(t, err)

		_, span := tp.Tracer("test").Start(context.Background(), "graph.related")
		assert.True(t, span.SpanContext().IsValid())
		span.End()

		require.NoError(t, shutdown(context.Background()))
		assert.Contains(t, buf.String(), "graph.related")
	})

	t.Run("unknown exporter", func(t *testing.T) {
		_, _, err := Setup(config.TelemetryConfig{Tracing: "zipkin"})
		assert.Error(t, err)
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveQuery("related", OutcomeOK, time.Millisecond)
	m.ObserveQuery("related", OutcomeOK, time.Millisecond)
	m.ObserveQuery("path", OutcomeInvalid, time.Millisecond)
	m.ObserveReload(true)
	m.ObserveReload(false)
	m.SetSnapshot(37, 33, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("related", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("path", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("rejected")))
	assert.Equal(t, 37.0, testutil.ToFloat64(m.snapshotNodes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.snapshotDropped))

	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var nilMetrics *Metrics
		assert.NotPanics(t, func() {
			nilMetrics.ObserveQuery("related", OutcomeOK, time.Millisecond)
			nilMetrics.ObserveReload(true)
			nilMetrics.SetSnapshot(1, 1, 0)
		})
	})
}
