package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for Graph Queries
// =============================================================================

const (
	namespace = "conceptgraph"

	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	// queryLatency measures graph query latency.
	// Labels: operation (related, path, search, knowledge, concept), outcome
	queryLatency *prometheus.HistogramVec

	// queries counts graph queries.
	// Labels: operation, outcome
	queries *prometheus.CounterVec

	// reloads counts snapshot reloads.
	// Labels: result (ok, rejected)
	reloads *prometheus.CounterVec

	snapshotNodes   prometheus.Gauge
	snapshotEdges   prometheus.Gauge
	snapshotDropped prometheus.Gauge
}

// NewMetrics registers the collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		queryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "latency_seconds",
			Help:      "Graph query latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation", "outcome"}),

		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "total",
			Help:      "Total graph queries",
		}, []string{"operation", "outcome"}),

		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "reloads_total",
			Help:      "Total snapshot reload attempts",
		}, []string{"result"}),

		snapshotNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "nodes",
			Help:      "Nodes in the published snapshot",
		}),

		snapshotEdges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "edges",
			Help:      "Edges in the published snapshot",
		}),

		snapshotDropped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "dropped_edges",
			Help:      "Edges dropped while loading the published snapshot",
		}),
	}
}

// ObserveQuery records one query
func (m *Metrics) ObserveQuery(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(operation, outcome).Inc()
	m.queryLatency.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

// ObserveReload records a reload attempt
func (m *Metrics) ObserveReload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.reloads.WithLabelValues(result).Inc()
}

// SetSnapshot publishes the size of the current snapshot
func (m *Metrics) SetSnapshot(nodes, edges, dropped int) {
	if m == nil {
		return
	}
	m.snapshotNodes.Set(float64(nodes))
	m.snapshotEdges.Set(float64(edges))
	m.snapshotDropped.Set(float64(dropped))
}
