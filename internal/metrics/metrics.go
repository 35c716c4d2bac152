// Package metrics exposes the scheduling loop's behavior as Prometheus
// series, following the promauto package-level-var pattern used for
// path-update metrics in the graph-traversal example this module is
// partly grounded on.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EdgesDispatched counts every function edge handed to a JobRunner,
	// by backend.
	EdgesDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qgraph_edges_dispatched_total",
		Help: "Total function edges dispatched to a JobRunner, by backend",
	}, []string{"backend"})

	// EdgesCompleted counts terminal edge outcomes, by final status.
	EdgesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qgraph_edges_completed_total",
		Help: "Total function edges that reached a terminal status",
	}, []string{"status"})

	// EdgeDuration tracks wall-clock run time for dispatched edges, by
	// backend.
	EdgeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qgraph_edge_duration_seconds",
		Help:    "Function edge run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~14 minutes
	}, []string{"backend"})

	// ReadyQueueDepth samples how many edges were ready to dispatch at
	// the start of a scheduling tick.
	ReadyQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "qgraph_ready_queue_depth",
		Help: "Number of PENDING edges ready to dispatch at the start of the current tick",
	})

	// RunningEdges samples how many edges are currently RUNNING.
	RunningEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "qgraph_running_edges",
		Help: "Number of edges currently RUNNING",
	})
)

// ObserveDuration records d against EdgeDuration for backend.
func ObserveDuration(backend string, d time.Duration) {
	EdgeDuration.WithLabelValues(backend).Observe(d.Seconds())
}
