// ABOUTME: Prometheus instrumentation for heap allocation and collection
// ABOUTME: Metrics are left unregistered when no registerer is supplied

package gc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type heapMetrics struct {
	allocations        prometheus.Counter
	collections        prometheus.Counter
	swept              prometheus.Counter
	liveAllocations    prometheus.Gauge
	liveBytes          prometheus.Gauge
	collectionDuration prometheus.Histogram
}

func newHeapMetrics(reg prometheus.Registerer) *heapMetrics {
	return &heapMetrics{
		allocations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "cyclegc",
			Name:      "allocations_total",
			Help:      "Total number of allocations created on the heap.",
		}),
		collections: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "cyclegc",
			Name:      "collections_total",
			Help:      "Total number of completed collection passes.",
		}),
		swept: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "cyclegc",
			Name:      "swept_allocations_total",
			Help:      "Total number of allocations finalized and reclaimed by the sweep phase.",
		}),
		liveAllocations: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "cyclegc",
			Name:      "live_allocations",
			Help:      "Number of allocations currently registered on the heap.",
		}),
		liveBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "cyclegc",
			Name:      "live_bytes",
			Help:      "Shallow size in bytes of the allocations currently registered on the heap.",
		}),
		collectionDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "cyclegc",
			Name:      "collection_duration_seconds",
			Help:      "Time spent in a collection pass.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}
