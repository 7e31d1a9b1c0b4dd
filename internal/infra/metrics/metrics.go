package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "obraz_stock"

var (
	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Inventory store operations by result.",
	}, []string{"op", "result"})

	StoreOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Inventory store operation latency, transaction included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests by route and status code.",
	}, []string{"route", "code"})
)

// ObserveStoreOp учитывает одну операцию склада.
func ObserveStoreOp(op string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOps.WithLabelValues(op, result).Inc()
	StoreOpDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}
