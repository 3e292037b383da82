package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviedb_http_requests_total",
			Help: "Count of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviedb_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP request",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "route"},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviedb_store_operations_total",
			Help: "Count of data access operations",
		},
		[]string{"entity", "op", "status"}, // status: ok, not_found, conflict, error
	)
	GRPCRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviedb_grpc_requests_total",
			Help: "Count of handled Catalog gRPC calls",
		},
		[]string{"method", "code"},
	)
)

var once sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPDuration,
			StoreOperations,
			GRPCRequests,
		)
	})
}
