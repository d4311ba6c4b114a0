package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP API metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forwardd_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forwardd_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Database performance metrics
var (
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forwardd_db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forwardd_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

// Database connection pool metrics
var (
	DBPoolTotalConns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forwardd_db_pool_total_conns",
			Help: "Total number of connections in the pool.",
		},
	)
	DBPoolIdleConns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forwardd_db_pool_idle_conns",
			Help: "Number of idle connections in the pool.",
		},
	)
	DBPoolInUseConns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forwardd_db_pool_in_use_conns",
			Help: "Number of connections currently in use.",
		},
	)
)
