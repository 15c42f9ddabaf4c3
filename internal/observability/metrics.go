package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookshelf_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CatalogRequestsTotal counts outbound catalog API calls by operation and outcome.
	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_catalog_requests_total",
		Help: "Total number of book catalog API requests by operation and outcome",
	}, []string{"operation", "outcome"})

	// CatalogRequestLatency records catalog API request latency by operation.
	CatalogRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookshelf_catalog_request_latency_seconds",
		Help:    "Book catalog API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// AvatarsProcessedTotal counts avatar uploads by outcome.
	AvatarsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_avatars_processed_total",
		Help: "Total number of avatar images processed by outcome",
	}, []string{"outcome"})

	// CacheRequestsTotal counts cache lookups by key class and result.
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_cache_requests_total",
		Help: "Total number of cache lookups by key class and result",
	}, []string{"key", "result"})
)

// RecordCatalogRequest records one catalog API call with its latency.
func RecordCatalogRequest(operation, outcome string, start time.Time) {
	CatalogRequestsTotal.WithLabelValues(operation, outcome).Inc()
	CatalogRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
