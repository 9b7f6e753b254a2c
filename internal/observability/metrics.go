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
		Name: "secretguest_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "secretguest_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SlotReservations counts slot reservation attempts by outcome.
	SlotReservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secretguest_slot_reservations_total",
		Help: "Total number of hotel slot reservation attempts by outcome",
	}, []string{"outcome"})

	// ApplicationsScored counts scored applications by resulting status.
	ApplicationsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secretguest_applications_scored_total",
		Help: "Total number of scored candidate applications by resulting status",
	}, []string{"status"})

	// ReportsSubmitted counts submitted inspection reports.
	ReportsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secretguest_reports_submitted_total",
		Help: "Total number of inspection reports submitted for moderation",
	})
)

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
