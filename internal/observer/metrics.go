package observer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsEnabled = true

	// Import pipeline counters
	ImportRowsAdmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_pipeline_import_rows_admitted_total",
		Help: "Total number of rows admitted as leads across all imports.",
	})
	ImportRowsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_pipeline_import_rows_skipped_total",
		Help: "Total number of rows skipped during import (blank or missing identity).",
	})
	ImportsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_pipeline_imports_rejected_total",
		Help: "Total number of imports rejected as structurally unusable.",
	})
	ImportDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lead_pipeline_import_duration_seconds",
		Help:    "Histogram of end-to-end import durations.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
	})
)

// Query engine metrics
var (
	queryLabels = []string{"view"}

	FilterDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_pipeline_filter_duration_seconds",
			Help:    "Histogram of lead filter evaluation durations, labeled by view.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		queryLabels,
	)
	FilterResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_pipeline_filter_results_total",
			Help: "Total number of leads returned by filter evaluations, labeled by view.",
		},
		queryLabels,
	)
)

// Labels for database operations
var (
	dbOperationLabels = []string{"operation", "entity", "status"}

	DatabaseOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_pipeline_db_operation_duration_seconds",
			Help:    "Histogram of database operation durations.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		dbOperationLabels,
	)
)

// Snapshot worker metrics
var (
	SnapshotFlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_pipeline_snapshot_flushes_total",
			Help: "Total number of snapshot flushes executed, labeled by status.",
		},
		[]string{"status"},
	)
	SnapshotFlushDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lead_pipeline_snapshot_flush_duration_seconds",
		Help:    "Histogram of snapshot flush durations.",
		Buckets: prometheus.DefBuckets,
	})
)

// InitMetrics configures metric collection. promauto has already registered
// everything with the default registry; this only arms or disarms the
// helper functions.
func InitMetrics(enabled bool) {
	metricsEnabled = enabled
}

// IncImportRowAdmitted increments the admitted row counter.
func IncImportRowAdmitted() {
	if !metricsEnabled {
		return
	}
	ImportRowsAdmittedTotal.Inc()
}

// IncImportRowSkipped increments the skipped row counter.
func IncImportRowSkipped() {
	if !metricsEnabled {
		return
	}
	ImportRowsSkippedTotal.Inc()
}

// IncImportRejected increments the rejected import counter.
func IncImportRejected() {
	if !metricsEnabled {
		return
	}
	ImportsRejectedTotal.Inc()
}

// ObserveImportDuration records the duration of one full import.
func ObserveImportDuration(duration time.Duration) {
	if !metricsEnabled {
		return
	}
	ImportDurationSeconds.Observe(duration.Seconds())
}

// ObserveFilterEvaluation records one filter pass and its result size.
func ObserveFilterEvaluation(view string, results int, duration time.Duration) {
	if !metricsEnabled {
		return
	}
	FilterDurationSeconds.WithLabelValues(view).Observe(duration.Seconds())
	FilterResultsTotal.WithLabelValues(view).Add(float64(results))
}

// ObserveDbOperationDuration records the duration for a database operation.
func ObserveDbOperationDuration(operation, entity string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperationDurationSeconds.WithLabelValues(operation, entity, status).Observe(duration.Seconds())
}

// ObserveSnapshotFlush records one snapshot flush attempt.
func ObserveSnapshotFlush(duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	SnapshotFlushesTotal.WithLabelValues(status).Inc()
	SnapshotFlushDurationSeconds.Observe(duration.Seconds())
}
