// Package metrics records per-invocation operation counters and writes
// them in Prometheus textfile exposition format, so cron-driven sync
// jobs can report through the node-exporter textfile collector without
// running a listener.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects operation metrics on a private registry. A nil
// Recorder is valid and records nothing, so call sites never need to
// guard for metrics being disabled.
type Recorder struct {
	registry *prometheus.Registry

	operationsTotal    *prometheus.CounterVec
	entriesSyncedTotal *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry. Each invocation
// of the CLI builds a fresh one, so registrations never collide.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghenv_operations_total",
				Help: "Total number of sync operations by outcome",
			},
			[]string{"operation", "store", "outcome"},
		),
		entriesSyncedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghenv_entries_synced_total",
				Help: "Total number of entries read or written per operation",
			},
			[]string{"operation", "store"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghenv_operation_duration_seconds",
				Help:    "Duration of sync operations in seconds",
				Buckets: []float64{0.1, 0.5, 1, 3, 5, 10, 30, 60},
			},
			[]string{"operation", "store"},
		),
	}
}

// OperationSucceeded counts a completed operation.
func (r *Recorder) OperationSucceeded(operation, store string) {
	if r == nil {
		return
	}
	r.operationsTotal.WithLabelValues(operation, store, "success").Inc()
}

// OperationFailed counts a failed operation.
func (r *Recorder) OperationFailed(operation, store string) {
	if r == nil {
		return
	}
	r.operationsTotal.WithLabelValues(operation, store, "failure").Inc()
}

// EntriesSynced counts entries moved by an operation.
func (r *Recorder) EntriesSynced(operation, store string, count int) {
	if r == nil || count <= 0 {
		return
	}
	r.entriesSyncedTotal.WithLabelValues(operation, store).Add(float64(count))
}

// ObserveDuration records how long an operation took.
func (r *Recorder) ObserveDuration(operation, store string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.operationDuration.WithLabelValues(operation, store).Observe(elapsed.Seconds())
}

// WriteFile writes the collected metrics to path in textfile exposition
// format, atomically (prometheus writes a temp file and renames it).
func (r *Recorder) WriteFile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
