package metrics

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	SweepErrorTypeDeadlineExceeded = "deadline_exceeded"
	SweepErrorTypeUniqueViolation  = "unique_violation"
	SweepErrorTypeLockTimeout      = "db_lock_timeout"
	SweepErrorTypeBusinessRule     = "business_rule"
	SweepErrorTypeDB               = "db"
	SweepErrorTypeUnknown          = "unknown"
)

// SchedulerMetrics counts recompute sweeps run by the snapshot scheduler.
// Served through the default prometheus registry at /metrics.
type SchedulerMetrics struct {
	sweepRuns      *prometheus.CounterVec
	sweepErrors    *prometheus.CounterVec
	sweepDurations prometheus.Histogram
	membersSwept   prometheus.Counter
}

var (
	schedulerOnce     sync.Once
	schedulerInstance *SchedulerMetrics
)

// Scheduler returns the process-wide scheduler metrics, registering the
// collectors on first use.
func Scheduler() *SchedulerMetrics {
	schedulerOnce.Do(func() {
		schedulerInstance = &SchedulerMetrics{
			sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "commission_scheduler_sweeps_total",
				Help: "Snapshot recompute sweeps started, by department.",
			}, []string{"department"}),
			sweepErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "commission_scheduler_sweep_errors_total",
				Help: "Snapshot recompute failures, by error type.",
			}, []string{"type"}),
			sweepDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "commission_scheduler_sweep_duration_seconds",
				Help:    "Wall time of one full recompute sweep.",
				Buckets: prometheus.DefBuckets,
			}),
			membersSwept: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "commission_scheduler_members_swept_total",
				Help: "Members whose snapshot was recomputed by a sweep.",
			}),
		}
		prometheus.MustRegister(
			schedulerInstance.sweepRuns,
			schedulerInstance.sweepErrors,
			schedulerInstance.sweepDurations,
			schedulerInstance.membersSwept,
		)
	})
	return schedulerInstance
}

func (m *SchedulerMetrics) IncSweep(department string) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues(department).Inc()
}

func (m *SchedulerMetrics) IncSweepError(errType string) {
	if m == nil {
		return
	}
	m.sweepErrors.WithLabelValues(errType).Inc()
}

func (m *SchedulerMetrics) ObserveSweepDuration(seconds float64) {
	if m == nil {
		return
	}
	m.sweepDurations.Observe(seconds)
}

func (m *SchedulerMetrics) AddMembersSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.membersSwept.Add(float64(n))
}

// ClassifySweepError maps an error to a low-cardinality label.
func ClassifySweepError(err error) string {
	if err == nil {
		return SweepErrorTypeUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return SweepErrorTypeDeadlineExceeded
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return SweepErrorTypeUniqueViolation
		case "55P03", "40P01":
			return SweepErrorTypeLockTimeout
		default:
			return SweepErrorTypeDB
		}
	}

	return SweepErrorTypeBusinessRule
}
