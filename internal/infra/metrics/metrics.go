// Package metrics provides Prometheus metrics for Millrun: solve counts,
// durations, search effort, and violation totals.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Solves ─────────────────────────────────────────────────────────────────

// SolvesTotal counts completed solve calls by result status.
var SolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "millrun",
	Name:      "solves_total",
	Help:      "Total solve calls by result status.",
}, []string{"status"})

// SolveDuration tracks wall-clock solve time in seconds.
var SolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "millrun",
	Name:      "solve_duration_seconds",
	Help:      "Wall-clock solve duration in seconds.",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
})

// TasksScheduled counts task instances placed into schedules.
var TasksScheduled = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "millrun",
	Name:      "tasks_scheduled_total",
	Help:      "Total task instances placed into returned schedules.",
})

// ─── Outcomes ───────────────────────────────────────────────────────────────

// ViolationHours counts deadline overrun hours across returned schedules.
var ViolationHours = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "millrun",
	Name:      "violation_hours_total",
	Help:      "Total deadline violation hours across returned schedules.",
})

// LastMakespan records the makespan of the most recent schedule.
var LastMakespan = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "millrun",
	Name:      "last_makespan_hours",
	Help:      "Makespan of the most recently returned schedule.",
})

// OrdersSkipped counts orders dropped for referencing unknown products.
var OrdersSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "millrun",
	Name:      "orders_skipped_total",
	Help:      "Orders dropped because their product is not defined.",
})
