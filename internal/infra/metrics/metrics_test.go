package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSolveMetrics_Registered(t *testing.T) {
	// promauto registers with the default registry automatically.
	// Observe/inc to verify nothing panics, then check registration.
	SolvesTotal.WithLabelValues("OPTIMAL").Inc()
	SolveDuration.Observe(0.25)
	TasksScheduled.Add(9)
	ViolationHours.Add(2)
	LastMakespan.Set(25)
	OrdersSkipped.Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	expected := []string{
		"millrun_solves_total",
		"millrun_solve_duration_seconds",
		"millrun_tasks_scheduled_total",
		"millrun_violation_hours_total",
		"millrun_last_makespan_hours",
		"millrun_orders_skipped_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("%s not found in gathered metrics", name)
		}
	}
}
