package domain

import "time"

// Status classifies the outcome of a solve.
type Status string

const (
	// StatusOptimal — proven optimal, all deadlines met.
	StatusOptimal Status = "OPTIMAL"
	// StatusFeasible — feasible schedule, all deadlines met, optimality not proven.
	StatusFeasible Status = "FEASIBLE"
	// StatusViolations — feasible schedule but at least one order finishes late.
	StatusViolations Status = "FEASIBLE_WITH_VIOLATIONS"
	// StatusInfeasible — no schedule found. Deadlines are soft, so this points
	// at the inputs (no work, no capable machine) or the search budget.
	StatusInfeasible Status = "INFEASIBLE"
)

// ScheduleEntry is one scheduled task instance in the output timetable.
// Start/End are hours from the schedule-start epoch; the wall-clock strings
// are derived from the epoch for display.
type ScheduleEntry struct {
	TaskID    int    `json:"task_id"`
	Order     string `json:"order"`
	Operation string `json:"operation"`
	Machine   string `json:"machine"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Duration  int    `json:"duration"`
	StartTime string `json:"start_datetime"`
	EndTime   string `json:"end_datetime"`

	// SetupTime is the changeover incurred immediately before this task on
	// its machine, computed from the realized per-machine order. The first
	// task on a machine always reports 0.
	SetupTime int `json:"setup_time"`
}

// Violation reports one order that finished after its deadline.
type Violation struct {
	Product          string `json:"product"`
	Quantity         int    `json:"quantity"`
	Deadline         int    `json:"deadline"`
	ActualCompletion int    `json:"actual_completion"`
	ViolationHours   int    `json:"violation_hours"`
}

// Result is the structured outcome of one solve call. Failures are carried
// in Status and Message — a solve never panics outward.
type Result struct {
	Status    Status          `json:"status"`
	Makespan  int             `json:"makespan"`
	Schedule  []ScheduleEntry `json:"schedule"`
	StartTime string          `json:"start_datetime"`

	Violations          []Violation `json:"deadline_violations"`
	TotalViolationHours int         `json:"total_violation_hours"`

	// SkippedOrders lists product names of orders dropped because the
	// scenario defines no such product. One bad order never aborts a solve.
	SkippedOrders []string `json:"skipped_orders,omitempty"`

	// Message is a human-readable diagnostic, set when Status is INFEASIBLE.
	Message string `json:"message,omitempty"`

	SolveTime time.Duration `json:"solve_time_ns"`
}

// WallClock formats an hour offset against the schedule-start epoch.
func WallClock(epoch time.Time, hours int) string {
	return epoch.Add(time.Duration(hours) * time.Hour).Format("2006-01-02 15:04")
}

// ParseStart parses a schedule-start timestamp, falling back to now for
// absent or unparseable values.
func ParseStart(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
