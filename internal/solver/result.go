package solver

import (
	"fmt"
	"sort"
	"time"

	"github.com/millrun-io/millrun/internal/domain"
)

// Result extraction: a solved assignment becomes a chronological schedule
// with post-hoc setup times and a per-order violation report.

// extract converts the best-found solution into the caller-facing result.
func extract(p *problem, sol *solution, term termination, epoch time.Time) domain.Result {
	res := domain.Result{
		StartTime:     epoch.Format("2006-01-02 15:04"),
		SkippedOrders: p.skipped,
		Schedule:      []domain.ScheduleEntry{},
		Violations:    []domain.Violation{},
	}

	for _, t := range p.tasks {
		start := sol.starts[t.id]
		end := start + t.duration
		res.Schedule = append(res.Schedule, domain.ScheduleEntry{
			TaskID:    t.id,
			Order:     t.product,
			Operation: t.operation,
			Machine:   p.sc.Machines[t.machine].Name,
			Start:     start,
			End:       end,
			Duration:  t.duration,
			StartTime: domain.WallClock(epoch, start),
			EndTime:   domain.WallClock(epoch, end),
		})
	}
	sort.Slice(res.Schedule, func(i, j int) bool {
		a, b := res.Schedule[i], res.Schedule[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Machine != b.Machine {
			return a.Machine < b.Machine
		}
		return a.TaskID < b.TaskID
	})

	fillSetupTimes(p, res.Schedule)

	for _, rec := range p.records {
		completion := 0
		for _, id := range rec.lastTasks {
			if end := sol.starts[id] + p.tasks[id].duration; end > completion {
				completion = end
			}
		}
		if late := completion - rec.deadline; late > 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Product:          rec.product,
				Quantity:         rec.quantity,
				Deadline:         rec.deadline,
				ActualCompletion: completion,
				ViolationHours:   late,
			})
			res.TotalViolationHours += late
		}
	}

	res.Makespan = sol.makespan

	// Any violation downgrades the status regardless of solver optimality.
	switch {
	case res.TotalViolationHours > 0:
		res.Status = domain.StatusViolations
	case term == termOptimal:
		res.Status = domain.StatusOptimal
	default:
		res.Status = domain.StatusFeasible
	}

	return res
}

// fillSetupTimes computes the changeover actually incurred before each
// entry from the realized per-machine order. The first task on a machine
// has setup time 0.
func fillSetupTimes(p *problem, schedule []domain.ScheduleEntry) {
	// task id → product (the entries only carry the order/product label)
	product := make(map[int]string, len(p.tasks))
	for _, t := range p.tasks {
		product[t.id] = t.product
	}

	lastOnMachine := make(map[string]int) // machine name → previous task id
	for i := range schedule {
		e := &schedule[i]
		if prev, ok := lastOnMachine[e.Machine]; ok {
			e.SetupTime = p.sc.SetupTimes.Get(product[prev], product[e.TaskID])
		}
		lastOnMachine[e.Machine] = e.TaskID
	}
}

// failure builds the structured result for a solve that found nothing.
func failure(p *problem, term termination, epoch time.Time) domain.Result {
	return domain.Result{
		Status:        domain.StatusInfeasible,
		StartTime:     epoch.Format("2006-01-02 15:04"),
		SkippedOrders: p.skipped,
		Schedule:      []domain.ScheduleEntry{},
		Violations:    []domain.Violation{},
		Message: fmt.Sprintf("solver status: %s - no schedule found. "+
			"Likely causes: machine capacity short of total work, overly "+
			"restrictive setup times, deadlines far beyond the horizon, or "+
			"a search time budget too small for the instance.", term),
	}
}
