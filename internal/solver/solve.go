package solver

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/millrun-io/millrun/internal/domain"
)

// ─── Options ────────────────────────────────────────────────────────────────

// Options tune one solve call. The zero value is not useful — start from
// DefaultOptions.
type Options struct {
	// TimeBudget caps wall-clock search time. On expiry the best feasible
	// solution found so far is returned, tagged non-optimal.
	TimeBudget time.Duration

	// Workers is the portfolio width. 0 means NumCPU, capped at 8.
	Workers int

	// ViolationWeight is W in makespan + W × Σ violation hours. It must be
	// large enough that one late hour always outweighs any achievable
	// makespan reduction, making the objective lexicographic in practice.
	ViolationWeight int64

	// HorizonFactor multiplies total sequential work to bound all time
	// variables. Values below 3 are raised to 3.
	HorizonFactor int
}

// DefaultOptions mirrors the production defaults: a 60-second budget and a
// weight that makes deadline violations dominate.
func DefaultOptions() Options {
	return Options{
		TimeBudget:      60 * time.Second,
		ViolationWeight: 1000,
		HorizonFactor:   3,
	}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ─── Entry Point ────────────────────────────────────────────────────────────

// Solve schedules a scenario end to end: expansion, constraint building,
// search, extraction. It is stateless across calls; the scenario is never
// mutated.
//
// The only error return is a structural expansion failure (an operation no
// machine supports). Everything else — timeouts included — degrades to a
// structured Result.
func Solve(ctx context.Context, sc domain.Scenario, opts Options) (domain.Result, error) {
	started := time.Now()
	epoch := domain.ParseStart(sc.Start)

	if opts.ViolationWeight < 1000 {
		opts.ViolationWeight = 1000
	}

	p, err := expand(sc, opts.HorizonFactor)
	if err != nil {
		return domain.Result{}, err
	}

	if len(p.tasks) == 0 {
		// Nothing to schedule: trivially optimal, makespan 0.
		return domain.Result{
			Status:        domain.StatusOptimal,
			StartTime:     epoch.Format("2006-01-02 15:04"),
			SkippedOrders: p.skipped,
			Schedule:      []domain.ScheduleEntry{},
			Violations:    []domain.Violation{},
			SolveTime:     time.Since(started),
		}, nil
	}

	m := buildModel(p, opts.ViolationWeight)

	budget := opts.TimeBudget
	if budget <= 0 {
		budget = DefaultOptions().TimeBudget
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	root, ok := newState(m)
	var res domain.Result
	if !ok {
		// Base precedence alone wiped out a window. With a generous horizon
		// this signals a sizing defect, not an over-constrained scenario.
		res = failure(p, termInfeasible, epoch)
	} else {
		term, sol, nodes := search(ctx, m, root, opts.workers())
		log.Printf("[solver] %d tasks, %d disjunctions, %d nodes, %s in %s",
			len(p.tasks), len(m.disjuncts), nodes, term, time.Since(started))
		if sol == nil {
			res = failure(p, term, epoch)
		} else {
			res = extract(p, sol, term, epoch)
		}
	}

	res.SolveTime = time.Since(started)
	return res, nil
}
