// Package solver turns a domain.Scenario into a concrete timetable.
//
// The pipeline is: task expansion (orders → task instances with precedence
// links), constraint building (precedence arcs + per-machine disjunctions
// with sequence-dependent setup + soft deadlines), and a propagation-based
// branch-and-bound search that minimizes makespan + W × violation hours.
package solver

import (
	"fmt"
	"log"

	"github.com/millrun-io/millrun/internal/domain"
)

// taskInstance is one concrete unit of work: (order, repetition, recipe step)
// pinned to a machine. Start/end are decided by the search.
type taskInstance struct {
	id        int
	order     int // index into problem.records
	unit      int // repetition index within the order
	step      int // recipe step index
	operation string
	machine   int // index into Scenario.Machines
	product   string
	duration  int
	prev      int // predecessor task id within the same unit, -1 for the first
}

// orderRecord aggregates the task instances of one order's units. The last
// task of each unit determines the order's completion time.
type orderRecord struct {
	product   string
	quantity  int
	deadline  int
	lastTasks []int // last task id per unit
}

// problem is the expanded form of a scenario: every task instance, the
// per-order bookkeeping, and the time horizon bounding all variables.
type problem struct {
	sc      domain.Scenario
	tasks   []taskInstance
	records []orderRecord
	skipped []string // product names of orders dropped as unknown

	horizon      int
	machineTasks [][]int // machine index → task ids assigned to it
}

// minHorizon is the floor on the time horizon so degenerate small inputs
// still leave the search room to move tasks around.
const minHorizon = 1000

// expand builds the full task-instance set for a scenario.
//
// Machine choice policy: each operation is pinned to the FIRST capable
// machine in input order. This fixes machine assignment before search —
// deliberately, matching the single-candidate policy of the system this
// engine models — so eligible-machine optimization is out of scope.
//
// Orders naming unknown products are skipped (recorded in skipped); an
// operation no machine supports aborts the whole expansion, since any
// schedule omitting mandatory work would be meaningless.
func expand(sc domain.Scenario, horizonFactor int) (*problem, error) {
	if horizonFactor < 3 {
		horizonFactor = 3
	}

	// Indexes built once: operation → machine, product name → recipe.
	// Pairwise constraint construction downstream is already quadratic in
	// tasks per machine, so lookups here must not add repeated scans.
	opMachine := make(map[string]int)
	for i, m := range sc.Machines {
		for _, op := range m.Operations {
			if _, ok := opMachine[op]; !ok {
				opMachine[op] = i
			}
		}
	}
	recipes := make(map[string]domain.Product, len(sc.Products))
	for _, p := range sc.Products {
		recipes[p.Name] = p
	}

	p := &problem{
		sc:           sc,
		machineTasks: make([][]int, len(sc.Machines)),
	}

	// Horizon: total sequential work × safety factor. The factor leaves
	// room for setup slack and keeps parallel schedules feasible; a horizon
	// too small would silently make the problem infeasible.
	orderedQty := make(map[string]int)
	for _, o := range sc.Orders {
		if _, ok := recipes[o.Product]; ok {
			orderedQty[o.Product] += o.Quantity
		}
	}
	totalWork := 0
	for name, qty := range orderedQty {
		totalWork += recipes[name].WorkHours() * qty
	}
	p.horizon = totalWork * horizonFactor
	if p.horizon < minHorizon {
		p.horizon = minHorizon
	}

	for _, o := range sc.Orders {
		recipe, ok := recipes[o.Product]
		if !ok {
			// One bad order must not abort the whole solve.
			log.Printf("[solver] %v: %q, order skipped", domain.ErrUnknownProduct, o.Product)
			p.skipped = append(p.skipped, o.Product)
			continue
		}

		rec := orderRecord{
			product:  o.Product,
			quantity: o.Quantity,
			deadline: o.Deadline,
		}
		orderIdx := len(p.records)

		for unit := 0; unit < o.Quantity; unit++ {
			prev := -1
			for step, rt := range recipe.Tasks {
				mi, ok := opMachine[rt.Operation]
				if !ok {
					return nil, fmt.Errorf("%w: %q (product %q)",
						domain.ErrNoCapableMachine, rt.Operation, o.Product)
				}

				t := taskInstance{
					id:        len(p.tasks),
					order:     orderIdx,
					unit:      unit,
					step:      step,
					operation: rt.Operation,
					machine:   mi,
					product:   o.Product,
					duration:  rt.Duration,
					prev:      prev,
				}
				p.tasks = append(p.tasks, t)
				p.machineTasks[mi] = append(p.machineTasks[mi], t.id)
				prev = t.id
			}
			if prev >= 0 {
				rec.lastTasks = append(rec.lastTasks, prev)
			}
		}

		p.records = append(p.records, rec)
	}

	return p, nil
}
