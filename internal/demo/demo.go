// Package demo generates sample scenarios: a small fixed shop for quick
// starts and seeded random generators for stress testing the solver.
package demo

import (
	"fmt"
	"math/rand"

	"github.com/millrun-io/millrun/internal/domain"
)

// Fixed returns the three-machine demo shop. With tight deadlines every
// order is impossible to finish on time, which exercises the violation
// reporting path; otherwise all deadlines are comfortably achievable.
//
// Deadline mode is an explicit caller choice — there is deliberately no
// process-wide toggle here.
func Fixed(tight bool) domain.Scenario {
	sc := domain.Scenario{
		Machines: []domain.Machine{
			{Name: "Machine A", Operations: []string{"cutting", "drilling"}},
			{Name: "Machine B", Operations: []string{"painting", "assembly"}},
			{Name: "Machine C", Operations: []string{"welding", "finishing"}},
		},
		Products: []domain.Product{
			{Name: "Product X", Tasks: []domain.RecipeTask{
				{Operation: "cutting", Duration: 2},
				{Operation: "welding", Duration: 3},
				{Operation: "painting", Duration: 2},
			}},
			{Name: "Product Y", Tasks: []domain.RecipeTask{
				{Operation: "drilling", Duration: 2},
				{Operation: "finishing", Duration: 1},
				{Operation: "assembly", Duration: 3},
			}},
			{Name: "Product Z", Tasks: []domain.RecipeTask{
				{Operation: "cutting", Duration: 1},
				{Operation: "drilling", Duration: 2},
				{Operation: "welding", Duration: 2},
				{Operation: "painting", Duration: 2},
			}},
		},
		SetupTimes: domain.SetupTimes{
			"Product X-Product Y": 1,
			"Product Y-Product X": 1,
			"Product X-Product Z": 2,
			"Product Z-Product X": 2,
			"Product Y-Product Z": 1,
			"Product Z-Product Y": 1,
		},
	}

	if tight {
		sc.Orders = []domain.Order{
			{Product: "Product X", Quantity: 2, Deadline: 10},
			{Product: "Product Y", Quantity: 3, Deadline: 15},
			{Product: "Product Z", Quantity: 1, Deadline: 5},
		}
	} else {
		sc.Orders = []domain.Order{
			{Product: "Product X", Quantity: 2, Deadline: 50},
			{Product: "Product Y", Quantity: 3, Deadline: 60},
			{Product: "Product Z", Quantity: 1, Deadline: 40},
		}
	}
	return sc
}

// ─── Random generation ──────────────────────────────────────────────────────

// RandomConfig bounds a generated scenario.
type RandomConfig struct {
	Machines    int
	Products    int
	Orders      int
	MinTasks    int
	MaxTasks    int
	MaxDuration int
	Seed        int64
}

// LargeConfig sizes a stress scenario that still solves within a normal
// budget.
func LargeConfig(seed int64) RandomConfig {
	return RandomConfig{
		Machines: 10, Products: 18, Orders: 25,
		MinTasks: 3, MaxTasks: 8, MaxDuration: 6,
		Seed: seed,
	}
}

// ExtremeConfig sizes a scenario expected to exhaust the search budget.
func ExtremeConfig(seed int64) RandomConfig {
	return RandomConfig{
		Machines: 15, Products: 30, Orders: 60,
		MinTasks: 4, MaxTasks: 10, MaxDuration: 8,
		Seed: seed,
	}
}

var operationsPool = []string{
	"cutting", "drilling", "milling", "turning", "grinding",
	"welding", "assembly", "painting", "coating", "polishing",
	"inspection", "testing", "packaging", "heat_treatment",
	"surface_finishing", "deburring", "threading", "boring",
}

// Random generates a seeded scenario. Recipes draw only from operations
// some machine supports, so expansion never aborts; deadlines sit at 2–6×
// the per-order sequential work, achievable in isolation but competing for
// shared machines.
func Random(cfg RandomConfig) domain.Scenario {
	rng := rand.New(rand.NewSource(cfg.Seed))
	sc := domain.Scenario{SetupTimes: domain.SetupTimes{}}

	// Machines: slice the pool around so every listed operation is covered.
	perMachine := len(operationsPool)/cfg.Machines + 1
	if perMachine < 2 {
		perMachine = 2
	}
	covered := map[string]bool{}
	for i := 0; i < cfg.Machines; i++ {
		var ops []string
		for j := 0; j < perMachine; j++ {
			ops = append(ops, operationsPool[(i*perMachine+j)%len(operationsPool)])
		}
		for _, op := range ops {
			covered[op] = true
		}
		sc.Machines = append(sc.Machines, domain.Machine{
			Name:       fmt.Sprintf("Machine_%02d", i+1),
			Operations: ops,
		})
	}
	var usable []string
	for _, op := range operationsPool {
		if covered[op] {
			usable = append(usable, op)
		}
	}

	for i := 0; i < cfg.Products; i++ {
		n := cfg.MinTasks + rng.Intn(cfg.MaxTasks-cfg.MinTasks+1)
		if n > len(usable) {
			n = len(usable)
		}
		perm := rng.Perm(len(usable))[:n]
		var tasks []domain.RecipeTask
		for _, idx := range perm {
			tasks = append(tasks, domain.RecipeTask{
				Operation: usable[idx],
				Duration:  1 + rng.Intn(cfg.MaxDuration),
			})
		}
		sc.Products = append(sc.Products, domain.Product{
			Name:  fmt.Sprintf("Product_%02d", i+1),
			Tasks: tasks,
		})
	}

	// Sparse asymmetric setup matrix: roughly a quarter of ordered pairs.
	for _, from := range sc.Products {
		for _, to := range sc.Products {
			if from.Name != to.Name && rng.Intn(4) == 0 {
				sc.SetupTimes[domain.SetupKey(from.Name, to.Name)] = 1 + rng.Intn(3)
			}
		}
	}

	for i := 0; i < cfg.Orders; i++ {
		p := sc.Products[rng.Intn(len(sc.Products))]
		qty := 1 + rng.Intn(3)
		minTime := p.WorkHours() * qty
		sc.Orders = append(sc.Orders, domain.Order{
			Product:  p.Name,
			Quantity: qty,
			Deadline: minTime * (2 + rng.Intn(5)),
		})
	}

	return sc
}

// BySize maps a preset name to a scenario. Unknown sizes fall back to the
// small fixed shop.
func BySize(size string, tight bool, seed int64) domain.Scenario {
	switch size {
	case "large":
		return Random(LargeConfig(seed))
	case "extreme":
		return Random(ExtremeConfig(seed))
	default:
		return Fixed(tight)
	}
}
