package solver

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
)

// Branch-and-bound over the machine-ordering disjunctions.
//
// A node's state is the propagated bound windows plus the decisions taken
// so far. Once every disjunct is decided, the constraint graph is a DAG at
// fixed point, so starting every task at its est is feasible — that left-
// shifted schedule is the leaf solution. Interior nodes are pruned when a
// lower bound on the objective already meets the incumbent.
//
// Parallelism is a portfolio: each worker owns a full copy of the bound
// state and explores the whole tree with its own branch ordering (worker 0
// deterministic, the rest randomized). Workers only share the incumbent.

// termination is the search engine's verdict.
type termination int

const (
	termOptimal    termination = iota // search space exhausted
	termFeasible                      // budget exhausted, incumbent exists
	termInfeasible                    // proven: no assignment satisfies the hard constraints
	termUnknown                       // budget exhausted, nothing found
)

// String returns a human-readable termination state.
func (t termination) String() string {
	switch t {
	case termOptimal:
		return "OPTIMAL"
	case termFeasible:
		return "FEASIBLE"
	case termInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// solution is a complete assignment of start times.
type solution struct {
	starts    []int
	cost      int64
	makespan  int
	violation int // Σ hours late across orders
}

// incumbent is the one shared value: the best solution found by any
// worker. Workers only ever tighten it, so a lock plus an atomic mirror of
// the cost (for cheap pruning reads on the hot path) is enough.
type incumbent struct {
	mu   sync.Mutex
	cost atomic.Int64
	sol  *solution
}

func newIncumbent() *incumbent {
	inc := &incumbent{}
	inc.cost.Store(math.MaxInt64)
	return inc
}

// offer installs a solution if it beats the current best.
func (inc *incumbent) offer(sol *solution) {
	inc.mu.Lock()
	defer inc.mu.Unlock()
	if inc.sol == nil || sol.cost < inc.sol.cost {
		inc.sol = sol
		inc.cost.Store(sol.cost)
	}
}

func (inc *incumbent) best() *solution {
	inc.mu.Lock()
	defer inc.mu.Unlock()
	return inc.sol
}

// deadlineCheckInterval is how many nodes a worker expands between
// wall-clock checks. The budget is checked at branching points only, never
// mid-propagation.
const deadlineCheckInterval = 1024

// worker explores the tree depth-first over a private state copy.
type worker struct {
	st       *state
	inc      *incumbent
	rng      *rand.Rand // nil for the deterministic worker
	nodes    int64
	timedOut bool
}

// search runs the portfolio and reports the verdict.
//
// Soundness of the verdict: pruning only compares against incumbent costs,
// which never increase, so any single worker that exhausts its tree proves
// the final incumbent optimal (or the problem infeasible when there is
// none). In practice infeasibility cannot occur after a successful
// expansion — deadlines are soft and precedence is acyclic by construction
// — so termInfeasible signals a horizon or model defect, and the result
// extractor reports it as such.
func search(ctx context.Context, m *model, root *state, workers int) (termination, *solution, int64) {
	inc := newIncumbent()

	if workers < 1 {
		workers = 1
	}

	// All clones are taken before any worker starts: once worker 0 begins
	// mutating the root state, copying it is no longer safe.
	ws := make([]*worker, workers)
	ws[0] = &worker{st: root, inc: inc}
	for i := 1; i < workers; i++ {
		ws[i] = &worker{st: root.clone(), inc: inc, rng: rand.New(rand.NewSource(int64(i)))}
	}

	results := make([]bool, workers) // exhausted?
	var nodes atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ws[i].dfs(ctx)
			nodes.Add(ws[i].nodes)
		}(i)
	}
	wg.Wait()

	exhausted := false
	for _, r := range results {
		exhausted = exhausted || r
	}

	best := inc.best()
	switch {
	case exhausted && best != nil:
		return termOptimal, best, nodes.Load()
	case exhausted:
		return termInfeasible, nil, nodes.Load()
	case best != nil:
		return termFeasible, best, nodes.Load()
	default:
		return termUnknown, nil, nodes.Load()
	}
}

// dfs explores the subtree below the current state. Reports whether the
// subtree was fully explored (false once the budget expires).
func (w *worker) dfs(ctx context.Context) bool {
	w.nodes++
	if w.nodes%deadlineCheckInterval == 0 && ctx.Err() != nil {
		w.timedOut = true
	}
	if w.timedOut {
		return false
	}

	if w.lowerBound() >= w.inc.cost.Load() {
		return true // pruned: nothing better below this node
	}

	if w.st.nUndecided == 0 {
		w.inc.offer(w.leaf())
		return true
	}

	d := w.pick()
	first, second := w.branchOrder(d)

	done := true
	if w.st.decide(d, first) {
		done = w.dfs(ctx) && done
		w.st.undo()
	}
	if w.timedOut {
		return false
	}
	if w.st.decide(d, second) {
		done = w.dfs(ctx) && done
		w.st.undo()
	}
	return done && !w.timedOut
}

// lowerBound bounds the objective from the current est windows: the best
// possible makespan plus W times the unavoidable violation hours.
func (w *worker) lowerBound() int64 {
	st := w.st
	p := st.m.p

	makespan := 0
	for i, t := range p.tasks {
		if end := st.est[i] + t.duration; end > makespan {
			makespan = end
		}
	}

	var violation int64
	for _, rec := range p.records {
		completion := 0
		for _, id := range rec.lastTasks {
			if end := st.est[id] + p.tasks[id].duration; end > completion {
				completion = end
			}
		}
		if late := completion - rec.deadline; late > 0 {
			violation += int64(late)
		}
	}

	return int64(makespan) + st.m.weight*violation
}

// leaf materializes the left-shifted schedule: every task starts at its
// est, which satisfies every arc at fixed point.
func (w *worker) leaf() *solution {
	st := w.st
	p := st.m.p

	sol := &solution{starts: append([]int(nil), st.est...)}
	for i, t := range p.tasks {
		if end := st.est[i] + t.duration; end > sol.makespan {
			sol.makespan = end
		}
	}
	for _, rec := range p.records {
		completion := 0
		for _, id := range rec.lastTasks {
			if end := st.est[id] + p.tasks[id].duration; end > completion {
				completion = end
			}
		}
		if late := completion - rec.deadline; late > 0 {
			sol.violation += late
		}
	}
	sol.cost = int64(sol.makespan) + st.m.weight*int64(sol.violation)
	return sol
}

// pick selects the next disjunct to branch on: the undecided pair whose
// earlier task can start soonest, breaking ties toward tighter windows.
// Randomized workers jitter the choice among near-equal candidates.
func (w *worker) pick() int {
	st := w.st
	best := -1
	bestKey := math.MaxInt
	for d, dec := range st.decided {
		if dec != dirNone {
			continue
		}
		dj := st.m.disjuncts[d]
		key := st.est[dj.a]
		if st.est[dj.b] < key {
			key = st.est[dj.b]
		}
		if w.rng != nil {
			key += w.rng.Intn(2)
		}
		if key < bestKey {
			bestKey = key
			best = d
		}
	}
	return best
}

// branchOrder tries the direction that matches the current est ordering
// first — the natural dispatch order is usually close to optimal.
func (w *worker) branchOrder(d int) (int8, int8) {
	dj := w.st.m.disjuncts[d]
	aFirst := w.st.est[dj.a] <= w.st.est[dj.b]
	if w.rng != nil && w.rng.Intn(8) == 0 {
		aFirst = !aFirst
	}
	if aFirst {
		return dirAFirst, dirBFirst
	}
	return dirBFirst, dirAFirst
}
