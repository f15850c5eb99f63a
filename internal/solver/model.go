package solver

// The constraint model. Pure translation from the expanded problem to
// arcs and disjunctions — the builder emits no verdict itself.

// arc is a hard precedence: start[to] ≥ start[from] + delay.
// For recipe precedence delay is the predecessor's duration; for a decided
// machine ordering it additionally carries the product changeover.
type arc struct {
	from, to int
	delay    int
}

// disjunct is an undecided ordering between two task instances sharing a
// machine: either a runs before b or b runs before a. The per-direction
// delays fold the setup time in the direction actually realized, so
// deciding a disjunct reduces it to a plain arc.
type disjunct struct {
	a, b             int
	delayAB, delayBA int
}

// model is the full constraint set over the expanded problem.
type model struct {
	p         *problem
	baseArcs  []arc
	disjuncts []disjunct
	weight    int64 // W in makespan + W × Σ violations
}

// buildModel derives the constraint set:
//
//   - precedence: start[next] ≥ end[prev] for consecutive recipe steps of a
//     unit (slack allowed — equality is never required);
//   - disjunctive resource with setup: pairwise ordering decisions per
//     machine, each direction delayed by duration + setup(from, to);
//   - soft deadline: per order, violation = max(0, completion − deadline) is
//     derived from bounds rather than branched on, which keeps every
//     deadline structurally satisfiable and moves the pressure into the
//     objective.
func buildModel(p *problem, weight int64) *model {
	m := &model{p: p, weight: weight}

	for _, t := range p.tasks {
		if t.prev >= 0 {
			m.baseArcs = append(m.baseArcs, arc{
				from:  t.prev,
				to:    t.id,
				delay: p.tasks[t.prev].duration,
			})
		}
	}

	setups := p.sc.SetupTimes
	for _, ids := range p.machineTasks {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := &p.tasks[ids[i]], &p.tasks[ids[j]]
				if a.order == b.order && a.unit == b.unit {
					// Steps of the same unit are already totally ordered by
					// the precedence chain, and share a product, so neither
					// overlap nor setup needs a decision.
					continue
				}
				m.disjuncts = append(m.disjuncts, disjunct{
					a:       a.id,
					b:       b.id,
					delayAB: a.duration + setups.Get(a.product, b.product),
					delayBA: b.duration + setups.Get(b.product, a.product),
				})
			}
		}
	}

	return m
}
