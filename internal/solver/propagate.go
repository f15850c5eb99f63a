package solver

// Bound propagation over start-time windows.
//
// Each task instance owns a window [est, lst] of feasible start times
// (earliest/latest start). Arcs tighten windows in both directions:
// forward, est[to] ≥ est[from] + delay; backward, lst[from] ≤ lst[to] −
// delay. Propagation runs each tightening to a fixed point before the
// search branches again. Windows live in flat arrays indexed by task id,
// and every tightening is recorded on a trail so backtracking is an O(k)
// replay instead of a state copy.

// change is one trail entry: which bound of which task held what value.
type change struct {
	task  int
	isEst bool
	old   int
}

// mark snapshots the state at one decision so undo can rewind it.
type mark struct {
	trailLen int
	disjunct int
	arcFrom  int
	arcTo    int
}

// state is one worker's private copy of bounds and decisions. Workers
// share nothing here; only the incumbent is shared, elsewhere.
type state struct {
	m        *model
	est, lst []int

	// Arc adjacency. Decision arcs are appended on decide and popped on
	// undo, so the tails of these lists track the decision stack.
	out, in [][]arc

	trail []change
	marks []mark

	decided    []int8 // 0 undecided, 1 = a before b, 2 = b before a
	nUndecided int

	// scratch propagation queues, reused across calls
	estQueue, lstQueue []int
}

const (
	dirNone   int8 = 0
	dirAFirst int8 = 1
	dirBFirst int8 = 2
)

// newState initializes bounds to [0, horizon − duration] and propagates
// the precedence arcs to their fixed point. Returns ok=false when even the
// base constraints wipe out a window (horizon too small).
func newState(m *model) (*state, bool) {
	n := len(m.p.tasks)
	s := &state{
		m:          m,
		est:        make([]int, n),
		lst:        make([]int, n),
		out:        make([][]arc, n),
		in:         make([][]arc, n),
		decided:    make([]int8, len(m.disjuncts)),
		nUndecided: len(m.disjuncts),
	}
	for i, t := range m.p.tasks {
		s.lst[i] = m.p.horizon - t.duration
		if s.lst[i] < 0 {
			return s, false
		}
	}
	for _, a := range m.baseArcs {
		s.out[a.from] = append(s.out[a.from], a)
		s.in[a.to] = append(s.in[a.to], a)
	}
	return s, s.propagate(m.baseArcs)
}

// setEst raises a task's earliest start. Reports (changed, ok).
func (s *state) setEst(task, v int) (bool, bool) {
	if v <= s.est[task] {
		return false, true
	}
	s.trail = append(s.trail, change{task: task, isEst: true, old: s.est[task]})
	s.est[task] = v
	return true, v <= s.lst[task]
}

// setLst lowers a task's latest start. Reports (changed, ok).
func (s *state) setLst(task, v int) (bool, bool) {
	if v >= s.lst[task] {
		return false, true
	}
	s.trail = append(s.trail, change{task: task, isEst: false, old: s.lst[task]})
	s.lst[task] = v
	return true, v >= s.est[task]
}

// propagate runs the seed arcs and all induced tightenings to a fixed
// point. Returns false on wipeout (some window became empty); the caller
// is expected to undo the decision that caused it.
func (s *state) propagate(seed []arc) bool {
	s.estQueue = s.estQueue[:0]
	s.lstQueue = s.lstQueue[:0]

	for _, a := range seed {
		changed, ok := s.setEst(a.to, s.est[a.from]+a.delay)
		if !ok {
			return false
		}
		if changed {
			s.estQueue = append(s.estQueue, a.to)
		}
		changed, ok = s.setLst(a.from, s.lst[a.to]-a.delay)
		if !ok {
			return false
		}
		if changed {
			s.lstQueue = append(s.lstQueue, a.from)
		}
	}

	for len(s.estQueue) > 0 || len(s.lstQueue) > 0 {
		if n := len(s.estQueue); n > 0 {
			from := s.estQueue[n-1]
			s.estQueue = s.estQueue[:n-1]
			for _, a := range s.out[from] {
				changed, ok := s.setEst(a.to, s.est[from]+a.delay)
				if !ok {
					return false
				}
				if changed {
					s.estQueue = append(s.estQueue, a.to)
				}
			}
			continue
		}
		n := len(s.lstQueue)
		to := s.lstQueue[n-1]
		s.lstQueue = s.lstQueue[:n-1]
		for _, a := range s.in[to] {
			changed, ok := s.setLst(a.from, s.lst[to]-a.delay)
			if !ok {
				return false
			}
			if changed {
				s.lstQueue = append(s.lstQueue, a.from)
			}
		}
	}
	return true
}

// decide fixes the ordering of one disjunct, adds the induced arc, and
// propagates. On wipeout the decision is already undone and decide
// returns false.
func (s *state) decide(d int, dir int8) bool {
	dj := s.m.disjuncts[d]
	var a arc
	if dir == dirAFirst {
		a = arc{from: dj.a, to: dj.b, delay: dj.delayAB}
	} else {
		a = arc{from: dj.b, to: dj.a, delay: dj.delayBA}
	}

	s.marks = append(s.marks, mark{
		trailLen: len(s.trail),
		disjunct: d,
		arcFrom:  a.from,
		arcTo:    a.to,
	})
	s.out[a.from] = append(s.out[a.from], a)
	s.in[a.to] = append(s.in[a.to], a)
	s.decided[d] = dir
	s.nUndecided--

	if !s.propagate([]arc{a}) {
		s.undo()
		return false
	}
	return true
}

// undo rewinds the most recent decision: trail entries are replayed in
// reverse and the decision arc is popped off its adjacency lists.
func (s *state) undo() {
	mk := s.marks[len(s.marks)-1]
	s.marks = s.marks[:len(s.marks)-1]

	for i := len(s.trail) - 1; i >= mk.trailLen; i-- {
		c := s.trail[i]
		if c.isEst {
			s.est[c.task] = c.old
		} else {
			s.lst[c.task] = c.old
		}
	}
	s.trail = s.trail[:mk.trailLen]

	s.out[mk.arcFrom] = s.out[mk.arcFrom][:len(s.out[mk.arcFrom])-1]
	s.in[mk.arcTo] = s.in[mk.arcTo][:len(s.in[mk.arcTo])-1]
	s.decided[mk.disjunct] = dirNone
	s.nUndecided++
}

// clone copies the bound/decision state for an independent worker.
func (s *state) clone() *state {
	n := len(s.est)
	c := &state{
		m:          s.m,
		est:        append([]int(nil), s.est...),
		lst:        append([]int(nil), s.lst...),
		out:        make([][]arc, n),
		in:         make([][]arc, n),
		decided:    append([]int8(nil), s.decided...),
		nUndecided: s.nUndecided,
	}
	for i := range s.out {
		c.out[i] = append([]arc(nil), s.out[i]...)
		c.in[i] = append([]arc(nil), s.in[i]...)
	}
	return c
}
