package system

import "sort"

// Runner executes systems in phase order each tick.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(t Tick) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(t)
	}
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, t Tick) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(t)
		}
	}
}

// Unload calls Unload on every registered Lifecycle system in reverse
// registration order.
func (r *Runner) Unload() {
	r.ensureSorted()
	for i := len(r.systems) - 1; i >= 0; i-- {
		if lc, ok := r.systems[i].(Lifecycle); ok {
			lc.Unload()
		}
	}
}

// Len returns the number of registered systems.
func (r *Runner) Len() int { return len(r.systems) }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
