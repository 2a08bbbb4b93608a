package system

// FireGate decides on which ticks the firestarter does work. The deadline
// starts unset (0); the first observed tick only arms it one period out, so
// a fresh world never burns at tick 0. A gap of skipped ticks opens the gate
// once, never once per missed period.
type FireGate struct {
	period   int64
	deadline int64
}

func NewFireGate(period int64) *FireGate {
	if period < 1 {
		period = 1
	}
	return &FireGate{period: period}
}

// ShouldFire reports whether now is due and re-arms the deadline if so.
func (g *FireGate) ShouldFire(now int64) bool {
	if now < g.deadline {
		return false
	}
	if g.deadline == 0 {
		g.deadline = now + g.period
		return false
	}
	g.deadline = now + g.period
	return true
}

func (g *FireGate) Period() int64   { return g.period }
func (g *FireGate) Deadline() int64 { return g.deadline }

// Restore sets a deadline loaded from a save. 0 leaves the gate unarmed.
func (g *FireGate) Restore(deadline int64) {
	if deadline < 0 {
		deadline = 0
	}
	g.deadline = deadline
}
