package clock

import (
	"time"

	coresys "github.com/colonysim/firestarter/internal/core/system"
)

// Clock turns wall time into a monotonically increasing tick counter.
// When the game loop falls behind, Advance reports one tick carrying the
// number of ticks it skipped instead of replaying each of them.
// Game loop only, no locking.
type Clock struct {
	rate         time.Duration
	ticksPerHour int64
	now          int64
	last         time.Time
	started      bool
}

func New(rate time.Duration, ticksPerHour int64) *Clock {
	if rate <= 0 {
		rate = 200 * time.Millisecond
	}
	if ticksPerHour <= 0 {
		ticksPerHour = 1
	}
	return &Clock{rate: rate, ticksPerHour: ticksPerHour}
}

// Start anchors the clock at t. Ticks before Start are never delivered.
func (c *Clock) Start(t time.Time) {
	c.last = t
	c.started = true
}

// Advance consumes the whole ticks elapsed up to at. It returns false when
// less than one tick has passed.
func (c *Clock) Advance(at time.Time) (coresys.Tick, bool) {
	if !c.started {
		c.Start(at)
		return coresys.Tick{}, false
	}
	n := int64(at.Sub(c.last) / c.rate)
	if n <= 0 {
		return coresys.Tick{}, false
	}
	c.now += n
	c.last = c.last.Add(time.Duration(n) * c.rate)
	return coresys.Tick{Now: c.now, Skipped: int(n - 1)}, true
}

func (c *Clock) Now() int64          { return c.now }
func (c *Clock) Rate() time.Duration { return c.rate }
func (c *Clock) TicksPerHour() int64 { return c.ticksPerHour }
func (c *Clock) Hour() int64         { return c.now / c.ticksPerHour }
