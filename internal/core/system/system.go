package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: external input
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: simulation logic
	PhasePostUpdate              // 3: derived state
	PhaseOutput                  // 4: build + send packets
	PhasePersist                 // 5: batch DB writes
	PhaseCleanup                 // 6: destroy queued entities
)

// Tick is one clock notification. Now strictly increases between calls;
// Skipped counts the ticks that elapsed since the previous notification
// without being delivered individually.
type Tick struct {
	Now     int64
	Skipped int
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(t Tick)
}

// Lifecycle is implemented by systems registered in a Catalog. Initialize
// runs once when the catalog builds the system; Unload runs at teardown.
type Lifecycle interface {
	ID() string
	SkipInSandbox() bool
	Initialize() error
	Unload()
}
