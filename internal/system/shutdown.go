package system

import (
	"github.com/colonysim/firestarter/internal/core/event"
	coresys "github.com/colonysim/firestarter/internal/core/system"
)

// Stop ends a run after the last tick. Events emitted during that tick have
// not been dispatched yet, so the bus is drained first and their rows reach
// the final flush. Spectators are closed after the flush and the runner is
// unloaded last. Nil arguments are skipped.
func Stop(bus *event.Bus, runner *coresys.Runner, persistence *PersistenceSystem, spectators *SpectatorSystem, reason string) {
	if bus != nil {
		bus.SwapBuffers()
		bus.DispatchAll()
	}
	if persistence != nil {
		persistence.Flush()
	}
	if spectators != nil {
		spectators.Close(reason)
	}
	if runner != nil {
		runner.Unload()
	}
}
