package system

import (
	"github.com/colonysim/firestarter/internal/core/ecs"
	coresys "github.com/colonysim/firestarter/internal/core/system"
)

// CleanupSystem drops the entities despawned during the tick.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	world     *ecs.World
	destroyed int
}

func NewCleanupSystem(world *ecs.World) *CleanupSystem {
	return &CleanupSystem{world: world}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ coresys.Tick) {
	if s.world.PendingDestruction() == 0 {
		return
	}
	s.destroyed += s.world.FlushDestroyQueue()
}

// Destroyed returns how many entities the system has removed so far.
func (s *CleanupSystem) Destroyed() int { return s.destroyed }
