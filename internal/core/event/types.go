package event

import "github.com/colonysim/firestarter/internal/core/ecs"

// AreasInitialized is published once the world grid and its areas are built.
// Systems that sample the world wait for it before they start ticking.
type AreasInitialized struct {
	Areas int
}

// FireStarted is emitted when a system sets an object on fire.
type FireStarted struct {
	Tick       int64
	Entity     ecs.EntityID
	Name       string
	PosIdx     int
	Candidates int
}
