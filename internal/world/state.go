package world

import (
	"fmt"

	"github.com/colonysim/firestarter/internal/core/ecs"
	"github.com/colonysim/firestarter/internal/scripting"
)

// Definition is the static template an entity was built from.
type Definition struct {
	ID         string
	Name       string
	Layer      Layer
	BurnResist float64
}

// Entity is the placement of a definition on the grid.
type Entity struct {
	ID     ecs.EntityID
	Def    *Definition
	PosIdx int
}

// Igniter computes how an object burns once it catches fire.
type Igniter interface {
	CalcIgnition(ctx scripting.IgnitionContext) scripting.IgnitionResult
}

// Flammable marks an entity that can be set on fire.
type Flammable struct {
	entity      *Entity
	state       *State
	Constructed bool
	OnFire      bool
	Intensity   float64
	BurnTicks   int
}

func (f *Flammable) Entity() *Entity     { return f.entity }
func (f *Flammable) IsConstructed() bool { return f.Constructed }
func (f *Flammable) Layer() Layer        { return f.entity.Def.Layer }
func (f *Flammable) PosIdx() int         { return f.entity.PosIdx }

// SetOnFire ignites the object. Intensity and burn time come from the
// world's Igniter, or scripting.DefaultIgnition when there is none.
func (f *Flammable) SetOnFire() {
	res := scripting.DefaultIgnition
	if f.state.igniter != nil {
		res = f.state.igniter.CalcIgnition(scripting.IgnitionContext{
			Name:       f.entity.Def.Name,
			Layer:      f.entity.Def.Layer.String(),
			Oxygen:     f.state.Oxygen(f.entity.PosIdx),
			BurnResist: f.entity.Def.BurnResist,
		})
	}
	f.OnFire = true
	f.Intensity = res.Intensity
	f.BurnTicks = res.BurnTicks
	f.state.ignitions++
}

func (f *Flammable) String() string {
	x, y := f.state.grid.XY(f.entity.PosIdx)
	return fmt.Sprintf("%s%s@(%d,%d)", f.entity.Def.Name, f.entity.ID, x, y)
}

// State holds the simulated world: the grid, its oxygen and every entity.
// Game loop only, no locks.
type State struct {
	ecs        *ecs.World
	grid       Grid
	oxygen     *OxygenMap
	entities   *ecs.PtrComponentStore[Entity]
	flammables *ecs.PtrComponentStore[Flammable]
	igniter    Igniter
	areas      int
	ignitions  int
}

func NewState(g Grid, igniter Igniter) *State {
	w := ecs.NewWorld()
	s := &State{
		ecs:        w,
		grid:       g,
		oxygen:     NewOxygenMap(g, 0),
		entities:   ecs.NewPtrComponentStore[Entity](),
		flammables: ecs.NewPtrComponentStore[Flammable](),
		igniter:    igniter,
	}
	w.Registry().Register(s.entities)
	w.Registry().Register(s.flammables)
	return s
}

func (s *State) ECS() *ecs.World       { return s.ecs }
func (s *State) Grid() Grid            { return s.grid }
func (s *State) OxygenMap() *OxygenMap { return s.oxygen }

// Oxygen returns the oxygen concentration at posIdx.
func (s *State) Oxygen(posIdx int) float64 {
	return s.oxygen.Get(posIdx)
}

// Spawn places def at (x, y). Flammable objects also get a Flammable
// component carrying the construction state.
func (s *State) Spawn(def *Definition, x, y int, flammable, constructed bool) (ecs.EntityID, error) {
	if !s.grid.InBounds(x, y) {
		return 0, fmt.Errorf("spawn %s: position %d,%d out of bounds", def.ID, x, y)
	}
	id := s.ecs.CreateEntity()
	e := &Entity{ID: id, Def: def, PosIdx: s.grid.PosIdx(x, y)}
	s.entities.Set(id, e)
	if flammable {
		s.flammables.Set(id, &Flammable{entity: e, state: s, Constructed: constructed})
	}
	return id, nil
}

// Despawn queues the entity for removal at the end of the tick.
func (s *State) Despawn(id ecs.EntityID) {
	s.ecs.MarkForDestruction(id)
}

func (s *State) Entity(id ecs.EntityID) (*Entity, bool) {
	return s.entities.Get(id)
}

func (s *State) Flammable(id ecs.EntityID) (*Flammable, bool) {
	return s.flammables.Get(id)
}

// SetConstructed flips the construction state of a flammable entity.
func (s *State) SetConstructed(id ecs.EntityID, done bool) bool {
	f, ok := s.flammables.Get(id)
	if !ok {
		return false
	}
	f.Constructed = done
	return true
}

// EachFlammable visits every live flammable entity once, in spawn order.
func (s *State) EachFlammable(fn func(*Flammable)) {
	s.flammables.Each(func(id ecs.EntityID, f *Flammable) {
		if s.ecs.IsDoomed(id) {
			return
		}
		fn(f)
	})
}

func (s *State) EntityCount() int    { return s.entities.Len() }
func (s *State) FlammableCount() int { return s.flammables.Len() }
func (s *State) Areas() int          { return s.areas }

// Ignitions counts SetOnFire calls since the world was built.
func (s *State) Ignitions() int { return s.ignitions }
