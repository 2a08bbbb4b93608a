package system

import (
	"github.com/colonysim/firestarter/internal/core/ecs"
	"github.com/colonysim/firestarter/internal/core/event"
	coresys "github.com/colonysim/firestarter/internal/core/system"
	"github.com/colonysim/firestarter/internal/rng"
	"github.com/colonysim/firestarter/internal/world"
	"go.uber.org/zap"
)

// FirestarterSysID is the catalog ID of FirestarterSystem.
const FirestarterSysID = "FirestarterSys"

// FirestarterDeps are the collaborators of FirestarterSystem. Focus may be nil.
type FirestarterDeps struct {
	Bus      *event.Bus
	Registry FlammableRegistry
	Oxygen   OxygenSampler
	Rng      rng.Intner
	Focus    CameraFocuser
	Log      *zap.Logger
}

// FirestarterSystem sets one random flammable object on fire every period.
// It stays dormant until the world announces AreasInitialized.
// Phase 2 (Update).
type FirestarterSystem struct {
	deps    FirestarterDeps
	gate    *FireGate
	sampler *FireSampler
	ticking bool
}

func NewFirestarterSystem(deps FirestarterDeps, period int64, minLayer world.Layer, minOxygen float64) *FirestarterSystem {
	return &FirestarterSystem{
		deps:    deps,
		gate:    NewFireGate(period),
		sampler: NewFireSampler(minLayer, minOxygen, deps.Log),
	}
}

func (s *FirestarterSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *FirestarterSystem) ID() string           { return FirestarterSysID }
func (s *FirestarterSystem) SkipInSandbox() bool  { return true }

// Initialize waits for the world areas before ticking.
func (s *FirestarterSystem) Initialize() error {
	event.Subscribe(s.deps.Bus, s.onAreasInit)
	return nil
}

func (s *FirestarterSystem) onAreasInit(ev event.AreasInitialized) {
	s.ticking = true
	s.deps.Log.Debug("firestarter ticking", zap.Int("areas", ev.Areas), zap.Int64("next_fire", s.gate.Deadline()))
}

func (s *FirestarterSystem) Update(t coresys.Tick) {
	if !s.ticking {
		return
	}
	if !s.gate.ShouldFire(t.Now) {
		return
	}
	target, ok := s.sampler.SelectAndIgnite(s.deps.Registry, s.deps.Oxygen, s.deps.Rng, s.deps.Focus)
	if !ok {
		return
	}
	event.Emit(s.deps.Bus, event.FireStarted{
		Tick:       t.Now,
		Entity:     entityOf(target),
		Name:       target.String(),
		PosIdx:     target.PosIdx(),
		Candidates: len(s.sampler.Candidates()),
	})
}

// Unload stops ticking and releases the candidate buffer.
func (s *FirestarterSystem) Unload() {
	s.ticking = false
	s.sampler.release()
}

// Ticking reports whether the areas signal has arrived.
func (s *FirestarterSystem) Ticking() bool { return s.ticking }

// NextFireTick returns the gate deadline (0 = not armed yet).
func (s *FirestarterSystem) NextFireTick() int64 { return s.gate.Deadline() }

// RestoreNextFireTick restores a saved deadline.
func (s *FirestarterSystem) RestoreNextFireTick(tick int64) { s.gate.Restore(tick) }

// FireIn returns how many ticks after now the next fire is due: 0 when the
// gate is not armed, at least 1 otherwise.
func (s *FirestarterSystem) FireIn(now int64) int64 {
	d := s.gate.Deadline()
	if d == 0 {
		return 0
	}
	return max(d-now, 1)
}

// ResumeIn arms the gate to fire fireIn ticks after now. Non-positive values
// leave the gate untouched.
func (s *FirestarterSystem) ResumeIn(now, fireIn int64) {
	if fireIn <= 0 {
		return
	}
	s.gate.Restore(now + fireIn)
}

// WorldFlammables adapts a world.State to FlammableRegistry.
type WorldFlammables struct {
	State *world.State
}

func (w WorldFlammables) EachFlammable(fn func(Flammable)) {
	w.State.EachFlammable(func(f *world.Flammable) { fn(f) })
}

// entityOf returns the ECS id behind a Flammable, or 0 for foreign types.
func entityOf(f Flammable) ecs.EntityID {
	if e, ok := f.(interface{ Entity() *world.Entity }); ok {
		return e.Entity().ID
	}
	return 0
}
