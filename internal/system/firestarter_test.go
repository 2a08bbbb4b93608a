package system

import (
	"testing"

	"github.com/colonysim/firestarter/internal/core/ecs"
	"github.com/colonysim/firestarter/internal/core/event"
	coresys "github.com/colonysim/firestarter/internal/core/system"
	"github.com/colonysim/firestarter/internal/rng"
	"github.com/colonysim/firestarter/internal/world"
	"go.uber.org/zap"
)

type e2eWorld struct {
	ws         *world.State
	bus        *event.Bus
	sys        *FirestarterSystem
	a, b, c, d ecs.EntityID
}

// newE2EWorld builds A(built, objects, O2=5), B(built, terrain, O2=5),
// C(unbuilt, objects, O2=5) and D(built, objects, O2=0) on a 4x1 strip.
func newE2EWorld(t *testing.T) *e2eWorld {
	t.Helper()
	ws := world.NewState(world.Grid{Width: 4, Height: 1}, nil)
	crate := &world.Definition{ID: "crate", Name: "Crate", Layer: world.LayerObjects}
	grass := &world.Definition{ID: "grass", Name: "Grass", Layer: world.LayerTerrain}

	spawn := func(def *world.Definition, x int, constructed bool, oxygen float64) ecs.EntityID {
		id, err := ws.Spawn(def, x, 0, true, constructed)
		if err != nil {
			t.Fatal(err)
		}
		ws.OxygenMap().Set(ws.Grid().PosIdx(x, 0), oxygen)
		return id
	}
	w := &e2eWorld{ws: ws, bus: event.NewBus()}
	w.a = spawn(crate, 0, true, 5)
	w.b = spawn(grass, 1, true, 5)
	w.c = spawn(crate, 2, false, 5)
	w.d = spawn(crate, 3, true, 0)

	w.sys = NewFirestarterSystem(FirestarterDeps{
		Bus:      w.bus,
		Registry: WorldFlammables{State: ws},
		Oxygen:   ws,
		Rng:      rng.New(11),
		Log:      zap.NewNop(),
	}, 100, world.LayerObjects, 1)
	return w
}

func (w *e2eWorld) onFire(id ecs.EntityID) bool {
	f, _ := w.ws.Flammable(id)
	return f.OnFire
}

func TestFirestarterEndToEnd(t *testing.T) {
	w := newE2EWorld(t)
	if err := w.sys.Initialize(); err != nil {
		t.Fatal(err)
	}
	event.Publish(w.bus, event.AreasInitialized{Areas: 1})

	w.sys.Update(coresys.Tick{Now: 0})
	if w.ws.Ignitions() != 0 {
		t.Fatal("fired during warm-up")
	}
	if w.sys.NextFireTick() != 100 {
		t.Fatalf("deadline = %d, want 100", w.sys.NextFireTick())
	}

	w.sys.Update(coresys.Tick{Now: 100})
	if !w.onFire(w.a) || w.ws.Ignitions() != 1 {
		t.Fatalf("tick 100: A on fire=%v, ignitions=%d", w.onFire(w.a), w.ws.Ignitions())
	}
	if got := w.sys.sampler.Candidates(); len(got) != 1 {
		t.Fatalf("tick 100 candidates = %v, want only A", got)
	}
	if event.Pending[event.FireStarted](w.bus) != 1 {
		t.Fatal("FireStarted not emitted")
	}

	// C finishes construction, D's room gets air. B stays terrain.
	w.ws.SetConstructed(w.c, true)
	w.ws.OxygenMap().Set(w.ws.Grid().PosIdx(3, 0), 5)

	w.sys.Update(coresys.Tick{Now: 150})
	if w.ws.Ignitions() != 1 {
		t.Fatal("fired before the next deadline")
	}

	w.sys.Update(coresys.Tick{Now: 200})
	if w.ws.Ignitions() != 2 {
		t.Fatalf("tick 200 ignitions = %d, want 2", w.ws.Ignitions())
	}
	eligible := map[string]bool{}
	for _, id := range []ecs.EntityID{w.a, w.c, w.d} {
		f, _ := w.ws.Flammable(id)
		eligible[f.String()] = true
	}
	got := w.sys.sampler.Candidates()
	if len(got) != 3 {
		t.Fatalf("tick 200 candidates = %v, want A, C, D", got)
	}
	for _, c := range got {
		if !eligible[c.String()] {
			t.Fatalf("unexpected candidate %s", c)
		}
	}
	if w.onFire(w.b) {
		t.Fatal("terrain object ignited")
	}
}

func TestFirestarterWaitsForAreas(t *testing.T) {
	w := newE2EWorld(t)
	if err := w.sys.Initialize(); err != nil {
		t.Fatal(err)
	}
	for now := int64(0); now <= 500; now += 100 {
		w.sys.Update(coresys.Tick{Now: now})
	}
	if w.sys.Ticking() || w.sys.NextFireTick() != 0 || w.ws.Ignitions() != 0 {
		t.Fatal("system ran before AreasInitialized")
	}

	event.Publish(w.bus, event.AreasInitialized{})
	w.sys.Update(coresys.Tick{Now: 600})
	w.sys.Update(coresys.Tick{Now: 700})
	if w.ws.Ignitions() != 1 {
		t.Fatalf("ignitions = %d, want 1", w.ws.Ignitions())
	}
}

func TestFirestarterSkippedTicksFireOnce(t *testing.T) {
	w := newE2EWorld(t)
	_ = w.sys.Initialize()
	event.Publish(w.bus, event.AreasInitialized{})

	w.sys.Update(coresys.Tick{Now: 1})
	w.sys.Update(coresys.Tick{Now: 901, Skipped: 899})
	if w.ws.Ignitions() != 1 {
		t.Fatalf("ignitions after a 9-period gap = %d, want 1", w.ws.Ignitions())
	}
	if w.sys.NextFireTick() != 1001 {
		t.Fatalf("deadline = %d, want 1001", w.sys.NextFireTick())
	}
}

func TestFirestarterEmptyCycleAdvancesDeadline(t *testing.T) {
	w := newE2EWorld(t)
	_ = w.sys.Initialize()
	event.Publish(w.bus, event.AreasInitialized{})
	w.ws.OxygenMap().Set(0, 0) // A loses its air: nothing eligible

	w.sys.Update(coresys.Tick{Now: 10})
	w.sys.Update(coresys.Tick{Now: 110})
	if w.ws.Ignitions() != 0 {
		t.Fatal("ignited with no candidates")
	}
	if w.sys.NextFireTick() != 210 {
		t.Fatalf("deadline = %d, want 210", w.sys.NextFireTick())
	}
	if event.Pending[event.FireStarted](w.bus) != 0 {
		t.Fatal("FireStarted emitted for an empty cycle")
	}
}

func TestFirestarterRestoredDeadlineSkipsWarmUp(t *testing.T) {
	w := newE2EWorld(t)
	_ = w.sys.Initialize()
	w.sys.RestoreNextFireTick(40)
	event.Publish(w.bus, event.AreasInitialized{})

	w.sys.Update(coresys.Tick{Now: 40})
	if w.ws.Ignitions() != 1 {
		t.Fatal("restored deadline did not fire")
	}
}

func TestFirestarterLifecycleInCatalog(t *testing.T) {
	for _, sandbox := range []bool{false, true} {
		w := newE2EWorld(t)
		c := coresys.NewCatalog()
		if err := c.Register(FirestarterSysID, func() (coresys.System, error) { return w.sys, nil }); err != nil {
			t.Fatal(err)
		}
		r := coresys.NewRunner()
		n, err := c.Build(r, sandbox, zap.NewNop())
		if err != nil {
			t.Fatal(err)
		}
		if sandbox && n != 0 {
			t.Fatal("firestarter must be skipped in sandbox")
		}
		if !sandbox && n != 1 {
			t.Fatal("firestarter not registered")
		}

		event.Publish(w.bus, event.AreasInitialized{})
		r.Tick(coresys.Tick{Now: 1})
		r.Tick(coresys.Tick{Now: 101})
		want := 1
		if sandbox {
			want = 0
		}
		if w.ws.Ignitions() != want {
			t.Fatalf("sandbox=%v ignitions = %d, want %d", sandbox, w.ws.Ignitions(), want)
		}

		r.Unload()
		if !sandbox && (w.sys.Ticking() || w.sys.sampler.Candidates() != nil) {
			t.Fatal("Unload did not stop the system")
		}
	}
}

func TestFirestarterCarriesRemainingTicksAcrossRestart(t *testing.T) {
	w := newE2EWorld(t)
	_ = w.sys.Initialize()
	event.Publish(w.bus, event.AreasInitialized{})
	if w.sys.FireIn(0) != 0 {
		t.Fatal("unarmed gate reported a pending fire")
	}

	w.sys.Update(coresys.Tick{Now: 5000})
	fireIn := w.sys.FireIn(5030)
	if fireIn != 70 {
		t.Fatalf("FireIn = %d, want 70", fireIn)
	}
	if w.sys.FireIn(9999) != 1 {
		t.Fatal("overdue deadline must report 1")
	}

	// new process: the tick counter starts over
	next := newE2EWorld(t)
	_ = next.sys.Initialize()
	next.sys.ResumeIn(0, fireIn)
	next.sys.ResumeIn(0, -3)
	event.Publish(next.bus, event.AreasInitialized{})

	next.sys.Update(coresys.Tick{Now: 69})
	if next.ws.Ignitions() != 0 {
		t.Fatal("fired before the carried-over deadline")
	}
	next.sys.Update(coresys.Tick{Now: 70})
	if next.ws.Ignitions() != 1 {
		t.Fatal("carried-over deadline did not fire")
	}
}
