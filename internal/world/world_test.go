package world

import (
	"testing"

	"github.com/colonysim/firestarter/internal/core/ecs"
	"github.com/colonysim/firestarter/internal/core/event"
	"github.com/colonysim/firestarter/internal/data"
	"github.com/colonysim/firestarter/internal/scripting"
)

const layoutYAML = `
width: 6
height: 3
default_oxygen: 0.05
definitions:
  - id: bed
    name: Bed
    layer: objects
    flammable: true
    burn_resist: 0.25
  - id: rock
    layer: terrain
  - id: grass
    layer: terrain
    flammable: true
areas:
  - name: quarters
    x: 0
    y: 0
    w: 3
    h: 3
    oxygen: 0.8
  - name: outside
    x: 10
    y: 10
    w: 2
    h: 2
    oxygen: 1
placements:
  - def: bed
    x: 1
    y: 1
  - def: bed
    x: 4
    y: 2
    constructed: false
  - def: rock
    x: 5
    y: 0
  - def: grass
    x: 2
    y: 2
`

type fixedIgniter struct {
	got scripting.IgnitionContext
}

func (f *fixedIgniter) CalcIgnition(ctx scripting.IgnitionContext) scripting.IgnitionResult {
	f.got = ctx
	return scripting.IgnitionResult{Intensity: 0.5, BurnTicks: 42}
}

func buildWorld(t *testing.T, ig Igniter) *State {
	t.Helper()
	l, err := data.ParseLayout([]byte(layoutYAML))
	if err != nil {
		t.Fatal(err)
	}
	ws, err := FromLayout(l, ig)
	if err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestParseLayer(t *testing.T) {
	l, err := ParseLayer("Objects")
	if err != nil || l != LayerObjects {
		t.Fatalf("ParseLayer = %v, %v", l, err)
	}
	if _, err := ParseLayer("roof"); err == nil {
		t.Fatal("unknown layer accepted")
	}
	if LayerTerrain >= LayerObjects || LayerObjects >= LayerItems {
		t.Fatal("layer ordering broken")
	}
	if Layer(99).String() != "layer(99)" {
		t.Fatalf("String() = %q", Layer(99).String())
	}
}

func TestFromLayoutSpawnsFlammables(t *testing.T) {
	ws := buildWorld(t, nil)
	if ws.EntityCount() != 4 || ws.FlammableCount() != 3 {
		t.Fatalf("entities=%d flammables=%d", ws.EntityCount(), ws.FlammableCount())
	}
	var names []string
	var constructed []bool
	ws.EachFlammable(func(f *Flammable) {
		names = append(names, f.Entity().Def.Name)
		constructed = append(constructed, f.IsConstructed())
	})
	if len(names) != 3 || names[0] != "Bed" || names[2] != "grass" {
		t.Fatalf("names = %v", names)
	}
	if !constructed[0] || constructed[1] {
		t.Fatalf("constructed = %v", constructed)
	}
}

func TestBuildAreasPaintsOxygenAndSignals(t *testing.T) {
	ws := buildWorld(t, nil)
	bus := event.NewBus()
	var signalled event.AreasInitialized
	event.Subscribe(bus, func(ev event.AreasInitialized) { signalled = ev })

	if got := ws.Oxygen(ws.Grid().PosIdx(1, 1)); got != 0.05 {
		t.Fatalf("oxygen before areas = %v, want default 0.05", got)
	}
	n := ws.BuildAreas([]data.Area{
		{Name: "quarters", X: 0, Y: 0, W: 3, H: 3, Oxygen: 0.8},
		{Name: "outside", X: 10, Y: 10, W: 2, H: 2, Oxygen: 1},
	}, bus)
	if n != 1 || signalled.Areas != 1 {
		t.Fatalf("areas = %d, signalled %+v", n, signalled)
	}
	if got := ws.Oxygen(ws.Grid().PosIdx(1, 1)); got != 0.8 {
		t.Fatalf("oxygen in quarters = %v", got)
	}
	if got := ws.Oxygen(ws.Grid().PosIdx(4, 2)); got != 0.05 {
		t.Fatalf("oxygen outside areas = %v", got)
	}
	if ws.Oxygen(-1) != 0 || ws.Oxygen(1000) != 0 {
		t.Fatal("out of range oxygen must be zero")
	}
}

func TestSetOnFireUsesIgniter(t *testing.T) {
	ig := &fixedIgniter{}
	ws := buildWorld(t, ig)
	ws.OxygenMap().Set(ws.Grid().PosIdx(1, 1), 0.7)

	var bed *Flammable
	ws.EachFlammable(func(f *Flammable) {
		if bed == nil {
			bed = f
		}
	})
	bed.SetOnFire()
	if !bed.OnFire || bed.Intensity != 0.5 || bed.BurnTicks != 42 {
		t.Fatalf("bed = %+v", bed)
	}
	if ig.got.Name != "Bed" || ig.got.Layer != "objects" || ig.got.Oxygen != 0.7 || ig.got.BurnResist != 0.25 {
		t.Fatalf("igniter saw %+v", ig.got)
	}
	if ws.Ignitions() != 1 {
		t.Fatalf("Ignitions() = %d", ws.Ignitions())
	}
	if bed.String() != "Bed#1.0@(1,1)" {
		t.Fatalf("String() = %q", bed.String())
	}
}

func TestSetOnFireWithoutIgniter(t *testing.T) {
	ws := NewState(Grid{Width: 2, Height: 2}, nil)
	id, err := ws.Spawn(&Definition{ID: "chair", Name: "Chair", Layer: LayerObjects}, 0, 1, true, true)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := ws.Flammable(id)
	f.SetOnFire()
	if f.Intensity != scripting.DefaultIgnition.Intensity || f.BurnTicks != scripting.DefaultIgnition.BurnTicks {
		t.Fatalf("flammable = %+v", f)
	}
}

func TestSpawnDespawn(t *testing.T) {
	ws := NewState(Grid{Width: 2, Height: 2}, nil)
	def := &Definition{ID: "chair", Name: "Chair", Layer: LayerObjects}
	if _, err := ws.Spawn(def, 2, 0, true, true); err == nil {
		t.Fatal("out of bounds spawn accepted")
	}
	id, err := ws.Spawn(def, 1, 1, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !ws.SetConstructed(id, true) {
		t.Fatal("SetConstructed failed")
	}
	if f, _ := ws.Flammable(id); !f.IsConstructed() {
		t.Fatal("construction state not stored")
	}
	ws.Despawn(id)
	ws.ECS().FlushDestroyQueue()
	if _, ok := ws.Entity(id); ok {
		t.Fatal("entity survived despawn")
	}
	if ws.SetConstructed(id, true) {
		t.Fatal("SetConstructed on dead entity")
	}
}

func TestEachFlammableSkipsDespawned(t *testing.T) {
	ws := NewState(Grid{Width: 2, Height: 1}, nil)
	def := &Definition{ID: "chair", Name: "Chair", Layer: LayerObjects}
	gone, err := ws.Spawn(def, 0, 0, true, true)
	if err != nil {
		t.Fatal(err)
	}
	kept, err := ws.Spawn(def, 1, 0, true, true)
	if err != nil {
		t.Fatal(err)
	}
	ws.Despawn(gone)

	var seen []ecs.EntityID
	ws.EachFlammable(func(f *Flammable) { seen = append(seen, f.Entity().ID) })
	if len(seen) != 1 || seen[0] != kept {
		t.Fatalf("flammables before cleanup = %v, want only %v", seen, kept)
	}
	if _, ok := ws.Entity(gone); !ok {
		t.Fatal("despawned entity dropped before cleanup")
	}
}
