package system

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

type traceSystem struct {
	id       string
	phase    Phase
	trace    *[]string
	sandbox  bool
	initErr  error
	inited   bool
	unloaded bool
}

func (s *traceSystem) Phase() Phase        { return s.phase }
func (s *traceSystem) Update(Tick)         { *s.trace = append(*s.trace, s.id) }
func (s *traceSystem) ID() string          { return s.id }
func (s *traceSystem) SkipInSandbox() bool { return s.sandbox }
func (s *traceSystem) Initialize() error   { s.inited = true; return s.initErr }
func (s *traceSystem) Unload()             { s.unloaded = true; *s.trace = append(*s.trace, "unload:"+s.id) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&traceSystem{id: "cleanup", phase: PhaseCleanup, trace: &trace})
	r.Register(&traceSystem{id: "update-a", phase: PhaseUpdate, trace: &trace})
	r.Register(&traceSystem{id: "input", phase: PhaseInput, trace: &trace})
	r.Register(&traceSystem{id: "update-b", phase: PhaseUpdate, trace: &trace})

	r.Tick(Tick{Now: 1})
	want := []string{"input", "update-a", "update-b", "cleanup"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}

	trace = trace[:0]
	r.TickPhase(PhaseUpdate, Tick{Now: 2})
	if len(trace) != 2 {
		t.Fatalf("TickPhase ran %v", trace)
	}
}

func TestCatalogRejectsDuplicateIDs(t *testing.T) {
	c := NewCatalog()
	f := func() (System, error) { return nil, nil }
	if err := c.Register("A", f); err != nil {
		t.Fatal(err)
	}
	if err := c.Register("A", f); err == nil {
		t.Fatal("duplicate id accepted")
	}
	if err := c.Register("", f); err == nil {
		t.Fatal("empty id accepted")
	}
}

func TestCatalogBuildSkipsSandboxSystems(t *testing.T) {
	var trace []string
	keep := &traceSystem{id: "keep", phase: PhaseUpdate, trace: &trace}
	skip := &traceSystem{id: "skip", phase: PhaseUpdate, trace: &trace, sandbox: true}

	c := NewCatalog()
	_ = c.Register(keep.id, func() (System, error) { return keep, nil })
	_ = c.Register(skip.id, func() (System, error) { return skip, nil })

	r := NewRunner()
	n, err := c.Build(r, true, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || r.Len() != 1 {
		t.Fatalf("registered %d systems, runner has %d", n, r.Len())
	}
	if !keep.inited || skip.inited {
		t.Fatalf("initialize: keep=%v skip=%v", keep.inited, skip.inited)
	}

	r.Unload()
	if !keep.unloaded {
		t.Fatal("Unload not forwarded")
	}
}

func TestCatalogBuildPropagatesInitError(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	bad := &traceSystem{id: "bad", phase: PhaseUpdate, trace: &trace, initErr: boom}
	c := NewCatalog()
	_ = c.Register(bad.id, func() (System, error) { return bad, nil })

	_, err := c.Build(NewRunner(), false, zap.NewNop())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}
