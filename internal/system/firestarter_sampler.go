package system

import (
	"github.com/colonysim/firestarter/internal/rng"
	"github.com/colonysim/firestarter/internal/world"
	"go.uber.org/zap"
)

// Flammable is the view of a burnable object the sampler needs.
type Flammable interface {
	IsConstructed() bool
	Layer() world.Layer
	PosIdx() int
	SetOnFire()
	String() string
}

// FlammableRegistry enumerates every live flammable object exactly once.
type FlammableRegistry interface {
	EachFlammable(fn func(Flammable))
}

// OxygenSampler reads the oxygen concentration of a cell.
type OxygenSampler interface {
	Oxygen(posIdx int) float64
}

// CameraFocuser draws the viewers' attention to a target. Best effort.
type CameraFocuser interface {
	FocusOn(target Flammable) error
}

// FireSampler collects the objects that may catch fire this cycle and sets
// one of them, chosen uniformly, on fire.
type FireSampler struct {
	minLayer   world.Layer
	minOxygen  float64
	candidates []Flammable // reused every cycle
	log        *zap.Logger
}

func NewFireSampler(minLayer world.Layer, minOxygen float64, log *zap.Logger) *FireSampler {
	return &FireSampler{
		minLayer:   minLayer,
		minOxygen:  minOxygen,
		candidates: make([]Flammable, 0, 64),
		log:        log,
	}
}

// eligible applies the filters in order: construction, layer, oxygen.
func (s *FireSampler) eligible(f Flammable, env OxygenSampler) bool {
	if !f.IsConstructed() {
		return false
	}
	if f.Layer() < s.minLayer {
		return false
	}
	return env.Oxygen(f.PosIdx()) > s.minOxygen
}

// Collect rebuilds the candidate set from reg and returns it. The slice is
// owned by the sampler and only valid until the next call.
func (s *FireSampler) Collect(reg FlammableRegistry, env OxygenSampler) []Flammable {
	clear(s.candidates)
	s.candidates = s.candidates[:0]
	reg.EachFlammable(func(f Flammable) {
		if s.eligible(f, env) {
			s.candidates = append(s.candidates, f)
		}
	})
	return s.candidates
}

// SelectAndIgnite sets exactly one eligible object on fire and asks focus to
// show it. With no eligible object it logs a warning and changes nothing.
// A nil focus skips the camera notification.
func (s *FireSampler) SelectAndIgnite(reg FlammableRegistry, env OxygenSampler, rnd rng.Intner, focus CameraFocuser) (Flammable, bool) {
	candidates := s.Collect(reg, env)
	if len(candidates) == 0 {
		s.log.Warn("no eligible firestarter candidates")
		return nil, false
	}

	target := rng.From(rnd, candidates)
	s.log.Info("setting on fire",
		zap.Stringer("target", target),
		zap.Int("candidates", len(candidates)),
	)
	target.SetOnFire()

	if focus != nil {
		if err := focus.FocusOn(target); err != nil {
			s.log.Debug("camera focus skipped", zap.Error(err))
		}
	}
	return target, true
}

// Candidates returns the candidate set of the last cycle.
func (s *FireSampler) Candidates() []Flammable {
	return s.candidates
}

// release drops the candidate buffer.
func (s *FireSampler) release() {
	s.candidates = nil
}
