package world

import (
	"fmt"

	"github.com/colonysim/firestarter/internal/core/event"
	"github.com/colonysim/firestarter/internal/data"
)

// FromLayout builds a world from a validated layout. Areas are not painted
// yet; call BuildAreas once every system has subscribed to the bus.
func FromLayout(l *data.Layout, igniter Igniter) (*State, error) {
	s := NewState(Grid{Width: l.Width, Height: l.Height}, igniter)
	templates := l.Definitions()
	defs := make(map[string]*Definition, len(templates))
	flammable := make(map[string]bool, len(templates))
	for _, d := range templates {
		layer, err := ParseLayer(d.Layer)
		if err != nil {
			return nil, fmt.Errorf("definition %s: %w", d.ID, err)
		}
		defs[d.ID] = &Definition{ID: d.ID, Name: d.Name, Layer: layer, BurnResist: d.BurnResist}
		flammable[d.ID] = d.Flammable
	}
	for i, p := range l.Placements {
		if _, err := s.Spawn(defs[p.Def], p.X, p.Y, flammable[p.Def], p.IsConstructed()); err != nil {
			return nil, fmt.Errorf("placement %d: %w", i, err)
		}
	}
	s.oxygen = NewOxygenMap(s.grid, l.DefaultOxygen)
	return s, nil
}

// BuildAreas paints every area's oxygen onto the grid and then signals
// AreasInitialized on the bus. Later areas overwrite earlier ones.
func (s *State) BuildAreas(areas []data.Area, bus *event.Bus) int {
	for _, a := range areas {
		if s.oxygen.Fill(a.X, a.Y, a.W, a.H, a.Oxygen) > 0 {
			s.areas++
		}
	}
	event.Publish(bus, event.AreasInitialized{Areas: s.areas})
	return s.areas
}
