package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is an object template placed into the world by the layout.
type Definition struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Layer      string  `yaml:"layer"` // terrain, floor, objects, items, overlay
	Flammable  bool    `yaml:"flammable"`
	BurnResist float64 `yaml:"burn_resist"` // 0 = catches easily, 1 = barely burns
}

// Area is a rectangle of cells that share an oxygen level.
type Area struct {
	Name   string  `yaml:"name"`
	X      int     `yaml:"x"`
	Y      int     `yaml:"y"`
	W      int     `yaml:"w"`
	H      int     `yaml:"h"`
	Oxygen float64 `yaml:"oxygen"`
}

// Placement spawns one object from a definition.
type Placement struct {
	Def         string `yaml:"def"`
	X           int    `yaml:"x"`
	Y           int    `yaml:"y"`
	Constructed *bool  `yaml:"constructed"` // nil = constructed
}

// IsConstructed reports the placement's construction state.
func (p Placement) IsConstructed() bool {
	return p.Constructed == nil || *p.Constructed
}

type layoutFile struct {
	Width         int          `yaml:"width"`
	Height        int          `yaml:"height"`
	DefaultOxygen float64      `yaml:"default_oxygen"`
	Definitions   []Definition `yaml:"definitions"`
	Areas         []Area       `yaml:"areas"`
	Placements    []Placement  `yaml:"placements"`
}

// Layout is a validated world description.
type Layout struct {
	Width         int
	Height        int
	DefaultOxygen float64
	Areas         []Area
	Placements    []Placement

	defs  map[string]*Definition
	order []string
}

// Def returns the definition with the given ID, or nil.
func (l *Layout) Def(id string) *Definition {
	return l.defs[id]
}

// Definitions returns every definition in file order.
func (l *Layout) Definitions() []*Definition {
	out := make([]*Definition, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.defs[id])
	}
	return out
}

// Count returns the number of placements.
func (l *Layout) Count() int {
	return len(l.Placements)
}

// LoadLayout reads a world layout from a YAML file.
func LoadLayout(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	l, err := ParseLayout(raw)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

// ParseLayout decodes and validates layout YAML.
func ParseLayout(raw []byte) (*Layout, error) {
	var f layoutFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", f.Width, f.Height)
	}
	l := &Layout{
		Width:         f.Width,
		Height:        f.Height,
		DefaultOxygen: f.DefaultOxygen,
		Areas:         f.Areas,
		Placements:    f.Placements,
		defs:          make(map[string]*Definition, len(f.Definitions)),
	}
	for i := range f.Definitions {
		d := &f.Definitions[i]
		if d.ID == "" {
			return nil, fmt.Errorf("definition %d: missing id", i)
		}
		if _, dup := l.defs[d.ID]; dup {
			return nil, fmt.Errorf("definition %s: duplicate id", d.ID)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		l.defs[d.ID] = d
		l.order = append(l.order, d.ID)
	}
	for _, a := range f.Areas {
		if a.W <= 0 || a.H <= 0 {
			return nil, fmt.Errorf("area %s: invalid size %dx%d", a.Name, a.W, a.H)
		}
	}
	for i, p := range f.Placements {
		if l.defs[p.Def] == nil {
			return nil, fmt.Errorf("placement %d: unknown definition %q", i, p.Def)
		}
		if p.X < 0 || p.Y < 0 || p.X >= f.Width || p.Y >= f.Height {
			return nil, fmt.Errorf("placement %d (%s): position %d,%d out of bounds", i, p.Def, p.X, p.Y)
		}
	}
	return l, nil
}
