package system

import (
	"fmt"

	"go.uber.org/zap"
)

// Factory builds one system instance. Collaborators are captured by the
// closure, so the catalog itself stays free of service lookups.
type Factory func() (System, error)

type catalogEntry struct {
	id      string
	factory Factory
}

// Catalog maps unique system IDs to factories, in registration order.
type Catalog struct {
	entries []catalogEntry
	ids     map[string]struct{}
}

func NewCatalog() *Catalog {
	return &Catalog{ids: make(map[string]struct{})}
}

// Register adds a factory under id. IDs must be unique.
func (c *Catalog) Register(id string, f Factory) error {
	if id == "" {
		return fmt.Errorf("register system: empty id")
	}
	if _, dup := c.ids[id]; dup {
		return fmt.Errorf("register system %s: duplicate id", id)
	}
	c.ids[id] = struct{}{}
	c.entries = append(c.entries, catalogEntry{id: id, factory: f})
	return nil
}

// IDs returns the registered IDs in registration order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.id
	}
	return out
}

// Build instantiates every registered system, drops sandbox-incompatible ones
// when sandbox is set, initializes Lifecycle systems and registers the rest
// with the runner. It returns how many systems were registered.
func (c *Catalog) Build(r *Runner, sandbox bool, log *zap.Logger) (int, error) {
	n := 0
	for _, e := range c.entries {
		s, err := e.factory()
		if err != nil {
			return n, fmt.Errorf("build system %s: %w", e.id, err)
		}
		lc, isLifecycle := s.(Lifecycle)
		if isLifecycle && sandbox && lc.SkipInSandbox() {
			log.Info("system skipped in sandbox", zap.String("system", e.id))
			continue
		}
		if isLifecycle {
			if err := lc.Initialize(); err != nil {
				return n, fmt.Errorf("initialize system %s: %w", e.id, err)
			}
		}
		r.Register(s)
		n++
		log.Debug("system registered", zap.String("system", e.id), zap.Int("phase", int(s.Phase())))
	}
	return n, nil
}
