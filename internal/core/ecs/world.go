package ecs

// World bundles the entity pool with the stores registered for it. Entities
// are never destroyed mid-tick: Despawn-style calls only queue them, and the
// cleanup phase drops them together with their components.
type World struct {
	pool     *EntityPool
	registry *Registry
	doomed   []EntityID
	marked   map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
		doomed:   make([]EntityID, 0, 64),
		marked:   make(map[EntityID]struct{}, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID  { return w.pool.Create() }
func (w *World) Alive(id EntityID) bool  { return w.pool.Alive(id) }
func (w *World) Live() int               { return w.pool.Live() }
func (w *World) PendingDestruction() int { return len(w.doomed) }

// MarkForDestruction queues id for the cleanup phase. Its components stay
// readable until then. Queuing the same id twice is harmless.
func (w *World) MarkForDestruction(id EntityID) {
	if _, ok := w.marked[id]; ok {
		return
	}
	w.marked[id] = struct{}{}
	w.doomed = append(w.doomed, id)
}

// IsDoomed reports whether id is queued for the next cleanup.
func (w *World) IsDoomed(id EntityID) bool {
	_, ok := w.marked[id]
	return ok
}

// FlushDestroyQueue destroys every queued entity that is still alive, strips
// its components and returns how many were destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.doomed {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		n++
	}
	clear(w.doomed)
	clear(w.marked)
	w.doomed = w.doomed[:0]
	return n
}
