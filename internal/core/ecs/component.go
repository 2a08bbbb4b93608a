package ecs

// Removable is implemented by every component store so the Registry can drop
// an entity's data everywhere when it is destroyed.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore keeps *T components in a dense slice with an ID index.
// Iteration follows insertion order (disturbed only by swap-remove), so two
// runs that build the same world visit components in the same order. Systems
// that sample with a seeded RNG depend on that.
type PtrComponentStore[T any] struct {
	ids   []EntityID
	items []*T
	index map[EntityID]int
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		ids:   make([]EntityID, 0, 256),
		items: make([]*T, 0, 256),
		index: make(map[EntityID]int, 256),
	}
}

// Set attaches c to id, replacing any previous component in place.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.items[i] = c
		return
	}
	s.index[id] = len(s.items)
	s.ids = append(s.ids, id)
	s.items = append(s.items, c)
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	last := len(s.items) - 1
	if i != last {
		s.ids[i] = s.ids[last]
		s.items[i] = s.items[last]
		s.index[s.ids[i]] = i
	}
	s.ids[last] = 0
	s.items[last] = nil
	s.ids = s.ids[:last]
	s.items = s.items[:last]
	delete(s.index, id)
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.items)
}

// Each visits every component. fn must not add or remove components.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for i, c := range s.items {
		fn(s.ids[i], c)
	}
}
