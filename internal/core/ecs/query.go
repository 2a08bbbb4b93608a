package ecs

// Each2 visits entities that carry both A and B. It walks the smaller store
// in its own order and probes the other one.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for i, a := range sa.items {
			id := sa.ids[i]
			if b, ok := sb.Get(id); ok {
				fn(id, a, b)
			}
		}
		return
	}
	for i, b := range sb.items {
		id := sb.ids[i]
		if a, ok := sa.Get(id); ok {
			fn(id, a, b)
		}
	}
}
