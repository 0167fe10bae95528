package ecs

// SparseSet is a cache-friendly storage for components keyed by entity id.
// Values are stored as `any`; the generic helpers in generics.go do the casts.
type SparseSet struct {
	denseEntities []Entity
	denseValues   []any
	sparse        []int
}

func newSparseSet() *SparseSet {
	return &SparseSet{}
}

// Has returns true if the entity is in the set.
func (s *SparseSet) Has(e Entity) bool {
	idx, ok := s.index(e)
	return ok && s.denseEntities[idx] == e
}

// Get returns the component for e, or nil.
func (s *SparseSet) Get(e Entity) any {
	if !s.Has(e) {
		return nil
	}
	return s.denseValues[s.sparse[e.id()-1]]
}

// Set inserts or updates a component for e.
func (s *SparseSet) Set(e Entity, v any) {
	if s == nil || e.id() == 0 {
		return
	}
	id := int(e.id())
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	if idx := s.sparse[id-1]; idx >= 0 && idx < len(s.denseEntities) && s.denseEntities[idx].id() == e.id() {
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes the component for e if present.
func (s *SparseSet) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}
	idx := s.sparse[e.id()-1]
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastEntity.id()-1] = idx

	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[e.id()-1] = -1
	return true
}

// Len returns the number of stored components.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns the dense entity list. Callers must not mutate it.
func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

func (s *SparseSet) index(e Entity) (int, bool) {
	if s == nil || e.id() == 0 || int(e.id()) > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[e.id()-1]
	return idx, idx >= 0 && idx < len(s.denseEntities)
}
