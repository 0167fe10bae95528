package ecs

import (
	"fmt"

	"github.com/milk9111/camtrack/ecs/component"
)

// Add sets the component of kind on e, replacing any previous value.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: add %s to %s", component.ErrEntityNotAlive, kind.Name(), e)
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := w.store(kind.ID(), false)
	if s == nil {
		return false
	}
	return s.Remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := w.store(kind.ID(), false)
	return s != nil && IsAlive(w, e) && s.Has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := w.store(kind.ID(), false)
	if s == nil || !IsAlive(w, e) {
		return nil, false
	}
	value, ok := s.Get(e).(*T)
	return value, ok
}

// ForEach visits every entity holding kind. fn may modify the value but must
// not add or remove components of kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := w.store(kind.ID(), false)
	if s == nil {
		return
	}
	for i, e := range s.Entities() {
		if v, ok := s.denseValues[i].(*T); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities holding both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	for _, e := range IntersectEntities(sa, sb) {
		a, okA := sa.Get(e).(*A)
		b, okB := sb.Get(e).(*B)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

