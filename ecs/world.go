package ecs

import "github.com/milk9111/camtrack/ecs/component"

// World owns entities and their components.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity kills e and drops all of its components. It reports false if
// e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	if w.physicsWorld != nil {
		w.physicsWorld.RemoveBody(e)
	}
	return true
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities returns every live entity in creation-slot order.
func Entities(w *World) []Entity {
	var out []Entity
	w.entities.each(func(e Entity) { out = append(out, e) })
	return out
}

// SetPhysicsWorld attaches a physics world to this world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	return w.physicsWorld
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}
