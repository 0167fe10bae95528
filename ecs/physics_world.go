package ecs

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/camtrack/ecs/component"
)

type physicsEntry struct {
	body  *cp.Body
	shape *cp.Shape
}

// PhysicsWorld owns the Chipmunk space backing entities with a Body component.
type PhysicsWorld struct {
	space   *cp.Space
	entries map[Entity]physicsEntry
}

// NewPhysicsWorld creates an empty space with the given gravity.
func NewPhysicsWorld(gravity cp.Vector) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)
	return &PhysicsWorld{
		space:   space,
		entries: make(map[Entity]physicsEntry),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddGround adds a static segment from (x0, y) to (x1, y).
func (pw *PhysicsWorld) AddGround(x0, x1, y float64) {
	if pw == nil {
		return
	}
	seg := cp.NewSegment(pw.space.StaticBody, cp.Vector{X: x0, Y: y}, cp.Vector{X: x1, Y: y}, 0)
	seg.SetFriction(0.8)
	seg.SetElasticity(0.9)
	pw.space.AddShape(seg)
}

// EnsureBody creates a circle body for e at its transform if it has none yet.
func (pw *PhysicsWorld) EnsureBody(e Entity, t *component.Transform, b *component.Body) *cp.Body {
	if pw == nil || t == nil || b == nil {
		return nil
	}
	if entry, ok := pw.entries[e]; ok {
		return entry.body
	}

	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}
	radius := b.Radius
	if radius <= 0 {
		radius = 0.5
	}

	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
	body.SetVelocity(b.VelX, b.VelY)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0.8)
	shape.SetElasticity(b.Elasticity)

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.entries[e] = physicsEntry{body: body, shape: shape}
	return body
}

// Body returns the body owned by e.
func (pw *PhysicsWorld) Body(e Entity) (*cp.Body, bool) {
	if pw == nil {
		return nil, false
	}
	entry, ok := pw.entries[e]
	return entry.body, ok
}

// RemoveBody drops e's body and shape from the space.
func (pw *PhysicsWorld) RemoveBody(e Entity) {
	if pw == nil {
		return
	}
	entry, ok := pw.entries[e]
	if !ok {
		return
	}
	pw.space.RemoveShape(entry.shape)
	pw.space.RemoveBody(entry.body)
	delete(pw.entries, e)
}

// Step advances the simulation by dt seconds.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}
