package system

import (
	"github.com/milk9111/camtrack/ecs"
	"github.com/milk9111/camtrack/ecs/component"
)

// PhysicsSystem steps the world's Chipmunk space and copies body positions
// back into transforms. Worlds without a physics world are left alone.
type PhysicsSystem struct {
	DeltaTime DeltaTimeFunc
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, b *component.Body) {
			pw.EnsureBody(e, t, b)
		})

	pw.Step(resolveDelta(ps.DeltaTime))

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, _ *component.Body) {
			body, ok := pw.Body(e)
			if !ok {
				return
			}
			p := body.Position()
			t.X, t.Y = p.X, p.Y
		})
}
