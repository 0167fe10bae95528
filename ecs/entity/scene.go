package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/camtrack/ecs"
	"github.com/milk9111/camtrack/prefabs"
)

const defaultGroundHalfWidth = 1000.0

// BuildScene populates w from scene and returns the camera entity. A physics
// world is attached when any target has a body.
func BuildScene(w *ecs.World, scene *prefabs.SceneSpec) (ecs.Entity, error) {
	if scene == nil {
		return 0, fmt.Errorf("scene: nil spec")
	}

	camera, err := NewTrackingCamera(w, &scene.Camera)
	if err != nil {
		return 0, fmt.Errorf("scene %s: %w", scene.Name, err)
	}

	needsPhysics := false
	for _, spec := range scene.Targets {
		if _, err := NewTarget(w, spec); err != nil {
			return 0, fmt.Errorf("scene %s: %w", scene.Name, err)
		}
		needsPhysics = needsPhysics || spec.Body != nil
	}

	if needsPhysics {
		phys := scene.Physics
		pw := ecs.NewPhysicsWorld(cp.Vector{X: phys.GravityX, Y: phys.GravityY})
		if phys.GroundY != nil {
			half := phys.GroundHalfWidth
			if half <= 0 {
				half = defaultGroundHalfWidth
			}
			pw.AddGround(-half, half, *phys.GroundY)
		}
		w.SetPhysicsWorld(pw)
	}

	return camera, nil
}
