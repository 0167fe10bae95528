package entity

import (
	"fmt"

	"github.com/milk9111/camtrack/ecs"
	"github.com/milk9111/camtrack/ecs/component"
	"github.com/milk9111/camtrack/prefabs"
)

func NewTarget(w *ecs.World, spec prefabs.TargetSpec) (ecs.Entity, error) {
	target := ecs.CreateEntity(w)

	if err := ecs.Add(w, target, component.TransformComponent.Kind(), &component.Transform{
		X: spec.Transform.X,
		Y: spec.Transform.Y,
		Z: spec.Transform.Z,
	}); err != nil {
		return 0, fmt.Errorf("target %s: add transform: %w", spec.Name, err)
	}

	tags := append([]string(nil), spec.Tags...)
	if err := ecs.Add(w, target, component.TagComponent.Kind(), &component.Tag{Values: tags}); err != nil {
		return 0, fmt.Errorf("target %s: add tag: %w", spec.Name, err)
	}

	if spec.Body != nil {
		if err := ecs.Add(w, target, component.BodyComponent.Kind(), &component.Body{
			Mass:       spec.Body.Mass,
			Radius:     spec.Body.Radius,
			Elasticity: spec.Body.Elasticity,
			VelX:       spec.Body.VelX,
			VelY:       spec.Body.VelY,
		}); err != nil {
			return 0, fmt.Errorf("target %s: add body: %w", spec.Name, err)
		}
	}

	if spec.Script != "" || spec.ScriptSource != "" {
		if err := ecs.Add(w, target, component.MotionScriptComponent.Kind(), &component.MotionScript{
			Path:   spec.Script,
			Source: spec.ScriptSource,
		}); err != nil {
			return 0, fmt.Errorf("target %s: add motion script: %w", spec.Name, err)
		}
	}

	return target, nil
}
