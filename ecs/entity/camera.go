package entity

import (
	"fmt"

	"github.com/milk9111/camtrack/ecs"
	"github.com/milk9111/camtrack/ecs/component"
	"github.com/milk9111/camtrack/prefabs"
)

// NewTrackingCamera creates a camera entity that frames every entity tagged
// with spec.Track.TargetTag. A nil spec loads prefabs/camera.yaml.
func NewTrackingCamera(w *ecs.World, spec *prefabs.CameraSpec) (ecs.Entity, error) {
	if spec == nil {
		loaded, err := prefabs.LoadCameraSpec()
		if err != nil {
			return 0, fmt.Errorf("camera: load spec: %w", err)
		}
		spec = loaded
	}
	if err := spec.Validate(); err != nil {
		return 0, fmt.Errorf("camera: %w", err)
	}
	cfg := spec.Track.Config()

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}

	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), &component.Transform{
		X: spec.Transform.X,
		Y: spec.Transform.Y,
		Z: spec.Transform.Z,
	}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		ScreenW:          spec.Screen.Width,
		ScreenH:          spec.Screen.Height,
		OrthographicSize: spec.Size,
		Orthographic:     true,
		FieldOfView:      spec.FieldOfView,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}

	if err := ecs.Add(w, camera, component.CameraTrackComponent.Kind(), &component.CameraTrack{
		TargetTag:      spec.Track.TargetTag,
		Padding:        cfg.Padding,
		ZoomSpeed:      cfg.ZoomSpeed,
		Depth:          cfg.Depth,
		RealTimeUpdate: cfg.RealTimeUpdate,
		Blend:          cfg.Blend,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera track: %w", err)
	}

	return camera, nil
}

// RequestFraming asks the camera track system to snap camera onto its targets
// on its next update.
func RequestFraming(w *ecs.World, camera ecs.Entity) error {
	if err := ecs.Add(w, camera, component.CameraTrackRequestComponent.Kind(), &component.CameraTrackRequest{}); err != nil {
		return fmt.Errorf("camera: request framing: %w", err)
	}
	return nil
}
