package system

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/camtrack/ecs"
	"github.com/milk9111/camtrack/ecs/component"
	"github.com/milk9111/camtrack/framing"
	"github.com/milk9111/camtrack/obj"
)

// CameraTrackSystem frames tagged entities with every camera that carries a
// CameraTrack component. Cameras in realtime mode are ticked every frame; a
// CameraTrackRequest snaps a camera onto its targets and is then removed.
type CameraTrackSystem struct {
	DeltaTime DeltaTimeFunc

	logger *zap.Logger
	tracks map[ecs.Entity]*cameraTrackState
}

type cameraTrackState struct {
	cfg     framing.Config
	tracker *framing.Tracker
	camera  *worldCamera
}

func NewCameraTrackSystem(logger *zap.Logger) *CameraTrackSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CameraTrackSystem{
		logger: logger,
		tracks: make(map[ecs.Entity]*cameraTrackState),
	}
}

// Tracker returns the tracker bound to a camera entity, once the system has
// seen it.
func (s *CameraTrackSystem) Tracker(camera ecs.Entity) (*framing.Tracker, bool) {
	st, ok := s.tracks[camera]
	if !ok {
		return nil, false
	}
	return st.tracker, true
}

func (s *CameraTrackSystem) Update(w *ecs.World) {
	dt := resolveDelta(s.DeltaTime)
	seen := make(map[ecs.Entity]struct{}, len(s.tracks))
	var handled []ecs.Entity

	ecs.ForEach2(w, component.CameraTrackComponent.Kind(), component.CameraComponent.Kind(),
		func(e ecs.Entity, track *component.CameraTrack, cam *component.Camera) {
			seen[e] = struct{}{}
			tr, err := cameraTransform(w, e)
			if err != nil {
				s.logger.Error("camera track: transform", zap.Object("camera", e), zap.Error(err))
				return
			}
			st, err := s.state(e, track)
			if err != nil {
				s.logger.Error("camera track: bind tracker", zap.Object("camera", e), zap.Error(err))
				return
			}
			st.camera.bind(tr, cam)
			st.tracker.SetTargets(taggedTargets(w, e, track.TargetTag)...)

			if ecs.Has(w, e, component.CameraTrackRequestComponent.Kind()) {
				st.tracker.UpdateCamera()
				handled = append(handled, e)
			}
			st.tracker.Tick(dt)
		})

	for _, e := range handled {
		ecs.Remove(w, e, component.CameraTrackRequestComponent.Kind())
	}
	for e := range s.tracks {
		if _, ok := seen[e]; !ok {
			delete(s.tracks, e)
		}
	}
}

// ErrCameraTransform is logged when a camera entity has no transform and one
// cannot be added.
var ErrCameraTransform = errors.New("camera track: camera has no transform")

// cameraTransform returns the camera's transform, adding a zero one if the
// entity has none.
func cameraTransform(w *ecs.World, e ecs.Entity) (*component.Transform, error) {
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return tr, nil
	}
	tr := &component.Transform{}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCameraTransform, err)
	}
	return tr, nil
}

// state returns the tracker for a camera, rebuilding it when the component's
// configuration changed.
func (s *CameraTrackSystem) state(e ecs.Entity, track *component.CameraTrack) (*cameraTrackState, error) {
	cfg := track.Config()
	if st, ok := s.tracks[e]; ok && st.cfg == cfg {
		return st, nil
	}

	camera := &worldCamera{view: obj.NewCamera(1, 1, 1)}
	tracker, err := framing.New(camera, cfg,
		framing.WithLogger(s.logger.With(zap.Object("camera", e))))
	if err != nil {
		return nil, err
	}
	st := &cameraTrackState{cfg: cfg, tracker: tracker, camera: camera}
	s.tracks[e] = st
	s.logger.Debug("camera track bound",
		zap.Object("camera", e),
		zap.String("target_tag", track.TargetTag),
		zap.Bool("realtime", cfg.RealTimeUpdate),
	)
	return st, nil
}

// taggedTargets collects the entities carrying tag. Entities with a physics
// body are followed through the body, so the frame sees this step's physics
// result even before transforms are synced.
func taggedTargets(w *ecs.World, camera ecs.Entity, tag string) []framing.Target {
	pw := w.PhysicsWorld()
	var targets []framing.Target
	ecs.ForEach2(w, component.TagComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, tags *component.Tag, tr *component.Transform) {
			if e == camera || !tags.Has(tag) {
				return
			}
			if pw != nil {
				if body, ok := pw.Body(e); ok {
					targets = append(targets, framing.BodyTarget{Body: body})
					return
				}
			}
			targets = append(targets, transformTarget{tr: tr})
		})
	return targets
}

// transformTarget reads an entity's transform each time it is asked.
type transformTarget struct {
	tr *component.Transform
}

func (t transformTarget) Position() framing.Vec3 {
	return framing.Vec3{X: t.tr.X, Y: t.tr.Y, Z: t.tr.Z}
}

// worldCamera exposes a camera entity's components as a framing.Camera. The
// components are the source of truth; view only does the projection.
type worldCamera struct {
	tr   *component.Transform
	cam  *component.Camera
	view *obj.Camera

	// set by the tracker before the first bind
	orthographic *bool
}

func (c *worldCamera) bind(tr *component.Transform, cam *component.Camera) {
	c.tr = tr
	c.cam = cam
	if c.orthographic != nil {
		cam.Orthographic = *c.orthographic
		c.orthographic = nil
	}
}

func (c *worldCamera) sync() *obj.Camera {
	c.view.SetScreenSize(c.cam.ScreenW, c.cam.ScreenH)
	c.view.SetPosition(framing.Vec3{X: c.tr.X, Y: c.tr.Y, Z: c.tr.Z})
	c.view.SetOrthographicSize(c.cam.OrthographicSize)
	c.view.SetOrthographic(c.cam.Orthographic)
	if c.cam.FieldOfView > 0 {
		c.view.SetFieldOfView(c.cam.FieldOfView)
	}
	return c.view
}

func (c *worldCamera) Aspect() float64 {
	return c.sync().Aspect()
}

func (c *worldCamera) WorldToViewport(p framing.Vec3) framing.Vec3 {
	return c.sync().WorldToViewport(p)
}

func (c *worldCamera) Position() framing.Vec3 {
	return framing.Vec3{X: c.tr.X, Y: c.tr.Y, Z: c.tr.Z}
}

func (c *worldCamera) SetPosition(p framing.Vec3) {
	c.tr.X, c.tr.Y, c.tr.Z = p.X, p.Y, p.Z
}

func (c *worldCamera) OrthographicSize() float64 {
	return c.cam.OrthographicSize
}

func (c *worldCamera) SetOrthographicSize(size float64) {
	c.cam.OrthographicSize = size
}

// SetOrthographic is first called while the tracker is being built, before
// any components are bound. The flag is then held until the next bind.
func (c *worldCamera) SetOrthographic(orthographic bool) {
	if c.cam == nil {
		c.orthographic = &orthographic
		return
	}
	c.cam.Orthographic = orthographic
}
