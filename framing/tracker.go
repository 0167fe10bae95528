package framing

import (
	"go.uber.org/zap"

	"github.com/milk9111/camtrack/common"
)

// Tracker keeps a set of targets framed by a camera.
//
// A Tracker is driven by its host: UpdateCamera for an immediate hard set,
// Tick once per frame for continuous tracking. It is not safe for concurrent
// use; hosts call it from their update loop.
type Tracker struct {
	cam     Camera
	cfg     Config
	targets []Target
	logger  *zap.Logger

	frame    Rect
	hasFrame bool
}

type Option func(*Tracker)

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithTargets(targets ...Target) Option {
	return func(t *Tracker) {
		t.SetTargets(targets...)
	}
}

// New binds a tracker to cam and switches cam to orthographic projection.
func New(cam Camera, cfg Config, opts ...Option) (*Tracker, error) {
	if cam == nil {
		return nil, ErrNilCamera
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Tracker{
		cam:    cam,
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	cam.SetOrthographic(true)
	return t, nil
}

// SetTargets replaces the tracked targets. Nil entries are dropped.
func (t *Tracker) SetTargets(targets ...Target) {
	kept := make([]Target, 0, len(targets))
	for _, target := range targets {
		if target != nil {
			kept = append(kept, target)
		}
	}
	t.targets = kept
}

func (t *Tracker) Targets() []Target {
	out := make([]Target, len(t.targets))
	copy(out, t.targets)
	return out
}

func (t *Tracker) Config() Config {
	return t.cfg
}

func (t *Tracker) Camera() Camera {
	return t.cam
}

// Frame returns the rectangle computed by the last successful update.
func (t *Tracker) Frame() (Rect, bool) {
	return t.frame, t.hasFrame
}

// UpdateCamera frames the targets immediately, without smoothing. It reports
// false and leaves the camera alone when there are no targets.
func (t *Tracker) UpdateCamera() bool {
	r, ok := BoundsOf(t.targets, t.cfg.Padding)
	if !ok {
		return false
	}
	t.remember(r)

	t.cam.SetPosition(CameraPosition(r, t.cfg.Depth))
	size := OrthographicSize(r, t.cam)
	t.cam.SetOrthographicSize(size)

	t.logger.Debug("camera framed",
		zap.Int("targets", len(t.targets)),
		zap.Float64("width", r.Width()),
		zap.Float64("height", r.Height()),
		zap.Float64("size", size),
	)
	return true
}

// Tick is the per-frame hook for continuous tracking. Position snaps to the
// frame centre; the half-height moves toward its target by the configured
// blend over dt seconds. It is a no-op unless RealTimeUpdate is set or when
// there are no targets.
func (t *Tracker) Tick(dt float64) bool {
	if !t.cfg.RealTimeUpdate {
		return false
	}
	r, ok := BoundsOf(t.targets, t.cfg.Padding)
	if !ok {
		return false
	}
	t.remember(r)

	t.cam.SetPosition(CameraPosition(r, t.cfg.Depth))
	want := OrthographicSize(r, t.cam)
	cur := t.cam.OrthographicSize()
	size := common.Lerp(cur, want, t.cfg.Blend.Factor(t.cfg.ZoomSpeed, dt))
	t.cam.SetOrthographicSize(size)

	if ce := t.logger.Check(zap.DebugLevel, "camera tick"); ce != nil {
		ce.Write(
			zap.Float64("dt", dt),
			zap.Float64("size", size),
			zap.Float64("target_size", want),
		)
	}
	return true
}

func (t *Tracker) remember(r Rect) {
	t.frame = r
	t.hasFrame = true
}
