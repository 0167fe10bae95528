package framing

import (
	"math"

	"github.com/milk9111/camtrack/common"
)

// DefaultDepth puts the camera behind the 2D plane.
const DefaultDepth = -10.0

// Viewport is the projection capability framing borrows from the host camera.
// WorldToViewport maps a world point to normalized viewport space, origin at
// the bottom-left, (1, 1) at the top-right.
type Viewport interface {
	Aspect() float64
	WorldToViewport(p Vec3) Vec3
}

// Camera is the host camera a Tracker writes to.
type Camera interface {
	Viewport

	Position() Vec3
	SetPosition(p Vec3)
	OrthographicSize() float64
	SetOrthographicSize(size float64)
	SetOrthographic(orthographic bool)
}

// CameraPosition centres the camera on r at the given depth.
func CameraPosition(r Rect, depth float64) Vec3 {
	c := r.Center()
	return Vec3{X: c.X, Y: c.Y, Z: depth}
}

// OrthographicSize returns the half-height that fits r in vp. The top-right
// corner is projected through the camera: when it lands further right than up
// the width is the binding constraint, otherwise the height is.
//
// The projection is taken with the camera as it is now, so callers move the
// camera onto the rectangle centre first. A projection that cannot order the
// corner (non-finite, or collapsed onto the viewport centre) falls back to
// comparing the aspect-corrected extents directly.
func OrthographicSize(r Rect, vp Viewport) float64 {
	w := math.Abs(r.Width()) / vp.Aspect()
	h := math.Abs(r.Height())

	v := vp.WorldToViewport(r.TopRight())
	widthBound := v.X >= v.Y
	if degenerate(v) {
		widthBound = w >= h
	}
	if widthBound {
		return w / 2
	}
	return h / 2
}

func degenerate(v Vec3) bool {
	if !common.Finite(v.X) || !common.Finite(v.Y) {
		return true
	}
	return v.X == 0.5 && v.Y == 0.5
}
