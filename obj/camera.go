package obj

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/camtrack/framing"
)

var _ framing.Camera = (*Camera)(nil)

// Camera is a world camera for an ebiten screen. World space is Y up; the
// camera looks down +Z from Position. OrthoSize is the half-height of the view
// in world units.
type Camera struct {
	pos framing.Vec3

	screenW int
	screenH int
	size    float64

	orthographic bool
	// vertical field of view in degrees, used when not orthographic
	fov float64
}

// NewCamera creates an orthographic camera with the given logical screen size
// and initial half-height.
func NewCamera(screenW, screenH int, size float64) *Camera {
	c := &Camera{screenW: 1, screenH: 1, size: size, orthographic: true, fov: 60}
	c.SetScreenSize(screenW, screenH)
	return c
}

// SetScreenSize updates the logical screen size used for the aspect ratio.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.screenW = w
	c.screenH = h
}

func (c *Camera) ScreenSize() (int, int) {
	return c.screenW, c.screenH
}

func (c *Camera) SetFieldOfView(deg float64) {
	if deg <= 0 || deg >= 180 {
		return
	}
	c.fov = deg
}

func (c *Camera) Aspect() float64 {
	return float64(c.screenW) / float64(c.screenH)
}

func (c *Camera) Position() framing.Vec3 {
	return c.pos
}

func (c *Camera) SetPosition(p framing.Vec3) {
	c.pos = p
}

func (c *Camera) OrthographicSize() float64 {
	return c.size
}

func (c *Camera) SetOrthographicSize(size float64) {
	c.size = size
}

func (c *Camera) Orthographic() bool {
	return c.orthographic
}

func (c *Camera) SetOrthographic(orthographic bool) {
	c.orthographic = orthographic
}

// WorldToViewport maps p into normalized viewport space: (0,0) bottom-left,
// (1,1) top-right, Z the distance in front of the camera.
//
// A non-positive half-height (size <= 0, or a point behind a perspective
// camera) projects with a half-height of 1 so the result still orders points
// by aspect-corrected distance from the camera.
func (c *Camera) WorldToViewport(p framing.Vec3) framing.Vec3 {
	depth := p.Z - c.pos.Z
	halfH := c.size
	if !c.orthographic {
		halfH = depth * math.Tan(c.fov*math.Pi/360)
	}
	if !(halfH > 0) {
		halfH = 1
	}

	var m ebiten.GeoM
	m.Translate(-c.pos.X, -c.pos.Y)
	m.Scale(1/(2*halfH*c.Aspect()), 1/(2*halfH))
	m.Translate(0.5, 0.5)
	x, y := m.Apply(p.X, p.Y)
	return framing.Vec3{X: x, Y: y, Z: depth}
}
