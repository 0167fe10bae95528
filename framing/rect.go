package framing

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Rect is an axis-aligned rectangle in world space, Y up.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

func (r Rect) Center() cp.Vector {
	return cp.Vector{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// TopRight is the corner used to probe the camera's viewport.
func (r Rect) TopRight() Vec3 {
	return Vec3{X: r.MaxX, Y: r.MaxY}
}

// Bounds returns the smallest rectangle enclosing points, grown by padding on
// every side. It returns false when points is empty; callers skip the update
// in that case.
func Bounds(points []Vec3, padding float64) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return pad(minX, minY, maxX, maxY, padding), true
}

// BoundsOf is Bounds over the current positions of targets.
func BoundsOf(targets []Target, padding float64) (Rect, bool) {
	if len(targets) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, t := range targets {
		p := t.Position()
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return pad(minX, minY, maxX, maxY, padding), true
}

func pad(minX, minY, maxX, maxY, padding float64) Rect {
	return Rect{
		MinX: minX - padding,
		MinY: minY - padding,
		MaxX: maxX + padding,
		MaxY: maxY + padding,
	}
}
