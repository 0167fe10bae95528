package framing

import "github.com/jakecoffman/cp"

// Vec3 is a world-space point. Framing only looks at X and Y; Z is carried so
// a camera can sit in front of or behind the 2D plane.
type Vec3 struct {
	X, Y, Z float64
}

// Target is anything with a world position the camera should keep in view.
type Target interface {
	Position() Vec3
}

// Point is a target that never moves.
type Point Vec3

func (p Point) Position() Vec3 {
	return Vec3(p)
}

// TargetFunc adapts a function to Target.
type TargetFunc func() Vec3

func (f TargetFunc) Position() Vec3 {
	return f()
}

// BodyTarget follows a chipmunk body.
type BodyTarget struct {
	Body *cp.Body
}

func (b BodyTarget) Position() Vec3 {
	if b.Body == nil {
		return Vec3{}
	}
	p := b.Body.Position()
	return Vec3{X: p.X, Y: p.Y}
}
