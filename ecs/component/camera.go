package component

// Camera holds the view state a camera entity renders with. Position lives in
// the entity's Transform.
type Camera struct {
	ScreenW          int
	ScreenH          int
	OrthographicSize float64
	Orthographic     bool
	// FieldOfView is the vertical angle in degrees, only used when not
	// orthographic.
	FieldOfView float64
}

var CameraComponent = NewComponent[Camera]()
