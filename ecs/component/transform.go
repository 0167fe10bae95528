package component

// Transform is a world position, Y up.
type Transform struct {
	X float64
	Y float64
	Z float64
}

var TransformComponent = NewComponent[Transform]()
