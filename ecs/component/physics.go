package component

// Body gives an entity a circular Chipmunk body. The physics system owns the
// runtime body and writes its position back into Transform.
type Body struct {
	Mass       float64
	Radius     float64
	Elasticity float64
	VelX       float64
	VelY       float64
}

var BodyComponent = NewComponent[Body]()
