package component

// MotionScript moves an entity with a tengo script. Source wins over Path.
type MotionScript struct {
	Path   string
	Source string
}

var MotionScriptComponent = NewComponent[MotionScript]()
