package component

// CameraTrackRequest asks the camera track system to frame its targets
// immediately, without smoothing. The system removes it once handled.
type CameraTrackRequest struct{}

var CameraTrackRequestComponent = NewComponent[CameraTrackRequest]()
