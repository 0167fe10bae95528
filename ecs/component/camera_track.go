package component

import "github.com/milk9111/camtrack/framing"

// CameraTrack keeps every entity tagged TargetTag framed by the camera it is
// attached to.
type CameraTrack struct {
	TargetTag      string
	Padding        float64
	ZoomSpeed      float64
	Depth          float64
	RealTimeUpdate bool
	Blend          framing.BlendMode
}

// Config converts the component into tracker configuration.
func (c *CameraTrack) Config() framing.Config {
	return framing.Config{
		Padding:        c.Padding,
		ZoomSpeed:      c.ZoomSpeed,
		Depth:          c.Depth,
		RealTimeUpdate: c.RealTimeUpdate,
		Blend:          c.Blend,
	}
}

var CameraTrackComponent = NewComponent[CameraTrack]()
