package system

import "github.com/hajimehoshi/ebiten/v2"

// DeltaTimeFunc returns the seconds elapsed since the previous frame.
type DeltaTimeFunc func() float64

// FixedTickDelta is the frame time of ebiten's fixed-rate Update loop.
func FixedTickDelta() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		return 1.0 / ebiten.DefaultTPS
	}
	return 1 / float64(tps)
}

func resolveDelta(fn DeltaTimeFunc) float64 {
	if fn == nil {
		return FixedTickDelta()
	}
	return fn()
}
