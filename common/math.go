package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 clamps t into [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// ExpBlend returns the interpolation factor 1 - e^(-speed*dt). It is 0 for
// non-positive speed or dt and approaches 1 as speed*dt grows.
func ExpBlend(speed, dt float64) float64 {
	if speed <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-speed*dt)
}

func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
