package math

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mix linearly interpolates between a and b (GLSL mix).
func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Smoothstep is the GLSL cubic Hermite step between edge0 and edge1.
// The result is 0 at or below edge0 and 1 at or above edge1.
// Callers must guarantee edge0 < edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// WrapAngle maps an angle in radians into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
