package common

import "math"

const TwoPi = 2 * math.Pi

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Progress returns elapsed/duration clamped to [0, 1]. A non-positive
// duration counts as already complete.
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return Clamp(elapsed/duration, 0, 1)
}

// EaseInOutQuad maps t in [0, 1] onto a quadratic ease-in/ease-out curve.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// NormalizeAngle wraps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a -= TwoPi
	}
	return a
}

// ShortestAngle returns the signed difference to - from, wrapped into [-π, π].
func ShortestAngle(from, to float64) float64 {
	diff := NormalizeAngle(to) - NormalizeAngle(from)
	if diff > math.Pi {
		diff -= TwoPi
	} else if diff < -math.Pi {
		diff += TwoPi
	}
	return diff
}
