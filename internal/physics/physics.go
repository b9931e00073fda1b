// Package physics provides the hit-test and clamping helpers used by the game.
//
// Collision is one-dimensional: only horizontal extents are compared.
package physics

import "math"

// HorizontalDistance returns the absolute horizontal distance between two x coordinates.
func HorizontalDistance(x1, x2 float64) float64 {
	return math.Abs(x2 - x1)
}

// WithinSpan reports whether x lies within halfWidth of center (inclusive).
func WithinSpan(x, center, halfWidth float64) bool {
	return HorizontalDistance(center, x) <= halfWidth
}

// InRange reports whether x lies in [lo, hi].
func InRange(x, lo, hi float64) bool {
	return x >= lo && x <= hi
}

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
