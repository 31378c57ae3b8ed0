package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// Tolerance is the threshold below which a magnitude is treated as zero.
	Tolerance = 1e-8

	// Epsilon is the default tolerance for ApproxEqual comparisons.
	Epsilon = 1e-5

	// Radians converts degrees to radians.
	Radians = math.Pi / 180

	// Degrees converts radians to degrees.
	Degrees = 180 / math.Pi

	// displayPlaces is the rounding used by String methods. Display only.
	displayPlaces = 4
)

// Snap rounds v to the nearest integer when it is within Tolerance of it.
func Snap(v float64) float64 {
	r := math.Round(v)
	if scalar.EqualWithinAbs(v, r, Tolerance) {
		return r
	}
	return v
}

// NearlyEqual reports whether a and b differ by less than tol.
func NearlyEqual(a, b, tol float64) bool {
	return scalar.EqualWithinAbs(a, b, tol)
}

// round4 rounds for display and folds negative zero into zero.
func round4(v float64) float64 {
	r := scalar.Round(v, displayPlaces)
	if r == 0 {
		return 0
	}
	return r
}

// wrapDegrees maps an angle from atan2/asin into [0, 360).
func wrapDegrees(deg float64) float64 {
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// clampUnit keeps acos/asin arguments inside [-1, 1].
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
