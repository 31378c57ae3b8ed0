package geom

import (
	"fmt"
	"math"
)

// Vec4 is a homogeneous point (W=1), a free vector (W=0) or a matrix column.
type Vec4 struct {
	X, Y, Z, W float64
}

// Unit vectors of the four homogeneous axes.
var (
	XAxis4 = Vec4{1, 0, 0, 0}
	YAxis4 = Vec4{0, 1, 0, 0}
	ZAxis4 = Vec4{0, 0, 1, 0}
	WAxis4 = Vec4{0, 0, 0, 1}
)

// Point lifts p to homogeneous coordinates with W=1.
func Point(p Vec3) Vec4 { return p.Vec4(1) }

// DirectionVec lifts d to homogeneous coordinates with W=0, so translation
// does not apply to it.
func DirectionVec(d Vec3) Vec4 { return d.Vec4(0) }

// Add returns v + o.
func (v Vec4) Add(o Vec4) Vec4 { return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }

// Sub returns v - o.
func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }

// Mul returns the componentwise product.
func (v Vec4) Mul(o Vec4) Vec4 { return Vec4{v.X * o.X, v.Y * o.Y, v.Z * o.Z, v.W * o.W} }

// Scale multiplies every component by k.
func (v Vec4) Scale(k float64) Vec4 { return Vec4{v.X * k, v.Y * k, v.Z * k, v.W * k} }

// Dot returns the four-component scalar product.
func (v Vec4) Dot(o Vec4) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }

// Length returns the four-component magnitude.
func (v Vec4) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length.
func (v Vec4) Normalize() (Vec4, error) {
	l := v.Length()
	if l < Tolerance {
		return Vec4{}, fmt.Errorf("geom: normalize %v: %w", v, ErrDegenerateInput)
	}
	return v.Scale(1 / l), nil
}

// Vec3 narrows v by dropping W. This discards the homogeneous divide, so
// it is only correct for W=1 points and W=0 directions; use Perspective
// for anything else.
func (v Vec4) Vec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Perspective performs the homogeneous divide.
func (v Vec4) Perspective() (Vec3, error) {
	if math.Abs(v.W) < Tolerance {
		return Vec3{}, fmt.Errorf("geom: homogeneous divide of %v: %w", v, ErrDegenerateInput)
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}, nil
}

// ApproxEqual reports whether each component differs by less than tol.
func (v Vec4) ApproxEqual(o Vec4, tol float64) bool {
	return NearlyEqual(v.X, o.X, tol) && NearlyEqual(v.Y, o.Y, tol) &&
		NearlyEqual(v.Z, o.Z, tol) && NearlyEqual(v.W, o.W, tol)
}

func (v Vec4) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", round4(v.X), round4(v.Y), round4(v.Z), round4(v.W))
}
