package geom

import (
	"fmt"
	"math"
)

// Vec3 is a 3D point or free vector. Callers track which one they hold.
type Vec3 struct {
	X, Y, Z float64
}

// Basis and constant vectors.
var (
	Zero3 = Vec3{}
	One3  = Vec3{1, 1, 1}
	XAxis = Vec3{1, 0, 0}
	YAxis = Vec3{0, 1, 0}
	ZAxis = Vec3{0, 0, 1}
)

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns the componentwise product.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Div returns the componentwise quotient. No zero check is made.
func (v Vec3) Div(o Vec3) Vec3 { return Vec3{v.X / o.X, v.Y / o.Y, v.Z / o.Z} }

// Scale multiplies every component by k.
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the scalar product.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the vector product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LengthSquared returns the squared magnitude.
func (v Vec3) LengthSquared() float64 { return v.Dot(v) }

// Length returns the magnitude.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// IsZero reports whether every component is within Tolerance of zero.
func (v Vec3) IsZero() bool { return v.Length() < Tolerance }

// Normalize returns a unit vector in the direction of v.
func (v Vec3) Normalize() (Vec3, error) {
	l := v.Length()
	if l < Tolerance {
		return Vec3{}, fmt.Errorf("geom: normalize %v: %w", v, ErrDegenerateInput)
	}
	return v.Scale(1 / l), nil
}

// Distance returns |v - o|.
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Length() }

// DistanceSquared returns |v - o|².
func (v Vec3) DistanceSquared(o Vec3) float64 { return v.Sub(o).LengthSquared() }

// Angle returns the angle between v and o in degrees.
func (v Vec3) Angle(o Vec3) (float64, error) {
	d := v.Length() * o.Length()
	if d < Tolerance {
		return 0, fmt.Errorf("geom: angle between %v and %v: %w", v, o, ErrDegenerateInput)
	}
	return math.Acos(clampUnit(v.Dot(o)/d)) * Degrees, nil
}

// Lerp returns the point a fraction t of the way from v to o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

// Midpoint is Lerp(o, 0.5).
func (v Vec3) Midpoint(o Vec3) Vec3 { return v.Lerp(o, 0.5) }

// To returns the vector from v to o.
func (v Vec3) To(o Vec3) Vec3 { return o.Sub(v) }

// Min returns the componentwise minimum.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

// Max returns the componentwise maximum.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

// Project returns the projection of v onto the direction of o.
func (v Vec3) Project(o Vec3) (Vec3, error) {
	l2 := o.LengthSquared()
	if l2 < Tolerance*Tolerance {
		return Vec3{}, fmt.Errorf("geom: project onto %v: %w", o, ErrDegenerateInput)
	}
	return o.Scale(v.Dot(o) / l2), nil
}

// ClampLength shortens v to at most maxLength, keeping its direction.
func (v Vec3) ClampLength(maxLength float64) Vec3 {
	l := v.Length()
	if l <= maxLength || l < Tolerance {
		return v
	}
	return v.Scale(maxLength / l)
}

// ApproxEqual reports whether each component differs by less than tol.
func (v Vec3) ApproxEqual(o Vec3, tol float64) bool {
	return NearlyEqual(v.X, o.X, tol) && NearlyEqual(v.Y, o.Y, tol) && NearlyEqual(v.Z, o.Z, tol)
}

// Array returns the components indexed X, Y, Z.
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Vec4 widens v with the given w (1 for points, 0 for directions).
func (v Vec3) Vec4(w float64) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

// Direction returns the unit vector for a pitch and yaw in degrees.
// Pitch lifts the vector towards +Y, yaw turns it from +X towards +Z.
func Direction(pitch, yaw float64) Vec3 {
	p, y := pitch*Radians, yaw*Radians
	return Vec3{
		X: math.Cos(y) * math.Cos(p),
		Y: math.Sin(p),
		Z: math.Cos(p) * math.Sin(y),
	}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", round4(v.X), round4(v.Y), round4(v.Z))
}
