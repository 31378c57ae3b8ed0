package geom

import (
	"fmt"
	"math"
)

// gimbalThreshold is the |cos(yaw)| below which Euler extraction treats the
// matrix as gimbal locked.
const gimbalThreshold = 0.005

// Matrix3 is a 3x3 basis: F, U and R are the images of the X, Y and Z axes
// (forward, up, right). Rotation matrices keep them orthonormal.
type Matrix3 struct {
	F, U, R Vec3
}

// Identity3 returns the identity basis.
func Identity3() Matrix3 { return Matrix3{F: XAxis, U: YAxis, R: ZAxis} }

// NewMatrix3 returns the basis with the given vectors, unchecked.
func NewMatrix3(f, u, r Vec3) Matrix3 { return Matrix3{F: f, U: u, R: r} }

// Matrix3FromForward derives a basis from a forward vector and the world
// up axis: F = normalize(f), R = normalize(Y × F), U = normalize(F × R).
//
// The result has determinant -1 (F × U = -R). A zero forward vector or one
// parallel to world Y has no defined right vector and returns
// ErrDegenerateInput; pass an explicit triple to NewMatrix3 instead.
func Matrix3FromForward(f Vec3) (Matrix3, error) {
	fn, err := f.Normalize()
	if err != nil {
		return Matrix3{}, fmt.Errorf("geom: basis from forward: %w", err)
	}
	r, err := YAxis.Cross(fn).Normalize()
	if err != nil {
		return Matrix3{}, fmt.Errorf("geom: basis from forward %v parallel to world up: %w", f, ErrDegenerateInput)
	}
	u, err := fn.Cross(r).Normalize()
	if err != nil {
		return Matrix3{}, fmt.Errorf("geom: basis from forward: %w", err)
	}
	return Matrix3{F: fn, U: u, R: r}, nil
}

// Matrix3FromQuat converts a unit quaternion to a rotation basis. q is not
// normalised here; a non-unit q yields a scaled, invalid rotation.
func Matrix3FromQuat(q Quat) Matrix3 {
	xx, xy, xz, xw := q.X*q.X, q.X*q.Y, q.X*q.Z, q.X*q.W
	yy, yz, yw := q.Y*q.Y, q.Y*q.Z, q.Y*q.W
	zz, zw := q.Z*q.Z, q.Z*q.W

	return Matrix3{
		F: Vec3{1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw)},
		U: Vec3{2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw)},
		R: Vec3{2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy)},
	}
}

// Matrix3FromEuler returns Rx·Ry·Rz for pitch (X), yaw (Y) and roll (Z) in
// degrees, expanded in closed form.
func Matrix3FromEuler(angles Vec3) Matrix3 {
	b, a := math.Sincos(angles.X * Radians)
	d, c := math.Sincos(angles.Y * Radians)
	f, e := math.Sincos(angles.Z * Radians)

	ad, bd := a*d, b*d

	return Matrix3{
		F: Vec3{c * e, bd*e + a*f, -ad*e + b*f},
		U: Vec3{-c * f, -bd*f + a*e, ad*f + b*e},
		R: Vec3{d, -b * c, a * c},
	}
}

// Matrix3FromAxisAngle applies Rodrigues' formula for a rotation of angle
// degrees about axis. The axis is normalised.
func Matrix3FromAxisAngle(angle float64, axis Vec3) (Matrix3, error) {
	n, err := axis.Normalize()
	if err != nil {
		return Matrix3{}, fmt.Errorf("geom: matrix from axis-angle: %w", err)
	}
	s, c := math.Sincos(angle * Radians)
	t := 1 - c
	x, y, z := n.X, n.Y, n.Z

	return Matrix3{
		F: Vec3{c + x*x*t, x*y*t + z*s, x*z*t - y*s},
		U: Vec3{x*y*t - z*s, c + y*y*t, y*z*t + x*s},
		R: Vec3{x*z*t + y*s, y*z*t - x*s, c + z*z*t},
	}, nil
}

// At returns the element at row, col of the column-vector matrix whose
// columns are F, U and R.
func (m Matrix3) At(row, col int) float64 {
	var c Vec3
	switch col {
	case 0:
		c = m.F
	case 1:
		c = m.U
	case 2:
		c = m.R
	default:
		panic(fmt.Sprintf("geom: Matrix3 column %d out of range", col))
	}
	switch row {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		return c.Z
	}
	panic(fmt.Sprintf("geom: Matrix3 row %d out of range", row))
}

// Transpose swaps rows and columns.
func (m Matrix3) Transpose() Matrix3 {
	return Matrix3{
		F: Vec3{m.F.X, m.U.X, m.R.X},
		U: Vec3{m.F.Y, m.U.Y, m.R.Y},
		R: Vec3{m.F.Z, m.U.Z, m.R.Z},
	}
}

// MulVec transforms v: each output component is the dot product of the
// matching row of the transpose with v.
func (m Matrix3) MulVec(v Vec3) Vec3 {
	t := m.Transpose()
	return Vec3{t.F.Dot(v), t.U.Dot(v), t.R.Dot(v)}
}

// Mul returns m·o, the transform that applies o first.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	return Matrix3{F: m.MulVec(o.F), U: m.MulVec(o.U), R: m.MulVec(o.R)}
}

// Determinant returns F · (U × R).
func (m Matrix3) Determinant() float64 { return m.F.Dot(m.U.Cross(m.R)) }

// IsOrthonormal reports whether the basis vectors are unit length and
// mutually perpendicular within tol.
func (m Matrix3) IsOrthonormal(tol float64) bool {
	return NearlyEqual(m.F.Length(), 1, tol) &&
		NearlyEqual(m.U.Length(), 1, tol) &&
		NearlyEqual(m.R.Length(), 1, tol) &&
		NearlyEqual(m.F.Dot(m.U), 0, tol) &&
		NearlyEqual(m.F.Dot(m.R), 0, tol) &&
		NearlyEqual(m.U.Dot(m.R), 0, tol)
}

// EulerAngles inverts Matrix3FromEuler, returning pitch, yaw and roll in
// degrees, each in [0, 360).
//
// When cos(yaw) is near zero pitch and roll act about the same axis and
// only their combination is recoverable: pitch is pinned to 0 and the
// whole turn is reported as roll. The round trip through Matrix3FromEuler
// still reproduces m.
func (m Matrix3) EulerAngles() Vec3 {
	y := math.Asin(clampUnit(m.At(0, 2)))
	var x, z float64
	if c := math.Cos(y); math.Abs(c) > gimbalThreshold {
		x = math.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = 0
		z = math.Atan2(m.At(1, 0), m.At(1, 1))
	}
	return Vec3{
		X: wrapDegrees(x * Degrees),
		Y: wrapDegrees(y * Degrees),
		Z: wrapDegrees(z * Degrees),
	}
}

// Quat extracts the rotation as a quaternion.
func (m Matrix3) Quat() Quat { return QuatFromMatrix(m) }

// Matrix4 embeds m in the upper-left of a homogeneous matrix.
func (m Matrix3) Matrix4() Matrix4 {
	return Matrix4{F: DirectionVec(m.F), U: DirectionVec(m.U), R: DirectionVec(m.R), W: WAxis4}
}

// ApproxEqual compares the basis vectors componentwise.
func (m Matrix3) ApproxEqual(o Matrix3, tol float64) bool {
	return m.F.ApproxEqual(o.F, tol) && m.U.ApproxEqual(o.U, tol) && m.R.ApproxEqual(o.R, tol)
}

func (m Matrix3) String() string {
	return fmt.Sprintf("F: %v\nU: %v\nR: %v", m.F, m.U, m.R)
}
