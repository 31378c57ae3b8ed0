package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quat is a quaternion w + xi + yj + zk. Rotations are unit quaternions.
//
// Unit length is not enforced. Constructors that build a rotation return
// unit values; arithmetic that can drift (long chains of Mul, Slerp with
// extreme inputs) should be followed by Normalize.
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat is the zero rotation.
func IdentityQuat() Quat { return Quat{W: 1} }

// QuatFromVector embeds v as a pure quaternion (w = 0).
func QuatFromVector(v Vec3) Quat { return Quat{X: v.X, Y: v.Y, Z: v.Z} }

// QuatFromAxisAngle returns the rotation of angle degrees about axis.
// The axis is normalised; a zero axis is ErrDegenerateInput.
func QuatFromAxisAngle(angle float64, axis Vec3) (Quat, error) {
	n, err := axis.Normalize()
	if err != nil {
		return Quat{}, fmt.Errorf("geom: quaternion from axis-angle: %w", err)
	}
	return axisAngleQuat(angle*Radians, n), nil
}

// axisAngleQuat builds the rotation for a unit axis and an angle in radians.
func axisAngleQuat(rad float64, unit Vec3) Quat {
	s, c := math.Sincos(rad / 2)
	return Quat{W: c, X: unit.X * s, Y: unit.Y * s, Z: unit.Z * s}
}

// QuatFromEuler builds a rotation from pitch (X), yaw (Y) and roll (Z)
// in degrees as qx*qy*qz: roll is applied first, then yaw, then pitch.
// This is the same order as RotationEuler.
func QuatFromEuler(angles Vec3) Quat {
	qx := axisAngleQuat(angles.X*Radians, XAxis)
	qy := axisAngleQuat(angles.Y*Radians, YAxis)
	qz := axisAngleQuat(angles.Z*Radians, ZAxis)
	return qx.Mul(qy).Mul(qz)
}

// QuatFromMatrix extracts the rotation of an orthonormal basis using
// Shepperd's method: the trace branch when 1+trace is clear of zero,
// otherwise the branch of the largest diagonal element.
func QuatFromMatrix(m Matrix3) Quat {
	m00, m11, m22 := m.At(0, 0), m.At(1, 1), m.At(2, 2)

	if trace := 1 + m00 + m11 + m22; trace > Tolerance {
		s := math.Sqrt(trace) * 2
		return Quat{
			W: 0.25 * s,
			X: (m.At(2, 1) - m.At(1, 2)) / s,
			Y: (m.At(0, 2) - m.At(2, 0)) / s,
			Z: (m.At(1, 0) - m.At(0, 1)) / s,
		}
	}

	switch {
	case m00 >= m11 && m00 >= m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		return Quat{
			W: (m.At(2, 1) - m.At(1, 2)) / s,
			X: 0.25 * s,
			Y: (m.At(0, 1) + m.At(1, 0)) / s,
			Z: (m.At(0, 2) + m.At(2, 0)) / s,
		}
	case m11 >= m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		return Quat{
			W: (m.At(0, 2) - m.At(2, 0)) / s,
			X: (m.At(0, 1) + m.At(1, 0)) / s,
			Y: 0.25 * s,
			Z: (m.At(1, 2) + m.At(2, 1)) / s,
		}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		return Quat{
			W: (m.At(1, 0) - m.At(0, 1)) / s,
			X: (m.At(0, 2) + m.At(2, 0)) / s,
			Y: (m.At(1, 2) + m.At(2, 1)) / s,
			Z: 0.25 * s,
		}
	}
}

// number converts q to gonum's quaternion type.
func (q Quat) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromNumber(n quat.Number) Quat {
	return Quat{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

// Vector returns the imaginary part.
func (q Quat) Vector() Vec3 { return Vec3{q.X, q.Y, q.Z} }

// Mul returns the Hamilton product q*o. As a rotation it applies o first
// and q second.
func (q Quat) Mul(o Quat) Quat { return fromNumber(quat.Mul(q.number(), o.number())) }

// Add returns the componentwise sum.
func (q Quat) Add(o Quat) Quat { return Quat{q.W + o.W, q.X + o.X, q.Y + o.Y, q.Z + o.Z} }

// Scale multiplies every component by k.
func (q Quat) Scale(k float64) Quat { return Quat{q.W * k, q.X * k, q.Y * k, q.Z * k} }

// Neg returns -q, which represents the same rotation.
func (q Quat) Neg() Quat { return q.Scale(-1) }

// Dot returns the four-component scalar product.
func (q Quat) Dot(o Quat) float64 { return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z }

// Length returns the norm.
func (q Quat) Length() float64 { return quat.Abs(q.number()) }

// Normalize returns q scaled to unit length.
func (q Quat) Normalize() (Quat, error) {
	l := q.Length()
	if l < Tolerance {
		return Quat{}, fmt.Errorf("geom: normalize quaternion %v: %w", q, ErrDegenerateInput)
	}
	return q.Scale(1 / l), nil
}

// Conjugate returns (w, -x, -y, -z). For a unit quaternion this is the
// inverse rotation.
func (q Quat) Conjugate() Quat { return fromNumber(quat.Conj(q.number())) }

// Inverse returns the multiplicative inverse, valid for any non-zero q.
func (q Quat) Inverse() (Quat, error) {
	l2 := q.Dot(q)
	if l2 < Tolerance*Tolerance {
		return Quat{}, fmt.Errorf("geom: invert quaternion %v: %w", q, ErrDegenerateInput)
	}
	return fromNumber(quat.Inv(q.number())), nil
}

// Rotate applies the rotation to p with the sandwich product q p q*.
// q must be unit length.
func (q Quat) Rotate(p Vec3) Vec3 {
	return q.Mul(QuatFromVector(p)).Mul(q.Conjugate()).Vector()
}

// AxisAngle recovers the rotation angle in degrees, in [0, 360], and its
// unit axis. A zero rotation has no defined axis; X and 0 are returned.
func (q Quat) AxisAngle() (float64, Vec3) {
	v := q.Vector()
	s := v.Length()
	if s < Tolerance {
		return 0, XAxis
	}
	return 2 * math.Atan2(s, q.W) * Degrees, v.Scale(1 / s)
}

// Euler returns pitch, yaw and roll in degrees, each in [0, 360).
func (q Quat) Euler() Vec3 { return Matrix3FromQuat(q).EulerAngles() }

// ApproxEqual compares components. q and -q compare unequal; use
// SameRotation for rotation identity.
func (q Quat) ApproxEqual(o Quat, tol float64) bool {
	return NearlyEqual(q.W, o.W, tol) && NearlyEqual(q.X, o.X, tol) &&
		NearlyEqual(q.Y, o.Y, tol) && NearlyEqual(q.Z, o.Z, tol)
}

// SameRotation reports whether q and o describe the same rotation, taking
// the double cover into account.
func (q Quat) SameRotation(o Quat, tol float64) bool {
	return q.ApproxEqual(o, tol) || q.ApproxEqual(o.Neg(), tol)
}

func (q Quat) String() string {
	return fmt.Sprintf("%g + %gi + %gj + %gk", round4(q.W), round4(q.X), round4(q.Y), round4(q.Z))
}
