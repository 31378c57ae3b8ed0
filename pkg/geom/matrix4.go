package geom

import (
	"fmt"
	"math"
)

// Matrix4 is a homogeneous 4x4 transform. F, U and R hold the transformed
// X, Y and Z axes, W holds the translation with W.W = 1 for affine
// transforms. See the package documentation for the multiply convention.
type Matrix4 struct {
	F, U, R, W Vec4
}

// Identity4 returns the identity transform.
func Identity4() Matrix4 {
	return Matrix4{F: XAxis4, U: YAxis4, R: ZAxis4, W: WAxis4}
}

// NewMatrix4 returns the matrix with the given vectors, unchecked.
func NewMatrix4(f, u, r, w Vec4) Matrix4 { return Matrix4{F: f, U: u, R: r, W: w} }

// Scale returns the diagonal scale transform.
func Scale(s Vec3) Matrix4 {
	return Matrix4{
		F: Vec4{s.X, 0, 0, 0},
		U: Vec4{0, s.Y, 0, 0},
		R: Vec4{0, 0, s.Z, 0},
		W: WAxis4,
	}
}

// UniformScale scales all three axes by s.
func UniformScale(s float64) Matrix4 { return Scale(Vec3{s, s, s}) }

// Translation returns the transform that moves points by t.
func Translation(t Vec3) Matrix4 {
	return Matrix4{F: XAxis4, U: YAxis4, R: ZAxis4, W: Point(t)}
}

// RotationX rotates about the X axis by deg degrees.
func RotationX(deg float64) Matrix4 {
	s, c := math.Sincos(deg * Radians)
	return Matrix4{
		F: XAxis4,
		U: Vec4{0, c, s, 0},
		R: Vec4{0, -s, c, 0},
		W: WAxis4,
	}
}

// RotationY rotates about the Y axis by deg degrees.
func RotationY(deg float64) Matrix4 {
	s, c := math.Sincos(deg * Radians)
	return Matrix4{
		F: Vec4{c, 0, -s, 0},
		U: YAxis4,
		R: Vec4{s, 0, c, 0},
		W: WAxis4,
	}
}

// RotationZ rotates about the Z axis by deg degrees.
func RotationZ(deg float64) Matrix4 {
	s, c := math.Sincos(deg * Radians)
	return Matrix4{
		F: Vec4{c, s, 0, 0},
		U: Vec4{-s, c, 0, 0},
		R: ZAxis4,
		W: WAxis4,
	}
}

// RotationEuler returns Rx·Ry·Rz for pitch, yaw and roll in degrees using
// the closed-form expansion.
func RotationEuler(angles Vec3) Matrix4 { return Matrix3FromEuler(angles).Matrix4() }

// RotationEulerComposed builds the same rotation as RotationEuler by
// multiplying the three single-axis matrices. It is the reference the
// closed form is checked against.
func RotationEulerComposed(angles Vec3) Matrix4 {
	return RotationX(angles.X).Mul(RotationY(angles.Y).Mul(RotationZ(angles.Z)))
}

// RotationQuat converts a unit quaternion to a rotation transform.
func RotationQuat(q Quat) Matrix4 { return Matrix3FromQuat(q).Matrix4() }

// RotationAxisAngle rotates by angle degrees about axis.
func RotationAxisAngle(angle float64, axis Vec3) (Matrix4, error) {
	m, err := Matrix3FromAxisAngle(angle, axis)
	if err != nil {
		return Matrix4{}, err
	}
	return m.Matrix4(), nil
}

// Transpose swaps rows and columns.
func (m Matrix4) Transpose() Matrix4 {
	return Matrix4{
		F: Vec4{m.F.X, m.U.X, m.R.X, m.W.X},
		U: Vec4{m.F.Y, m.U.Y, m.R.Y, m.W.Y},
		R: Vec4{m.F.Z, m.U.Z, m.R.Z, m.W.Z},
		W: Vec4{m.F.W, m.U.W, m.R.W, m.W.W},
	}
}

// MulVec transforms v through the transpose: output component i is the
// dot product of row i of the transpose with v.
func (m Matrix4) MulVec(v Vec4) Vec4 {
	t := m.Transpose()
	return Vec4{t.F.Dot(v), t.U.Dot(v), t.R.Dot(v), t.W.Dot(v)}
}

// Mul returns m·o, the transform that applies o first and m second.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	return Matrix4{F: m.MulVec(o.F), U: m.MulVec(o.U), R: m.MulVec(o.R), W: m.MulVec(o.W)}
}

// TransformPoint applies m to the point p (W=1). The result is narrowed
// without a homogeneous divide, which is exact for affine m.
func (m Matrix4) TransformPoint(p Vec3) Vec3 { return m.MulVec(Point(p)).Vec3() }

// TransformDirection applies m to the direction d (W=0), ignoring
// translation.
func (m Matrix4) TransformDirection(d Vec3) Vec3 { return m.MulVec(DirectionVec(d)).Vec3() }

// Basis returns the upper-left 3x3 block.
func (m Matrix4) Basis() Matrix3 {
	return Matrix3{F: m.F.Vec3(), U: m.U.Vec3(), R: m.R.Vec3()}
}

// TranslationPart returns the translation carried in W.
func (m Matrix4) TranslationPart() Vec3 { return m.W.Vec3() }

// EulerAngles extracts pitch, yaw and roll from the rotation block.
func (m Matrix4) EulerAngles() Vec3 { return m.Basis().EulerAngles() }

// Quat extracts the rotation block as a quaternion.
func (m Matrix4) Quat() Quat { return QuatFromMatrix(m.Basis()) }

// InverseScale inverts a pure scale matrix by taking the reciprocal of its
// diagonal. A zero component or any off-diagonal term in the 3x3 block is
// ErrInvalidArgument, since the reciprocal is then not the inverse.
func (m Matrix4) InverseScale() (Matrix4, error) {
	b := m.Basis()
	if !NearlyEqual(b.F.Y, 0, Tolerance) || !NearlyEqual(b.F.Z, 0, Tolerance) ||
		!NearlyEqual(b.U.X, 0, Tolerance) || !NearlyEqual(b.U.Z, 0, Tolerance) ||
		!NearlyEqual(b.R.X, 0, Tolerance) || !NearlyEqual(b.R.Y, 0, Tolerance) {
		return Matrix4{}, fmt.Errorf("geom: inverse scale of non-diagonal matrix: %w", ErrInvalidArgument)
	}
	s := Vec3{b.F.X, b.U.Y, b.R.Z}
	if math.Abs(s.X) < Tolerance || math.Abs(s.Y) < Tolerance || math.Abs(s.Z) < Tolerance {
		return Matrix4{}, fmt.Errorf("geom: inverse scale of %v: zero component: %w", s, ErrInvalidArgument)
	}
	return Scale(Vec3{1 / s.X, 1 / s.Y, 1 / s.Z}), nil
}

// InverseRotation returns the transpose of the rotation block, which is
// its inverse because rotation bases are orthonormal. Translation is
// dropped.
func (m Matrix4) InverseRotation() Matrix4 { return m.Basis().Transpose().Matrix4() }

// InverseTranslation returns the translation by -W.
func (m Matrix4) InverseTranslation() Matrix4 { return Translation(m.TranslationPart().Neg()) }

// TRS composes translation·(rotation·scale): scale first, then rotate,
// then translate.
func TRS(translation, rotation, scale Matrix4) Matrix4 {
	return translation.Mul(rotation.Mul(scale))
}

// SRT composes scale·(rotation·translation), the reverse order. Fed with
// the three inverses of a TRS it produces the TRS inverse:
//
//	SRT(s.InverseScale(), r.InverseRotation(), t.InverseTranslation())
func SRT(scale, rotation, translation Matrix4) Matrix4 {
	return scale.Mul(rotation.Mul(translation))
}

// ApproxEqual compares all sixteen elements.
func (m Matrix4) ApproxEqual(o Matrix4, tol float64) bool {
	return m.F.ApproxEqual(o.F, tol) && m.U.ApproxEqual(o.U, tol) &&
		m.R.ApproxEqual(o.R, tol) && m.W.ApproxEqual(o.W, tol)
}

func (m Matrix4) String() string {
	return fmt.Sprintf("F: %v\nU: %v\nR: %v\nW: %v", m.F, m.U, m.R, m.W)
}
