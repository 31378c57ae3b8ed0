package geom

import "fmt"

// Transform is a scale, rotation and translation applied in that order.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// IdentityTransform leaves every point in place.
func IdentityTransform() Transform {
	return Transform{Rotation: IdentityQuat(), Scale: One3}
}

// NewTransform builds a Transform whose rotation is given as Euler angles
// in degrees.
func NewTransform(translation, eulerAngles, scale Vec3) Transform {
	return Transform{Translation: translation, Rotation: QuatFromEuler(eulerAngles), Scale: scale}
}

// Matrix returns TRS(translation, rotation, scale).
func (t Transform) Matrix() Matrix4 {
	return TRS(Translation(t.Translation), RotationQuat(t.Rotation), Scale(t.Scale))
}

// InverseMatrix returns the SRT composition of the three inverses, the
// exact inverse of Matrix. A zero scale component is ErrInvalidArgument.
func (t Transform) InverseMatrix() (Matrix4, error) {
	s, err := Scale(t.Scale).InverseScale()
	if err != nil {
		return Matrix4{}, fmt.Errorf("geom: invert transform: %w", err)
	}
	r := RotationQuat(t.Rotation).InverseRotation()
	tr := Translation(t.Translation).InverseTranslation()
	return SRT(s, r, tr), nil
}

// TransformPoint maps p from local to world space.
func (t Transform) TransformPoint(p Vec3) Vec3 { return t.Matrix().TransformPoint(p) }

// InverseTransformPoint maps p from world to local space.
func (t Transform) InverseTransformPoint(p Vec3) (Vec3, error) {
	inv, err := t.InverseMatrix()
	if err != nil {
		return Vec3{}, err
	}
	return inv.TransformPoint(p), nil
}

func (t Transform) String() string {
	return fmt.Sprintf("t: %v, r: %v, s: %v", t.Translation, t.Rotation, t.Scale)
}

// Stack accumulates nested transforms. World composes every pushed
// transform with the earliest outermost, so the last push is applied to
// points first. The zero value is an empty stack.
type Stack struct {
	world   []Matrix4
	inverse []Matrix4
}

// Push appends t. On error the stack is unchanged.
func (s *Stack) Push(t Transform) error {
	inv, err := t.InverseMatrix()
	if err != nil {
		return err
	}
	m := t.Matrix()
	if n := len(s.world); n > 0 {
		m = s.world[n-1].Mul(m)
		inv = inv.Mul(s.inverse[n-1])
	}
	s.world = append(s.world, m)
	s.inverse = append(s.inverse, inv)
	return nil
}

// Pop removes the most recent transform. Popping an empty stack is a no-op.
func (s *Stack) Pop() {
	if n := len(s.world); n > 0 {
		s.world = s.world[:n-1]
		s.inverse = s.inverse[:n-1]
	}
}

// Depth returns the number of transforms on the stack.
func (s *Stack) Depth() int { return len(s.world) }

// World returns the accumulated local-to-world matrix.
func (s *Stack) World() Matrix4 {
	if n := len(s.world); n > 0 {
		return s.world[n-1]
	}
	return Identity4()
}

// Inverse returns the accumulated world-to-local matrix.
func (s *Stack) Inverse() Matrix4 {
	if n := len(s.inverse); n > 0 {
		return s.inverse[n-1]
	}
	return Identity4()
}
