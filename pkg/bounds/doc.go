// Package bounds provides bounding volumes over geom values: spheres,
// capsules, axis-aligned boxes and oriented boxes, with the overlap and
// containment predicates used for broad-phase tests.
//
// All comparisons are inclusive: touching volumes intersect, and a volume
// whose surface lies on another's surface is contained by it.
package bounds

import (
	"errors"

	"github.com/chazu/gimbal/pkg/geom"
)

var (
	// ErrPrecondition is returned by the specialised capsule tests when the
	// geometric condition they rely on does not hold.
	ErrPrecondition = errors.New("bounds: precondition violated")

	// ErrEmpty is returned when a box is requested for no points.
	ErrEmpty = errors.New("bounds: empty point set")
)

// Volume is implemented by every bounding volume in this package.
type Volume interface {
	// Bounds returns the smallest axis-aligned box enclosing the volume.
	Bounds() AABB
	// ContainsPoint reports whether p lies inside or on the surface.
	ContainsPoint(p geom.Vec3) bool
}

// Compile-time interface checks.
var (
	_ Volume = Sphere{}
	_ Volume = Capsule{}
	_ Volume = AABB{}
	_ Volume = OrientedBox{}
)

// maxScale returns the largest axis scale applied by m, used to grow radii
// so transformed round volumes stay conservative.
func maxScale(m geom.Matrix4) float64 {
	b := m.Basis()
	return max(b.F.Length(), b.U.Length(), b.R.Length())
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
