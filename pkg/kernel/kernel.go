// Package kernel defines the abstract solid-modeling kernel interface.
// Implementations (sdfx) build solids from primitives, place them with
// geom transforms and mesh them. Bounds are reported as bounds.AABB so
// analytic volumes and kernel solids can be compared directly.
package kernel

import (
	"github.com/chazu/gimbal/pkg/bounds"
	"github.com/chazu/gimbal/pkg/geom"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() bounds.AABB
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(size geom.Vec3) (Solid, error)       // min corner at the origin
	Sphere(radius float64) (Solid, error)    // centered on the origin
	Capsule(c bounds.Capsule) (Solid, error) // placed on the capsule segment

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transform places s with scale, then rotation, then translation.
	Transform(s Solid, t geom.Transform) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
