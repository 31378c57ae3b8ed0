// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/gimbal/pkg/bounds"
	"github.com/chazu/gimbal/pkg/geom"
	"github.com/chazu/gimbal/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// ErrForeignSolid is returned when a solid from another kernel is passed in.
var ErrForeignSolid = errors.New("sdfx: solid not created by this kernel")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// Bounds returns the axis-aligned bounding box.
func (s *sdfxSolid) Bounds() bounds.AABB {
	return FromBox3(s.s.BoundingBox())
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// New returns a new SdfxKernel meshing with the given number of marching
// cubes cells along the longest axis. Non-positive values use
// DefaultMeshCells.
func New(meshCells int) *SdfxKernel {
	if meshCells <= 0 {
		meshCells = DefaultMeshCells
	}
	return &SdfxKernel{meshCells: meshCells}
}

// MeshCells returns the tessellation resolution.
func (k *SdfxKernel) MeshCells() int { return k.meshCells }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Vec converts a geom vector to an sdfx vector.
func Vec(v geom.Vec3) v3.Vec { return v3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// FromVec converts an sdfx vector to a geom vector.
func FromVec(v v3.Vec) geom.Vec3 { return geom.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// FromBox3 converts an sdfx bounding box.
func FromBox3(b sdf.Box3) bounds.AABB {
	return bounds.AABB{Min: FromVec(b.Min), Max: FromVec(b.Max)}
}

// M44 converts t into the sdfx matrix that scales, rotates and then
// translates, the same order as geom.Transform.Matrix.
func M44(t geom.Transform) sdf.M44 {
	angle, axis := t.Rotation.AxisAngle()
	return sdf.Translate3d(Vec(t.Translation)).
		Mul(sdf.Rotate3d(Vec(axis), angle*geom.Radians)).
		Mul(sdf.Scale3d(Vec(t.Scale)))
}

// Box creates a box with the given dimensions. The resulting solid has its
// minimum corner at the origin (0,0,0), matching bounds.NewAABB over the
// same extents. sdf.Box3D centers the box at the origin, so we translate
// by half-dimensions.
func (k *SdfxKernel) Box(size geom.Vec3) (kernel.Solid, error) {
	s, err := sdf.Box3D(Vec(size), 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box %v: %w", size, err)
	}
	// Shift from center-origin to min-corner-origin.
	m := sdf.Translate3d(Vec(size.Scale(0.5)))
	return wrap(sdf.Transform3D(s, m)), nil
}

// Sphere creates a sphere centered on the origin.
func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere r=%g: %w", radius, err)
	}
	return wrap(s), nil
}

// Capsule creates a solid matching c. sdfx builds capsules along Z about
// the origin, so the solid is turned onto the segment direction and moved
// to its midpoint.
func (k *SdfxKernel) Capsule(c bounds.Capsule) (kernel.Solid, error) {
	s, err := sdf.Capsule3D(c.Height(), c.Radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: capsule %v: %w", c, err)
	}
	rot, err := alignZ(c.Axis())
	if err != nil {
		return nil, fmt.Errorf("sdfx: capsule %v: %w", c, err)
	}
	m := sdf.Translate3d(Vec(c.A.Midpoint(c.B))).Mul(rot)
	return wrap(sdf.Transform3D(s, m)), nil
}

// alignZ returns the rotation taking +Z onto dir. A zero dir (a sphere
// shaped capsule) needs no rotation.
func alignZ(dir geom.Vec3) (sdf.M44, error) {
	if dir.IsZero() {
		return sdf.Identity3d(), nil
	}
	angle, err := geom.ZAxis.Angle(dir)
	if err != nil {
		return sdf.M44{}, err
	}
	axis := geom.ZAxis.Cross(dir)
	if axis.IsZero() {
		if dir.Z > 0 {
			return sdf.Identity3d(), nil
		}
		axis = geom.XAxis
	}
	return sdf.Rotate3d(Vec(axis), angle*geom.Radians), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Transform places a solid with t.
func (k *SdfxKernel) Transform(s kernel.Solid, t geom.Transform) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), M44(t)))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	solid, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("sdfx: mesh %T: %w", s, ErrForeignSolid)
	}

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(solid.s, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		if math.IsNaN(n.X) {
			// Zero-area triangle from a degenerate cell.
			n = v3.Vec{}
		}
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
