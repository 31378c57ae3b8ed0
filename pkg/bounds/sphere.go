package bounds

import (
	"fmt"

	"github.com/chazu/gimbal/pkg/geom"
)

// Sphere is a center and a radius.
type Sphere struct {
	Center geom.Vec3
	Radius float64
}

// NewSphere returns the sphere of radius r about c.
func NewSphere(c geom.Vec3, r float64) Sphere { return Sphere{Center: c, Radius: r} }

// Intersects reports whether s and o overlap or touch.
func (s Sphere) Intersects(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.DistanceSquared(o.Center) <= r*r
}

// Contains reports whether o lies entirely inside s.
func (s Sphere) Contains(o Sphere) bool {
	return s.Center.Distance(o.Center)+o.Radius <= s.Radius
}

// ContainsPoint reports whether p lies inside or on s.
func (s Sphere) ContainsPoint(p geom.Vec3) bool {
	return s.Center.DistanceSquared(p) <= s.Radius*s.Radius
}

// IntersectsBox reports whether s overlaps b.
func (s Sphere) IntersectsBox(b AABB) bool { return b.IntersectsSphere(s) }

// Bounds returns the cube circumscribing s.
func (s Sphere) Bounds() AABB {
	r := geom.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Transform maps s through m. Under non-uniform scale the radius grows by
// the largest axis scale, so the result encloses the true ellipsoid.
func (s Sphere) Transform(m geom.Matrix4) Sphere {
	return Sphere{Center: m.TransformPoint(s.Center), Radius: s.Radius * maxScale(m)}
}

func (s Sphere) String() string {
	return fmt.Sprintf("r: %g, c: %v", s.Radius, s.Center)
}
