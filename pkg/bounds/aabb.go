package bounds

import (
	"fmt"
	"math"

	"github.com/chazu/gimbal/pkg/geom"
)

// AABB is an axis-aligned box. Min is componentwise <= Max for any box
// built by this package.
type AABB struct {
	Min, Max geom.Vec3
}

// NewAABB returns the tightest box around points.
func NewAABB(points ...geom.Vec3) (AABB, error) {
	if len(points) == 0 {
		return AABB{}, fmt.Errorf("bounds: box from points: %w", ErrEmpty)
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, nil
}

// Extend returns the box grown to include p.
func (b AABB) Extend(p geom.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the box enclosing b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() geom.Vec3 { return b.Min.Midpoint(b.Max) }

// Size returns the edge lengths.
func (b AABB) Size() geom.Vec3 { return b.Max.Sub(b.Min) }

// Extents returns the half edge lengths.
func (b AABB) Extents() geom.Vec3 { return b.Size().Scale(0.5) }

// Volume returns the enclosed volume.
func (b AABB) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// ContainsPoint reports whether p lies inside or on b.
func (b AABB) ContainsPoint(p geom.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Contains reports whether o lies entirely inside b.
func (b AABB) Contains(o AABB) bool {
	return b.ContainsPoint(o.Min) && b.ContainsPoint(o.Max)
}

// Intersects reports whether b and o overlap or touch.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// ClosestPoint clamps p into the box.
func (b AABB) ClosestPoint(p geom.Vec3) geom.Vec3 { return p.Max(b.Min).Min(b.Max) }

// IntersectsSphere reports whether s overlaps b.
func (b AABB) IntersectsSphere(s Sphere) bool {
	return b.ClosestPoint(s.Center).DistanceSquared(s.Center) <= s.Radius*s.Radius
}

// Corners returns the eight vertices, Min first and Max last.
func (b AABB) Corners() [8]geom.Vec3 {
	lo, hi := b.Min, b.Max
	return [8]geom.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
	}
}

// Transform returns the axis-aligned box around the eight corners of b
// mapped through m.
func (b AABB) Transform(m geom.Matrix4) AABB {
	c := b.Corners()
	out := AABB{Min: m.TransformPoint(c[0]), Max: m.TransformPoint(c[0])}
	for _, p := range c[1:] {
		out = out.Extend(m.TransformPoint(p))
	}
	return out
}

// Bounds returns b.
func (b AABB) Bounds() AABB { return b }

// IntersectSegment clips the segment p-q against the box using the slab
// method. It returns the first point of the segment inside the box, which
// is p itself when p is already inside.
func (b AABB) IntersectSegment(p, q geom.Vec3) (geom.Vec3, bool) {
	d := p.To(q)
	origin := [3]float64{p.X, p.Y, p.Z}
	dir := [3]float64{d.X, d.Y, d.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	tmin, tmax := 0.0, 1.0
	for i := range 3 {
		if math.Abs(dir[i]) < geom.Tolerance {
			// Parallel to this slab: miss unless already between its planes.
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return geom.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1, t2 := (lo[i]-origin[i])*inv, (hi[i]-origin[i])*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin, tmax = max(tmin, t1), min(tmax, t2)
		if tmin > tmax {
			return geom.Vec3{}, false
		}
	}
	return p.Add(d.Scale(tmin)), true
}

func (b AABB) String() string {
	return fmt.Sprintf("min: %v, max: %v", b.Min, b.Max)
}
