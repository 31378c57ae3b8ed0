package bounds

import (
	"fmt"
	"math"
	"slices"

	"github.com/chazu/gimbal/pkg/geom"
)

// Capsule is the set of points within Radius of the segment A-B.
type Capsule struct {
	A, B   geom.Vec3
	Radius float64
}

// NewCapsule returns the capsule around segment a-b.
func NewCapsule(a, b geom.Vec3, r float64) Capsule { return Capsule{A: a, B: b, Radius: r} }

// Height is the end-to-end length including both caps.
func (c Capsule) Height() float64 { return c.A.Distance(c.B) + 2*c.Radius }

// Axis returns B - A.
func (c Capsule) Axis() geom.Vec3 { return c.A.To(c.B) }

// ClosestPoint returns the point of segment A-B nearest to p.
func (c Capsule) ClosestPoint(p geom.Vec3) geom.Vec3 {
	ab := c.Axis()
	l2 := ab.LengthSquared()
	if l2 < geom.Tolerance {
		return c.A
	}
	return c.A.Add(ab.Scale(clamp01(c.A.To(p).Dot(ab) / l2)))
}

// IntersectsSphere reports whether the sphere overlaps c, measured from the
// sphere center to the exact closest point on the segment.
func (c Capsule) IntersectsSphere(s Sphere) bool {
	r := c.Radius + s.Radius
	return c.ClosestPoint(s.Center).DistanceSquared(s.Center) <= r*r
}

// IntersectsParallel tests two capsules whose axes are parallel. For
// parallel segments the minimum distance is always reached at an endpoint
// of one of them, so only the four endpoint-to-segment distances are
// checked. Non-parallel axes return ErrPrecondition; use Intersects.
func (c Capsule) IntersectsParallel(o Capsule) (bool, error) {
	d1, d2 := c.Axis(), o.Axis()
	if d1.Cross(d2).Length() > geom.Tolerance*max(1, d1.Length()*d2.Length()) {
		return false, fmt.Errorf("bounds: parallel capsule test on %v and %v: axes not parallel: %w", c, o, ErrPrecondition)
	}

	d := min(
		c.ClosestPoint(o.A).DistanceSquared(o.A),
		c.ClosestPoint(o.B).DistanceSquared(o.B),
		o.ClosestPoint(c.A).DistanceSquared(c.A),
		o.ClosestPoint(c.B).DistanceSquared(c.B),
	)
	r := c.Radius + o.Radius
	return d <= r*r, nil
}

// IntersectsCrossing tests two capsules whose axis lines cross within both
// segments, using the skew-line distance |a·(d1×d2)| / |d1×d2|. The
// comparison with the summed radii is inclusive, so capsules whose surfaces
// only touch intersect, matching the other tests in this package. Parallel
// axes, or lines whose closest approach falls outside either segment,
// return ErrPrecondition.
func (c Capsule) IntersectsCrossing(o Capsule) (bool, error) {
	d1, d2 := c.Axis(), o.Axis()
	n := d1.Cross(d2)
	nl := n.Length()
	if nl <= geom.Tolerance*max(1, d1.Length()*d2.Length()) {
		return false, fmt.Errorf("bounds: crossing capsule test on %v and %v: axes parallel: %w", c, o, ErrPrecondition)
	}

	s, t := lineParameters(c.A, d1, o.A, d2)
	const slack = 1e-9
	if s < -slack || s > 1+slack || t < -slack || t > 1+slack {
		return false, fmt.Errorf("bounds: crossing capsule test on %v and %v: lines meet outside segments: %w", c, o, ErrPrecondition)
	}

	dist := math.Abs(c.A.To(o.A).Dot(n)) / nl
	return dist <= c.Radius+o.Radius, nil
}

// Intersects is the general capsule test: the distance between the two
// segments compared with the summed radii.
func (c Capsule) Intersects(o Capsule) bool {
	p, q := closestSegmentPoints(c.A, c.B, o.A, o.B)
	r := c.Radius + o.Radius
	return p.DistanceSquared(q) <= r*r
}

// IntersectsBox reports whether b overlaps c. The squared distance from
// the segment to the box is piecewise quadratic in the segment parameter,
// with pieces split where a coordinate crosses a face plane; each piece is
// minimised in closed form.
func (c Capsule) IntersectsBox(b AABB) bool {
	a, d := c.A.Array(), c.Axis().Array()
	lo, hi := b.Min.Array(), b.Max.Array()

	ts := []float64{0, 1}
	for i := range 3 {
		if d[i] == 0 {
			continue
		}
		for _, plane := range [2]float64{lo[i], hi[i]} {
			if t := (plane - a[i]) / d[i]; t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	slices.Sort(ts)

	best := math.Inf(1)
	for k := 1; k < len(ts); k++ {
		t0, t1 := ts[k-1], ts[k]
		mid := (t0 + t1) / 2
		// On this piece each axis is either inside its slab or measured
		// against one fixed face.
		var num, den float64
		var face [3]float64
		var active [3]bool
		for i := range 3 {
			x := a[i] + mid*d[i]
			switch {
			case x < lo[i]:
				face[i], active[i] = lo[i], true
			case x > hi[i]:
				face[i], active[i] = hi[i], true
			default:
				continue
			}
			num += (a[i] - face[i]) * d[i]
			den += d[i] * d[i]
		}
		t := t0
		if den > 0 {
			t = min(t1, max(t0, -num/den))
		}
		var dist float64
		for i := range 3 {
			if active[i] {
				e := a[i] + t*d[i] - face[i]
				dist += e * e
			}
		}
		best = min(best, dist)
	}
	return best <= c.Radius*c.Radius
}

// Contains reports whether o lies entirely inside c. A capsule is convex,
// so it is enough that both end spheres of o fit.
func (c Capsule) Contains(o Capsule) bool {
	fits := func(p geom.Vec3) bool {
		r := c.Radius - o.Radius
		return r >= 0 && c.ClosestPoint(p).DistanceSquared(p) <= r*r
	}
	return fits(o.A) && fits(o.B)
}

// ContainsPoint reports whether p lies inside or on c.
func (c Capsule) ContainsPoint(p geom.Vec3) bool {
	return c.ClosestPoint(p).DistanceSquared(p) <= c.Radius*c.Radius
}

// Bounds returns the box around both end caps.
func (c Capsule) Bounds() AABB {
	r := geom.Vec3{X: c.Radius, Y: c.Radius, Z: c.Radius}
	return AABB{Min: c.A.Min(c.B).Sub(r), Max: c.A.Max(c.B).Add(r)}
}

// Transform maps c through m, growing the radius by the largest axis scale.
func (c Capsule) Transform(m geom.Matrix4) Capsule {
	return Capsule{A: m.TransformPoint(c.A), B: m.TransformPoint(c.B), Radius: c.Radius * maxScale(m)}
}

func (c Capsule) String() string {
	return fmt.Sprintf("r: %g, c1: %v, c2: %v", c.Radius, c.A, c.B)
}

// lineParameters returns s and t such that p1+s*d1 and p2+t*d2 are the
// closest points of the two infinite lines. The lines must not be parallel.
func lineParameters(p1, d1, p2, d2 geom.Vec3) (s, t float64) {
	r := p1.Sub(p2)
	a, b, e := d1.Dot(d1), d1.Dot(d2), d2.Dot(d2)
	c, f := d1.Dot(r), d2.Dot(r)
	denom := a*e - b*b
	return (b*f - c*e) / denom, (a*f - b*c) / denom
}

// closestSegmentPoints returns the closest pair of points between segments
// p1-q1 and p2-q2, handling degenerate (point) segments.
func closestSegmentPoints(p1, q1, p2, q2 geom.Vec3) (geom.Vec3, geom.Vec3) {
	d1, d2 := p1.To(q1), p2.To(q2)
	r := p1.Sub(p2)
	a, e, f := d1.Dot(d1), d2.Dot(d2), d2.Dot(r)

	var s, t float64
	switch {
	case a <= geom.Tolerance && e <= geom.Tolerance:
		return p1, p2
	case a <= geom.Tolerance:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= geom.Tolerance {
			s = clamp01(-c / a)
			break
		}
		b := d1.Dot(d2)
		if denom := a*e - b*b; denom > geom.Tolerance*a*e {
			s = clamp01((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		switch {
		case t < 0:
			t = 0
			s = clamp01(-c / a)
		case t > 1:
			t = 1
			s = clamp01((b - c) / a)
		}
	}
	return p1.Add(d1.Scale(s)), p2.Add(d2.Scale(t))
}
