package bounds

import (
	"fmt"

	"github.com/chazu/gimbal/pkg/geom"
)

// OrientedBox is a box defined in local space and placed in the world by
// a transform. Queries are answered by moving the query into local space.
type OrientedBox struct {
	Local     AABB
	Transform geom.Transform
}

// Bounds returns the world-space axis-aligned box around o.
func (o OrientedBox) Bounds() AABB { return o.Local.Transform(o.Transform.Matrix()) }

// ContainsPoint reports whether the world point p lies inside o. A
// transform with zero scale contains nothing.
func (o OrientedBox) ContainsPoint(p geom.Vec3) bool {
	lp, err := o.Transform.InverseTransformPoint(p)
	if err != nil {
		return false
	}
	return o.Local.ContainsPoint(lp)
}

// IntersectSegment maps the world segment p-q into local space with the
// inverse transform, clips it against the local box and returns the entry
// point mapped back to world space.
func (o OrientedBox) IntersectSegment(p, q geom.Vec3) (geom.Vec3, bool, error) {
	inv, err := o.Transform.InverseMatrix()
	if err != nil {
		return geom.Vec3{}, false, fmt.Errorf("bounds: oriented box segment test: %w", err)
	}
	hit, ok := o.Local.IntersectSegment(inv.TransformPoint(p), inv.TransformPoint(q))
	if !ok {
		return geom.Vec3{}, false, nil
	}
	return o.Transform.TransformPoint(hit), true, nil
}

func (o OrientedBox) String() string {
	return fmt.Sprintf("local: %v, transform: %v", o.Local, o.Transform)
}
