// Package tessellate walks a tree of placed bounding volumes and produces
// triangle meshes using a geometry kernel. One mesh is produced per volume,
// alongside the volume's analytic world bounds so the two can be compared.
package tessellate

import (
	"fmt"

	"github.com/chazu/gimbal/pkg/bounds"
	"github.com/chazu/gimbal/pkg/geom"
	"github.com/chazu/gimbal/pkg/kernel"
)

// Node is one level of a scene: an optional volume placed by the
// accumulated transforms of its ancestors and its own.
type Node struct {
	Name      string
	Transform geom.Transform
	Volume    bounds.Volume // nil for pure grouping nodes
	Children  []*Node
}

// Part is the output for one volume.
type Part struct {
	Name   string
	Mesh   *kernel.Mesh
	Bounds bounds.AABB // analytic world bounds of the volume
}

// walker carries the transform chain during traversal. The stack yields the
// world matrix for analytic bounds; the chain is replayed on the kernel
// solid, since nested non-uniform scales do not reduce to one Transform.
type walker struct {
	k     kernel.Kernel
	stack geom.Stack
	chain []geom.Transform
}

// Tessellate walks the scene rooted at each root and meshes every volume
// with k. A nil root is skipped.
func Tessellate(k kernel.Kernel, roots ...*Node) ([]Part, error) {
	w := &walker{k: k}
	var parts []Part
	for _, root := range roots {
		if root == nil {
			continue
		}
		collected, err := w.walk(root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// walk pushes the node transform, emits its volume, recurses, then pops.
func (w *walker) walk(n *Node) ([]Part, error) {
	if err := w.stack.Push(n.Transform); err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}
	w.chain = append(w.chain, n.Transform)
	defer func() {
		w.stack.Pop()
		w.chain = w.chain[:len(w.chain)-1]
	}()

	var parts []Part
	if n.Volume != nil {
		p, err := w.part(n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	for _, child := range n.Children {
		collected, err := w.walk(child)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// part builds, places and meshes the solid for n.Volume.
func (w *walker) part(n *Node) (Part, error) {
	solid, err := w.solid(n.Volume)
	if err != nil {
		return Part{}, fmt.Errorf("node %q: %w", n.Name, err)
	}
	// Innermost transform first.
	for i := len(w.chain) - 1; i >= 0; i-- {
		solid = w.k.Transform(solid, w.chain[i])
	}

	mesh, err := w.k.ToMesh(solid)
	if err != nil {
		return Part{}, fmt.Errorf("node %q: mesh: %w", n.Name, err)
	}
	mesh.PartName = n.Name
	return Part{Name: n.Name, Mesh: mesh, Bounds: worldBounds(n.Volume, w.stack.World())}, nil
}

// solid creates the kernel primitive for v in its own local frame.
func (w *walker) solid(v bounds.Volume) (kernel.Solid, error) {
	switch v := v.(type) {
	case bounds.Sphere:
		s, err := w.k.Sphere(v.Radius)
		if err != nil {
			return nil, err
		}
		return w.k.Transform(s, translate(v.Center)), nil
	case bounds.Capsule:
		return w.k.Capsule(v)
	case bounds.AABB:
		return w.box(v)
	case bounds.OrientedBox:
		s, err := w.box(v.Local)
		if err != nil {
			return nil, err
		}
		return w.k.Transform(s, v.Transform), nil
	}
	return nil, fmt.Errorf("unsupported volume %T", v)
}

func (w *walker) box(b bounds.AABB) (kernel.Solid, error) {
	s, err := w.k.Box(b.Size())
	if err != nil {
		return nil, err
	}
	return w.k.Transform(s, translate(b.Min)), nil
}

func translate(v geom.Vec3) geom.Transform {
	t := geom.IdentityTransform()
	t.Translation = v
	return t
}

// worldBounds places v with m. Round volumes keep their shape so the result
// is tighter than refitting v.Bounds().
func worldBounds(v bounds.Volume, m geom.Matrix4) bounds.AABB {
	switch v := v.(type) {
	case bounds.Sphere:
		return v.Transform(m).Bounds()
	case bounds.Capsule:
		return v.Transform(m).Bounds()
	case bounds.OrientedBox:
		return v.Local.Transform(m.Mul(v.Transform.Matrix()))
	}
	return v.Bounds().Transform(m)
}
