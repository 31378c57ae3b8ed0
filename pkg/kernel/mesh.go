package kernel

import (
	"fmt"

	"github.com/chazu/gimbal/pkg/bounds"
	"github.com/chazu/gimbal/pkg/geom"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // label of the solid this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Points returns the vertices as geom vectors.
func (m *Mesh) Points() []geom.Vec3 {
	pts := make([]geom.Vec3, 0, m.VertexCount())
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		pts = append(pts, geom.Vec3{
			X: float64(m.Vertices[i]),
			Y: float64(m.Vertices[i+1]),
			Z: float64(m.Vertices[i+2]),
		})
	}
	return pts
}

// Bounds returns the box around all vertices. An empty mesh has none.
func (m *Mesh) Bounds() (bounds.AABB, error) {
	b, err := bounds.NewAABB(m.Points()...)
	if err != nil {
		return bounds.AABB{}, fmt.Errorf("kernel: mesh %q bounds: %w", m.PartName, err)
	}
	return b, nil
}
