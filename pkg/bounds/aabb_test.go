package bounds

import (
	"testing"

	"github.com/chazu/gimbal/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox() AABB { return AABB{Min: geom.Zero3, Max: geom.One3} }

func TestNewAABB(t *testing.T) {
	b, err := NewAABB(geom.Vec3{X: 1, Y: -2, Z: 3}, geom.Vec3{X: -1, Y: 4, Z: 0}, geom.Vec3{Z: 5})
	require.NoError(t, err)
	assert.Equal(t, geom.Vec3{X: -1, Y: -2, Z: 0}, b.Min)
	assert.Equal(t, geom.Vec3{X: 1, Y: 4, Z: 5}, b.Max)

	_, err = NewAABB()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestAABBMeasures(t *testing.T) {
	b := AABB{Min: geom.Vec3{X: -1, Y: 0, Z: 2}, Max: geom.Vec3{X: 3, Y: 2, Z: 3}}
	assert.Equal(t, geom.Vec3{X: 1, Y: 1, Z: 2.5}, b.Center())
	assert.Equal(t, geom.Vec3{X: 4, Y: 2, Z: 1}, b.Size())
	assert.Equal(t, geom.Vec3{X: 2, Y: 1, Z: 0.5}, b.Extents())
	assert.Equal(t, 8.0, b.Volume())
	assert.Equal(t, b, b.Bounds())

	c := b.Corners()
	assert.Equal(t, b.Min, c[0])
	assert.Equal(t, b.Max, c[7])
}

func TestAABBContainment(t *testing.T) {
	b := unitBox()
	assert.True(t, b.ContainsPoint(geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}))
	assert.True(t, b.ContainsPoint(geom.One3), "surface is inside")
	assert.False(t, b.ContainsPoint(geom.Vec3{X: 1.1}))

	assert.True(t, b.Contains(AABB{Min: geom.Vec3{X: 0.2, Y: 0.2, Z: 0.2}, Max: geom.Vec3{X: 0.8, Y: 1, Z: 0.5}}))
	assert.False(t, b.Contains(AABB{Min: geom.Vec3{X: 0.2}, Max: geom.Vec3{X: 1.2, Y: 1, Z: 1}}))
}

func TestAABBIntersects(t *testing.T) {
	b := unitBox()
	tests := []struct {
		name string
		o    AABB
		want bool
	}{
		{"overlap", AABB{Min: geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, Max: geom.Vec3{X: 2, Y: 2, Z: 2}}, true},
		{"touching face", AABB{Min: geom.Vec3{X: 1}, Max: geom.Vec3{X: 2, Y: 1, Z: 1}}, true},
		{"apart on z", AABB{Min: geom.Vec3{Z: 1.5}, Max: geom.Vec3{X: 1, Y: 1, Z: 2}}, false},
		{"inside", AABB{Min: geom.Vec3{X: 0.4, Y: 0.4, Z: 0.4}, Max: geom.Vec3{X: 0.6, Y: 0.6, Z: 0.6}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Intersects(tt.o))
			assert.Equal(t, tt.want, tt.o.Intersects(b))
		})
	}
}

func TestAABBUnionExtend(t *testing.T) {
	b := unitBox().Extend(geom.Vec3{X: -1, Y: 0.5, Z: 4})
	assert.Equal(t, AABB{Min: geom.Vec3{X: -1}, Max: geom.Vec3{X: 1, Y: 1, Z: 4}}, b)

	u := unitBox().Union(AABB{Min: geom.Vec3{X: 2, Y: 2, Z: 2}, Max: geom.Vec3{X: 3, Y: 3, Z: 3}})
	assert.Equal(t, AABB{Min: geom.Zero3, Max: geom.Vec3{X: 3, Y: 3, Z: 3}}, u)
}

func TestAABBTransform(t *testing.T) {
	m := geom.TRS(geom.Translation(geom.Vec3{X: 5}), geom.RotationZ(90), geom.Scale(geom.Vec3{X: 2, Y: 1, Z: 1}))
	got := unitBox().Transform(m)
	// X extent 2 turns onto Y, Y extent 1 onto -X.
	assert.True(t, got.Min.ApproxEqual(geom.Vec3{X: 4}, tol), "min %v", got.Min)
	assert.True(t, got.Max.ApproxEqual(geom.Vec3{X: 5, Y: 2, Z: 1}, tol), "max %v", got.Max)

	rot := unitBox().Transform(geom.RotationZ(45))
	assert.InDelta(t, 1.41421356, rot.Size().X, 1e-6, "refit grows under rotation")
}

func TestAABBIntersectSegment(t *testing.T) {
	b := unitBox()
	tests := []struct {
		name   string
		p, q   geom.Vec3
		hit    bool
		expect geom.Vec3
	}{
		{"through x", geom.Vec3{X: -1, Y: 0.5, Z: 0.5}, geom.Vec3{X: 2, Y: 0.5, Z: 0.5}, true, geom.Vec3{Y: 0.5, Z: 0.5}},
		{"reverse", geom.Vec3{X: 2, Y: 0.5, Z: 0.5}, geom.Vec3{X: -1, Y: 0.5, Z: 0.5}, true, geom.Vec3{X: 1, Y: 0.5, Z: 0.5}},
		{"diagonal", geom.Vec3{X: -1, Y: -1, Z: -1}, geom.Vec3{X: 2, Y: 2, Z: 2}, true, geom.Zero3},
		{"starts inside", geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, geom.Vec3{X: 5}, true, geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
		{"misses above", geom.Vec3{X: -1, Y: 2}, geom.Vec3{X: 2, Y: 2}, false, geom.Vec3{}},
		{"stops short", geom.Vec3{X: -3, Y: 0.5, Z: 0.5}, geom.Vec3{X: -1, Y: 0.5, Z: 0.5}, false, geom.Vec3{}},
		{"parallel outside slab", geom.Vec3{X: -1, Y: 0.5, Z: 1.5}, geom.Vec3{X: 2, Y: 0.5, Z: 1.5}, false, geom.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.IntersectSegment(tt.p, tt.q)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.True(t, got.ApproxEqual(tt.expect, tol), "entry %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestAABBIntersectsSphere(t *testing.T) {
	b := unitBox()
	assert.True(t, b.IntersectsSphere(NewSphere(geom.Vec3{X: 1.5, Y: 0.5, Z: 0.5}, 0.5)))
	assert.False(t, b.IntersectsSphere(NewSphere(geom.Vec3{X: 1.6, Y: 0.5, Z: 0.5}, 0.5)))
	assert.Equal(t, geom.Vec3{X: 1, Y: 0.5}, b.ClosestPoint(geom.Vec3{X: 3, Y: 0.5, Z: -2}))
}

func TestAABBString(t *testing.T) {
	assert.Equal(t, "min: (0, 0, 0), max: (1, 1, 1)", unitBox().String())
}
