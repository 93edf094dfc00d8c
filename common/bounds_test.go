package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestIsBoundingBoxValid(t *testing.T) {
	cases := []struct {
		name string
		box  BoundingBox
		want bool
	}{
		{"zero box", BoundingBox{}, false},
		{"point box", BoundingBox{Min: mgl32.Vec3{1, 2, 3}, Max: mgl32.Vec3{1, 2, 3}}, false},
		{"unit box", BoxFromSize(mgl32.Vec3{1, 1, 1}), true},
		{"flat quad", NewBoundingBox(mgl32.Vec3{-5, 0, -5}, mgl32.Vec3{5, 0, 5}), true},
		{"inverted", BoundingBox{Min: mgl32.Vec3{1, 0, 0}, Max: mgl32.Vec3{0, 1, 1}}, false},
		{"nan", BoundingBox{Min: mgl32.Vec3{math32.NaN(), 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, false},
		{"inf", BoundingBox{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{math32.Inf(1), 1, 1}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsBoundingBoxValid(tc.box))
		})
	}
}

func TestPointToBoxDistanceSqr(t *testing.T) {
	box := NewBoundingBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	assert.Equal(t, float32(0), PointToBoxDistanceSqr(mgl32.Vec3{0, 0, 0}, box), "inside")
	assert.Equal(t, float32(0), PointToBoxDistanceSqr(mgl32.Vec3{1, 0, -1}, box), "on surface")
	assert.InDelta(t, 9, PointToBoxDistanceSqr(mgl32.Vec3{4, 0, 0}, box), 1e-5, "face")
	assert.InDelta(t, 3, PointToBoxDistanceSqr(mgl32.Vec3{2, -2, 2}, box), 1e-5, "corner")
}

func TestUnion(t *testing.T) {
	a := NewBoundingBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	b := NewBoundingBox(mgl32.Vec3{-2, 0.5, 0}, mgl32.Vec3{0.5, 3, 0.5})

	u := Union(a, b)
	assert.Equal(t, mgl32.Vec3{-2, 0, 0}, u.Min)
	assert.Equal(t, mgl32.Vec3{1, 3, 1}, u.Max)
}

func TestNewBoundingBoxOrdersCorners(t *testing.T) {
	b := NewBoundingBox(mgl32.Vec3{1, -1, 4}, mgl32.Vec3{-1, 1, 2})
	assert.Equal(t, mgl32.Vec3{-1, -1, 2}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 4}, b.Max)
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, b.Center())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, b.Extents())
}

func TestTransformBox(t *testing.T) {
	box := BoxFromSize(mgl32.Vec3{2, 2, 2})

	moved := TransformBox(box, mgl32.Translate3D(10, 0, 0))
	assertVecNear(t, mgl32.Vec3{9, -1, -1}, moved.Min, 1e-5)
	assertVecNear(t, mgl32.Vec3{11, 1, 1}, moved.Max, 1e-5)

	// A 45 degree turn around Y widens the box to the rotated corners.
	rotated := TransformBox(box, mgl32.HomogRotate3DY(mgl32.DegToRad(45)))
	r := math32.Sqrt(2)
	assert.InDelta(t, -r, rotated.Min[0], 1e-5)
	assert.InDelta(t, r, rotated.Max[0], 1e-5)
	assert.InDelta(t, -1, rotated.Min[1], 1e-5)
	assert.InDelta(t, 1, rotated.Max[1], 1e-5)
}

func TestDistanceSqr(t *testing.T) {
	assert.InDelta(t, 25, DistanceSqr(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{3, 4, 0}), 1e-5)
}
