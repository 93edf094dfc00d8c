package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box described by its minimum and maximum corners.
// The zero value is an empty box and is reported invalid by IsBoundingBoxValid.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewBoundingBox creates a BoundingBox from two opposite corners.
// The corners are reordered per axis so Min <= Max always holds.
//
// Parameters:
//   - a: the first corner
//   - b: the opposite corner
//
// Returns:
//   - BoundingBox: the box spanning both corners
func NewBoundingBox(a, b mgl32.Vec3) BoundingBox {
	return BoundingBox{
		Min: mgl32.Vec3{math32.Min(a[0], b[0]), math32.Min(a[1], b[1]), math32.Min(a[2], b[2])},
		Max: mgl32.Vec3{math32.Max(a[0], b[0]), math32.Max(a[1], b[1]), math32.Max(a[2], b[2])},
	}
}

// BoxFromSize creates a box centered on the origin with the given full size per axis.
//
// Parameters:
//   - size: the full width, height and depth of the box
//
// Returns:
//   - BoundingBox: the centered box
func BoxFromSize(size mgl32.Vec3) BoundingBox {
	half := size.Mul(0.5)
	return NewBoundingBox(half.Mul(-1), half)
}

// Union returns the smallest box enclosing both boxes.
// No validity check is done on either operand.
//
// Parameters:
//   - a: the first box
//   - b: the second box
//
// Returns:
//   - BoundingBox: the componentwise min/max of both boxes
func Union(a, b BoundingBox) BoundingBox {
	return BoundingBox{
		Min: mgl32.Vec3{math32.Min(a.Min[0], b.Min[0]), math32.Min(a.Min[1], b.Min[1]), math32.Min(a.Min[2], b.Min[2])},
		Max: mgl32.Vec3{math32.Max(a.Max[0], b.Max[0]), math32.Max(a.Max[1], b.Max[1]), math32.Max(a.Max[2], b.Max[2])},
	}
}

// IsBoundingBoxValid reports whether the box can be used as a distance target.
// A box is invalid when any coordinate is NaN or infinite, when any axis is inverted,
// or when it has no extent on every axis (the zero box included). A flat box with a
// single zero-length axis is still valid.
//
// Parameters:
//   - b: the box to check
//
// Returns:
//   - bool: true if the box is usable
func IsBoundingBoxValid(b BoundingBox) bool {
	degenerate := 0
	for i := 0; i < 3; i++ {
		if !isFinite(b.Min[i]) || !isFinite(b.Max[i]) {
			return false
		}
		ext := b.Max[i] - b.Min[i]
		if ext < 0 {
			return false
		}
		if ext == 0 {
			degenerate++
		}
	}
	return degenerate < 3
}

// PointToBoxDistanceSqr returns the squared distance from a point to the closest point of a box.
// The result is zero when the point lies inside or on the box.
//
// Parameters:
//   - p: the query point
//   - b: the box
//
// Returns:
//   - float32: the squared distance
func PointToBoxDistanceSqr(p mgl32.Vec3, b BoundingBox) float32 {
	var d2 float32
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			d := b.Min[i] - p[i]
			d2 += d * d
		} else if p[i] > b.Max[i] {
			d := p[i] - b.Max[i]
			d2 += d * d
		}
	}
	return d2
}

// DistanceSqr returns the squared distance between two points.
//
// Parameters:
//   - a: the first point
//   - b: the second point
//
// Returns:
//   - float32: the squared distance
func DistanceSqr(a, b mgl32.Vec3) float32 {
	return a.Sub(b).LenSqr()
}

// Corners returns the eight corners of the box.
func (b BoundingBox) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the full size of the box per axis.
func (b BoundingBox) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// TransformBox maps a box through a matrix and returns the axis-aligned box enclosing the result.
// All eight corners are transformed and the min/max of the transformed points is taken, so
// rotated boxes grow to stay conservative.
//
// Parameters:
//   - b: the box in its source space
//   - m: the transform to apply
//
// Returns:
//   - BoundingBox: the enclosing box in the target space
func TransformBox(b BoundingBox, m mgl32.Mat4) BoundingBox {
	corners := b.Corners()
	first := TransformPoint(m, corners[0])
	out := BoundingBox{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := TransformPoint(m, c)
		for i := 0; i < 3; i++ {
			out.Min[i] = math32.Min(out.Min[i], p[i])
			out.Max[i] = math32.Max(out.Max[i], p[i])
		}
	}
	return out
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
