package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: n·p + d = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the signed distance from the plane to a point.
// Positive values are on the side the normal points to.
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// Frustum represents the six planes of a view volume.
// Planes are oriented so that the positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum extracts the frustum planes of a combined projection * view matrix.
// Uses the Gribb/Hartmann method: each plane is the last matrix row plus or minus one of
// the other rows.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Rows()
	rows := [6]mgl32.Vec4{
		FrustumLeft:   r3.Add(r0),
		FrustumRight:  r3.Sub(r0),
		FrustumBottom: r3.Add(r1),
		FrustumTop:    r3.Sub(r1),
		FrustumNear:   r3.Add(r2),
		FrustumFar:    r3.Sub(r2),
	}

	var f Frustum
	for i, r := range rows {
		p := Plane{Normal: r.Vec3(), Distance: r[3]}
		if l := p.Normal.Len(); l > 0 {
			p.Normal = p.Normal.Mul(1 / l)
			p.Distance /= l
		}
		f.Planes[i] = p
	}
	return f
}

// ContainsPoint reports whether a point is inside or on every plane of the frustum.
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether an axis-aligned box is at least partially inside the frustum.
// For every plane the box corner furthest along the plane normal is tested; if that corner is
// outside, the whole box is. The test is conservative and may accept boxes near frustum edges.
//
// Parameters:
//   - b: the world-space box
//
// Returns:
//   - bool: false only if the box is fully outside one of the planes
func (f Frustum) IntersectsBox(b BoundingBox) bool {
	for _, pl := range f.Planes {
		var positive mgl32.Vec3
		for i := 0; i < 3; i++ {
			if pl.Normal[i] >= 0 {
				positive[i] = b.Max[i]
			} else {
				positive[i] = b.Min[i]
			}
		}
		if pl.SignedDistance(positive) < 0 {
			return false
		}
	}
	return true
}
