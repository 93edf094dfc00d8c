package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EulerRotation builds a rotation matrix from Euler angles given in degrees.
// The rotation is applied around X first, then Y, then Z.
//
// Parameters:
//   - degrees: rotation around the X, Y and Z axes in degrees
//
// Returns:
//   - mgl32.Mat4: the homogeneous rotation matrix
func EulerRotation(degrees mgl32.Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(degrees[0]))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(degrees[1]))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees[2]))
	return rz.Mul4(ry).Mul4(rx)
}

// ComposeTRS builds a local transform from translation, rotation and scale matrices.
// Points are scaled, then rotated, then translated.
//
// Parameters:
//   - translation: the translation matrix
//   - rotation: the rotation matrix
//   - scale: the scale matrix
//
// Returns:
//   - mgl32.Mat4: translation * rotation * scale
func ComposeTRS(translation, rotation, scale mgl32.Mat4) mgl32.Mat4 {
	return translation.Mul4(rotation).Mul4(scale)
}

// TransformPoint maps a point through a matrix, including translation.
//
// Parameters:
//   - m: the transform
//   - p: the point
//
// Returns:
//   - mgl32.Vec3: the transformed point
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// MatrixTranslation returns the translation column of a transform.
func MatrixTranslation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// MatrixScale returns the length of each basis vector of a transform.
func MatrixScale(m mgl32.Mat4) mgl32.Vec3 {
	x, y, z := mgl32.Extract3DScale(m)
	return mgl32.Vec3{x, y, z}
}

// MatrixRotation extracts the rotation of a transform as a quaternion.
// The basis vectors are normalized first so scaled transforms decompose correctly.
// An axis with zero scale is left untouched.
//
// Parameters:
//   - m: the transform to decompose
//
// Returns:
//   - mgl32.Quat: the normalized rotation
func MatrixRotation(m mgl32.Mat4) mgl32.Quat {
	scale := MatrixScale(m)
	var r mgl32.Mat4
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3()
		if scale[c] != 0 {
			col = col.Mul(1 / scale[c])
		}
		r.SetCol(c, col.Vec4(0))
	}
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return mgl32.Mat4ToQuat(r).Normalize()
}
