package scene

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Actor is a scene node with a local transform. Its world transform composes the local
// transform with the world transform of the nearest ancestor that is itself spatial, and its
// world bounding box encloses all attached components.
//
// Position, Rotation (Euler degrees) and Scale are read on the next Update.
type Actor struct {
	*Object

	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	matTranslation mgl32.Mat4
	matRotation    mgl32.Mat4
	matScale       mgl32.Mat4
	matLocal       mgl32.Mat4
	matWorld       mgl32.Mat4

	worldBox common.BoundingBox

	preUpdate func(a *Actor, dt float32)
}

var (
	_ Node    = &Actor{}
	_ Spatial = &Actor{}
)

func newActor(s Scene, name string) *Actor {
	a := &Actor{
		Object:         newObject(s, name),
		Scale:          mgl32.Vec3{1, 1, 1},
		matTranslation: mgl32.Ident4(),
		matRotation:    mgl32.Ident4(),
		matScale:       mgl32.Ident4(),
		matLocal:       mgl32.Ident4(),
		matWorld:       mgl32.Ident4(),
	}
	a.self = a
	return a
}

// Update recomputes the transforms from Position, Rotation and Scale, then updates the
// components, refreshes the world bounding box and finally updates the children, so
// children always compose against this frame's world transform.
func (a *Actor) Update(dt float32) bool {
	if !a.live() {
		return false
	}
	if a.preUpdate != nil {
		a.preUpdate(a, dt)
	}

	a.matTranslation = mgl32.Translate3D(a.Position[0], a.Position[1], a.Position[2])
	a.matRotation = common.EulerRotation(a.Rotation)
	a.matScale = mgl32.Scale3D(a.Scale[0], a.Scale[1], a.Scale[2])
	a.matLocal = common.ComposeTRS(a.matTranslation, a.matRotation, a.matScale)

	a.matWorld = a.matLocal
	if parent := nearestSpatialAncestor(a); parent != nil {
		a.matWorld = parent.WorldTransform().Mul4(a.matLocal)
	}

	a.updateComponents(dt)
	a.updateWorldBoundingBox()
	a.updateChildren(dt)
	return true
}

// updateWorldBoundingBox unions the local boxes of all components in kind order and maps the
// union into world space. An actor without components gets the zero box.
func (a *Actor) updateWorldBoundingBox() {
	if len(a.kinds) == 0 {
		a.worldBox = common.BoundingBox{}
		return
	}
	local := a.components[a.kinds[0]].LocalBoundingBox()
	for _, k := range a.kinds[1:] {
		local = common.Union(local, a.components[k].LocalBoundingBox())
	}
	a.worldBox = common.TransformBox(local, a.matWorld)
}

// SetPreUpdate installs a hook that runs at the start of every Update, before the transforms
// are recomputed. Wrappers such as cameras use it to move the actor from their own state.
//
// Parameters:
//   - fn: the hook, nil to remove it
func (a *Actor) SetPreUpdate(fn func(a *Actor, dt float32)) {
	a.preUpdate = fn
}

// TranslateWS sets Position so the actor lands on the given world position at its next Update.
// The point is mapped into the space of the nearest spatial ancestor using the ancestor's
// current world transform; without one, the point is used as is.
//
// Parameters:
//   - x, y, z: the target world position
func (a *Actor) TranslateWS(x, y, z float32) {
	target := mgl32.Vec3{x, y, z}
	if parent := nearestSpatialAncestor(a); parent != nil {
		target = common.TransformPoint(parent.WorldTransform().Inv(), target)
	}
	a.Position = target
}

func (a *Actor) Spatial() Spatial {
	return a
}

func (a *Actor) WorldTransform() mgl32.Mat4 {
	return a.matWorld
}

func (a *Actor) WorldPosition() mgl32.Vec3 {
	return common.MatrixTranslation(a.matWorld)
}

func (a *Actor) WorldBoundingBox() common.BoundingBox {
	return a.worldBox
}

// WorldRotation returns the rotation part of the world transform.
func (a *Actor) WorldRotation() mgl32.Quat {
	return common.MatrixRotation(a.matWorld)
}

// WorldScale returns the length of each world basis vector.
func (a *Actor) WorldScale() mgl32.Vec3 {
	return common.MatrixScale(a.matWorld)
}

// LocalTransform returns the local matrix computed by the last Update.
func (a *Actor) LocalTransform() mgl32.Mat4 {
	return a.matLocal
}

// TranslationMatrix returns the translation matrix computed by the last Update.
func (a *Actor) TranslationMatrix() mgl32.Mat4 {
	return a.matTranslation
}

// RotationMatrix returns the rotation matrix computed by the last Update.
func (a *Actor) RotationMatrix() mgl32.Mat4 {
	return a.matRotation
}

// ScaleMatrix returns the scale matrix computed by the last Update.
func (a *Actor) ScaleMatrix() mgl32.Mat4 {
	return a.matScale
}
