package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a SceneCamera.
type CameraBuilderOption func(*SceneCamera)

// WithPerspective selects a perspective projection.
//
// Parameters:
//   - fovY: vertical field of view in degrees
//   - aspect: the aspect ratio (width / height)
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithPerspective(fovY, aspect float32) CameraBuilderOption {
	return func(c *SceneCamera) {
		c.projection = Perspective
		c.fovY = fovY
		c.aspect = aspect
	}
}

// WithOrthographic selects an orthographic projection.
//
// Parameters:
//   - height: the height of the view volume
//   - aspect: the aspect ratio (width / height)
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithOrthographic(height, aspect float32) CameraBuilderOption {
	return func(c *SceneCamera) {
		c.projection = Orthographic
		c.height = height
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *SceneCamera) {
		c.near = near
		c.far = far
	}
}

// WithPosition sets the initial local position of the camera actor.
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *SceneCamera) {
		c.Actor.Position = p
	}
}

// WithTarget sets the look-at point.
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *SceneCamera) {
		c.target = target
	}
}

// WithUp sets the up vector.
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *SceneCamera) {
		c.up = up
	}
}

// WithController attaches an orbit controller the camera follows.
func WithController(ctrl Controller) CameraBuilderOption {
	return func(c *SceneCamera) {
		c.controller = ctrl
	}
}
