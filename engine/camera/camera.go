package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Projection selects how a SceneCamera maps view space to clip space.
type Projection int

const (
	// Perspective uses a vertical field of view in degrees.
	Perspective Projection = iota
	// Orthographic uses a view volume of fixed height.
	Orthographic
)

// SceneCamera is an actor that renders the scene: it lives in the scene graph, so it follows
// parents like any other actor, and it implements scene.Camera for the render passes.
//
// The embedded Actor's Position field is shadowed by the Position method; set the local
// position through c.Actor.Position or TranslateWS.
type SceneCamera struct {
	*scene.Actor

	mu *sync.Mutex

	target     mgl32.Vec3
	up         mgl32.Vec3
	projection Projection

	fovY   float32 // degrees, perspective only
	height float32 // orthographic only
	aspect float32
	near   float32
	far    float32

	controller Controller
}

var _ scene.Camera = &SceneCamera{}

// NewSceneCamera creates a camera actor attached under the scene root.
// With a controller the camera follows the controller position and target on every Update.
//
// Parameters:
//   - s: the scene the camera belongs to
//   - name: the node name
//   - options: functional options to configure the camera
//
// Returns:
//   - *SceneCamera: the camera
func NewSceneCamera(s scene.Scene, name string, options ...CameraBuilderOption) *SceneCamera {
	if s == nil {
		panic("camera: NewSceneCamera requires a non-nil Scene")
	}
	c := &SceneCamera{
		Actor:      s.NewActor(name),
		mu:         &sync.Mutex{},
		up:         mgl32.Vec3{0, 1, 0},
		projection: Perspective,
		fovY:       45,
		height:     50,
		aspect:     16.0 / 9.0,
		near:       0.1,
		far:        1000,
	}
	for _, opt := range options {
		opt(c)
	}
	c.Actor.SetPreUpdate(c.follow)
	return c
}

// follow moves the actor onto the controller before the actor recomputes its transforms.
func (c *SceneCamera) follow(a *scene.Actor, _ float32) {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()
	if ctrl == nil {
		return
	}
	p := ctrl.Position()
	a.TranslateWS(p[0], p[1], p[2])
	c.SetTarget(ctrl.Target())
}

// MoveTo places the camera at a world position and refreshes its transforms immediately,
// so the view matrix is valid before the next scene Update.
//
// Parameters:
//   - p: the world position
func (c *SceneCamera) MoveTo(p mgl32.Vec3) {
	c.TranslateWS(p[0], p[1], p[2])
	c.Actor.Update(0)
}

func (c *SceneCamera) Position() mgl32.Vec3 {
	return c.WorldPosition()
}

func (c *SceneCamera) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	target, up := c.target, c.up
	c.mu.Unlock()
	eye := c.WorldPosition()
	if eye.Sub(target).LenSqr() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.LookAtV(eye, target, up)
}

func (c *SceneCamera) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projection == Orthographic {
		halfH := c.height / 2
		halfW := halfH * c.aspect
		return mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.near, c.far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.fovY), c.aspect, c.near, c.far)
}

// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
func (c *SceneCamera) ViewProjectionMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Target returns the look-at point.
func (c *SceneCamera) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// SetTarget sets the look-at point.
func (c *SceneCamera) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

// Up returns the up vector.
func (c *SceneCamera) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

// SetUp sets the up vector.
func (c *SceneCamera) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
}

// Projection returns the projection kind.
func (c *SceneCamera) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

// SetProjection switches between perspective and orthographic projection.
//
// Parameters:
//   - p: the projection kind
//   - size: the vertical field of view in degrees for Perspective, or the view height for Orthographic
func (c *SceneCamera) SetProjection(p Projection, size float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	if p == Orthographic {
		c.height = size
	} else {
		c.fovY = size
	}
}

// FovY returns the vertical field of view in degrees.
func (c *SceneCamera) FovY() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovY
}

// SetFovY sets the vertical field of view in degrees.
func (c *SceneCamera) SetFovY(deg float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fovY = deg
}

// OrthoHeight returns the orthographic view height.
func (c *SceneCamera) OrthoHeight() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Aspect returns the aspect ratio (width / height).
func (c *SceneCamera) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

// SetAspect sets the aspect ratio (width / height).
func (c *SceneCamera) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

// ClipPlanes returns the near and far plane distances.
func (c *SceneCamera) ClipPlanes() (near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near, c.far
}

// Controller returns the attached controller, or nil.
func (c *SceneCamera) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

// SetController attaches a controller; nil detaches it and leaves the camera where it is.
func (c *SceneCamera) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}
