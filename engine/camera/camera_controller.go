package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// controller is the implementation of the Controller interface.
// Orbit methods modify the spherical coordinates and recompute the position; pan methods
// translate both position and target along the camera's local axes, preserving the orbit.
type controller struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32 // around Y, radians
	elevation float32 // from the horizontal plane, radians

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed float32
	zoomSpeed  float32
	panSpeed   float32
}

// Controller owns the position and target of an orbiting camera.
// A SceneCamera with a controller moves its actor to the controller position on every Update
// and looks at the controller target.
type Controller interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: the orbit pivot
	Target() mgl32.Vec3

	// SetTarget moves the pivot and recomputes the position from the spherical coordinates.
	//
	// Parameters:
	//   - target: the new pivot
	SetTarget(target mgl32.Vec3)

	// Zoom changes the orbit radius. Positive delta moves toward the target.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Orbit rotates around the target by a number of orbit steps on each axis.
	// The elevation is clamped to its bounds.
	//
	// Parameters:
	//   - azimuthSteps: horizontal steps, positive to the right
	//   - elevationSteps: vertical steps, positive upward
	Orbit(azimuthSteps, elevationSteps float32)

	// Radius returns the distance from the target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// SetRadius sets the orbit radius, clamped to its bounds.
	//
	// Parameters:
	//   - radius: the new radius
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis in radians.
	//
	// Returns:
	//   - float32: the azimuth
	Azimuth() float32

	// SetAzimuth sets the horizontal angle in radians.
	//
	// Parameters:
	//   - azimuth: the new azimuth
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle from the horizontal plane in radians.
	//
	// Returns:
	//   - float32: the elevation
	Elevation() float32

	// SetElevation sets the vertical angle in radians, clamped to its bounds.
	//
	// Parameters:
	//   - elevation: the new elevation
	SetElevation(elevation float32)

	// PanRight translates position and target along the local right axis.
	//
	// Parameters:
	//   - delta: pan amount scaled by the pan speed
	PanRight(delta float32)

	// PanUp translates position and target along the local up axis.
	//
	// Parameters:
	//   - delta: pan amount scaled by the pan speed
	PanUp(delta float32)

	// PanForward translates position and target toward the target.
	//
	// Parameters:
	//   - delta: pan amount scaled by the pan speed
	PanForward(delta float32)

	// Poll applies held keys for one frame: arrows orbit, W/S dolly, A/D pan and Q/E zoom.
	// Steps are scaled by dt*60 so speeds are per frame at 60 FPS.
	//
	// Parameters:
	//   - keys: the key state source
	//   - dt: elapsed seconds since the last frame
	Poll(keys common.KeyPoller, dt float32)
}

var _ Controller = &controller{}

// NewController creates an orbit controller looking at the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the controller
func NewController(options ...ControllerOption) Controller {
	c := &controller{
		mu:           &sync.Mutex{},
		radius:       30,
		elevation:    math32.Pi / 6,
		minRadius:    2,
		maxRadius:    500,
		minElevation: 0.05,
		maxElevation: math32.Pi/2 - 0.1,
		orbitSpeed:   0.03,
		zoomSpeed:    1,
		panSpeed:     0.5,
	}
	for _, opt := range options {
		opt(c)
	}
	c.radius = common.Clamp(c.radius, c.minRadius, c.maxRadius)
	c.elevation = common.Clamp(c.elevation, c.minElevation, c.maxElevation)
	c.updatePosition()
	return c
}

// updatePosition recomputes the position from the spherical coordinates. Caller holds the mutex.
func (c *controller) updatePosition() {
	cosElev, sinElev := math32.Cos(c.elevation), math32.Sin(c.elevation)
	cosAzim, sinAzim := math32.Cos(c.azimuth), math32.Sin(c.azimuth)
	c.position = c.target.Add(mgl32.Vec3{
		c.radius * cosElev * sinAzim,
		c.radius * sinElev,
		c.radius * cosElev * cosAzim,
	})
}

// localAxes returns the right, up and forward axes matching mgl32.LookAtV with a +Y world up.
// All three are zero when position and target coincide. Caller holds the mutex.
func (c *controller) localAxes() (right, up, forward mgl32.Vec3) {
	back := c.position.Sub(c.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	up = back.Cross(right)
	forward = back.Mul(-1)
	return
}

func (c *controller) pan(axis mgl32.Vec3, delta float32) {
	offset := axis.Mul(delta * c.panSpeed)
	c.target = c.target.Add(offset)
	c.position = c.position.Add(offset)
}

func (c *controller) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *controller) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *controller) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updatePosition()
}

func (c *controller) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(c.radius-delta*c.zoomSpeed, c.minRadius, c.maxRadius)
	c.updatePosition()
}

func (c *controller) Orbit(azimuthSteps, elevationSteps float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth += azimuthSteps * c.orbitSpeed
	c.elevation = common.Clamp(c.elevation+elevationSteps*c.orbitSpeed, c.minElevation, c.maxElevation)
	c.updatePosition()
}

func (c *controller) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *controller) SetRadius(radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(radius, c.minRadius, c.maxRadius)
	c.updatePosition()
}

func (c *controller) Azimuth() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.azimuth
}

func (c *controller) SetAzimuth(azimuth float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth = azimuth
	c.updatePosition()
}

func (c *controller) Elevation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elevation
}

func (c *controller) SetElevation(elevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elevation = common.Clamp(elevation, c.minElevation, c.maxElevation)
	c.updatePosition()
}

func (c *controller) PanRight(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	right, _, _ := c.localAxes()
	c.pan(right, delta)
}

func (c *controller) PanUp(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, up, _ := c.localAxes()
	c.pan(up, delta)
}

func (c *controller) PanForward(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _, forward := c.localAxes()
	c.pan(forward, delta)
}

func (c *controller) Poll(keys common.KeyPoller, dt float32) {
	if keys == nil {
		return
	}
	step := dt * 60
	held := func(k uint32) float32 {
		if keys.IsKeyDown(k) {
			return step
		}
		return 0
	}

	if az, el := held(common.KeyRight)-held(common.KeyLeft), held(common.KeyUp)-held(common.KeyDown); az != 0 || el != 0 {
		c.Orbit(az, el)
	}
	if d := held(common.KeyW) - held(common.KeyS); d != 0 {
		c.PanForward(d)
	}
	if d := held(common.KeyD) - held(common.KeyA); d != 0 {
		c.PanRight(d)
	}
	if d := held(common.KeyE) - held(common.KeyQ); d != 0 {
		c.Zoom(d)
	}
}
