package camera

import "github.com/go-gl/mathgl/mgl32"

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*controller)

// WithRadius sets the initial orbit radius.
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - ControllerOption: functional option to set the radius
func WithRadius(radius float32) ControllerOption {
	return func(c *controller) {
		c.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - ControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) ControllerOption {
	return func(c *controller) {
		c.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - elevation: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - ControllerOption: functional option to set the elevation
func WithElevation(elevation float32) ControllerOption {
	return func(c *controller) {
		c.elevation = elevation
	}
}

// WithOrbitTarget sets the look-at pivot.
//
// Parameters:
//   - target: the pivot in world space
//
// Returns:
//   - ControllerOption: functional option to set the pivot
func WithOrbitTarget(target mgl32.Vec3) ControllerOption {
	return func(c *controller) {
		c.target = target
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum zoom distance
//   - max: maximum zoom distance
//
// Returns:
//   - ControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) ControllerOption {
	return func(c *controller) {
		c.minRadius = min
		c.maxRadius = max
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles.
//
// Parameters:
//   - min: minimum vertical angle in radians
//   - max: maximum vertical angle in radians
//
// Returns:
//   - ControllerOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) ControllerOption {
	return func(c *controller) {
		c.minElevation = min
		c.maxElevation = max
	}
}

// WithOrbitSpeed sets the orbit step.
//
// Parameters:
//   - speed: radians per orbit step
//
// Returns:
//   - ControllerOption: functional option to set orbit speed
func WithOrbitSpeed(speed float32) ControllerOption {
	return func(c *controller) {
		c.orbitSpeed = speed
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
func WithZoomSpeed(speed float32) ControllerOption {
	return func(c *controller) {
		c.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
func WithPanSpeed(speed float32) ControllerOption {
	return func(c *controller) {
		c.panSpeed = speed
	}
}
