package light

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDirectionSpeed is the per-frame direction change at 60 FPS of DirectionControls.
const DefaultDirectionSpeed float32 = 0.01

// minDirectionX keeps K from pushing the direction past the point where the shadow
// volume flips behind the focus.
const minDirectionX float32 = -0.6

// DirectionControls is a debug helper that steers a light's direction from held keys:
// J/K move x, I/M move z and O/P move y. The direction is re-normalized after every change.
type DirectionControls struct {
	light *ShadowSceneLight
	keys  common.KeyPoller
	speed float32
}

// NewDirectionControls creates light direction controls.
//
// Parameters:
//   - l: the light to steer
//   - keys: the held-key source, usually the window
//   - speed: the per-frame step at 60 FPS; non-positive selects DefaultDirectionSpeed
//
// Returns:
//   - *DirectionControls: the controls
func NewDirectionControls(l *ShadowSceneLight, keys common.KeyPoller, speed float32) *DirectionControls {
	if l == nil || keys == nil {
		panic("light: NewDirectionControls requires a non-nil light and KeyPoller")
	}
	if speed <= 0 {
		speed = DefaultDirectionSpeed
	}
	return &DirectionControls{light: l, keys: keys, speed: speed}
}

// Update applies the held keys for one frame.
//
// Parameters:
//   - dt: elapsed seconds since the last frame
//
// Returns:
//   - bool: true if the direction changed
func (d *DirectionControls) Update(dt float32) bool {
	step := d.speed * 60 * dt
	dir := d.light.Direction()
	before := dir

	if d.keys.IsKeyDown(common.KeyJ) {
		dir[0] += step
	}
	if d.keys.IsKeyDown(common.KeyK) && dir[0] > minDirectionX {
		dir[0] -= step
	}
	if d.keys.IsKeyDown(common.KeyI) {
		dir[2] += step
	}
	if d.keys.IsKeyDown(common.KeyM) {
		dir[2] -= step
	}
	if d.keys.IsKeyDown(common.KeyO) {
		dir[1] += step
	}
	if d.keys.IsKeyDown(common.KeyP) {
		dir[1] -= step
	}

	if dir == before {
		return false
	}
	return d.light.SetLight(dir, d.light.Color()) == nil
}

// Direction returns the steered light's current direction.
func (d *DirectionControls) Direction() mgl32.Vec3 {
	return d.light.Direction()
}
