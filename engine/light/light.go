package light

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrZeroDirection is returned when a light direction has no length.
var ErrZeroDirection = errors.New("light: zero-length direction")

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Shadows use an orthographic projection.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	LightTypePoint
)

// ShadowSceneLight is a light that renders a shadow map. It is a camera in the scene graph:
// the depth pass renders from it, and the matrices the depth pass records on it are the ones
// the shadow pass samples with.
type ShadowSceneLight struct {
	*camera.SceneCamera

	mu *sync.Mutex

	lightType LightType
	direction mgl32.Vec3
	color     common.Color
	ambient   common.Color

	distance    float32
	orthoHeight float32

	view     mgl32.Mat4
	proj     mgl32.Mat4
	viewProj mgl32.Mat4
}

var _ scene.Camera = &ShadowSceneLight{}

// NewShadowSceneLight creates a directional shadow light attached under the scene root.
//
// Parameters:
//   - s: the scene the light belongs to
//   - name: the node name
//   - opts: functional options to configure the light
//
// Returns:
//   - *ShadowSceneLight: the light
func NewShadowSceneLight(s scene.Scene, name string, opts ...LightBuilderOption) *ShadowSceneLight {
	if s == nil {
		panic("light: NewShadowSceneLight requires a non-nil Scene")
	}
	l := &ShadowSceneLight{
		mu:          &sync.Mutex{},
		lightType:   LightTypeDirectional,
		direction:   mgl32.Vec3{1, -0.5, -1}.Normalize(),
		color:       common.ColorWhite,
		ambient:     DefaultAmbient,
		distance:    DefaultLightDistance,
		orthoHeight: DefaultOrthoHeight,
		view:        mgl32.Ident4(),
		proj:        mgl32.Ident4(),
		viewProj:    mgl32.Ident4(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.SceneCamera = camera.NewSceneCamera(s, name,
		camera.WithOrthographic(l.orthoHeight, 1),
		camera.WithClipPlanes(DefaultShadowNear, DefaultShadowFar),
	)
	return l
}

// SetLight sets the light direction and color. The direction is normalized before storing.
//
// Parameters:
//   - dir: the direction the light travels in
//   - color: the light color
//
// Returns:
//   - error: ErrZeroDirection if dir has no length; the light is left unchanged
func (l *ShadowSceneLight) SetLight(dir mgl32.Vec3, color common.Color) error {
	if dir.LenSqr() == 0 || !isFiniteVec(dir) {
		return ErrZeroDirection
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = dir.Normalize()
	l.color = color
	return nil
}

// Direction returns the normalized light direction.
func (l *ShadowSceneLight) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

// Color returns the light color.
func (l *ShadowSceneLight) Color() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

// Ambient returns the ambient color.
func (l *ShadowSceneLight) Ambient() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ambient
}

// SetAmbient sets the ambient color.
func (l *ShadowSceneLight) SetAmbient(c common.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = c
}

// Type returns the kind of light.
func (l *ShadowSceneLight) Type() LightType {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightType
}

// SetType sets the kind of light.
func (l *ShadowSceneLight) SetType(t LightType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lightType = t
}

// Distance returns how far from its focus point the light camera is placed.
func (l *ShadowSceneLight) Distance() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.distance
}

// Aim places the light camera for a shadow map render: it moves to focus - direction*distance,
// looks at focus and uses an orthographic projection of the configured height.
// The up vector switches to +Z when the light points almost straight up or down.
//
// Parameters:
//   - focus: the world point the shadow map is centered on
func (l *ShadowSceneLight) Aim(focus mgl32.Vec3) {
	l.mu.Lock()
	dir, distance, height := l.direction, l.distance, l.orthoHeight
	l.mu.Unlock()

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir[1]) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	l.SetUp(up)
	l.SetTarget(focus)
	l.SetProjection(camera.Orthographic, height)
	l.MoveTo(focus.Sub(dir.Mul(distance)))
}

// Record stores the view and projection the depth pass rendered the shadow map with,
// and their product.
//
// Parameters:
//   - view: the light view matrix
//   - proj: the light projection matrix
func (l *ShadowSceneLight) Record(view, proj mgl32.Mat4) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = view
	l.proj = proj
	l.viewProj = proj.Mul4(view)
}

// View returns the view matrix recorded by the last depth pass.
func (l *ShadowSceneLight) View() mgl32.Mat4 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

// Proj returns the projection matrix recorded by the last depth pass.
func (l *ShadowSceneLight) Proj() mgl32.Mat4 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.proj
}

// LightViewProj returns Proj * View as recorded by the last depth pass. It maps world
// positions into the light's clip space.
func (l *ShadowSceneLight) LightViewProj() mgl32.Mat4 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewProj
}

func isFiniteVec(v mgl32.Vec3) bool {
	for _, f := range v {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return false
		}
	}
	return true
}
