package light

import "github.com/Carmen-Shannon/oxy-shadow/common"

// DefaultLightDistance is how far from its focus point the light camera is placed
// when rendering the shadow map.
const DefaultLightDistance float32 = 50.0

// DefaultOrthoHeight is the height in world units of the orthographic shadow volume.
const DefaultOrthoHeight float32 = 50.0

// DefaultShadowNear is the near plane of the light's orthographic projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the far plane of the light's orthographic projection.
const DefaultShadowFar float32 = 1000.0

// ShadowMapTextureSlot is the texture slot the shadow pass binds the shadow map to.
const ShadowMapTextureSlot = 4

// DefaultAmbient is the ambient color of a new light.
var DefaultAmbient = common.Color{R: 50, G: 50, B: 50, A: 255}
