package light

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a ShadowSceneLight during construction.
type LightBuilderOption func(*ShadowSceneLight)

// WithDirection sets the light direction. The direction is normalized before storing;
// a zero vector keeps the default.
//
// Parameters:
//   - dir: the direction the light travels in
//
// Returns:
//   - LightBuilderOption: a function that applies the direction
func WithDirection(dir mgl32.Vec3) LightBuilderOption {
	return func(l *ShadowSceneLight) {
		if dir.LenSqr() > 0 && isFiniteVec(dir) {
			l.direction = dir.Normalize()
		}
	}
}

// WithColor sets the light color.
//
// Parameters:
//   - c: the light color
//
// Returns:
//   - LightBuilderOption: a function that applies the color
func WithColor(c common.Color) LightBuilderOption {
	return func(l *ShadowSceneLight) {
		l.color = c
	}
}

// WithAmbient sets the ambient color.
//
// Parameters:
//   - c: the ambient color
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient color
func WithAmbient(c common.Color) LightBuilderOption {
	return func(l *ShadowSceneLight) {
		l.ambient = c
	}
}

// WithType sets the kind of light.
func WithType(t LightType) LightBuilderOption {
	return func(l *ShadowSceneLight) {
		l.lightType = t
	}
}

// WithDistance sets how far from the focus point the light camera is placed.
// Non-positive values keep the default.
func WithDistance(d float32) LightBuilderOption {
	return func(l *ShadowSceneLight) {
		if d > 0 {
			l.distance = d
		}
	}
}

// WithOrthoHeight sets the height of the orthographic shadow volume.
// Non-positive values keep the default.
func WithOrthoHeight(h float32) LightBuilderOption {
	return func(l *ShadowSceneLight) {
		if h > 0 {
			l.orthoHeight = h
		}
	}
}
