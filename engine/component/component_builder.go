package component

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
)

// ComponentBuilderOption is a functional option for configuring the shared render attributes
// of a component.
type ComponentBuilderOption func(b *scene.ComponentBase)

// WithShadowCasting sets how the component takes part in depth passes.
//
// Parameters:
//   - s: the shadow classification
//
// Returns:
//   - ComponentBuilderOption: a function that sets the classification
func WithShadowCasting(s scene.ShadowCasting) ComponentBuilderOption {
	return func(b *scene.ComponentBase) {
		b.SetShadowCasting(s)
	}
}

// WithReceiveShadow sets whether shadow map passes darken the component.
func WithReceiveShadow(receive bool) ComponentBuilderOption {
	return func(b *scene.ComponentBase) {
		b.SetReceiveShadow(receive)
	}
}

// WithQueue sets the render queue bucket.
func WithQueue(q scene.QueueType) ComponentBuilderOption {
	return func(b *scene.ComponentBase) {
		b.SetQueue(q)
	}
}

// WithBlendMode sets the blend mode used when drawn from the blending or overlay buckets.
func WithBlendMode(m pipeline.BlendMode) ComponentBuilderOption {
	return func(b *scene.ComponentBase) {
		b.SetBlendMode(m)
	}
}

// WithAlphaTest toggles alpha-tested cutouts.
func WithAlphaTest(enabled bool) ComponentBuilderOption {
	return func(b *scene.ComponentBase) {
		b.SetAlphaTest(enabled)
	}
}

func applyOptions(b *scene.ComponentBase, options []ComponentBuilderOption) {
	for _, opt := range options {
		opt(b)
	}
}
