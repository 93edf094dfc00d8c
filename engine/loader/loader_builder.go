package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithScale multiplies every imported position by s. Non-positive values are ignored.
//
// Parameters:
//   - s: the uniform import scale
//
// Returns:
//   - LoaderBuilderOption: a function that applies the scale to a loader
func WithScale(s float32) LoaderBuilderOption {
	return func(l *loader) {
		if s > 0 {
			l.scale = s
		}
	}
}

// WithGeneratedNormals controls whether smooth normals are built for primitives that carry none.
// It is enabled by default.
func WithGeneratedNormals(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.generateNormals = enabled
	}
}

// WithModel pre-populates the cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, m *ModelData) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = m
	}
}
