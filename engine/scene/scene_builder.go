package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for the engine loop.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithMainCamera sets the camera passes render from when nothing overrides it.
//
// Parameters:
//   - c: the main camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMainCamera(c Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = c
	}
}
