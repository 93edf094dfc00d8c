package renderpass

import "github.com/Carmen-Shannon/oxy-shadow/engine/scene"

// passConfig collects the options of a pass before the pass is built. Skeleton options
// configure every pass; the rest are read by the concrete pass that needs them.
type passConfig struct {
	camera         scene.Camera
	levelOfDetail  int
	accept         AcceptPolicy
	cutoff         CutoffPolicy
	distanceSource DistanceSource
	shade          ShadeHook
	workers        int

	resolution     int
	vertexPath     string
	fragmentPath   string
	cutoffSqr      float32
	cutoffExplicit bool
}

// PassBuilderOption is a functional option for configuring a render pass.
type PassBuilderOption func(*passConfig)

func newPassConfig(options []PassBuilderOption) *passConfig {
	cfg := &passConfig{
		accept:         AcceptAll,
		cutoff:         NoCutoff,
		distanceSource: FromFrameCamera,
	}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

// WithCamera sets the camera the pass renders from when BeginScene gets no override.
//
// Parameters:
//   - c: the pass camera
//
// Returns:
//   - PassBuilderOption: a function that sets the pass camera
func WithCamera(c scene.Camera) PassBuilderOption {
	return func(cfg *passConfig) {
		cfg.camera = c
	}
}

// WithLevelOfDetail sets the level of detail handed to components in the render hints.
func WithLevelOfDetail(lod int) PassBuilderOption {
	return func(cfg *passConfig) {
		cfg.levelOfDetail = lod
	}
}

// WithAcceptPolicy sets the acceptance policy. Passes with their own acceptance rule,
// such as the depth passes, require both to accept.
//
// Parameters:
//   - a: the policy, nil for AcceptAll
//
// Returns:
//   - PassBuilderOption: a function that sets the policy
func WithAcceptPolicy(a AcceptPolicy) PassBuilderOption {
	return func(cfg *passConfig) {
		if a == nil {
			a = AcceptAll
		}
		cfg.accept = a
	}
}

// WithCutoffPolicy sets the distance cutoff policy.
//
// Parameters:
//   - c: the policy, nil for NoCutoff
//
// Returns:
//   - PassBuilderOption: a function that sets the policy
func WithCutoffPolicy(c CutoffPolicy) PassBuilderOption {
	return func(cfg *passConfig) {
		if c == nil {
			c = NoCutoff
		}
		cfg.cutoff = c
	}
}

// WithDistanceSource sets the camera distances are measured from.
func WithDistanceSource(src DistanceSource) PassBuilderOption {
	return func(cfg *passConfig) {
		if src != nil {
			cfg.distanceSource = src
		}
	}
}

// WithShadeHook sets the hook run before every draw.
func WithShadeHook(h ShadeHook) PassBuilderOption {
	return func(cfg *passConfig) {
		cfg.shade = h
	}
}

// WithWorkers measures component distances on a worker pool of n workers.
// Zero or less measures on the calling goroutine.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - PassBuilderOption: a function that sets the worker count
func WithWorkers(n int) PassBuilderOption {
	return func(cfg *passConfig) {
		cfg.workers = max(n, 0)
	}
}

// WithShadowMapResolution sets the edge length of the shadow map in texels.
// Used by the depth passes (target size) and the shadow map passes (filter uniform).
func WithShadowMapResolution(n int) PassBuilderOption {
	return func(cfg *passConfig) {
		if n > 0 {
			cfg.resolution = n
		}
	}
}

// WithShaderPaths replaces the default shader sources of a pass.
//
// Parameters:
//   - vertexPath: the vertex shader source path
//   - fragmentPath: the fragment shader source path
//
// Returns:
//   - PassBuilderOption: a function that sets the shader paths
func WithShaderPaths(vertexPath, fragmentPath string) PassBuilderOption {
	return func(cfg *passConfig) {
		cfg.vertexPath = vertexPath
		cfg.fragmentPath = fragmentPath
	}
}

// WithCutoff sets the squared cutoff distance of the level-of-detail passes.
// Plain passes ignore it; use WithCutoffPolicy there.
func WithCutoff(distanceSqr float32) PassBuilderOption {
	return func(cfg *passConfig) {
		cfg.cutoffSqr = distanceSqr
		cfg.cutoffExplicit = true
	}
}
